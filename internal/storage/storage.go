package storage

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/five82/studydesk/internal/model"
)

// ErrNotFound is returned when nothing is stored under the requested key.
var ErrNotFound = errors.New("not found")

// DocumentStore persists the whole application document as one entry.
type DocumentStore interface {
	Load(ctx context.Context) (*model.AppState, error)
	Save(ctx context.Context, doc *model.AppState) error
	Clear(ctx context.Context) error
}

// BlobStore holds opaque file payloads referenced from the document.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

func encodeDocument(doc *model.AppState) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return data, nil
}

// decodeDocument rejects anything without a subjects array, so a stored
// null or {} reads as unreadable rather than as an empty library.
func decodeDocument(data []byte) (*model.AppState, error) {
	var shape struct {
		Subjects json.RawMessage `json:"subjects"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}
	if raw := bytes.TrimSpace(shape.Subjects); len(raw) == 0 || raw[0] != '[' {
		return nil, errors.New("decoding document: missing subjects array")
	}
	var doc model.AppState
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}
	return &doc, nil
}
