package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/five82/studydesk/internal/model"
)

// ExportFilename names a backup taken at now.
func ExportFilename(now time.Time) string {
	return "studydesk-backup-" + model.DateKey(now) + ".json"
}

// EncodeExport renders doc as an indented backup file.
func EncodeExport(doc *model.AppState) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// DecodeImport parses a backup file. The top level must be an object with a
// "subjects" array and a "stats" object.
func DecodeImport(data []byte) (*model.AppState, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if !isJSONKind(shape["subjects"], '[') {
		return nil, fmt.Errorf("%w: missing subjects array", ErrInvalidImport)
	}
	if !isJSONKind(shape["stats"], '{') {
		return nil, fmt.Errorf("%w: missing stats object", ErrInvalidImport)
	}
	var doc model.AppState
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return &doc, nil
}

func isJSONKind(raw json.RawMessage, open byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == open
}

// ReplaceDocument swaps in an imported document. Downloads that were in
// flight when the backup was taken are cleared, and every live timer of the
// old document is released.
type ReplaceDocument struct {
	State *model.AppState
}

func (ReplaceDocument) restructures() {}

func (c ReplaceDocument) apply(d *Document, _ Env) Outcome {
	if c.State == nil {
		return rejected(ErrInvalidImport)
	}
	next := c.State.Clone()
	normalize(next)

	out := changed()
	oldKeys := blobKeys(d.state)
	for _, sub := range d.state.Subjects {
		for _, t := range sub.Topics {
			for _, m := range t.Materials {
				if m.Downloading() {
					out.Released = append(out.Released, m.ID)
				}
			}
		}
	}
	clearInFlight(next)
	newKeys := blobKeys(next)
	for _, key := range oldKeys {
		if !slices.Contains(newKeys, key) {
			out.Orphaned = append(out.Orphaned, key)
		}
	}
	d.state = next
	return out
}

// blobKeys lists every blob key the document references, in traversal order.
func blobKeys(s *model.AppState) []string {
	var keys []string
	for _, sub := range s.Subjects {
		for _, t := range sub.Topics {
			for _, m := range t.Materials {
				if m.LocalFileKey != "" {
					keys = append(keys, m.LocalFileKey)
				}
			}
		}
	}
	for _, u := range s.RegisteredUsers {
		if u.AvatarKey != "" {
			keys = append(keys, u.AvatarKey)
		}
		for _, key := range u.Documents {
			keys = append(keys, key)
		}
	}
	return keys
}
