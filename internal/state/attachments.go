package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/studydesk/internal/model"
	"github.com/five82/studydesk/internal/storage"
)

// Blob key layout.
func materialKey(id string) string { return "material/" + id }
func avatarKey(userID string) string { return "avatar/" + model.FoldID(userID) }
func documentKey(userID, name string) string {
	return "document/" + model.FoldID(userID) + "/" + name
}

// SetMaterialFile records an uploaded file on a material.
type SetMaterialFile struct {
	MaterialID string
	Key        string
	Size       int64
}

func (c SetMaterialFile) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil {
		return Outcome{}
	}
	out := changed()
	if m.LocalFileKey != "" && m.LocalFileKey != c.Key {
		out.Orphaned = []string{m.LocalFileKey}
	}
	m.LocalFileKey = c.Key
	m.FileSize = c.Size
	return out
}

type SetAvatar struct {
	UserID string
	Key    string
}

func (c SetAvatar) apply(d *Document, _ Env) Outcome {
	u := d.User(c.UserID)
	if u == nil {
		return Outcome{}
	}
	out := changed()
	if u.AvatarKey != "" && u.AvatarKey != c.Key {
		out.Orphaned = []string{u.AvatarKey}
	}
	u.AvatarKey = c.Key
	syncCurrentUser(d.state, u)
	return out
}

type AddUserDocument struct {
	UserID string
	Name   string
	Key    string
}

func (c AddUserDocument) apply(d *Document, _ Env) Outcome {
	u := d.User(c.UserID)
	if u == nil {
		return Outcome{}
	}
	if u.Documents == nil {
		u.Documents = map[string]string{}
	}
	u.Documents[c.Name] = c.Key
	syncCurrentUser(d.state, u)
	return changed()
}

// AttachMaterialFile stores data as the material's local file. Nothing is
// stored when the material does not exist.
func (s *Store) AttachMaterialFile(ctx context.Context, materialID string, data []byte) error {
	if s.blobs == nil {
		return ErrNoBlobStore
	}
	if !s.view(func(d *Document) bool { return d.Material(materialID) != nil }) {
		return nil
	}
	key := materialKey(materialID)
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store material file: %w", err)
	}
	out := s.Dispatch(SetMaterialFile{MaterialID: materialID, Key: key, Size: int64(len(data))})
	if !out.Changed {
		// Deleted between the check and the dispatch.
		_ = s.blobs.Delete(ctx, key)
	}
	return out.Err
}

// MaterialFile returns the stored file of a material, or storage.ErrNotFound.
func (s *Store) MaterialFile(ctx context.Context, materialID string) ([]byte, error) {
	if s.blobs == nil {
		return nil, ErrNoBlobStore
	}
	var key string
	s.view(func(d *Document) bool {
		if m := d.Material(materialID); m != nil {
			key = m.LocalFileKey
		}
		return true
	})
	if key == "" {
		return nil, storage.ErrNotFound
	}
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load material file: %w", err)
	}
	return data, nil
}

// SetAvatar stores a user's profile picture.
func (s *Store) SetAvatar(ctx context.Context, userID string, data []byte) error {
	if s.blobs == nil {
		return ErrNoBlobStore
	}
	if !s.view(func(d *Document) bool { return d.User(userID) != nil }) {
		return nil
	}
	key := avatarKey(userID)
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store avatar: %w", err)
	}
	return s.Dispatch(SetAvatar{UserID: userID, Key: key}).Err
}

// AddUserDocument stores a named document (ID proof, mark sheet) for a user.
func (s *Store) AddUserDocument(ctx context.Context, userID, name string, data []byte) error {
	if s.blobs == nil {
		return ErrNoBlobStore
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "/") {
		return model.NewValidationError(model.ErrInvalidInput,
			model.FieldError{Field: "name", Error: "must be a plain file name"})
	}
	if !s.view(func(d *Document) bool { return d.User(userID) != nil }) {
		return nil
	}
	key := documentKey(userID, name)
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store user document: %w", err)
	}
	return s.Dispatch(AddUserDocument{UserID: userID, Name: name, Key: key}).Err
}

// UserDocument returns a stored user document, or storage.ErrNotFound.
func (s *Store) UserDocument(ctx context.Context, userID, name string) ([]byte, error) {
	if s.blobs == nil {
		return nil, ErrNoBlobStore
	}
	var key string
	s.view(func(d *Document) bool {
		if u := d.User(userID); u != nil {
			key = u.Documents[name]
		}
		return true
	})
	if key == "" {
		return nil, storage.ErrNotFound
	}
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load user document: %w", err)
	}
	return data, nil
}

// removeOrphans deletes blobs that a change left unreferenced.
func (s *Store) removeOrphans(ch Change) {
	if len(ch.Orphaned) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	for _, key := range ch.Orphaned {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.log.Warn("blob cleanup failed", "key", key, "error", err)
		}
	}
}
