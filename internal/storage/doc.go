// Package storage persists the studydesk document and its file attachments.
//
// # Overview
//
// The application keeps its entire state in one document (model.AppState).
// A DocumentStore loads, saves and clears that document as a single JSON
// entry. Attachments such as material files, avatars and user documents are
// kept apart in a BlobStore and referenced from the document by key.
//
// # Backends
//
//	FileStore    JSON file, written via temp file + rename
//	RedisStore   <prefix>:document and <prefix>:blob:<key>
//	BoltBlobs    one bbolt bucket for blobs
//	MemoryStore  in-process document, for tests and -memory runs
//	MemoryBlobs  in-process blobs
//
// # Errors
//
// Every backend returns ErrNotFound when nothing is stored. Driver and I/O
// errors are wrapped with github.com/pkg/errors so callers can log the full
// chain while still matching ErrNotFound with errors.Is.
//
// Storage is best effort. Callers treat a failed Load as "no document" and
// fall back to the seed. Backends never retry a failed save themselves.
package storage
