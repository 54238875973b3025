package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/studydesk/internal/logging"
	"github.com/five82/studydesk/internal/model"
	"github.com/five82/studydesk/internal/storage"
)

const defaultSaveTimeout = 5 * time.Second

// Change is broadcast to subscribers after every mutation that changed the
// document.
type Change struct {
	Version   uint64
	Command   Command
	Released  []string
	Orphaned  []string
	Completed []string
}

// Store owns the document and serializes every mutation.
type Store struct {
	mu      sync.Mutex
	doc     *Document
	version uint64

	// notifyMu is taken before mu is released so subscribers observe
	// changes in dispatch order.
	notifyMu sync.Mutex
	subsMu   sync.RWMutex
	subs     map[int]func(Change)
	nextSub  int

	persist     storage.DocumentStore
	blobs       storage.BlobStore
	env         Env
	log         *logging.Logger
	saveTimeout time.Duration
	// unsaved is set while the last save of the document failed.
	unsaved bool
}

// Option configures a Store.
type Option func(*Store)

// WithEnv overrides the clock and id generator.
func WithEnv(env Env) Option {
	return func(s *Store) { s.env = env.withDefaults() }
}

// WithLogger sets the store logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBlobs enables file attachments. Blobs orphaned by deletions are
// removed automatically.
func WithBlobs(b storage.BlobStore) Option {
	return func(s *Store) { s.blobs = b }
}

// WithSaveTimeout bounds each persistence call.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

// Open loads the persisted document, falling back to the seed when nothing
// is stored or the stored document cannot be read. A nil persist keeps the
// document in memory only.
func Open(ctx context.Context, persist storage.DocumentStore, opts ...Option) *Store {
	if persist == nil {
		persist = &storage.MemoryStore{}
	}
	s := &Store{
		subs:        make(map[int]func(Change)),
		persist:     persist,
		env:         DefaultEnv(),
		log:         logging.Nop(),
		saveTimeout: defaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "store")

	doc, err := persist.Load(ctx)
	switch {
	case err == nil:
		s.doc = NewDocument(doc)
		clearInFlight(s.doc.State())
		s.log.Info("document loaded", "subjects", len(doc.Subjects))
	default:
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("document unreadable, using seed", "error", err)
		} else {
			s.log.Info("no document stored, using seed")
		}
		s.doc = NewDocument(model.Seed(s.env.Now()))
		s.save()
	}

	if s.blobs != nil {
		s.Subscribe(s.removeOrphans)
	}
	return s
}

// Dispatch reduces cmd against the document. When the document changed it
// is persisted and one Change is broadcast. Subscribers must not dispatch
// synchronously from their callback.
func (s *Store) Dispatch(cmd Command) Outcome {
	s.mu.Lock()
	out := Reduce(s.doc, cmd, s.env)
	if !out.Changed {
		s.mu.Unlock()
		if out.Err != nil {
			s.log.Debug("command rejected", "command", fmt.Sprintf("%T", cmd), "error", out.Err)
		}
		return out
	}
	s.version++
	ch := Change{
		Version:   s.version,
		Command:   cmd,
		Released:  out.Released,
		Orphaned:  out.Orphaned,
		Completed: out.Completed,
	}
	s.save()

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	s.notify(ch)
	return out
}

// save persists the document. Called with mu held.
func (s *Store) save() {
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	if err := s.persist.Save(ctx, s.doc.State()); err != nil {
		s.unsaved = true
		s.log.Error("document save failed", "version", s.version, "error", err)
		return
	}
	s.unsaved = false
}

// Flush retries persistence after a failed save. It is a no-op when the
// stored document is current.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unsaved {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()
	if err := s.persist.Save(ctx, s.doc.State()); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	s.unsaved = false
	s.log.Info("document saved after retry", "version", s.version)
	return nil
}

// Unsaved reports whether the last save failed.
func (s *Store) Unsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsaved
}

func (s *Store) notify(ch Change) {
	s.subsMu.RLock()
	fns := make([]func(Change), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.subsMu.RUnlock()
	for _, fn := range fns {
		fn(ch)
	}
}

// Subscribe registers fn for every future Change and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.State().Clone()
}

// Version counts the changes applied since Open.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// view runs fn against the live document under the lock.
func (s *Store) view(fn func(d *Document) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

// Reset clears the persisted document and reloads the seed.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.persist.Clear(ctx); err != nil {
		return fmt.Errorf("clear document: %w", err)
	}
	seed := model.Seed(s.env.Now())
	s.Dispatch(ReplaceDocument{State: seed})
	return nil
}
