package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/five82/studydesk/internal/model"
	"github.com/five82/studydesk/internal/storage"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
	ids int
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *testClock) NewID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids++
	return fmt.Sprintf("id-%d", c.ids)
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *storage.MemoryStore, *testClock) {
	t.Helper()
	clock := &testClock{now: testNow}
	persist := &storage.MemoryStore{}
	opts = append([]Option{WithEnv(Env{Now: clock.Now, NewID: clock.NewID})}, opts...)
	return Open(context.Background(), persist, opts...), persist, clock
}

func findMaterial(doc *model.AppState, id string) *model.Material {
	for _, s := range doc.Subjects {
		for _, t := range s.Topics {
			for _, m := range t.Materials {
				if m.ID == id {
					return m
				}
			}
		}
	}
	return nil
}

func findTopic(doc *model.AppState, id string) *model.Topic {
	for _, s := range doc.Subjects {
		for _, t := range s.Topics {
			if t.ID == id {
				return t
			}
		}
	}
	return nil
}

type badStore struct{ storage.MemoryStore }

func (*badStore) Load(context.Context) (*model.AppState, error) {
	return nil, errors.New("disk on fire")
}

func TestOpen_SeedsWhenEmpty(t *testing.T) {
	s, persist, _ := newTestStore(t)

	snap := s.Snapshot()
	if len(snap.Subjects) != 3 || snap.Subjects[0].Name != "Physics" {
		t.Fatalf("subjects = %d, want seeded Physics first", len(snap.Subjects))
	}
	if persist.Saves() != 1 {
		t.Fatalf("Saves() = %d, want seed persisted once", persist.Saves())
	}
	if s.Version() != 0 {
		t.Fatalf("Version() = %d, want 0", s.Version())
	}
}

func TestOpen_FallsBackOnLoadError(t *testing.T) {
	s := Open(context.Background(), &badStore{})
	if got := s.Snapshot().Subjects[0].Name; got != "Physics" {
		t.Fatalf("first subject = %q, want seed fallback", got)
	}
}

func TestOpen_LoadsPersistedDocument(t *testing.T) {
	ctx := context.Background()
	persist := &storage.MemoryStore{}
	doc := model.Seed(testNow)
	doc.Subjects = doc.Subjects[:1]
	doc.Subjects[0].Name = "Stored Physics"
	if err := persist.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s := Open(ctx, persist)
	snap := s.Snapshot()
	if len(snap.Subjects) != 1 || snap.Subjects[0].Name != "Stored Physics" {
		t.Fatalf("subjects = %#v, want stored document", snap.Subjects)
	}
}

func TestDispatch_PersistsAndNotifiesOnce(t *testing.T) {
	s, persist, _ := newTestStore(t)

	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) { changes = append(changes, c) })

	s.ToggleFavorite("m1")
	if len(changes) != 1 || changes[0].Version != 1 {
		t.Fatalf("changes = %#v, want one change at version 1", changes)
	}
	if _, ok := changes[0].Command.(ToggleFavorite); !ok {
		t.Fatalf("command = %T, want ToggleFavorite", changes[0].Command)
	}
	if persist.Saves() != 2 {
		t.Fatalf("Saves() = %d, want seed + 1", persist.Saves())
	}
	stored, err := persist.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !findMaterial(stored, "m1").IsFavorite {
		t.Fatal("persisted document missing favorite flag")
	}

	// Unknown ids are silent no-ops.
	s.ToggleFavorite("missing")
	if len(changes) != 1 || persist.Saves() != 2 {
		t.Fatalf("no-op produced change or save: changes=%d saves=%d", len(changes), persist.Saves())
	}

	unsubscribe()
	unsubscribe()
	s.ToggleFavorite("m1")
	if len(changes) != 1 {
		t.Fatalf("unsubscribed callback still invoked")
	}
}

func TestSnapshot_IsIsolated(t *testing.T) {
	s, _, _ := newTestStore(t)
	snap := s.Snapshot()
	snap.Subjects[0].Topics[0].Materials[0].Title = "mutated"
	if got := findMaterial(s.Snapshot(), "m1").Title; got != "Concept Explanation" {
		t.Fatalf("title = %q, snapshot mutation leaked into store", got)
	}
}

func TestDispatch_ConcurrentMutationsAreSerialized(t *testing.T) {
	s, _, _ := newTestStore(t)
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.TrackStudyTime(1, model.MaterialPDF)
		}()
		go func() {
			defer wg.Done()
			s.Dispatch(AdvanceDownload{MaterialID: "m1", Delta: 1})
		}()
	}
	wg.Wait()

	day := s.Snapshot().Stats.DailyStats[model.DateKey(testNow)]
	if day.TotalMinutes != n || day.PDFMinutes != n {
		t.Fatalf("minutes = %+v, want %d total and pdf", day, n)
	}
}

func TestSubscribers_SeeChangesInOrder(t *testing.T) {
	s, _, _ := newTestStore(t)
	var mu sync.Mutex
	var versions []uint64
	s.Subscribe(func(c Change) {
		mu.Lock()
		versions = append(versions, c.Version)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.TogglePinTopic("t1")
		}()
	}
	wg.Wait()

	if len(versions) != 20 {
		t.Fatalf("notifications = %d, want 20", len(versions))
	}
	for i, v := range versions {
		if v != uint64(i+1) {
			t.Fatalf("versions = %v, want ascending from 1", versions)
		}
	}
}

func TestReset(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.AddSubject("Biology", "teal", "leaf", "Class 12")
	if err := s.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := len(s.Snapshot().Subjects); got != 3 {
		t.Fatalf("subjects after reset = %d, want 3", got)
	}
}

type flakyStore struct {
	storage.MemoryStore
	mu   sync.Mutex
	fail bool
}

func (f *flakyStore) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *flakyStore) Save(ctx context.Context, doc *model.AppState) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(ctx, doc)
}

func TestFlush_RetriesFailedSave(t *testing.T) {
	ctx := context.Background()
	persist := &flakyStore{}
	s := Open(ctx, persist)

	persist.setFail(true)
	s.TogglePinTopic("t1")
	if !s.Unsaved() {
		t.Fatal("Unsaved() = false after failed save")
	}
	if err := s.Flush(ctx); err == nil {
		t.Fatal("Flush succeeded while the backend is failing")
	}

	persist.setFail(false)
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if s.Unsaved() {
		t.Fatal("Unsaved() = true after successful flush")
	}
	stored, err := persist.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !findTopic(stored, "t1").IsPinned {
		t.Fatal("stored t1 is not pinned after flush")
	}
	saves := persist.Saves()
	if err := s.Flush(ctx); err != nil || persist.Saves() != saves {
		t.Fatalf("Flush on a current document saved again (err=%v)", err)
	}
}
