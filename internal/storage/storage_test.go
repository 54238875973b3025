package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/five82/studydesk/internal/model"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestFileStore_LoadMissing(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := fs.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "document.json")
	fs := NewFileStore(path)

	doc := model.Seed(testNow)
	progress := 35
	doc.Subjects[0].Topics[0].Materials[0].DownloadProgress = &progress
	doc.Subjects[0].Topics[0].Materials[0].Bookmarks = []int{5, 60}
	doc.Settings.FontScale = 1.25
	doc.Stats.DailyStats["2026-03-14"] = model.DayStats{TotalMinutes: 30, VideoMinutes: 30}

	if err := fs.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, doc)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("data dir has %d entries, want only the document (no temp files)", len(entries))
	}
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "document.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewFileStore(path).Load(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want decode error", err)
	}
}

func TestFileStore_LoadWithoutSubjects(t *testing.T) {
	for _, body := range []string{"null", "{}", `{"subjects":null}`, `{"subjects":{}}`} {
		t.Run(body, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "document.json")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := NewFileStore(path).Load(context.Background())
			if err == nil || errors.Is(err, ErrNotFound) {
				t.Fatalf("Load(%s) error = %v, want decode error", body, err)
			}
		})
	}
}

func TestFileStore_Clear(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(filepath.Join(t.TempDir(), "document.json"))
	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}
	if err := fs.Save(ctx, model.Seed(testNow)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := fs.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after Clear = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	var ms MemoryStore
	if _, err := ms.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
	doc := model.Seed(testNow)
	if err := ms.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc.Subjects[0].Name = "mutated after save"

	got, err := ms.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Subjects[0].Name != "Physics" {
		t.Fatalf("stored document aliased caller's value: %q", got.Subjects[0].Name)
	}
	if ms.Saves() != 1 {
		t.Fatalf("Saves() = %d, want 1", ms.Saves())
	}
	_ = ms.Clear(ctx)
	if ms.Raw() != nil {
		t.Fatalf("Raw() after Clear = %q, want nil", ms.Raw())
	}
}

func testBlobStore(t *testing.T, bs BlobStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := bs.Get(ctx, "material/m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
	payload := []byte("%PDF-1.7 fake")
	if err := bs.Put(ctx, "material/m1", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	payload[0] = 'X'
	got, err := bs.Get(ctx, "material/m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "%PDF-1.7 fake" {
		t.Fatalf("Get = %q, want stored payload", got)
	}
	if err := bs.Delete(ctx, "material/m1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := bs.Delete(ctx, "material/m1"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if _, err := bs.Get(ctx, "material/m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryBlobs(t *testing.T) {
	testBlobStore(t, &MemoryBlobs{})
}

func TestBoltBlobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blobs.db")
	bs, err := OpenBoltBlobs(path)
	if err != nil {
		t.Fatalf("OpenBoltBlobs: %v", err)
	}
	testBlobStore(t, bs)

	if err := bs.Put(context.Background(), "avatar/u1", []byte("png")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := bs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenBoltBlobs(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "avatar/u1")
	if err != nil || string(got) != "png" {
		t.Fatalf("Get after reopen = %q, %v; want png", got, err)
	}
}

// Set STUDYDESK_TEST_REDIS=host:port to run against a live server.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("STUDYDESK_TEST_REDIS")
	if addr == "" {
		t.Skip("STUDYDESK_TEST_REDIS not set")
	}
	ctx := context.Background()
	rs, err := NewRedisStore(ctx, RedisOptions{Addr: addr, Prefix: "studydesk-test-" + t.Name()})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer rs.Close()
	defer rs.Clear(ctx)

	doc := model.Seed(testNow)
	if err := rs.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := rs.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Fatalf("round trip mismatch")
	}
	testBlobStore(t, rs)
}

func TestNewRedisStore_RequiresAddr(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), RedisOptions{}); err == nil {
		t.Fatal("NewRedisStore with empty address should fail")
	}
}
