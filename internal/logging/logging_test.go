package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{
		"user", "admin",
		"password", "admin123",
		"redis_password", "hunter2",
		"nested", map[string]any{"Token": "abc", "ok": 1},
		"dangling",
	})
	want := []any{"user", "admin", "password", redacted, "redis_password", redacted}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("kv[%d] = %v, want %v", i, got[i], w)
		}
	}
	nested := got[7].(map[string]any)
	if nested["Token"] != redacted || nested["ok"] != 1 {
		t.Fatalf("nested = %#v, want Token redacted", nested)
	}
	if got[len(got)-1] != "dangling" {
		t.Fatalf("last = %v, want dangling key kept", got[len(got)-1])
	}
}

func TestLogger_RedactsThroughZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := Wrap(zap.New(core)).With("component", "test")

	log.Info("login", "id", "admin", "password", "admin123")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["password"] != redacted {
		t.Fatalf("password = %v, want redacted", ctx["password"])
	}
	if ctx["component"] != "test" || ctx["id"] != "admin" {
		t.Fatalf("context = %#v", ctx)
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studydesk.log")
	log, err := New(Options{Mode: "production", Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("hello", "secret", "x")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") || strings.Contains(string(data), `"x"`) {
		t.Fatalf("log file = %q, want message with redacted secret", data)
	}
}
