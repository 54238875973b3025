package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 5 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 5 * time.Second},
		{"negative failures", -1, 5 * time.Second},
		{"one failure", 1, 10 * time.Second},
		{"two failures", 2, 20 * time.Second},
		{"four failures", 4, 80 * time.Second},
		{"five failures capped", 5, 2 * time.Minute}, // Would be 160s
		{"many failures capped", 40, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

type countingFlusher struct {
	mu       sync.Mutex
	calls    int
	failures int
	done     chan struct{}
}

func (f *countingFlusher) Flush(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("backend down")
	}
	if f.calls == f.failures+1 {
		close(f.done)
	}
	return nil
}

func TestRunSaver_RetriesUntilFlushSucceeds(t *testing.T) {
	f := &countingFlusher{failures: 2, done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		RunSaver(ctx, f, nil, time.Millisecond)
		close(stopped)
	}()

	select {
	case <-f.done:
	case <-time.After(5 * time.Second):
		t.Fatal("saver never reached a successful flush")
	}
	cancel()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("saver did not stop after cancel")
	}
}
