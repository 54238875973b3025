package app

import (
	"context"
	"time"

	"github.com/five82/studydesk/internal/logging"
)

const (
	defaultSaveRetry = 5 * time.Second
	maxBackoff       = 2 * time.Minute
)

// Flusher retries persistence of a document whose last save failed.
type Flusher interface {
	Flush(ctx context.Context) error
}

// RunSaver retries failed saves until ctx is cancelled. Consecutive
// failures back off exponentially from interval up to maxBackoff.
func RunSaver(ctx context.Context, store Flusher, log *logging.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSaveRetry
	}
	if log == nil {
		log = logging.Nop()
	}
	failures := 0
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := store.Flush(ctx); err != nil {
			failures++
			next := calculateBackoff(failures, interval)
			log.Warn("save retry failed", "failures", failures, "next", next, "error", err)
			timer.Reset(next)
			continue
		}
		failures = 0
		timer.Reset(interval)
	}
}

// calculateBackoff doubles interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
