package download

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/five82/studydesk/internal/logging"
	"github.com/five82/studydesk/internal/state"
)

// DefaultInterval is the time between progress ticks.
const DefaultInterval = 400 * time.Millisecond

const (
	minIncrement = 4
	maxIncrement = 15
)

// Store is the part of state.Store the engine drives.
type Store interface {
	Dispatch(cmd state.Command) state.Outcome
	Subscribe(fn func(state.Change)) (unsubscribe func())
}

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

func newTimeTicker(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} }

// Engine simulates downloads. Each active download owns a goroutine and a
// ticker; every tick dispatches state.AdvanceDownload through the store.
type Engine struct {
	ctx       context.Context
	store     Store
	interval  time.Duration
	newTicker func(time.Duration) Ticker
	increment func() int
	log       *logging.Logger

	mu     sync.Mutex
	jobs   map[string]*job
	closed bool
	wg     sync.WaitGroup

	unsubscribe func()
}

type job struct {
	stop chan struct{}
	once sync.Once
}

func (j *job) halt() { j.once.Do(func() { close(j.stop) }) }

// Option configures an Engine.
type Option func(*Engine)

func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithTicker replaces time.NewTicker, for tests.
func WithTicker(fn func(time.Duration) Ticker) Option {
	return func(e *Engine) { e.newTicker = fn }
}

// WithIncrement replaces the random per-tick increment.
func WithIncrement(fn func() int) Option {
	return func(e *Engine) { e.increment = fn }
}

func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an engine bound to store. Downloads stop when ctx is done or
// Close is called.
func New(ctx context.Context, store Store, opts ...Option) *Engine {
	e := &Engine{
		ctx:       ctx,
		store:     store,
		interval:  DefaultInterval,
		newTicker: newTimeTicker,
		increment: randomIncrement,
		log:       logging.Nop(),
		jobs:      make(map[string]*job),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("component", "download")
	e.unsubscribe = store.Subscribe(e.onChange)
	return e
}

func randomIncrement() int {
	return minIncrement + rand.Intn(maxIncrement-minIncrement+1)
}

// Download starts simulating a download of the material. It reports whether
// a download was started; already downloaded or downloading materials are
// left alone.
func (e *Engine) Download(materialID string) bool {
	j := &job{stop: make(chan struct{})}
	e.mu.Lock()
	if e.closed || e.ctx.Err() != nil || e.jobs[materialID] != nil {
		e.mu.Unlock()
		return false
	}
	// Registered before the start is dispatched so a release that lands
	// right after it still finds and halts the job.
	e.jobs[materialID] = j
	e.wg.Add(1)
	e.mu.Unlock()

	if !e.store.Dispatch(state.StartDownload{MaterialID: materialID}).Changed {
		e.forget(materialID, j)
		e.wg.Done()
		return false
	}

	e.log.Debug("download started", "material", materialID)
	go e.run(materialID, j)
	return true
}

// Cancel abandons an active download.
func (e *Engine) Cancel(materialID string) {
	if e.store.Dispatch(state.CancelDownload{MaterialID: materialID}).Changed {
		e.log.Debug("download cancelled", "material", materialID)
	}
}

// Remove discards a downloaded copy, stopping the download if still active.
func (e *Engine) Remove(materialID string) {
	e.store.Dispatch(state.RemoveDownload{MaterialID: materialID})
}

// ClearAll resets every download.
func (e *Engine) ClearAll() {
	e.store.Dispatch(state.ClearDownloads{})
}

// Active reports how many downloads are in flight.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.jobs)
}

// Close stops every download goroutine and waits for them to exit.
// Downloads still in flight are cancelled in the store.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	jobs := e.jobs
	e.jobs = make(map[string]*job)
	e.mu.Unlock()

	for _, j := range jobs {
		j.halt()
	}
	e.unsubscribe()
	e.wg.Wait()
}

func (e *Engine) run(materialID string, j *job) {
	defer e.wg.Done()
	defer e.forget(materialID, j)

	ticker := e.newTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			e.abandon(materialID)
			return
		case <-j.stop:
			if e.isClosed() {
				e.abandon(materialID)
			}
			return
		case <-ticker.C():
		}
		out := e.store.Dispatch(state.AdvanceDownload{MaterialID: materialID, Delta: e.increment()})
		if len(out.Completed) > 0 {
			e.log.Debug("download complete", "material", materialID)
			return
		}
		if !out.Changed {
			// Cancelled, removed or deleted since the last tick.
			return
		}
	}
}

// abandon clears the in-flight state of a download whose timer is going
// away with the engine.
func (e *Engine) abandon(materialID string) {
	e.store.Dispatch(state.CancelDownload{MaterialID: materialID})
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) forget(materialID string, j *job) {
	e.mu.Lock()
	if e.jobs[materialID] == j {
		delete(e.jobs, materialID)
	}
	e.mu.Unlock()
}

// onChange stops the timers of released materials.
func (e *Engine) onChange(ch state.Change) {
	if len(ch.Released) == 0 {
		return
	}
	e.mu.Lock()
	var halted []*job
	for _, id := range ch.Released {
		if j := e.jobs[id]; j != nil {
			delete(e.jobs, id)
			halted = append(halted, j)
		}
	}
	e.mu.Unlock()
	for _, j := range halted {
		j.halt()
	}
}
