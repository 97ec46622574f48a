// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    FallbackEvery: 10, // sample logs: ~every 10th fallback
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	client, _ := confcache.New(ctx, confcache.Options{
//	    AppID: "orders",
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/confcache"
)

// Hooks forwards events to inner on worker goroutines. Events that do not fit
// the queue are dropped and counted.
type Hooks struct {
	inner   confcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ confcache.Hooks = (*Hooks)(nil)

func New(inner confcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped returns how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) DiscoveryFailed(app string, err error, rec bool) {
	h.try(func() { h.inner.DiscoveryFailed(app, err, rec) })
}
func (h *Hooks) FallbackUsed(ns, r string)     { h.try(func() { h.inner.FallbackUsed(ns, r) }) }
func (h *Hooks) SnapshotWritten(ns, rk string) { h.try(func() { h.inner.SnapshotWritten(ns, rk) }) }
func (h *Hooks) RecoverySkipped(err error)     { h.try(func() { h.inner.RecoverySkipped(err) }) }
func (h *Hooks) SnapshotWriteFailed(ns string, err error) {
	h.try(func() { h.inner.SnapshotWriteFailed(ns, err) })
}
func (h *Hooks) SnapshotReadFailed(ns string, err error) {
	h.try(func() { h.inner.SnapshotReadFailed(ns, err) })
}
func (h *Hooks) PassCompleted(n int, took time.Duration) {
	h.try(func() { h.inner.PassCompleted(n, took) })
}
