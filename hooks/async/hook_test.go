package asynchook

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/confcache"
)

type countingHooks struct {
	confcache.NopHooks
	mu     sync.Mutex
	events []string
	block  chan struct{}
}

func (c *countingHooks) record(ev string) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *countingHooks) FallbackUsed(ns, reason string)   { c.record("fallback:" + ns) }
func (c *countingHooks) RecoverySkipped(error)            { c.record("skipped") }
func (c *countingHooks) PassCompleted(int, time.Duration) { c.record("pass") }

func TestForwardsAndDrainsOnClose(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 2, 16)
	h.FallbackUsed("common", "not_found")
	h.RecoverySkipped(errors.New("x"))
	h.PassCompleted(3, time.Millisecond)
	h.Close()

	if len(inner.events) != 3 {
		t.Fatalf("expected 3 events delivered, got %v", inner.events)
	}
	h.PassCompleted(1, 0)
	if h.Dropped() != 1 {
		t.Fatalf("event after Close should be dropped, dropped=%d", h.Dropped())
	}
	h.Close()
}

func TestDropsWhenQueueFull(t *testing.T) {
	inner := &countingHooks{block: make(chan struct{})}
	h := New(inner, 1, 1)
	for i := 0; i < 10; i++ {
		h.FallbackUsed("a", "fetch_error")
	}
	if h.Dropped() == 0 {
		t.Fatalf("expected drops with a blocked worker and queue of 1")
	}
	close(inner.block)
	h.Close()
}
