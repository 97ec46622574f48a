// Package sloghooks reports confcache refresh events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/confcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	FallbackEvery uint64
	PassEvery     uint64
	// RedactNamespaces hashes namespace names before logging them.
	RedactNamespaces bool
	// Optional redactor; implies RedactNamespaces. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	fallbackCtr atomic.Uint64
	passCtr     atomic.Uint64
}

var _ confcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) ns(name string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(name)
	}
	if !h.opts.RedactNamespaces {
		return name
	}
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) DiscoveryFailed(appID string, err error, recovering bool) {
	if h.l == nil {
		return
	}
	h.l.Warn("confcache.discovery_failed",
		"app", appID,
		"recovering", recovering,
		"err", err)
}

func (h *Hooks) FallbackUsed(namespace, reason string) {
	if h.l == nil || !sample(h.opts.FallbackEvery, &h.fallbackCtr) {
		return
	}
	h.l.Info("confcache.fallback_used",
		"ns", h.ns(namespace),
		"reason", reason)
}

func (h *Hooks) SnapshotWritten(namespace, releaseKey string) {
	if h.l == nil {
		return
	}
	h.l.Debug("confcache.snapshot_written",
		"ns", h.ns(namespace),
		"release", releaseKey)
}

func (h *Hooks) SnapshotWriteFailed(namespace string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("confcache.snapshot_write_failed",
		"ns", h.ns(namespace),
		"err", err)
}

func (h *Hooks) SnapshotReadFailed(namespace string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("confcache.snapshot_read_failed",
		"ns", h.ns(namespace),
		"err", err)
}

func (h *Hooks) RecoverySkipped(err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("confcache.recovery_skipped", "err", err)
}

func (h *Hooks) PassCompleted(namespaces int, took time.Duration) {
	if h.l == nil || !sample(h.opts.PassEvery, &h.passCtr) {
		return
	}
	h.l.Debug("confcache.pass_completed",
		"namespaces", namespaces,
		"took", took)
}
