package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newBuf() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	return &buf, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestFallbackSampling(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{FallbackEvery: 3})
	for i := 0; i < 6; i++ {
		h.FallbackUsed("common", "not_found")
	}
	if n := strings.Count(buf.String(), "confcache.fallback_used"); n != 2 {
		t.Fatalf("expected 2 sampled lines, got %d:\n%s", n, buf.String())
	}
}

func TestNamespaceRedaction(t *testing.T) {
	buf, l := newBuf()
	New(l, Options{}).SnapshotWriteFailed("secret-ns", errors.New("disk full"))
	if !strings.Contains(buf.String(), "ns=secret-ns") {
		t.Fatalf("plain namespace expected: %s", buf.String())
	}

	buf.Reset()
	New(l, Options{RedactNamespaces: true}).SnapshotWriteFailed("secret-ns", errors.New("disk full"))
	if strings.Contains(buf.String(), "secret-ns") {
		t.Fatalf("namespace should be redacted: %s", buf.String())
	}

	buf.Reset()
	New(l, Options{Redact: func(string) string { return "X" }}).FallbackUsed("secret-ns", "fetch_error")
	if !strings.Contains(buf.String(), "ns=X") {
		t.Fatalf("custom redactor not applied: %s", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.DiscoveryFailed("orders", errors.New("x"), true)
	h.FallbackUsed("a", "not_found")
	h.SnapshotWritten("a", "r1")
	h.SnapshotWriteFailed("a", errors.New("x"))
	h.SnapshotReadFailed("a", errors.New("x"))
	h.RecoverySkipped(errors.New("x"))
	h.PassCompleted(1, time.Millisecond)
}
