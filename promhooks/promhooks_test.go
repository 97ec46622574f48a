package promhooks

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersTrackEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg, "")

	h.FallbackUsed("common", "not_found")
	h.FallbackUsed("common", "not_found")
	h.FallbackUsed("common", "fetch_error")
	h.SnapshotWritten("application", "r1")
	h.SnapshotWriteFailed("application", errors.New("disk full"))
	h.SnapshotReadFailed("common", errors.New("corrupt"))
	h.RecoverySkipped(errors.New("corrupt"))
	h.DiscoveryFailed("orders", errors.New("refused"), true)

	if got := testutil.ToFloat64(h.fallbacks.WithLabelValues("common", "not_found")); got != 2 {
		t.Fatalf("fallbacks{not_found} = %v want 2", got)
	}
	if got := testutil.ToFloat64(h.fallbacks.WithLabelValues("common", "fetch_error")); got != 1 {
		t.Fatalf("fallbacks{fetch_error} = %v want 1", got)
	}
	if got := testutil.ToFloat64(h.snapshotWrites.WithLabelValues("application")); got != 1 {
		t.Fatalf("snapshot writes = %v want 1", got)
	}
	if got := testutil.ToFloat64(h.snapshotFailures.WithLabelValues("application", "write")); got != 1 {
		t.Fatalf("write failures = %v want 1", got)
	}
	if got := testutil.ToFloat64(h.snapshotFailures.WithLabelValues("common", "read")); got != 1 {
		t.Fatalf("read failures = %v want 1", got)
	}
	if got := testutil.ToFloat64(h.recoverySkipped); got != 1 {
		t.Fatalf("recovery skipped = %v want 1", got)
	}
	if got := testutil.ToFloat64(h.discoveryFailures.WithLabelValues("true")); got != 1 {
		t.Fatalf("discovery failures = %v want 1", got)
	}
}

func TestPassCompletedObservesDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg, "svc")

	h.PassCompleted(3, 20*time.Millisecond)
	h.PassCompleted(4, 30*time.Millisecond)

	if got := testutil.ToFloat64(h.namespaces); got != 4 {
		t.Fatalf("namespaces gauge = %v want 4", got)
	}
	if n := testutil.CollectAndCount(h.passDuration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
	expected := `
# HELP svc_recovery_skipped_total Snapshots skipped during disaster recovery
# TYPE svc_recovery_skipped_total counter
svc_recovery_skipped_total 0
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "svc_recovery_skipped_total"); err != nil {
		t.Fatal(err)
	}
}
