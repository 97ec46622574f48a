// Package promhooks exports confcache refresh events as Prometheus metrics.
package promhooks

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unkn0wn-root/confcache"
)

// Hooks counts refresh events. Namespace names become label values, so keep
// the set of namespaces bounded.
type Hooks struct {
	discoveryFailures *prometheus.CounterVec
	fallbacks         *prometheus.CounterVec
	snapshotWrites    *prometheus.CounterVec
	snapshotFailures  *prometheus.CounterVec
	recoverySkipped   prometheus.Counter
	passDuration      prometheus.Histogram
	namespaces        prometheus.Gauge
}

var _ confcache.Hooks = (*Hooks)(nil)

// New registers the collectors on reg (prometheus.DefaultRegisterer when nil)
// under the given metric namespace ("confcache" when empty).
func New(reg prometheus.Registerer, namespace string) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "confcache"
	}
	f := promauto.With(reg)

	return &Hooks{
		discoveryFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_failures_total",
			Help:      "Namespace discovery failures, by whether snapshot recovery ran",
		}, []string{"recovering"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Namespaces served from their snapshot",
		}, []string{"namespace", "reason"}),
		snapshotWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_writes_total",
			Help:      "Snapshots persisted after a release change",
		}, []string{"namespace"}),
		snapshotFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_failures_total",
			Help:      "Snapshot reads or writes that failed",
		}, []string{"namespace", "op"}),
		recoverySkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovery_skipped_total",
			Help:      "Snapshots skipped during disaster recovery",
		}),
		passDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of refresh passes",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}),
		namespaces: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "namespaces",
			Help:      "Namespaces discovered by the last pass",
		}),
	}
}

func (h *Hooks) DiscoveryFailed(_ string, _ error, recovering bool) {
	label := "false"
	if recovering {
		label = "true"
	}
	h.discoveryFailures.WithLabelValues(label).Inc()
}

func (h *Hooks) FallbackUsed(ns, reason string) { h.fallbacks.WithLabelValues(ns, reason).Inc() }
func (h *Hooks) SnapshotWritten(ns, _ string)   { h.snapshotWrites.WithLabelValues(ns).Inc() }
func (h *Hooks) RecoverySkipped(error)          { h.recoverySkipped.Inc() }

func (h *Hooks) SnapshotWriteFailed(ns string, _ error) {
	h.snapshotFailures.WithLabelValues(ns, "write").Inc()
}

func (h *Hooks) SnapshotReadFailed(ns string, _ error) {
	h.snapshotFailures.WithLabelValues(ns, "read").Inc()
}

func (h *Hooks) PassCompleted(namespaces int, took time.Duration) {
	h.namespaces.Set(float64(namespaces))
	h.passDuration.Observe(took.Seconds())
}
