package confcache

import "time"

// Hooks lightweight callbacks for high-signal refresh events.
// Implementations MUST be cheap and non-blocking; they run on the refresh path.
type Hooks interface {
	// Namespace discovery failed. recovering is true when the server was
	// unreachable and every namespace is being reloaded from snapshots.
	DiscoveryFailed(appID string, err error, recovering bool)

	// A namespace was served from its snapshot.
	// reason ∈ {"not_found", "fetch_error"}
	FallbackUsed(namespace, reason string)

	// A changed release was persisted.
	SnapshotWritten(namespace, releaseKey string)

	// Persisting a release failed; it is retried on the next pass.
	SnapshotWriteFailed(namespace string, err error)

	// A fallback snapshot could not be read; the namespace kept its previous value.
	SnapshotReadFailed(namespace string, err error)

	// One snapshot was skipped during disaster recovery.
	RecoverySkipped(err error)

	// A pass over namespaces finished (not called for failed discoveries).
	PassCompleted(namespaces int, took time.Duration)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) DiscoveryFailed(string, error, bool) {}
func (NopHooks) FallbackUsed(string, string)         {}
func (NopHooks) SnapshotWritten(string, string)      {}
func (NopHooks) SnapshotWriteFailed(string, error)   {}
func (NopHooks) SnapshotReadFailed(string, error)    {}
func (NopHooks) RecoverySkipped(error)               {}
func (NopHooks) PassCompleted(int, time.Duration)    {}
