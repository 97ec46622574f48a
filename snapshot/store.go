// Package snapshot persists the last known configuration of every namespace so
// that a client can serve configuration while the config server is down, and
// recover all namespaces at once when the server cannot even be listed.
//
// A snapshot holds the configuration mapping only. Release keys are not
// persisted.
package snapshot

import (
	"context"

	"github.com/unkn0wn-root/confcache/codec"
)

// Store is the durable per-(application, namespace) snapshot storage.
type Store interface {
	// Write replaces the snapshot of (appID, namespace). Failures are *WriteError.
	Write(ctx context.Context, appID, namespace string, cfg codec.Values) error

	// Read returns the stored snapshot, or an empty mapping when none exists.
	// An unreadable or undecodable snapshot is a *ReadError, never an empty mapping.
	Read(ctx context.Context, appID, namespace string) (codec.Values, error)

	// LoadAll returns every readable snapshot of appID keyed by namespace.
	// Snapshots that fail to load are left out and reported together in the
	// returned error; the partial result is still valid.
	LoadAll(ctx context.Context, appID string) (map[string]codec.Values, error)
}
