package confcache

import (
	"context"
	"net/http"
	"time"

	"github.com/unkn0wn-root/confcache/codec"
	"github.com/unkn0wn-root/confcache/remote"
	"github.com/unkn0wn-root/confcache/snapshot"
)

// Client serves configuration from memory and refreshes it in the background.
type Client interface {
	// GetValue looks key up in namespace ("" => "application"), then in each
	// overlay in order, and returns defaultValue when none has it.
	GetValue(key, defaultValue, namespace string, overlays ...string) string

	// GetValues merges overlays in order (later ones win) and then namespace
	// on top. The returned map is the caller's to keep.
	GetValues(namespace string, overlays ...string) map[string]string

	// Namespaces returns the namespace table from the last successful discovery
	// (name -> server id).
	Namespaces() map[string]string

	// Refresh runs one pass now. Concurrent calls share a single pass, which
	// is not cancelled when one caller's ctx is; ctx only bounds the wait.
	// The error aggregates per-namespace failures (*NamespaceError) or is the
	// discovery error; cached configuration is updated either way.
	Refresh(ctx context.Context) error

	// Close stops the background loop and waits for it to exit.
	Close(ctx context.Context) error
}

// Options configure a Client. Only AppID is required.
type Options struct {
	// Required
	AppID string

	Cluster   string        // "" => "default"
	ServerURL string        // "" => http://localhost:8090
	Timeout   time.Duration // per request; 0 => 60s
	CycleTime time.Duration // between background passes; 0 => 180s

	// CacheDir is the snapshot directory of the default file store.
	// "" => <tmp>/config/<AppID>/<YYYY-MM-DD>, which starts empty every day.
	CacheDir string

	Source           remote.Source             // nil => HTTP source over ServerURL
	HTTPClient       *http.Client              // used by the default source
	Store            snapshot.Store            // nil => file store at CacheDir
	Codec            codec.Codec[codec.Values] // default file store codec; nil => JSON
	MaxSnapshotBytes int                       // refuse to load bigger snapshots; 0 => no limit

	Logger            Logger // nil => NopLogger
	Hooks             Hooks  // nil => NopHooks
	DisableBackground bool   // no loop; call Refresh yourself
}

// New builds a client, loads configuration once and starts the refresh loop.
// ctx bounds only how long New waits for that first load.
func New(ctx context.Context, opts Options) (Client, error) {
	return newClient(ctx, opts)
}
