// Package remote talks to the configuration server: it lists the namespaces of
// an (application, cluster) and fetches the latest release of one namespace.
//
// Transport failures are returned as errors classified with ErrTimeout or
// ErrUnreachable so callers can choose a fallback. A server that answers with a
// non-success status is not an error: ListNamespaces returns an empty table and
// FetchLatest returns a NotFound result.
package remote

import (
	"context"
	"errors"
)

var (
	// ErrTimeout is a request that did not complete within the configured timeout.
	ErrTimeout = errors.New("remote: request timed out")
	// ErrUnreachable is a request that could not reach the server at all.
	ErrUnreachable = errors.New("remote: server unreachable")
	// ErrDecode is a success response whose body could not be understood.
	ErrDecode = errors.New("remote: undecodable response")
)

// Status is the outcome of a fetch that reached the server.
type Status int

const (
	NotFound Status = iota
	Found
)

func (s Status) String() string {
	if s == Found {
		return "found"
	}
	return "not_found"
}

// Result is the latest release of one namespace.
type Result struct {
	Status         Status
	StatusCode     int               // HTTP status as answered by the server
	Configurations map[string]string // set when Status == Found
	ReleaseKey     string            // set when Status == Found
}

// Source is the remote side of the cache.
type Source interface {
	// ListNamespaces maps namespace name to the server's namespace id.
	ListNamespaces(ctx context.Context, appID, cluster string) (map[string]string, error)
	// FetchLatest returns the latest released configuration of namespace.
	FetchLatest(ctx context.Context, appID, cluster, namespace string) (Result, error)
}
