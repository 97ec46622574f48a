package confcache

import "time"

const (
	DefaultNamespace = "application"
	DefaultCluster   = "default"
	DefaultServerURL = "http://localhost:8090"
	DefaultTimeout   = 60 * time.Second
	DefaultCycleTime = 180 * time.Second
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
