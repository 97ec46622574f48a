// Package releases tracks, per namespace, the release key of the configuration
// last persisted to the snapshot store. It is the change-detection gate that
// keeps an unchanged release from being rewritten on every refresh pass.
//
// Release keys live only in memory: a restarted process writes the first
// snapshot of every namespace again.
package releases

// Store abstracts where release keys live.
type Store interface {
	// Get returns the recorded release key; ok=false when none is recorded.
	Get(namespace string) (key string, ok bool)
	// Changed reports whether key differs from the recorded release key.
	Changed(namespace, key string) bool
	// Set records key as the last persisted release of namespace.
	Set(namespace, key string)
	// Retain drops every namespace not in keep.
	Retain(keep map[string]string) int
}
