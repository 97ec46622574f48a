// Package fields orders structured log fields for the logging adapters.
package fields

import (
	"slices"
)

// ErrKey is the field name refresh code uses for errors.
const ErrKey = "err"

// Sorted returns the keys of f in lexical order, so adapters emit fields in a
// stable order regardless of map iteration.
func Sorted(f map[string]any) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
