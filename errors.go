package confcache

import (
	"fmt"
)

// NamespaceError reports what went wrong while refreshing one namespace.
// FetchErr is the remote failure that forced a fallback; StoreErr is a failed
// snapshot write (fresh data was still published) or a failed fallback read
// (the previous in-memory configuration was kept).
type NamespaceError struct {
	Namespace string
	FetchErr  error
	StoreErr  error
}

func (e *NamespaceError) Error() string {
	switch {
	case e.FetchErr != nil && e.StoreErr != nil:
		return fmt.Sprintf("namespace %q: fetch and snapshot fallback failed: fetch=%v; snapshot=%v",
			e.Namespace, e.FetchErr, e.StoreErr)
	case e.FetchErr != nil:
		return fmt.Sprintf("namespace %q: fetch failed, served from snapshot: %v", e.Namespace, e.FetchErr)
	case e.StoreErr != nil:
		return fmt.Sprintf("namespace %q: snapshot: %v", e.Namespace, e.StoreErr)
	default:
		return fmt.Sprintf("namespace %q: unknown error", e.Namespace)
	}
}

func (e *NamespaceError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.FetchErr != nil {
		errs = append(errs, e.FetchErr)
	}
	if e.StoreErr != nil {
		errs = append(errs, e.StoreErr)
	}
	return errs
}
