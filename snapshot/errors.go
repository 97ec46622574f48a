package snapshot

import (
	"errors"
	"fmt"
)

var (
	ErrStorageRead  = errors.New("snapshot: storage read failed")
	ErrStorageWrite = errors.New("snapshot: storage write failed")

	// ErrRejected is returned by provider-backed stores when the provider
	// refused a write (eviction pressure, admission policy).
	ErrRejected = errors.New("snapshot: provider rejected write")
)

// ReadError reports a snapshot that exists but could not be loaded.
type ReadError struct {
	AppID     string
	Namespace string
	Location  string // file path or provider key
	Err       error
}

func (e *ReadError) Error() string {
	if e.Namespace == "" {
		return fmt.Sprintf("read snapshots of %q at %s: %v", e.AppID, e.Location, e.Err)
	}
	return fmt.Sprintf("read snapshot %s/%s at %s: %v", e.AppID, e.Namespace, e.Location, e.Err)
}

func (e *ReadError) Unwrap() []error { return []error{ErrStorageRead, e.Err} }

// WriteError reports a snapshot that could not be persisted.
type WriteError struct {
	AppID     string
	Namespace string
	Location  string
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write snapshot %s/%s at %s: %v", e.AppID, e.Namespace, e.Location, e.Err)
}

func (e *WriteError) Unwrap() []error { return []error{ErrStorageWrite, e.Err} }
