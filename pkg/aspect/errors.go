package aspect

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecordType is returned at construction when the given type
	// does not satisfy the searchable-record capability set.
	ErrInvalidRecordType = errors.New("record type is not searchable")

	// ErrMissingBackend is returned at construction when the backend the
	// record type's capability demands was not provided.
	ErrMissingBackend = errors.New("required search backend not configured")

	// ErrNoSearchableAttributes is returned by GetResults when the aspect
	// has no attributes configured.
	ErrNoSearchableAttributes = errors.New("no searchable attributes configured")

	// ErrUnsupportedOperation is the kind matched by errors.Is for deferred
	// calls the active backend does not support.
	ErrUnsupportedOperation = errors.New("unsupported deferred operation")
)

// UnsupportedOperationError reports a replayed deferred call the active
// backend rejected. It matches ErrUnsupportedOperation under errors.Is.
type UnsupportedOperationError struct {
	Method string
	Target string
	cause  error
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("deferred call %q not supported by %s: %v", e.Method, e.Target, e.cause)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }

// Cause returns the backend error that rejected the call.
func (e *UnsupportedOperationError) Cause() error { return e.cause }
