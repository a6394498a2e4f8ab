// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the store and the inventory service.
var (
	// ErrAlreadySold is returned when a sell targets a batch that was
	// already sold. Double-selling is rejected, never overwritten.
	ErrAlreadySold = errors.New("item already sold")

	// ErrItemNotFound is returned when an operation references an id the
	// store does not know.
	ErrItemNotFound = errors.New("item not found")

	// ErrOffline is returned when an operation requires connectivity and
	// the service is in offline mode.
	ErrOffline = errors.New("store unreachable, working offline")
)

// ValidationError describes input rejected before any store contact.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps a failure talking to the item store. The original cause
// is preserved for logging; callers treat it as recoverable.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("item store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err is (or wraps) a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
