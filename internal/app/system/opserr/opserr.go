// internal/app/system/opserr/opserr.go
package opserr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the store and image layers. Handlers translate these
// into user-facing notices; nothing here is process-fatal.
var (
	// ErrStoreRead marks a subscription or query failure. Pages stay usable
	// with stale or empty data.
	ErrStoreRead = errors.New("store read failed")

	// ErrStoreWrite marks an add/update/delete failure, including writes
	// against identifiers that do not exist. Operations are not retried
	// automatically; the user re-triggers.
	ErrStoreWrite = errors.New("store write failed")

	// ErrImageDeleteUnavailable is returned when an image URL cannot be
	// deleted through the configured store (foreign URL, no credential).
	// Callers must report this truthfully rather than claim success.
	ErrImageDeleteUnavailable = errors.New("image delete unavailable")
)

// Read wraps err as a store read failure. Returns nil if err is nil.
func Read(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreRead, op, err)
}

// Write wraps err as a store write failure. Returns nil if err is nil.
func Write(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreWrite, op, err)
}

// Writef builds a store write failure from a message, for cases like
// "no document matched" where there is no underlying driver error.
func Writef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStoreWrite, fmt.Sprintf(format, args...))
}

// ValidationError reports client-side required-field failures. It blocks
// submission before any store call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

// NewValidation builds a ValidationError from field/message pairs.
func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
