// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Services return errors wrapped with one of the sentinel kinds; the
// HTTP layer maps each kind to a status code in exactly one place.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed or contradictory request data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a missing group, expense, item, or other record.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks a non-member or non-admin attempting a privileged action.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks a duplicate unique key.
	ErrConflict = errors.New("conflict")

	// ErrInternal marks an unexpected failure, typically from storage.
	ErrInternal = errors.New("internal error")
)

// InvalidInput returns an InvalidInput error with the given message.
func InvalidInput(format string, args ...any) error {
	return wrap(ErrInvalidInput, format, args...)
}

// NotFound returns a NotFound error with the given message.
func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

// Forbidden returns a Forbidden error with the given message.
func Forbidden(format string, args ...any) error {
	return wrap(ErrForbidden, format, args...)
}

// Conflict returns a Conflict error with the given message.
func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

// Internal wraps an unexpected error so callers can still unwrap the cause.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
