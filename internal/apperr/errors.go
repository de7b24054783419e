// Package apperr defines the sentinel error kinds shared across services.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a file, heading, block, column, or card
	// targeted by an operation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed arguments: bad date strings,
	// recurrence text not starting with "every", out-of-range line numbers,
	// empty required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when an optimistic-concurrency check fails.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyExists is returned when creating something that exists.
	ErrAlreadyExists = errors.New("already exists")
)
