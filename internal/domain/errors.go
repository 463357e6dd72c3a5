package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the error taxonomy for the core.
// Callers classify failures with errors.Is; transports map the classes
// to their own status codes.
var (
	// ErrValidation marks malformed or out-of-range input. Not retryable.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks operations targeting a missing user, goal or vault.
	ErrNotFound = errors.New("not found")

	// ErrPersistence marks underlying store failures. Goal updates already
	// applied before the failure are not rolled back by the caller-facing
	// contract (partial application is a supported degraded mode).
	ErrPersistence = errors.New("persistence error")
)

// NewValidationError wraps a message with ErrValidation
func NewValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// NewNotFoundError wraps a message with ErrNotFound
func NewNotFoundError(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// NewPersistenceError wraps an underlying store error with ErrPersistence,
// preserving the original error chain
func NewPersistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
