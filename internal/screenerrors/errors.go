// Package screenerrors provides sentinel and custom error types for the application.
package screenerrors

import "fmt"

// ErrDimensionMismatch is the sentinel for embedding dimension errors.
// Use errors.Is(err, screenerrors.ErrDimensionMismatch) to match.
var ErrDimensionMismatch = &DimensionMismatchError{}

// DimensionMismatchError reports an embedding vector whose length does not
// match the system-wide dimension. It is never recovered silently.
type DimensionMismatchError struct {
	Got  int
	Want int
}

// NewDimensionMismatchError creates a DimensionMismatchError with the observed and expected lengths.
func NewDimensionMismatchError(got, want int) *DimensionMismatchError {
	return &DimensionMismatchError{Got: got, Want: want}
}

// Error implements the error interface.
func (e *DimensionMismatchError) Error() string {
	if e.Got == 0 && e.Want == 0 {
		return "embedding dimension mismatch"
	}

	return fmt.Sprintf("embedding dimension mismatch: got %d, want %d", e.Got, e.Want)
}

// Is implements the error interface for error comparison.
func (e *DimensionMismatchError) Is(target error) bool {
	_, ok := target.(*DimensionMismatchError)

	return ok
}

// ErrEmbeddingUnavailable is the sentinel for embedding provider failures.
// The core never retries; the orchestrating caller decides on retry policy.
var ErrEmbeddingUnavailable = &EmbeddingUnavailableError{}

// EmbeddingUnavailableError wraps an external embedding provider failure.
type EmbeddingUnavailableError struct {
	Provider string
	Cause    error
}

// NewEmbeddingUnavailableError creates an EmbeddingUnavailableError.
func NewEmbeddingUnavailableError(provider string, cause error) *EmbeddingUnavailableError {
	return &EmbeddingUnavailableError{Provider: provider, Cause: cause}
}

// Error implements the error interface.
func (e *EmbeddingUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding provider %s unavailable: %v", e.Provider, e.Cause)
	}

	return "embedding provider unavailable"
}

// Unwrap returns the underlying provider error.
func (e *EmbeddingUnavailableError) Unwrap() error {
	return e.Cause
}

// Is implements the error interface for error comparison.
func (e *EmbeddingUnavailableError) Is(target error) bool {
	_, ok := target.(*EmbeddingUnavailableError)

	return ok
}

// ErrInvalidConfig is the sentinel for engine misconfiguration (weights not
// summing to 1, non-monotonic tier thresholds). Raised at construction time
// so a misconfigured engine fails before serving traffic.
var ErrInvalidConfig = &InvalidConfigError{}

// InvalidConfigError reports invalid matching configuration.
type InvalidConfigError struct {
	Message string
}

// NewInvalidConfigError creates an InvalidConfigError with a custom message.
func NewInvalidConfigError(message string) *InvalidConfigError {
	return &InvalidConfigError{Message: message}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	if e.Message != "" {
		return "invalid configuration: " + e.Message
	}

	return "invalid configuration"
}

// Is implements the error interface for error comparison.
func (e *InvalidConfigError) Is(target error) bool {
	_, ok := target.(*InvalidConfigError)

	return ok
}

// ErrNotFound represents a "not found" error.
// Use when a requested resource doesn't exist.
var ErrNotFound = &NotFoundError{}

// NotFoundError is a sentinel error for resources that are not found.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new NotFoundError with a custom message.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{Resource: resource, Message: message}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Resource != "" {
		return e.Resource + " not found"
	}

	return "resource not found"
}

// Is implements the error interface for error comparison.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)

	return ok
}

// ErrConflict is the sentinel for conflict errors (e.g. duplicate candidate by
// email, phone, or resume hash).
var ErrConflict = &ConflictError{}

// ConflictError is a sentinel error for resource conflicts.
type ConflictError struct {
	Message string
}

// NewConflictError creates a ConflictError with a custom message.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "conflict"
}

// Is implements the error interface for error comparison.
func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)

	return ok
}
