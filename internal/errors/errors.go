// Package errors provides centralized error definitions for parsort.
//
// # Error Types
//
// Setup failures (creating a named resource, loading the dataset, spawning
// the worker pool) are reported as [SetupError], which records the resource
// that could not be acquired and wraps the cause:
//
//	err := errors.NewSetupError("queue", "create", baseErr)
//	fmt.Println(err) // "setup error [resource=queue, op=create]: ..."
//
// A termination request is not an error. Blocking operations that observe
// it return [ErrShutdown] (or the context error) and callers treat that as
// the normal shutdown path.
//
// # Checking errors
//
//	if errors.IsSetup(err) { ... }
//	if errors.Is(err, errors.ErrResourceExists) { ... }
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Resource-related sentinel errors
var (
	// ErrResourceExists indicates that a named resource is already held by
	// another run.
	ErrResourceExists = New("resource already exists")
	// ErrResourceAcquire indicates that a resource could not be created.
	ErrResourceAcquire = New("resource acquisition failed")
)

// Dataset-related sentinel errors
var (
	// ErrInvalidDataset indicates that the source file is malformed.
	ErrInvalidDataset = New("invalid dataset")
)

// Lifecycle sentinel errors
var (
	// ErrShutdown indicates that a blocking operation was ended by a
	// termination request.
	ErrShutdown = New("shutdown requested")
)

// -----------------------------------------------------------------------------
// SetupError
// -----------------------------------------------------------------------------

// SetupError represents a fatal failure while acquiring run resources.
type SetupError struct {
	Resource string
	Op       string
	cause    error
}

// NewSetupError creates a new SetupError.
func NewSetupError(resource, op string, cause error) *SetupError {
	return &SetupError{Resource: resource, Op: op, cause: cause}
}

// Error returns the formatted error message.
func (e *SetupError) Error() string {
	var parts []string
	if e.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", e.Resource))
	}
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	prefix := "setup error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("setup error [%s]", strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Unwrap returns the underlying error.
func (e *SetupError) Unwrap() error {
	return e.cause
}

// IsSetup reports whether err is, or wraps, a SetupError.
func IsSetup(err error) bool {
	var se *SetupError
	return errors.As(err, &se)
}

// IsShutdown reports whether err signals the termination path rather than a
// failure: ErrShutdown or a canceled context.
func IsShutdown(err error) bool {
	return errors.Is(err, ErrShutdown) || errors.Is(err, context.Canceled)
}
