// Package errors provides standardized error types for use across paper-to-audio.
//
// ContextualError is the base error type that captures component, operation, a
// coarse Kind, and optional status code and details. It implements the error and
// Unwrap interfaces for seamless integration with Go's errors package.
//
// Usage:
//
//	err := errors.NewConfig("cli", "ResolveCredential", someErr)
//	err = err.WithDetails(map[string]any{"env": "GEMINI_API_KEY"})
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure by how the driver should report it.
type Kind string

const (
	// KindUnknown is used when no classification was attached.
	KindUnknown Kind = ""

	// KindConfig covers missing inputs, missing credentials and missing
	// encoder capabilities. Raised before any network call.
	KindConfig Kind = "config"

	// KindBackend covers transport failures and malformed or empty synthesis.
	KindBackend Kind = "backend"

	// KindIO covers cache and output file read/write failures, including
	// encoding the output file.
	KindIO Kind = "io"
)

// ContextualError is a structured error type that provides consistent context
// about where and why an error occurred.
type ContextualError struct {
	// Component identifies the package that produced the error (e.g. "tts", "audio", "cli").
	Component string

	// Operation describes what was being done when the error occurred.
	Operation string

	// Kind is the coarse failure class.
	Kind Kind

	// StatusCode is an optional HTTP or application-level status code.
	StatusCode int

	// Details holds optional structured metadata about the error.
	Details map[string]any

	// Cause is the underlying error, if any.
	Cause error
}

// New creates a ContextualError with the given component, operation, and cause.
func New(component, operation string, cause error) *ContextualError {
	return &ContextualError{
		Component: component,
		Operation: operation,
		Cause:     cause,
	}
}

// NewConfig creates a configuration-class error.
func NewConfig(component, operation string, cause error) *ContextualError {
	return New(component, operation, cause).WithKind(KindConfig)
}

// NewBackend creates a backend-class error.
func NewBackend(component, operation string, cause error) *ContextualError {
	return New(component, operation, cause).WithKind(KindBackend)
}

// NewIO creates an I/O-class error.
func NewIO(component, operation string, cause error) *ContextualError {
	return New(component, operation, cause).WithKind(KindIO)
}

// Error returns a human-readable representation of the error.
func (e *ContextualError) Error() string {
	base := fmt.Sprintf("[%s] %s", e.Component, e.Operation)

	if e.StatusCode != 0 {
		base += fmt.Sprintf(" (status %d)", e.StatusCode)
	}

	if e.Cause != nil {
		base += ": " + e.Cause.Error()
	}

	return base
}

// Unwrap returns the underlying cause, enabling use with errors.Is and errors.As.
func (e *ContextualError) Unwrap() error {
	return e.Cause
}

// WithKind sets the failure class and returns the error.
func (e *ContextualError) WithKind(kind Kind) *ContextualError {
	e.Kind = kind
	return e
}

// WithStatusCode sets the status code and returns the error.
func (e *ContextualError) WithStatusCode(code int) *ContextualError {
	e.StatusCode = code
	return e
}

// WithDetails sets the details map and returns the error.
func (e *ContextualError) WithDetails(details map[string]any) *ContextualError {
	e.Details = details
	return e
}

// KindOf returns the Kind of the outermost classified ContextualError in err's
// chain, or KindUnknown.
func KindOf(err error) Kind {
	for err != nil {
		var ce *ContextualError
		if !stderrors.As(err, &ce) {
			return KindUnknown
		}
		if ce.Kind != KindUnknown {
			return ce.Kind
		}
		err = ce.Cause
	}
	return KindUnknown
}

// IsConfig reports whether err is a configuration-class error.
func IsConfig(err error) bool {
	return KindOf(err) == KindConfig
}
