// Package errors provides structured domain error handling.
//
// Business-rule failures carry a machine-readable Code so callers (the
// routing layer lives outside this module) can translate them into
// transport-specific responses. Infrastructure failures are never wrapped
// into coded errors; they propagate unmodified via %w chains.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"
	// CodeNotFound indicates an aggregate with no created event in its stream.
	CodeNotFound Code = "NOT_FOUND"
	// CodeNotAuthorized indicates an actor that may not act on the aggregate.
	CodeNotAuthorized Code = "NOT_AUTHORIZED"
	// CodeInvalidState indicates a transition absent from the state table.
	CodeInvalidState Code = "INVALID_STATE"
	// CodeInvalidInput indicates a structural precondition violation.
	CodeInvalidInput Code = "INVALID_INPUT"
)

// Error is a domain error with a stable code.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// New returns a coded domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf returns a coded domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the domain code from an error chain.
// Errors without a code report CodeUnknown.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsNotAuthorized reports whether err carries CodeNotAuthorized.
func IsNotAuthorized(err error) bool { return CodeOf(err) == CodeNotAuthorized }

// IsInvalidState reports whether err carries CodeInvalidState.
func IsInvalidState(err error) bool { return CodeOf(err) == CodeInvalidState }

// IsInvalidInput reports whether err carries CodeInvalidInput.
func IsInvalidInput(err error) bool { return CodeOf(err) == CodeInvalidInput }
