// internal/app/system/apperr/apperr.go

// Package apperr defines the error taxonomy shared by stores and
// handlers: validation failures, precondition failures, missing
// documents, and authorization failures are distinguished by Kind so the
// HTTP layer can map them without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	// Internal is the zero value: unexpected failures.
	Internal Kind = iota
	// Validation means malformed input (missing title, negative hours).
	Validation
	// Precondition means well-formed input rejected by current state
	// (capacity exceeded, duplicate pending request, already decided).
	Precondition
	// NotFound means the referenced document does not exist.
	NotFound
	// Unauthorized means no authenticated user.
	Unauthorized
	// Forbidden means the user lacks the required role.
	Forbidden
)

// Error carries a Kind, a stable machine-readable code, and a
// human-readable message. Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with the given kind, code, and message.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Newf is New with a formatted message.
func Newf(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches taxonomy to an underlying error.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// KindOf extracts the Kind from err, or Internal if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// CodeOf extracts the machine-readable code from err, or "INTERNAL".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "INTERNAL"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
