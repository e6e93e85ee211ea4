// Package errors provides structured error handling for the HeySol client.
// Every error produced by the library carries a category so callers can
// branch on the kind of failure without matching message strings.
package errors

import (
	"errors"
	"fmt"
)

// Category classifies an error for programmatic handling.
type Category string

const (
	CategoryValidation  Category = "validation"
	CategoryAuth        Category = "auth"
	CategoryTransport   Category = "transport"
	CategoryProtocol    Category = "protocol"
	CategoryUnavailable Category = "unavailable"
)

// Error is the error type returned by all client operations. Status is the
// HTTP status code when the error originated from an API response, zero
// otherwise.
type Error struct {
	Category Category
	Message  string
	Status   int
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an error with the given category and message.
func New(category Category, message string) *Error {
	return &Error{Category: category, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a category and message to an existing error.
func Wrap(err error, category Category, message string) *Error {
	return &Error{Category: category, Message: message, cause: err}
}

// NewValidationError reports invalid input detected before any network I/O.
func NewValidationError(message string) *Error {
	return New(CategoryValidation, message)
}

// NewAuthError reports a rejected credential.
func NewAuthError(message string) *Error {
	return New(CategoryAuth, message)
}

// NewTransportError reports a non-2xx API response. The body is included
// verbatim so callers see what the server said.
func NewTransportError(status int, body string) *Error {
	return &Error{
		Category: CategoryTransport,
		Message:  fmt.Sprintf("API returned status %d: %s", status, body),
		Status:   status,
	}
}

// NewProtocolError reports a failure in the MCP handshake or message
// exchange, wrapping the underlying cause.
func NewProtocolError(message string, cause error) *Error {
	return Wrap(cause, CategoryProtocol, message)
}

// NewUnavailableError reports an operation attempted against a transport
// that is not usable in the client's current state.
func NewUnavailableError(message string) *Error {
	return New(CategoryUnavailable, message)
}

// As extracts an *Error from anywhere in the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCategory reports whether err carries the given category.
func IsCategory(err error, category Category) bool {
	if e, ok := As(err); ok {
		return e.Category == category
	}
	return false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsCategory(err, CategoryValidation) }

// IsAuth reports whether err is an authentication error.
func IsAuth(err error) bool { return IsCategory(err, CategoryAuth) }

// IsTransport reports whether err is a transport error.
func IsTransport(err error) bool { return IsCategory(err, CategoryTransport) }

// IsProtocol reports whether err is a protocol error.
func IsProtocol(err error) bool { return IsCategory(err, CategoryProtocol) }

// IsUnavailable reports whether err is an availability error.
func IsUnavailable(err error) bool { return IsCategory(err, CategoryUnavailable) }
