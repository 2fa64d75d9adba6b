// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Domain error codes. Handlers map these to HTTP statuses; callers branch
// with errors.As instead of matching message text.
const (
	CodeInvalidTransition      = "invalid_transition"
	CodeValidation             = "validation_error"
	CodeNotFound               = "not_found"
	CodeWindowExpired          = "window_expired"
	CodeAlreadyExists          = "already_exists"
	CodeConcurrentModification = "concurrent_modification"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Code + ": " + e.Message
}

func NewInvalidTransition(from, command string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot %s a deal in status %q", command, from),
	}
}

func NewValidationError(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(resource string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: resource + " not found"}
}

func NewWindowExpired(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeWindowExpired, Message: fmt.Sprintf(format, args...)}
}

func NewAlreadyExists(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// ErrConcurrentModification is returned when an optimistic version check
// loses against a concurrent writer. Clients should reload and retry.
var ErrConcurrentModification = &DomainError{
	Code:    CodeConcurrentModification,
	Message: "the deal was modified concurrently, reload and retry",
}

// AsDomainError unwraps err to a *DomainError if one is in the chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code string) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}
