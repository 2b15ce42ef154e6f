// Package apperrors defines the domain error taxonomy surfaced to callers.
// Stores return pkg/platform/sentinel errors; services translate them into
// these typed errors; the HTTP layer maps codes onto status codes.
package apperrors

import (
	"errors"
	"net/http"
)

// Code identifies a category of failure callers can react to.
type Code string

const (
	// CodeUnauthorized means the caller lacks the role required for the operation.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotFound means the referenced entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeAlreadyResolved means the report is in the terminal Resolved state.
	CodeAlreadyResolved Code = "already_resolved"
	// CodeConflict means an entity with the same id already exists.
	CodeConflict Code = "conflict"
	// CodeValidation means the input was malformed or incomplete.
	CodeValidation Code = "validation"
	// CodeDependency means a backing store or sink failed.
	CodeDependency Code = "dependency"
)

// Error is a typed domain error carrying a machine-readable code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a domain error around an infrastructure cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the domain code from an error chain. Unrecognized errors
// report CodeDependency so transport layers never leak internals.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeDependency
}

// ToHTTPStatus maps a domain code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyResolved, CodeConflict:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
