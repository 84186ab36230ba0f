// Package apperr defines the typed errors services return and the mapping
// from any error to the HTTP status and message shown to the user.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// ErrNoContent signals that a lookup legitimately produced nothing to return.
var ErrNoContent = errors.New("no content")

// Error is an error with a user-facing message and HTTP status.
type Error struct {
	StatusCode int
	Message    string
	Details    any
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error with the given status and message.
func New(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

// Wrap attaches a status and message to an underlying error.
func Wrap(statusCode int, message string, err error) *Error {
	return &Error{StatusCode: statusCode, Message: message, Err: err}
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

// Resolved is the user-facing view of an error.
type Resolved struct {
	StatusCode int
	Message    string
	Details    any
}

// Resolve maps err to a status code and friendly message. Typed errors keep
// their own status; a missing row becomes 404 and ErrNoContent becomes 204.
// Anything else is an unexpected 500.
func Resolve(err error) Resolved {
	var appErr *Error
	switch {
	case errors.As(err, &appErr):
		return Resolved{StatusCode: appErr.StatusCode, Message: appErr.Message, Details: appErr.Details}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Resolved{StatusCode: http.StatusNotFound, Message: "Resource not found"}
	case errors.Is(err, ErrNoContent):
		return Resolved{StatusCode: http.StatusNoContent, Message: "No content"}
	}
	return Resolved{StatusCode: http.StatusInternalServerError, Message: "An unexpected error occurred"}
}

// IsNotFound reports whether err resolves to a 404.
func IsNotFound(err error) bool {
	return err != nil && Resolve(err).StatusCode == http.StatusNotFound
}
