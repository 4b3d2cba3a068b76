// Package apperror provides domain-specific error types for ChronoSpace.
// These errors carry an HTTP status code and a user-safe message. The Echo
// error handler maps them to appropriate HTTP responses automatically.
//
// NEVER return raw database or infrastructure errors to the client. Always
// wrap them in an apperror type or return a generic internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the base error type for all domain errors. It carries an
// HTTP status code, a machine-readable error type, and a human-readable
// message safe to show to the client.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 400, 500).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "not_found").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Fields lists per-field failures for validation errors.
	Fields []FieldError `json:"-"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// FieldError describes one invalid input value. Loc is the path to the
// value, starting with where it came from: "body", "query" or "path".
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, strings.Join(f.Loc, ".")+": "+f.Msg)
		}
		msg = strings.Join(parts, "; ")
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, msg, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Detail returns the value rendered under "detail" in error responses:
// the field list for validation errors, the message otherwise.
func (e *AppError) Detail() any {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	return e.Message
}

// --- Constructors for common error types ---

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    "not_found",
		Message: message,
	}
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

// NewConflict creates an error for requests that collide with existing
// state, such as a duplicate unique name. The public API reports these
// as 400 Bad Request.
func NewConflict(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "conflict",
		Message: message,
	}
}

// NewTooManyRequests creates a 429 error for rate-limited clients.
func NewTooManyRequests(message string) *AppError {
	return &AppError{
		Code:    http.StatusTooManyRequests,
		Type:    "rate_limited",
		Message: message,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// NewValidation creates a 422 Unprocessable Entity error for validation failures.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    "validation_error",
		Message: message,
	}
}

// NewFieldValidation creates a 422 error listing each invalid field.
func NewFieldValidation(fields ...FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    "validation_error",
		Message: "Request validation failed",
		Fields:  fields,
	}
}

// NewFieldError is a shorthand for a single-field validation failure at
// loc (e.g. "body", "end_date").
func NewFieldError(msg, errType string, loc ...string) *AppError {
	return NewFieldValidation(FieldError{Loc: loc, Msg: msg, Type: errType})
}

// IsNotFound reports whether err is an AppError with a 404 code.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}

// SafeMessage returns the client-safe error message from an error. If the
// error is an AppError, returns its Message field (which is safe to expose).
// For any other error type, returns a generic message to prevent leaking
// internal details like table names, query structure, or stack traces.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code from an AppError, or 500 for
// any other error type.
func SafeCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// Wrap passes AppErrors through unchanged and turns any other non-nil
// error into a 500 that keeps the cause for logging.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return NewInternal(err)
}
