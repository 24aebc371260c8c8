// Package apperr defines the error taxonomy shared by all services:
// unauthorized, not-found (which also covers tenant-scope violations),
// validation failures with per-field messages, and conflicts.
package apperr

import "net/http"

type Type string

const (
	TypeUnauthorized Type = "unauthorized"
	TypeNotFound     Type = "not_found"
	TypeValidation   Type = "validation_error"
	TypeConflict     Type = "conflict"
	TypeInternal     Type = "internal_error"
)

type Error struct {
	Type    Type
	Message string
	// Fields maps field name to messages; set for validation errors only.
	Fields map[string][]string
}

func (e *Error) Error() string { return string(e.Type) + ": " + e.Message }

// Status maps the error type to its HTTP status code.
func (e *Error) Status() int {
	switch e.Type {
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeNotFound:
		return http.StatusNotFound
	case TypeValidation:
		return http.StatusUnprocessableEntity
	case TypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Unauthorized(msg string) *Error { return &Error{Type: TypeUnauthorized, Message: msg} }

// NotFound is returned both for genuinely absent rows and for rows outside
// the caller's tenant scope, so cross-tenant existence never leaks.
func NotFound(msg string) *Error { return &Error{Type: TypeNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Type: TypeConflict, Message: msg} }

func Internal(msg string) *Error { return &Error{Type: TypeInternal, Message: msg} }

func Validation(fields map[string][]string) *Error {
	return &Error{Type: TypeValidation, Message: "validation failed", Fields: fields}
}
