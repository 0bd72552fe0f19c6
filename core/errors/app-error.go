package errors

import (
	"net/http"
	"runtime"

	"github.com/mmtuentertainment/payplan/core/entities"
	"github.com/mmtuentertainment/payplan/core/types"
)

// Error is the base interface for all custom errors in the system.
type Error interface {
	error
	HTTPStatus() int
	Context() map[string]interface{}
	Unwrap() error
	ToLogFields() map[string]interface{}
	ToHTTPError() *HTTPError
}

// AppError is the application's standardized error (spec §7 taxonomy).
type AppError struct {
	Type   entities.AppErrorType
	Field  string // offending field, for ErrValidation (Problem Details "detail" pointer)
	Detail string
	Fields map[string]interface{}
	Cause  error
	Stack  *types.StackTrace // captured for ErrInternal only; never rendered client-side
}

func captureStack(skip int) *types.StackTrace {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	st := types.StackTrace(pcs[:n])
	return &st
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return entities.AppErrorTypeToTitle[e.Type]
}

// HTTPStatus returns the HTTP status code for the AppError.
func (e *AppError) HTTPStatus() int {
	if status, ok := entities.AppErrorTypeToHTTP[e.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Context returns the structured fields attached to this error.
func (e *AppError) Context() map[string]interface{} {
	return e.Fields
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new standardized error.
func NewAppError(errType entities.AppErrorType, detail string, fields map[string]interface{}, cause error) *AppError {
	if detail == "" {
		detail = entities.AppErrorTypeToTitle[errType]
	}
	return &AppError{
		Type:   errType,
		Detail: detail,
		Fields: fields,
		Cause:  cause,
	}
}

// ToLogFields returns a map with all error details for structured logging. The caller is
// responsible for running this through the PII sanitizer (core/logger routes it through
// internal/pii) before it reaches any sink that is not server-side-only.
func (e *AppError) ToLogFields() map[string]interface{} {
	fields := map[string]interface{}{
		"error_type": entities.AppErrorTypeToSlug[e.Type],
		"detail":     e.Detail,
	}
	for k, v := range e.Fields {
		fields[k] = v
	}
	if e.Cause != nil {
		fields["cause"] = e.Cause.Error()
	}
	if e.Stack != nil {
		fields["stack"] = e.Stack.String()
	}
	return fields
}

// ToHTTPError converts an AppError to an HTTP error envelope.
func (e *AppError) ToHTTPError() *HTTPError {
	return &HTTPError{
		StatusCode: e.HTTPStatus(),
		Type:       e.Type,
		Detail:     e.Detail,
		Field:      e.Field,
	}
}

// ValidationError creates a 400 validation error pointing at the offending field.
func ValidationError(field, detail string) *AppError {
	return &AppError{Type: entities.ErrValidation, Field: field, Detail: detail}
}

// MethodNotAllowedError creates a 405 error.
func MethodNotAllowedError(detail string) *AppError {
	return &AppError{Type: entities.ErrMethodNotAllowed, Detail: detail}
}

// IdempotencyConflictError creates a 409 idempotency-key-conflict error.
func IdempotencyConflictError(detail string) *AppError {
	return &AppError{Type: entities.ErrIdempotencyConflict, Detail: detail}
}

// RateLimitedError creates a 429 rate-limit error.
func RateLimitedError(detail string) *AppError {
	return &AppError{Type: entities.ErrRateLimited, Detail: detail}
}

// InternalError creates a generic, client-safe 500 error. The cause and stack trace are
// retained for server-side logging only and are never rendered in ToHTTPError's
// client-facing fields.
func InternalError(cause error) *AppError {
	return &AppError{
		Type:   entities.ErrInternal,
		Detail: "An unexpected error occurred while processing the request.",
		Cause:  cause,
		Stack:  captureStack(3),
	}
}

// CacheValidationError creates a 500 error for a malformed idempotency record (fail-closed).
func CacheValidationError(detail string, cause error) *AppError {
	return &AppError{Type: entities.ErrCacheValidation, Detail: detail, Cause: cause}
}
