package entities

import "net/http"

// AppErrorType represents the taxonomy of errors the application can raise (spec §7).
type AppErrorType int

// Error taxonomy. Values are stable across releases; do not reorder.
const (
	ErrValidation AppErrorType = iota + 1001
	ErrMethodNotAllowed
	ErrIdempotencyConflict
	ErrRateLimited
	ErrInternal
	ErrCacheValidation
)

// AppErrorTypeToSlug maps AppErrorType to the RFC 9457 "type" taxonomy slug used in
// Problem Details responses (spec §4.C14).
var AppErrorTypeToSlug = map[AppErrorType]string{
	ErrValidation:          "VALIDATION_ERROR",
	ErrMethodNotAllowed:    "METHOD_NOT_ALLOWED",
	ErrIdempotencyConflict: "IDEMPOTENCY_KEY_CONFLICT",
	ErrRateLimited:         "RATE_LIMIT_EXCEEDED",
	ErrInternal:            "INTERNAL_ERROR",
	ErrCacheValidation:     "CACHE_VALIDATION_ERROR",
}

// AppErrorTypeToTitle maps AppErrorType to a human-readable Problem Details title.
var AppErrorTypeToTitle = map[AppErrorType]string{
	ErrValidation:          "Validation Error",
	ErrMethodNotAllowed:    "Method Not Allowed",
	ErrIdempotencyConflict: "Idempotency Key Conflict",
	ErrRateLimited:         "Rate Limit Exceeded",
	ErrInternal:            "Internal Error",
	ErrCacheValidation:     "Cache Validation Error",
}

// AppErrorTypeToHTTP maps AppErrorType to HTTP status codes.
var AppErrorTypeToHTTP = map[AppErrorType]int{
	ErrValidation:          http.StatusBadRequest,
	ErrMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrIdempotencyConflict: http.StatusConflict,
	ErrRateLimited:         http.StatusTooManyRequests,
	ErrInternal:            http.StatusInternalServerError,
	ErrCacheValidation:     http.StatusInternalServerError,
}
