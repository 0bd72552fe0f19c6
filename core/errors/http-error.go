package errors

import "github.com/mmtuentertainment/payplan/core/entities"

// HTTPError is the internal representation of a client-facing error, carrying just
// enough to build an RFC 9457 Problem Details response (spec §4.C14). It never carries
// a cause message or stack trace — those are logged server-side only (spec §7).
type HTTPError struct {
	StatusCode int
	Type       entities.AppErrorType
	Detail     string
	Field      string // offending field name, when Type == ErrValidation
}

// ToProblemDetails renders the HTTPError as an RFC 9457 Problem Details object.
// host is the request host (used to build a namespaced "type" URI); instance defaults
// to the request path per spec §4.C14.
func (e *HTTPError) ToProblemDetails(host, instance string) *ProblemDetails {
	detail := e.Detail
	if e.Field != "" {
		detail = e.Field + ": " + detail
	}
	return &ProblemDetails{
		Type:     problemType(host, e.Type),
		Title:    entities.AppErrorTypeToTitle[e.Type],
		Status:   e.StatusCode,
		Detail:   detail,
		Instance: instance,
	}
}
