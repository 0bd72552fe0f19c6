package errors

import (
	"fmt"

	"github.com/mmtuentertainment/payplan/core/entities"
)

// ProblemDetails is the RFC 9457 "application/problem+json" response shape (spec §4.C14).
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

// ContentType is the media type every Problem Details response must be served with.
const ContentType = "application/problem+json"

func problemType(host string, errType entities.AppErrorType) string {
	slug := entities.AppErrorTypeToSlug[errType]
	if host == "" {
		host = "payplan.local"
	}
	return fmt.Sprintf("https://%s/problems/%s", host, slug)
}

// NewProblemDetails builds a Problem Details response directly from an AppError, resolving
// "type" against the request host and defaulting "instance" to the request path.
func NewProblemDetails(err *AppError, host, instance string) *ProblemDetails {
	return err.ToHTTPError().ToProblemDetails(host, instance)
}
