// Package metrics exposes the Prometheus counters and histograms the plan handler and its
// middleware update, trimmed from the teacher's full OpenTelemetry stack down to the
// request-count/latency/rate-limit/idempotency surface this spec calls for.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestsTotal counts HTTP requests by method, path, and status text.
var RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "payplan_http_requests_total",
	Help: "Total HTTP requests processed, labeled by method, path, and status.",
}, []string{"method", "path", "status"})

// RequestDuration observes request handling latency in seconds.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "payplan_http_request_duration_seconds",
	Help:    "HTTP request handling latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path"})

// RateLimitDecisions counts allow/deny outcomes from the rate limiter.
var RateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "payplan_rate_limit_decisions_total",
	Help: "Rate limiter decisions, labeled by outcome (allowed/denied).",
}, []string{"outcome"})

// IdempotencyOutcomes counts idempotency lookup outcomes (miss/hit/conflict).
var IdempotencyOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "payplan_idempotency_outcomes_total",
	Help: "Idempotency store lookup outcomes, labeled by outcome (miss/hit/conflict).",
}, []string{"outcome"})

// ExtractionIssues counts extraction issues emitted by the orchestrator, labeled by reason.
var ExtractionIssues = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "payplan_extraction_issues_total",
	Help: "Extraction issues emitted by the orchestrator, labeled by reason.",
}, []string{"reason"})
