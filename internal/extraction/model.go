// Package extraction implements provider detection, field extraction, and orchestration
// for turning pasted BNPL provider emails into normalized installments (spec §4.C3-C5).
package extraction

import "time"

// Provider is a detected BNPL provider tag (spec §4.C3).
type Provider string

// Supported providers plus the Unknown sentinel.
const (
	ProviderKlarna   Provider = "Klarna"
	ProviderAffirm   Provider = "Affirm"
	ProviderAfterpay Provider = "Afterpay"
	ProviderPayPal4  Provider = "PayPal Pay-in-4"
	ProviderZip      Provider = "Zip"
	ProviderSezzle   Provider = "Sezzle"
	ProviderUnknown  Provider = "Unknown"
)

// ConfidenceBucket categorizes a continuous confidence score for display (spec §3
// ExtractionItem: "bucketed at >=0.80 High, 0.60-0.79 Medium, <0.60 Low").
type ConfidenceBucket string

// Confidence buckets.
const (
	ConfidenceHigh   ConfidenceBucket = "High"
	ConfidenceMedium ConfidenceBucket = "Medium"
	ConfidenceLow    ConfidenceBucket = "Low"
)

// BucketOf maps a continuous confidence score to its display bucket.
func BucketOf(score float64) ConfidenceBucket {
	switch {
	case score >= 0.80:
		return ConfidenceHigh
	case score >= 0.60:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ExtractionItem is one normalized installment produced by the orchestrator, with the
// confidence score that led to it (spec §3).
type ExtractionItem struct {
	Provider      Provider
	InstallmentNo int
	DueDate       time.Time
	AmountCents   int64
	Currency      string
	Autopay       bool
	LateFeeCents  int64
	Confidence    float64
}

// ExtractionIssue reports a segment that failed extraction, with a PII-redacted snippet
// (spec §3).
type ExtractionIssue struct {
	Snippet  string
	Reason   string
	Provider Provider
}

// Result is the Extract orchestrator's output (spec §4.C5: "never throws on valid inputs").
type Result struct {
	Items             []ExtractionItem
	Issues            []ExtractionIssue
	DuplicatesRemoved int
}
