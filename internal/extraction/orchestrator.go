package extraction

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mmtuentertainment/payplan/core/metrics"
	"github.com/mmtuentertainment/payplan/internal/hashing"
)

// wallClockBudget bounds the total time Extract spends per call, protecting against
// pathological inputs (spec §4.C5: "a 1-second wall-clock ceiling").
const wallClockBudget = 1 * time.Second

var segmentFence = regexp.MustCompile(`(?m)^-{3,}\s*$`)

// Options configures a single Extract call; it participates in the cache key (spec §4.C5).
type Options struct {
	Location *time.Location
}

// Extract splits text into segments, detects a provider and runs field extractors on each,
// scores confidence, deduplicates, and collects issues. It never returns an error for
// otherwise-valid input; failures are reported as Issues (spec §4.C5).
func Extract(ctx context.Context, text string, opts Options) Result {
	ctx, cancel := context.WithTimeout(ctx, wallClockBudget)
	defer cancel()

	segments := splitSegments(text)
	var items []ExtractionItem
	var issues []ExtractionIssue

	for _, seg := range segments {
		select {
		case <-ctx.Done():
			issues = append(issues, ExtractionIssue{
				Snippet: redactSnippet(seg),
				Reason:  "extraction deadline exceeded",
			})
			metrics.ExtractionIssues.WithLabelValues("deadline_exceeded").Inc()
			continue
		default:
		}

		item, issue, ok := extractSegment(seg, opts.Location)
		if ok {
			items = append(items, item)
		}
		if issue != nil {
			issues = append(issues, *issue)
			metrics.ExtractionIssues.WithLabelValues(issueCategory(issue.Reason)).Inc()
		}
	}

	deduped, removed := dedupe(items)
	return Result{Items: deduped, Issues: issues, DuplicatesRemoved: removed}
}

// issueCategory maps an Issue's free-form Reason (which may embed a dynamic error message)
// to a small, fixed set of Prometheus label values, avoiding unbounded label cardinality.
func issueCategory(reason string) string {
	switch {
	case strings.HasPrefix(reason, "amount:"):
		return "amount_invalid"
	case strings.HasPrefix(reason, "due date:"):
		return "due_date_invalid"
	case reason == "unrecognized provider":
		return "unrecognized_provider"
	case reason == "sender domain resembles a spoofed provider subdomain":
		return "spoofed_domain"
	default:
		return "other"
	}
}

func splitSegments(text string) []string {
	parts := segmentFence.Split(text, -1)
	var out []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func extractSegment(seg string, loc *time.Location) (ExtractionItem, *ExtractionIssue, bool) {
	detection := DetectProvider(seg)
	if detection.Provider == ProviderUnknown {
		return ExtractionItem{}, &ExtractionIssue{
			Snippet: redactSnippet(seg),
			Reason:  "unrecognized provider",
		}, false
	}

	var weight float64
	amount, err := ExtractAmountCents(seg)
	if err != nil {
		return ExtractionItem{}, &ExtractionIssue{
			Snippet:  redactSnippet(seg),
			Reason:   fmt.Sprintf("amount: %v", err),
			Provider: detection.Provider,
		}, false
	}
	weight += 0.20

	due, err := ExtractDueDate(seg, loc)
	if err != nil {
		return ExtractionItem{}, &ExtractionIssue{
			Snippet:  redactSnippet(seg),
			Reason:   fmt.Sprintf("due date: %v", err),
			Provider: detection.Provider,
		}, false
	}
	weight += 0.25
	weight += 0.35 // provider was detected, above

	no, err := ExtractInstallmentNo(seg)
	if err == nil {
		weight += 0.15
	} else {
		no = 1
	}

	lateFee, _ := ExtractLateFeeCents(seg)
	autopay := ExtractAutopay(seg)
	if autopayOn.MatchString(seg) || autopayOff.MatchString(seg) {
		weight += 0.05
	}
	currency := ExtractCurrency(seg)

	item := ExtractionItem{
		Provider:      detection.Provider,
		InstallmentNo: no,
		DueDate:       due,
		AmountCents:   amount,
		Currency:      currency,
		Autopay:       autopay,
		LateFeeCents:  lateFee,
		Confidence:    weight,
	}
	if detection.Spoofed {
		return item, &ExtractionIssue{
			Snippet:  redactSnippet(seg),
			Reason:   "sender domain resembles a spoofed provider subdomain",
			Provider: detection.Provider,
		}, true
	}
	return item, nil, true
}

type dedupeKey struct {
	provider Provider
	instNo   int
	due      string
	amount   int64
}

func dedupe(items []ExtractionItem) ([]ExtractionItem, int) {
	seen := map[dedupeKey]bool{}
	out := make([]ExtractionItem, 0, len(items))
	removed := 0
	for _, it := range items {
		key := dedupeKey{it.Provider, it.InstallmentNo, it.DueDate.Format("2006-01-02"), it.AmountCents}
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out, removed
}

var (
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	amountPattern  = regexp.MustCompile(`\$[\d,]+(?:\.\d{1,2})?`)
	digitRunOf8    = regexp.MustCompile(`\d{8,}`)
	namePairPattern = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
)

const maxSnippetLen = 200

// redactSnippet scrubs an extraction-failure snippet of PII before it is surfaced in an
// Issue (spec §4.C5: "emails->[EMAIL], dollar amounts->[AMOUNT], 8+ digit runs->[ACCOUNT],
// capitalized name pairs->[NAME]").
func redactSnippet(s string) string {
	s = emailPattern.ReplaceAllString(s, "[EMAIL]")
	s = amountPattern.ReplaceAllString(s, "[AMOUNT]")
	s = digitRunOf8.ReplaceAllString(s, "[ACCOUNT]")
	s = namePairPattern.ReplaceAllString(s, "[NAME]")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxSnippetLen {
		s = s[:maxSnippetLen]
	}
	return s
}

// cacheKey incorporates a sampled hash of the input plus length, timezone, and options,
// per spec §4.C5: "keyed by (sampled hash of input + length + timezone + options)".
func cacheKey(text string, opts Options) (string, error) {
	sample := text
	if len(sample) > 4096 {
		sample = sample[:2048] + sample[len(sample)-2048:]
	}
	tz := "UTC"
	if opts.Location != nil {
		tz = opts.Location.String()
	}
	h, err := hashing.HashHex(map[string]any{
		"sample": sample,
		"length": len(text),
		"tz":     tz,
	})
	if err != nil {
		return "", err
	}
	return h, nil
}

// cacheEntry pairs a cached Result with its insertion time, for TTL enforcement.
type cacheEntry struct {
	result  Result
	storeAt time.Time
}

// Cache is a bounded, TTL-aware memoization layer in front of Extract (spec §4.C5:
// "Cache returns same reference on hit (moves to LRU tail)").
type Cache struct {
	lru *lru.Cache[string, *cacheEntry]
	ttl time.Duration
}

// NewCache builds a Cache holding at most size entries, each valid for ttl.
func NewCache(size int, ttl time.Duration) (*Cache, error) {
	if size <= 0 {
		size = 1
	}
	l, err := lru.New[string, *cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l, ttl: ttl}, nil
}

// Extract returns a cached Result when present and unexpired, else computes, stores, and
// returns a fresh one. The cached Result pointer is shared, not copied, on a cache hit
// (same reference, per spec).
func (c *Cache) Extract(ctx context.Context, text string, opts Options) (*Result, error) {
	key, err := cacheKey(text, opts)
	if err != nil {
		return nil, err
	}
	if entry, ok := c.lru.Get(key); ok {
		if time.Since(entry.storeAt) <= c.ttl {
			return &entry.result, nil
		}
		c.lru.Remove(key)
	}
	result := Extract(ctx, text, opts)
	entry := &cacheEntry{result: result, storeAt: time.Now()}
	c.lru.Add(key, entry)
	return &entry.result, nil
}
