// Command extract runs the email extraction engine (spec §4.C3-C5) over a pasted batch of
// BNPL provider emails, the way the teacher's cmd/schema-check gives a standalone diagnostic
// entry point to a library package that the HTTP API itself does not expose a route for.
//
// Usage:
//
//	extract [-timezone America/New_York] [file]
//
// Reads from file if given, else stdin. Prints the extraction Result as JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mmtuentertainment/payplan/core/config"
	"github.com/mmtuentertainment/payplan/internal/extraction"
	"github.com/mmtuentertainment/payplan/internal/pii"
	"github.com/mmtuentertainment/payplan/internal/timeutil"
)

// itemView is the JSON projection of an extraction.ExtractionItem, cents rendered alongside
// the confidence bucket spec §3 says callers should use to display the continuous score.
type itemView struct {
	Provider      string  `json:"provider"`
	InstallmentNo int     `json:"installment_no"`
	DueDate       string  `json:"due_date"`
	AmountCents   int64   `json:"amount_cents"`
	Currency      string  `json:"currency"`
	Autopay       bool    `json:"autopay"`
	LateFeeCents  int64   `json:"late_fee_cents"`
	Confidence    float64 `json:"confidence"`
	Bucket        string  `json:"confidence_bucket"`
}

type issueView struct {
	Snippet  string `json:"snippet"`
	Reason   string `json:"reason"`
	Provider string `json:"provider,omitempty"`
}

type resultView struct {
	Items             []itemView  `json:"items"`
	Issues            []issueView `json:"issues"`
	DuplicatesRemoved int         `json:"duplicatesRemoved"`
}

func main() {
	tz := flag.String("timezone", "America/New_York", "IANA timezone used to resolve due dates")
	flag.Parse()

	cfg := loadConfig()
	pii.SetFieldCacheSize(cfg.PIIFieldCacheSize)

	loc, err := timeutil.ValidateTimezone(*tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	text, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	cache, err := extraction.NewCache(cfg.ExtractionCacheSize, time.Duration(cfg.ExtractionCacheTTLSeconds)*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: building cache: %v\n", err)
		os.Exit(1)
	}

	result, err := cache.Extract(context.Background(), text, extraction.Options{Location: loc})
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	view := toResultView(*result)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		fmt.Fprintf(os.Stderr, "extract: encoding result: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads AppConfig without fx, so this CLI does not need to carry fx's dependency
// graph just to read a handful of env-driven cache sizes.
func loadConfig() *config.AppConfig {
	return config.NewAppConfig()
}

func readInput(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(b), nil
}

func toResultView(r extraction.Result) resultView {
	items := make([]itemView, len(r.Items))
	for i, it := range r.Items {
		items[i] = itemView{
			Provider:      string(it.Provider),
			InstallmentNo: it.InstallmentNo,
			DueDate:       timeutil.ISODate(it.DueDate),
			AmountCents:   it.AmountCents,
			Currency:      it.Currency,
			Autopay:       it.Autopay,
			LateFeeCents:  it.LateFeeCents,
			Confidence:    it.Confidence,
			Bucket:        string(extraction.BucketOf(it.Confidence)),
		}
	}
	issues := make([]issueView, len(r.Issues))
	for i, iss := range r.Issues {
		issues[i] = issueView{Snippet: iss.Snippet, Reason: iss.Reason, Provider: string(iss.Provider)}
	}
	return resultView{Items: items, Issues: issues, DuplicatesRemoved: r.DuplicatesRemoved}
}
