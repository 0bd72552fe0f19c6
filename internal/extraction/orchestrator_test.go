package extraction

import (
	"context"
	"testing"
	"time"
)

func klarnaSegment(no int, due string) string {
	return "From: billing@klarna.com\nYour Klarna payment " + itoa(no) + " of 4 of $45.00 is due " + due + ". Autopay is on. Late fee $7.00."
}

func itoa(n int) string {
	return string(rune('0' + n))
}

func TestExtract_KlarnaSegments(t *testing.T) {
	text := klarnaSegment(1, "2025-10-02") + "\n---\n" + klarnaSegment(2, "2025-10-16")
	result := Extract(context.Background(), text, Options{Location: time.UTC})
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v (issues=%+v)", len(result.Items), result.Items, result.Issues)
	}
	for _, it := range result.Items {
		if it.Provider != ProviderKlarna {
			t.Errorf("expected Klarna, got %v", it.Provider)
		}
		if it.Confidence < 0.99 {
			t.Errorf("expected near-full confidence with all fields present, got %f", it.Confidence)
		}
	}
}

func TestExtract_DeduplicatesIdenticalSegments(t *testing.T) {
	one := klarnaSegment(1, "2025-10-02")
	text := one + "\n---\n" + one
	result := Extract(context.Background(), text, Options{Location: time.UTC})
	if len(result.Items) != 1 {
		t.Fatalf("expected dedup to 1 item, got %d", len(result.Items))
	}
	if result.DuplicatesRemoved != 1 {
		t.Fatalf("expected 1 duplicate removed, got %d", result.DuplicatesRemoved)
	}
}

func TestExtract_UnknownProviderYieldsIssue(t *testing.T) {
	text := "Hello, just checking in, nothing to see here."
	result := Extract(context.Background(), text, Options{Location: time.UTC})
	if len(result.Items) != 0 {
		t.Fatalf("expected 0 items, got %d", len(result.Items))
	}
	if len(result.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(result.Issues))
	}
}

func TestRedactSnippet(t *testing.T) {
	in := "Contact a@b.com, amount $45.00, account 12345678901, name John Smith"
	out := redactSnippet(in)
	for _, forbidden := range []string{"a@b.com", "$45.00", "12345678901", "John Smith"} {
		if contains(out, forbidden) {
			t.Errorf("expected %q to be redacted from %q", forbidden, out)
		}
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}

func TestCache_ReturnsSameReferenceOnHit(t *testing.T) {
	cache, err := NewCache(10, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := klarnaSegment(1, "2025-10-02")
	r1, err := cache.Extract(context.Background(), text, Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := cache.Extract(context.Background(), text, Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1 != r2 {
		t.Fatalf("expected cache hit to return the identical reference")
	}
}

func TestIssueCategory(t *testing.T) {
	cases := map[string]string{
		"amount: negative not allowed for this provider": "amount_invalid",
		"due date: UnsupportedDateFormat: \"13/40/2025\"":  "due_date_invalid",
		"unrecognized provider":                            "unrecognized_provider",
		"sender domain resembles a spoofed provider subdomain": "spoofed_domain",
		"something else entirely":                              "other",
	}
	for reason, want := range cases {
		if got := issueCategory(reason); got != want {
			t.Errorf("issueCategory(%q) = %q, want %q", reason, got, want)
		}
	}
}
