package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestValidateTimezone(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"America/New_York", false},
		{"UTC", false},
		{"Europe/London", false},
		{"EST", true},
		{"PST", true},
		{"GMT+5", true},
		{"Not/AZone", true},
		{"", true},
	}
	for _, c := range cases {
		_, err := ValidateTimezone(c.name)
		if c.wantErr && err == nil {
			t.Errorf("ValidateTimezone(%q) expected error, got nil", c.name)
		}
		if !c.wantErr && err != nil {
			t.Errorf("ValidateTimezone(%q) unexpected error: %v", c.name, err)
		}
	}
}

func TestParseFlexibleDate_Ambiguity(t *testing.T) {
	loc := time.UTC
	pd, err := ParseFlexibleDate("03/04/2025", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pd.Ambiguous {
		t.Fatalf("expected 03/04/2025 to be flagged ambiguous")
	}
	pd2, err := ParseFlexibleDate("13/04/2025", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd2.Ambiguous {
		t.Fatalf("expected 13/04/2025 to NOT be ambiguous (13 > 12)")
	}
}

func TestParseFlexibleDate_InvalidFormat(t *testing.T) {
	_, err := ParseFlexibleDate("not-a-date", time.UTC)
	if !errors.Is(err, ErrUnsupportedDateFormat) {
		t.Fatalf("expected ErrUnsupportedDateFormat, got %v", err)
	}
}

func TestISOWeekMath(t *testing.T) {
	// 2025-10-02 is a Thursday.
	thu := time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)
	if ISOWeekday(thu) != 4 {
		t.Fatalf("expected Thursday=4, got %d", ISOWeekday(thu))
	}
	start := StartOfISOWeek(thu)
	end := EndOfISOWeek(thu)
	if start.Format("2006-01-02") != "2025-09-29" {
		t.Fatalf("expected week start 2025-09-29, got %s", start.Format("2006-01-02"))
	}
	if end.Format("2006-01-02") != "2025-10-05" {
		t.Fatalf("expected week end 2025-10-05, got %s", end.Format("2006-01-02"))
	}
	if !InISOWeek(time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), thu) {
		t.Fatalf("expected Monday to be in the same ISO week")
	}
	if InISOWeek(time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC), thu) {
		t.Fatalf("expected following Monday to NOT be in the same ISO week")
	}
}

func TestISODateRoundTrip(t *testing.T) {
	d, err := ParseISODate("2025-11-27", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ISODate(d) != "2025-11-27" {
		t.Fatalf("expected round-trip, got %s", ISODate(d))
	}
}
