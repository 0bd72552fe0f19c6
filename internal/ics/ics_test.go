package ics

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestGenerate_ContainsVCalendarAndVTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("unexpected error loading location: %v", err)
	}
	events := []Event{
		{Provider: "Klarna", InstallmentNo: 1, AmountCents: 4500, DueDate: time.Date(2025, 10, 2, 0, 0, 0, 0, loc)},
	}
	out := Generate(events, loc, true)
	for _, want := range []string{"BEGIN:VCALENDAR", "BEGIN:VTIMEZONE", "TZID:America/New_York", "BEGIN:VEVENT", "BEGIN:VALARM", "END:VCALENDAR"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestGenerate_ShiftedSummarySuffixAndDescription(t *testing.T) {
	loc := time.UTC
	events := []Event{
		{
			Provider: "Klarna", InstallmentNo: 1, AmountCents: 4500,
			DueDate: time.Date(2025, 11, 28, 0, 0, 0, 0, loc), WasShifted: true,
			OriginalDueDate: time.Date(2025, 11, 27, 0, 0, 0, 0, loc),
		},
	}
	out := Generate(events, loc, true)
	if !strings.Contains(out, "Klarna $45.00 (shifted)") {
		t.Fatalf("expected shifted SUMMARY suffix, got:\n%s", out)
	}
	if !strings.Contains(out, "Originally due: 2025-11-27") {
		t.Fatalf("expected original due date in DESCRIPTION, got:\n%s", out)
	}
}

func TestGenerate_NoAlarmWhenDisabled(t *testing.T) {
	loc := time.UTC
	events := []Event{{Provider: "Affirm", InstallmentNo: 1, AmountCents: 1000, DueDate: time.Date(2025, 10, 2, 0, 0, 0, 0, loc)}}
	out := Generate(events, loc, false)
	if strings.Contains(out, "BEGIN:VALARM") {
		t.Fatalf("expected no VALARM when includeAlarms=false")
	}
}

func TestGenerateBase64_RoundTrips(t *testing.T) {
	loc := time.UTC
	events := []Event{{Provider: "Affirm", InstallmentNo: 1, AmountCents: 1000, DueDate: time.Date(2025, 10, 2, 0, 0, 0, 0, loc)}}
	encoded := GenerateBase64(events, loc, true)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("expected valid base64: %v", err)
	}
	if !strings.Contains(string(decoded), "BEGIN:VCALENDAR") {
		t.Fatalf("expected decoded content to be the ICS document")
	}
}

func TestGenerate_MultipleEventsSortedByDueDate(t *testing.T) {
	loc := time.UTC
	events := []Event{
		{Provider: "Sezzle", InstallmentNo: 1, AmountCents: 1000, DueDate: time.Date(2025, 10, 5, 0, 0, 0, 0, loc)},
		{Provider: "Klarna", InstallmentNo: 1, AmountCents: 1000, DueDate: time.Date(2025, 10, 2, 0, 0, 0, 0, loc)},
	}
	out := Generate(events, loc, false)
	klarnaIdx := strings.Index(out, "Klarna")
	sezzleIdx := strings.Index(out, "Sezzle")
	if klarnaIdx == -1 || sezzleIdx == -1 || klarnaIdx > sezzleIdx {
		t.Fatalf("expected Klarna (earlier due date) to appear before Sezzle")
	}
}
