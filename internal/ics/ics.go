// Package ics generates a UTF-8 RFC 5545 iCalendar document for the "This Week" installment
// view, including a DST-accurate VTIMEZONE derived from the request's IANA zone
// (spec §4.C10). No iCalendar library was found anywhere in the reference corpus, so this
// is a from-scratch encoder limited to the VCALENDAR/VTIMEZONE/VEVENT/VALARM subset the
// spec requires.
package ics

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Event is one "This Week" installment to render as a VEVENT (spec §4.C10).
type Event struct {
	Provider        string
	InstallmentNo   int
	AmountCents     int64
	DueDate         time.Time // shifted due date, local to Location
	WasShifted      bool
	OriginalDueDate time.Time
	RiskLines       []string // pre-formatted risk annotation lines, one per DESCRIPTION line
}

const (
	eventStartHour = 9
	eventDuration  = "PT30M"
	alarmTrigger   = "-P1D"
)

// Generate renders events into a single VCALENDAR with one VTIMEZONE for loc and one VEVENT
// per event, 9 AM local on the due date, with a 24h-prior VALARM unless includeAlarms is
// false (spec §4.C10).
func Generate(events []Event, loc *time.Location, includeAlarms bool) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//PayPlan//Installment Schedule//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")

	writeVTimezone(&b, loc, years(events))

	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DueDate.Before(sorted[j].DueDate) })

	for i, ev := range sorted {
		writeVEvent(&b, ev, loc, includeAlarms, i)
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// GenerateBase64 is Generate, base64-encoded for JSON transport (spec §4.C10: "Result is
// base64-encoded for transport when embedded in JSON responses").
func GenerateBase64(events []Event, loc *time.Location, includeAlarms bool) string {
	return base64.StdEncoding.EncodeToString([]byte(Generate(events, loc, includeAlarms)))
}

func years(events []Event) []int {
	seen := map[int]bool{}
	var out []int
	for _, e := range events {
		y := e.DueDate.Year()
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	if len(out) == 0 {
		out = append(out, time.Now().Year())
	}
	sort.Ints(out)
	return out
}

func writeVEvent(b *strings.Builder, ev Event, loc *time.Location, includeAlarms bool, seq int) {
	start := time.Date(ev.DueDate.Year(), ev.DueDate.Month(), ev.DueDate.Day(), eventStartHour, 0, 0, 0, loc)
	uid := fmt.Sprintf("%s-%d-%s@payplan", sanitizeUID(ev.Provider), ev.InstallmentNo, start.Format("20060102"))

	summary := fmt.Sprintf("%s %s", ev.Provider, formatCents(ev.AmountCents))
	if ev.WasShifted {
		summary += " (shifted)"
	}

	var desc []string
	desc = append(desc, fmt.Sprintf("Installment #%d", ev.InstallmentNo))
	if ev.WasShifted {
		desc = append(desc, fmt.Sprintf("Originally due: %s", ev.OriginalDueDate.Format("2006-01-02")))
		desc = append(desc, fmt.Sprintf("Now due: %s", ev.DueDate.Format("2006-01-02")))
	}
	desc = append(desc, ev.RiskLines...)

	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(b, "UID:%s\r\n", uid)
	fmt.Fprintf(b, "DTSTAMP:%s\r\n", time.Now().UTC().Format("20060102T150405Z"))
	fmt.Fprintf(b, "DTSTART;TZID=%s:%s\r\n", loc.String(), start.Format("20060102T150405"))
	fmt.Fprintf(b, "DURATION:%s\r\n", eventDuration)
	fmt.Fprintf(b, "SUMMARY:%s\r\n", escapeText(summary))
	fmt.Fprintf(b, "DESCRIPTION:%s\r\n", escapeText(strings.Join(desc, "\\n")))
	if includeAlarms {
		b.WriteString("BEGIN:VALARM\r\n")
		b.WriteString("ACTION:DISPLAY\r\n")
		fmt.Fprintf(b, "DESCRIPTION:%s\r\n", escapeText(summary))
		fmt.Fprintf(b, "TRIGGER:%s\r\n", alarmTrigger)
		b.WriteString("END:VALARM\r\n")
	}
	b.WriteString("END:VEVENT\r\n")
}

func sanitizeUID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '-' {
			b.WriteRune('-')
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeText escapes RFC 5545 TEXT special characters.
func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`)
	return r.Replace(s)
}

func formatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}
