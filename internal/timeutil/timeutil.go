// Package timeutil implements timezone validation and flexible date parsing (spec §4.C1).
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	// tzdata embeds the IANA time zone database into the binary so zone loading works
	// even on minimal container images that ship no system tzdata package.
	_ "time/tzdata"
)

// ErrInvalidTimezone is returned when a timezone string is not a loadable IANA zone name.
var ErrInvalidTimezone = errors.New("InvalidTimezone")

// ErrUnsupportedDateFormat is returned when a date string matches none of the accepted
// formats (YYYY-MM-DD, MM/DD/YYYY, DD/MM/YYYY).
var ErrUnsupportedDateFormat = errors.New("UnsupportedDateFormat")

// abbreviations are commonly mistaken for IANA zone names but are not resolvable
// timezone identifiers (fixed-offset abbreviations are ambiguous across jurisdictions).
var abbreviations = map[string]bool{
	"EST": true, "EDT": true, "CST": true, "CDT": true, "MST": true, "MDT": true,
	"PST": true, "PDT": true, "GMT": true, "UTC": false, "Z": true,
}

var offsetAbbrev = regexp.MustCompile(`^(GMT|UTC)[+-]\d{1,2}(:\d{2})?$`)

// ValidateTimezone rejects abbreviations and fixed-offset forms, accepting only names that
// resolve via the IANA database (e.g. "America/New_York", "UTC").
func ValidateTimezone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty timezone", ErrInvalidTimezone)
	}
	if abbreviations[strings.ToUpper(name)] {
		return nil, fmt.Errorf("%w: %q is an ambiguous abbreviation, use an IANA zone name", ErrInvalidTimezone, name)
	}
	if offsetAbbrev.MatchString(strings.ToUpper(name)) {
		return nil, fmt.Errorf("%w: %q is a fixed-offset form, use an IANA zone name", ErrInvalidTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// ParsedDate is the result of parsing a possibly-ambiguous date string.
type ParsedDate struct {
	Date       time.Time
	Ambiguous  bool // both numeric components of a slash-date are <= 12
	SourceForm string
}

var (
	isoForm   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	slashForm = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// ParseFlexibleDate parses YYYY-MM-DD, MM/DD/YYYY, or DD/MM/YYYY in the given location.
// Slash-form dates are read with the US convention (MM/DD/YYYY) first, fall back to
// DD/MM/YYYY when that reading is not a valid date, and are flagged Ambiguous when both
// components could be read either way so callers may prompt for locale disambiguation
// (spec §4.C1).
func ParseFlexibleDate(s string, loc *time.Location) (ParsedDate, error) {
	s = strings.TrimSpace(s)
	if m := isoForm.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		t, err := buildDate(y, mo, d, loc)
		if err != nil {
			return ParsedDate{}, err
		}
		return ParsedDate{Date: t, SourceForm: "ISO"}, nil
	}
	if m := slashForm.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		// US convention: MM/DD/YYYY.
		t, err := buildDate(y, a, b, loc)
		if err != nil {
			// a isn't a valid month, so MM/DD/YYYY can't be the right reading; fall back
			// to DD/MM/YYYY when that interpretation is unambiguously valid (spec §4.C1).
			t2, err2 := buildDate(y, b, a, loc)
			if err2 != nil {
				return ParsedDate{}, err
			}
			return ParsedDate{Date: t2, SourceForm: "DD/MM/YYYY"}, nil
		}
		ambiguous := a <= 12 && b <= 12
		return ParsedDate{Date: t, Ambiguous: ambiguous, SourceForm: "MM/DD/YYYY"}, nil
	}
	return ParsedDate{}, fmt.Errorf("%w: %q", ErrUnsupportedDateFormat, s)
}

func buildDate(year, month, day int, loc *time.Location) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d out of range", ErrUnsupportedDateFormat, month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: day %d out of range", ErrUnsupportedDateFormat, day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrUnsupportedDateFormat, year, month, day)
	}
	return t, nil
}

// ISODate formats t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseISODate parses a canonical YYYY-MM-DD date in the given location.
func ParseISODate(s string, loc *time.Location) (time.Time, error) {
	m := isoForm.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedDateFormat, s)
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return buildDate(y, mo, d, loc)
}

// ZonedISO8601 renders t as an ISO-8601 timestamp with numeric UTC offset, e.g.
// "2025-10-02T00:00:00-04:00" (spec §4.C1 "zoned ISO-8601 with offset").
func ZonedISO8601(t time.Time) string {
	return t.Format("2006-01-02T15:04:05-07:00")
}

// UTCOffset returns the zone abbreviation and offset (seconds east of UTC) in effect for t,
// exposing DST-aware offset inspection (spec §4.C1).
func UTCOffset(t time.Time) (abbrev string, offsetSeconds int) {
	return t.Zone()
}

// ISOWeekday returns the ISO 8601 weekday number, Monday=1 .. Sunday=7 (spec §9: "ISO week
// math must be explicit; do not rely on locale-dependent first-day-of-week helpers").
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// StartOfISOWeek returns the Monday 00:00:00 that begins t's ISO week, in t's location.
func StartOfISOWeek(t time.Time) time.Time {
	delta := ISOWeekday(t) - 1
	y, m, d := t.Date()
	monday := time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, -delta)
	return monday
}

// EndOfISOWeek returns the Sunday 23:59:59.999999999 that ends t's ISO week.
func EndOfISOWeek(t time.Time) time.Time {
	start := StartOfISOWeek(t)
	return start.AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// InISOWeek reports whether t falls within the Mon-Sun ISO week containing reference.
func InISOWeek(t, reference time.Time) bool {
	start := StartOfISOWeek(reference)
	end := EndOfISOWeek(reference)
	return !t.Before(start) && !t.After(end)
}
