package ics

import (
	"fmt"
	"strings"
	"time"
)

// transition marks an instant at which loc's UTC offset or zone abbreviation changes.
type transition struct {
	at     time.Time
	name   string
	offset int // seconds east of UTC, after the transition
	isDST  bool
}

// writeVTimezone emits a VTIMEZONE for loc covering the given years, derived by sampling
// zone offsets across each year and binary-searching transition boundaries to the minute
// (spec §4.C10: "VTIMEZONE for the request zone (DST-accurate)").
func writeVTimezone(b *strings.Builder, loc *time.Location, yrs []int) {
	fmt.Fprintf(b, "BEGIN:VTIMEZONE\r\n")
	fmt.Fprintf(b, "TZID:%s\r\n", loc.String())

	_, prevOffset := time.Date(yrs[0], 1, 1, 0, 0, 0, 0, loc).Zone()
	wroteAny := false
	for _, y := range yrs {
		for _, tr := range yearTransitions(loc, y) {
			writeTZComponent(b, tr, prevOffset)
			prevOffset = tr.offset
			wroteAny = true
		}
	}

	// Zones with no detected transitions within the covered years (e.g. UTC, fixed-offset
	// zones) still need one STANDARD component describing the constant offset.
	if !wroteAny {
		name, offset := time.Date(yrs[0], 1, 1, 0, 0, 0, 0, loc).Zone()
		writeTZComponent(b, transition{at: time.Date(yrs[0], 1, 1, 0, 0, 0, 0, time.UTC), name: name, offset: offset}, offset)
	}

	b.WriteString("END:VTIMEZONE\r\n")
}

func writeTZComponent(b *strings.Builder, tr transition, fromOffset int) {
	kind := "STANDARD"
	if tr.isDST {
		kind = "DAYLIGHT"
	}
	fmt.Fprintf(b, "BEGIN:%s\r\n", kind)
	fmt.Fprintf(b, "DTSTART:%s\r\n", tr.at.Format("20060102T150405"))
	fmt.Fprintf(b, "TZOFFSETFROM:%s\r\n", formatOffset(fromOffset))
	fmt.Fprintf(b, "TZOFFSETTO:%s\r\n", formatOffset(tr.offset))
	fmt.Fprintf(b, "TZNAME:%s\r\n", tr.name)
	fmt.Fprintf(b, "END:%s\r\n", kind)
}

func formatOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	return fmt.Sprintf("%s%02d%02d", sign, h, m)
}

// yearTransitions finds all offset/name changes for loc within [Jan 1, Jan 1 next year),
// coarse-scanning in 24h steps and refining each change to minute precision by binary
// search. Fixed-offset zones (UTC, Etc/*) yield no transitions.
func yearTransitions(loc *time.Location, year int) []transition {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, loc)
	end := time.Date(year+1, 1, 1, 0, 0, 0, 0, loc)

	var out []transition
	prevName, prevOffset := start.Zone()
	cur := start
	for cur.Before(end) {
		next := cur.AddDate(0, 0, 1)
		if next.After(end) {
			next = end
		}
		name, offset := next.Zone()
		if name != prevName || offset != prevOffset {
			at := binarySearchTransition(cur, next)
			_, afterOffset := at.Zone()
			out = append(out, transition{at: at, name: name, offset: afterOffset, isDST: isDaylight(loc, at, offset, prevOffset)})
			prevName, prevOffset = name, offset
		}
		cur = next
	}
	return out
}

// binarySearchTransition narrows [lo, hi) to the minute-precision instant where the zone
// changes, given that zone(lo) != zone(hi).
func binarySearchTransition(lo, hi time.Time) time.Time {
	_, loOffset := lo.Zone()
	for hi.Sub(lo) > time.Minute {
		mid := lo.Add(hi.Sub(lo) / 2)
		_, midOffset := mid.Zone()
		if midOffset == loOffset {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

// isDaylight heuristically reports whether the transition at `at` enters daylight time: the
// new offset is ahead of the offset in effect 200 days earlier, or ahead of the offset it
// replaces.
func isDaylight(loc *time.Location, at time.Time, newOffset, prevOffset int) bool {
	winterOffset := at.AddDate(0, 0, -200).In(loc)
	_, wo := winterOffset.Zone()
	return newOffset > wo || newOffset > prevOffset
}
