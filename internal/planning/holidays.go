package planning

import "time"

// USFederalHoliday reports whether t (interpreted as a date in its own location) is a US
// federal holiday, including the standard Friday/Monday observance shift for holidays whose
// fixed date falls on a weekend (spec §4.C6: "is US federal holiday (when country=US)").
func USFederalHoliday(t time.Time) bool {
	y, m, d := t.Date()
	switch {
	case observes(y, m, d, time.January, 1):
		return true
	case m == time.December && d == 31 && time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC).Weekday() == time.Saturday:
		return true // New Year's Day of the next year, observed on this Friday
	case m == time.January && isNthWeekday(t, time.Monday, 3):
		return true // Martin Luther King Jr. Day
	case m == time.February && isNthWeekday(t, time.Monday, 3):
		return true // Washington's Birthday
	case m == time.May && isLastWeekday(t, time.Monday):
		return true // Memorial Day
	case observes(y, m, d, time.June, 19):
		return true // Juneteenth
	case observes(y, m, d, time.July, 4):
		return true // Independence Day
	case m == time.September && isNthWeekday(t, time.Monday, 1):
		return true // Labor Day
	case m == time.October && isNthWeekday(t, time.Monday, 2):
		return true // Columbus Day
	case observes(y, m, d, time.November, 11):
		return true // Veterans Day
	case m == time.November && isNthWeekday(t, time.Thursday, 4):
		return true // Thanksgiving
	case observes(y, m, d, time.December, 25):
		return true // Christmas Day
	}
	return false
}

// observes reports whether date (y, m, d) is the observed date of a fixed holiday falling
// on (y, wantMonth, wantDay): the holiday itself, or the preceding Friday (if the holiday
// falls on Saturday) or following Monday (if it falls on Sunday).
func observes(y int, m time.Month, d int, wantMonth time.Month, wantDay int) bool {
	fixed := time.Date(y, wantMonth, wantDay, 0, 0, 0, 0, time.UTC)
	candidate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch fixed.Weekday() {
	case time.Saturday:
		return candidate.Equal(fixed.AddDate(0, 0, -1))
	case time.Sunday:
		return candidate.Equal(fixed.AddDate(0, 0, 1))
	default:
		return candidate.Equal(fixed)
	}
}

// isNthWeekday reports whether t is the nth occurrence of weekday within t's month.
func isNthWeekday(t time.Time, weekday time.Weekday, n int) bool {
	if t.Weekday() != weekday {
		return false
	}
	return (t.Day()-1)/7+1 == n
}

// isLastWeekday reports whether t is the last occurrence of weekday within t's month.
func isLastWeekday(t time.Time, weekday time.Weekday) bool {
	if t.Weekday() != weekday {
		return false
	}
	return t.AddDate(0, 0, 7).Month() != t.Month()
}
