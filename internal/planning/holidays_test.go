package planning

import (
	"testing"
	"time"
)

func TestUSFederalHoliday(t *testing.T) {
	cases := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},    // New Year's Day
		{time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC), true},  // Thanksgiving (4th Thursday)
		{time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC), false}, // day after Thanksgiving
		{time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), true},  // Christmas
		{time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), true},   // Juneteenth
		{time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), true},    // Independence Day (Friday)
		{time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), true},    // Labor Day (1st Monday)
		{time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), false},  // plain Saturday, not a holiday itself
	}
	for _, c := range cases {
		if got := USFederalHoliday(c.date); got != c.want {
			t.Errorf("USFederalHoliday(%s) = %v, want %v", c.date.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestUSFederalHoliday_WeekendObservance(t *testing.T) {
	// July 4, 2026 is a Saturday; observed Friday July 3.
	if !USFederalHoliday(time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected July 3 2026 (observed July 4th) to be a holiday")
	}
	if USFederalHoliday(time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("the actual Saturday date itself is not separately flagged")
	}
}
