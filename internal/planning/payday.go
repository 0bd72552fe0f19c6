package planning

import (
	"errors"
	"sort"
	"time"
)

// PayCadence is a supported recurring pay schedule (spec §4.C7).
type PayCadence string

// Supported cadences.
const (
	CadenceWeekly      PayCadence = "weekly"
	CadenceBiweekly    PayCadence = "biweekly"
	CadenceSemimonthly PayCadence = "semimonthly"
	CadenceMonthly     PayCadence = "monthly"
)

// ErrInsufficientPaycheckDates is returned when an explicit paycheckDates list has fewer
// than 3 entries (spec §4.C7: "exactly one of { paycheckDates[]>=3 } or { payCadence,
// nextPayday }").
var ErrInsufficientPaycheckDates = errors.New("paycheckDates must contain at least 3 dates")

// ErrUnsupportedCadence is returned for a payCadence value outside the supported set.
var ErrUnsupportedCadence = errors.New("unsupported pay cadence")

const (
	minProjectedPaydays = 3
	maxProjectedPaydays = 6
)

// PaydayOptions selects one of the two payday projection sources (spec §4.C7).
type PaydayOptions struct {
	PaycheckDates []time.Time
	PayCadence    PayCadence
	NextPayday    time.Time
}

// ProjectPaydays returns 3-6 ordered future paydays. When PaycheckDates is supplied it is
// sorted, deduplicated, and capped; otherwise paydays are generated forward from NextPayday
// at the given cadence (spec §4.C7).
func ProjectPaydays(opts PaydayOptions) (PaydaySchedule, error) {
	if len(opts.PaycheckDates) > 0 {
		return explicitSchedule(opts.PaycheckDates)
	}
	return generatedSchedule(opts.PayCadence, opts.NextPayday)
}

func explicitSchedule(dates []time.Time) (PaydaySchedule, error) {
	if len(dates) < minProjectedPaydays {
		return nil, ErrInsufficientPaycheckDates
	}
	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	out := make(PaydaySchedule, 0, len(sorted))
	for i, d := range sorted {
		if i > 0 && d.Equal(sorted[i-1]) {
			continue
		}
		out = append(out, d)
		if len(out) == maxProjectedPaydays {
			break
		}
	}
	if len(out) < minProjectedPaydays {
		return nil, ErrInsufficientPaycheckDates
	}
	return out, nil
}

func generatedSchedule(cadence PayCadence, next time.Time) (PaydaySchedule, error) {
	out := make(PaydaySchedule, 0, maxProjectedPaydays)
	cur := next
	for len(out) < maxProjectedPaydays {
		out = append(out, cur)
		var err error
		cur, err = advance(cadence, cur)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func advance(cadence PayCadence, d time.Time) (time.Time, error) {
	switch cadence {
	case CadenceWeekly:
		return d.AddDate(0, 0, 7), nil
	case CadenceBiweekly:
		return d.AddDate(0, 0, 14), nil
	case CadenceSemimonthly:
		return nextSemimonthly(d), nil
	case CadenceMonthly:
		return addMonthClamped(d, 1), nil
	default:
		return time.Time{}, ErrUnsupportedCadence
	}
}

// nextSemimonthly returns the next payday in a 1st-and-15th-of-month schedule strictly
// after d.
func nextSemimonthly(d time.Time) time.Time {
	y, m, _ := d.Date()
	if d.Day() < 15 {
		return time.Date(y, m, 15, 0, 0, 0, 0, d.Location())
	}
	nm := time.Date(y, m, 1, 0, 0, 0, 0, d.Location()).AddDate(0, 1, 0)
	return time.Date(nm.Year(), nm.Month(), 1, 0, 0, 0, 0, d.Location())
}

// addMonthClamped adds months to d, clamping the day-of-month to the last valid day of the
// target month (e.g. Jan 31 + 1 month -> Feb 28/29).
func addMonthClamped(d time.Time, months int) time.Time {
	y, m, day := d.Date()
	total := int(m) - 1 + months
	ty := y + total/12
	tm := time.Month(total%12) + 1
	last := lastDayOfMonth(ty, tm)
	if day > last {
		day = last
	}
	return time.Date(ty, tm, day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

func lastDayOfMonth(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
