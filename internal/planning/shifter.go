package planning

import (
	"sort"
	"time"

	"github.com/mmtuentertainment/payplan/internal/timeutil"
)

// ShiftOptions configures the business-day shifter (spec §4.C6).
type ShiftOptions struct {
	BusinessDayMode bool // default true
	Country         string // "US" or "None"
	CustomSkipDates map[string]bool // ISO YYYY-MM-DD keys
}

// ShiftInstallments advances any installment due on a non-business day to the earliest
// business day strictly at or after its due date, per the configured policy. When
// BusinessDayMode is false it is a no-op and returns no movement records (spec §8
// invariant 5).
func ShiftInstallments(items []Installment, opts ShiftOptions) ([]ShiftedInstallment, []MovementRecord) {
	out := make([]ShiftedInstallment, len(items))
	var moves []MovementRecord

	for i, it := range items {
		if !opts.BusinessDayMode {
			out[i] = ShiftedInstallment{Installment: it}
			continue
		}
		reason, blocked := blockingReason(it.DueDate, opts)
		if !blocked {
			out[i] = ShiftedInstallment{Installment: it}
			continue
		}
		cur := it.DueDate
		for {
			cur = cur.AddDate(0, 0, 1)
			if _, stillBlocked := blockingReason(cur, opts); !stillBlocked {
				break
			}
		}
		shifted := it
		shifted.DueDate = cur
		out[i] = ShiftedInstallment{
			Installment:     shifted,
			WasShifted:      true,
			OriginalDueDate: it.DueDate,
			ShiftReason:     reason,
		}
		moves = append(moves, MovementRecord{
			Provider:        it.Provider,
			InstallmentNo:   it.InstallmentNo,
			OriginalDueDate: it.DueDate,
			ShiftedDueDate:  cur,
			Reason:          reason,
		})
	}

	sort.SliceStable(moves, func(i, j int) bool {
		if !moves[i].ShiftedDueDate.Equal(moves[j].ShiftedDueDate) {
			return moves[i].ShiftedDueDate.Before(moves[j].ShiftedDueDate)
		}
		return moves[i].Provider < moves[j].Provider
	})
	return out, moves
}

// blockingReason reports the first (in spec bullet order: Saturday, Sunday, US federal
// holiday, custom skip) reason why d is not an eligible business day, per the configured
// policy (spec §4.C6).
func blockingReason(d time.Time, opts ShiftOptions) (ShiftReason, bool) {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return ShiftWeekend, true
	}
	if opts.Country == "US" && USFederalHoliday(d) {
		return ShiftHoliday, true
	}
	if opts.CustomSkipDates[timeutil.ISODate(d)] {
		return ShiftCustom, true
	}
	return ShiftNone, false
}
