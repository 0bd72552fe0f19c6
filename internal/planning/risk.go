package planning

import (
	"sort"
	"time"
)

const cashCrunchHighThresholdCents = 25000 // $250, spec §4.C8

// DetectRisks evaluates the shifted schedule and projected paydays, returning risk flags
// ordered high -> medium -> low -> info, stable within a severity by affected due date
// (spec §4.C8).
func DetectRisks(items []ShiftedInstallment, paydays PaydaySchedule, minBufferCents int64) []RiskFlag {
	var flags []RiskFlag
	flags = append(flags, collisionFlags(items)...)
	flags = append(flags, cashCrunchFlags(items, paydays, minBufferCents)...)
	flags = append(flags, weekendAutopayFlags(items)...)
	flags = append(flags, shiftedFlags(items)...)

	sort.SliceStable(flags, func(i, j int) bool {
		ri, rj := severityRank[flags[i].Severity], severityRank[flags[j].Severity]
		if ri != rj {
			return ri < rj
		}
		return earliestAffected(flags[i]).Before(earliestAffected(flags[j]))
	})
	return flags
}

// earliestAffected returns the earliest DueDate among a flag's affected installments, the
// tiebreaker §4.C8 specifies for ordering within a severity.
func earliestAffected(f RiskFlag) time.Time {
	earliest := f.Affected[0].DueDate
	for _, a := range f.Affected[1:] {
		if a.DueDate.Before(earliest) {
			earliest = a.DueDate
		}
	}
	return earliest
}

func collisionFlags(items []ShiftedInstallment) []RiskFlag {
	byDate := map[string][]ShiftedInstallment{}
	var order []string
	for _, it := range items {
		key := it.DueDate.Format("2006-01-02")
		if _, seen := byDate[key]; !seen {
			order = append(order, key)
		}
		byDate[key] = append(byDate[key], it)
	}
	sort.Strings(order)

	var flags []RiskFlag
	for _, key := range order {
		group := byDate[key]
		if len(group) < 2 {
			continue
		}
		sev := SeverityMedium
		if len(group) >= 3 {
			sev = SeverityHigh
		}
		flags = append(flags, RiskFlag{
			Kind:     RiskCollision,
			Severity: sev,
			Affected: affectedOf(group),
			Message:  "Multiple payments due " + key,
		})
	}
	return flags
}

func cashCrunchFlags(items []ShiftedInstallment, paydays PaydaySchedule, minBufferCents int64) []RiskFlag {
	var flags []RiskFlag
	for _, payday := range paydays {
		windowStart := payday.AddDate(0, 0, -3)
		windowEnd := payday.AddDate(0, 0, 3)
		var sum int64
		var affected []ShiftedInstallment
		for _, it := range items {
			if it.AmountCents < 0 {
				continue // refunds do not contribute to cash-crunch exposure
			}
			if it.DueDate.Before(windowStart) || it.DueDate.After(windowEnd) {
				continue
			}
			sum += it.AmountCents
			affected = append(affected, it)
		}
		overage := sum - minBufferCents
		if overage <= 0 {
			continue
		}
		sev := SeverityMedium
		if overage >= cashCrunchHighThresholdCents {
			sev = SeverityHigh
		}
		flags = append(flags, RiskFlag{
			Kind:     RiskCashCrunch,
			Severity: sev,
			Affected: affectedOf(affected),
			Message:  "Payments near payday " + payday.Format("2006-01-02") + " exceed buffer",
		})
	}
	return flags
}

func weekendAutopayFlags(items []ShiftedInstallment) []RiskFlag {
	var flags []RiskFlag
	for _, it := range items {
		if !it.Autopay || it.WasShifted {
			continue
		}
		wd := it.DueDate.Weekday()
		if wd != 0 && wd != 6 { // Sunday=0, Saturday=6
			continue
		}
		flags = append(flags, RiskFlag{
			Kind:     RiskWeekendAutopay,
			Severity: SeverityMedium,
			Affected: affectedOf([]ShiftedInstallment{it}),
			Message:  "Autopay scheduled on a weekend for " + it.Provider,
		})
	}
	return flags
}

func shiftedFlags(items []ShiftedInstallment) []RiskFlag {
	var flags []RiskFlag
	for _, it := range items {
		if !it.WasShifted {
			continue
		}
		flags = append(flags, RiskFlag{
			Kind:     RiskShifted,
			Severity: SeverityInfo,
			Affected: affectedOf([]ShiftedInstallment{it}),
			Message:  it.Provider + " installment shifted to the next business day",
		})
	}
	return flags
}

func affectedOf(items []ShiftedInstallment) []AffectedInstallment {
	out := make([]AffectedInstallment, len(items))
	for i, it := range items {
		out[i] = AffectedInstallment{Provider: it.Provider, InstallmentNo: it.InstallmentNo, DueDate: it.DueDate}
	}
	return out
}
