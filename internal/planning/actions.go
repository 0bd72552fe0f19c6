package planning

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmtuentertainment/payplan/internal/timeutil"
)

const (
	minSummaryBullets = 3
	maxSummaryBullets = 8
)

// PrioritizeActions selects installments whose shifted due date falls within the current
// ISO week (Mon-Sun) relative to reference, and sorts them by late fee descending, then
// amount ascending (spec §4.C9).
func PrioritizeActions(items []ShiftedInstallment, reference time.Time, risks []RiskFlag) []Action {
	riskByKey := map[string][]RiskFlag{}
	for _, r := range risks {
		for _, a := range r.Affected {
			key := actionKey(a.Provider, a.InstallmentNo)
			riskByKey[key] = append(riskByKey[key], r)
		}
	}

	var thisWeek []ShiftedInstallment
	for _, it := range items {
		if timeutil.InISOWeek(it.DueDate, reference) {
			thisWeek = append(thisWeek, it)
		}
	}
	sort.SliceStable(thisWeek, func(i, j int) bool {
		if thisWeek[i].LateFeeCents != thisWeek[j].LateFeeCents {
			return thisWeek[i].LateFeeCents > thisWeek[j].LateFeeCents
		}
		return thisWeek[i].AmountCents < thisWeek[j].AmountCents
	})

	out := make([]Action, 0, len(thisWeek))
	for _, it := range thisWeek {
		a := Action{
			Provider:      it.Provider,
			InstallmentNo: it.InstallmentNo,
			DueDate:       it.DueDate,
			AmountCents:   it.AmountCents,
			LateFeeCents:  it.LateFeeCents,
			Autopay:       it.Autopay,
		}
		a.Line = actionLine(it, riskByKey[actionKey(it.Provider, it.InstallmentNo)])
		out = append(out, a)
	}
	return out
}

func actionKey(provider string, installmentNo int) string {
	return fmt.Sprintf("%s#%d", provider, installmentNo)
}

func actionLine(it ShiftedInstallment, risks []RiskFlag) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s installment #%d: %s due %s", it.Provider, it.InstallmentNo, formatCents(it.AmountCents), timeutil.ISODate(it.DueDate))
	switch {
	case it.LateFeeCents > 0:
		fmt.Fprintf(&b, " (late fee %s if missed)", formatCents(it.LateFeeCents))
	case it.Autopay:
		b.WriteString(" (autopay)")
	case it.WasShifted:
		fmt.Fprintf(&b, " (shifted from %s)", timeutil.ISODate(it.OriginalDueDate))
	}
	if len(risks) > 0 {
		fmt.Fprintf(&b, " - %s", FormatRiskFlag(risks[0]))
	}
	return b.String()
}

// FormatRiskFlag renders a RiskFlag as a severity-prefixed display string (spec §4.C9:
// "Format risk flags as display strings with severity prefixes").
func FormatRiskFlag(r RiskFlag) string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(r.Severity)), r.Message)
}

// GenerateSummary produces a 3-8 bullet plain-text summary of this week's actions and the
// detected risks (spec §4.C9).
func GenerateSummary(actions []Action, risks []RiskFlag) []string {
	var bullets []string

	if len(actions) == 0 {
		bullets = append(bullets, "No payments are due this week.")
	} else {
		var total int64
		for _, a := range actions {
			total += a.AmountCents
		}
		bullets = append(bullets, fmt.Sprintf("%d payment(s) due this week totaling %s.", len(actions), formatCents(total)))
		for _, a := range actions {
			if len(bullets) >= maxSummaryBullets {
				break
			}
			bullets = append(bullets, a.Line)
		}
	}

	for _, r := range risks {
		if len(bullets) >= maxSummaryBullets {
			break
		}
		bullets = append(bullets, FormatRiskFlag(r))
	}

	for len(bullets) < minSummaryBullets {
		bullets = append(bullets, "No additional risks were detected.")
	}
	if len(bullets) > maxSummaryBullets {
		bullets = bullets[:maxSummaryBullets]
	}
	return bullets
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
