package planapi

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mmtuentertainment/payplan/internal/ics"
	"github.com/mmtuentertainment/payplan/internal/planning"
	"github.com/mmtuentertainment/payplan/internal/timeutil"
)

// ErrNoPaydaySource is returned when neither paycheckDates nor payCadence+nextPayday is
// present (spec §4.C15 step 7: "paydays source present").
var ErrNoPaydaySource = errors.New("request must supply either paycheckDates or payCadence+nextPayday")

// ValidationFieldError pairs a field name with why it failed validation, so the handler
// can build a Problem Details "detail" pointing at the offending field (spec §4.C14).
type ValidationFieldError struct {
	Field  string
	Detail string
}

func (e *ValidationFieldError) Error() string { return e.Field + ": " + e.Detail }

// validatePlanFields runs the semantic checks struct tags can't express (spec §4.C15 step
// 7): timezone validity, a non-negative minBuffer, and at least one paydays source
// (paycheckDates or payCadence/nextPayday; both may be present).
func validatePlanFields(req *PlanRequest) (*time.Location, error) {
	loc, err := timeutil.ValidateTimezone(req.TimeZone)
	if err != nil {
		return nil, &ValidationFieldError{Field: "timeZone", Detail: err.Error()}
	}
	if req.MinBuffer < 0 {
		return nil, &ValidationFieldError{Field: "minBuffer", Detail: "must be >= 0"}
	}
	hasExplicit := len(req.PaycheckDates) > 0
	hasCadence := req.PayCadence != "" || req.NextPayday != ""
	if !hasExplicit && !hasCadence {
		return nil, &ValidationFieldError{Field: "paycheckDates", Detail: ErrNoPaydaySource.Error()}
	}
	return loc, nil
}

// toCents converts a decimal dollar amount to signed integer cents, rounding to the
// nearest cent (negative amounts denote refunds, spec §9).
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// normalizeItems converts the request's items into planning.Installment, in the request's
// timezone (spec §4.C15 step 8 "normalize").
func normalizeItems(items []ItemRequest, loc *time.Location) ([]planning.Installment, error) {
	out := make([]planning.Installment, len(items))
	for i, it := range items {
		due, err := timeutil.ParseISODate(it.DueDate, loc)
		if err != nil {
			return nil, &ValidationFieldError{Field: fmt.Sprintf("items[%d].due_date", i), Detail: err.Error()}
		}
		currency := it.Currency
		if currency == "" {
			currency = "USD"
		}
		out[i] = planning.Installment{
			Provider:      it.Provider,
			InstallmentNo: it.InstallmentNo,
			DueDate:       due,
			AmountCents:   toCents(it.Amount),
			Currency:      currency,
			Autopay:       it.Autopay,
			LateFeeCents:  toCents(it.LateFee),
		}
	}
	return out, nil
}

func parseDates(dates []string, loc *time.Location) ([]time.Time, error) {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		t, err := timeutil.ParseISODate(d, loc)
		if err != nil {
			return nil, &ValidationFieldError{Field: fmt.Sprintf("paycheckDates[%d]", i), Detail: err.Error()}
		}
		out[i] = t
	}
	return out, nil
}

func projectPaydays(req *PlanRequest, loc *time.Location) (planning.PaydaySchedule, error) {
	opts := planning.PaydayOptions{}
	if len(req.PaycheckDates) > 0 {
		dates, err := parseDates(req.PaycheckDates, loc)
		if err != nil {
			return nil, err
		}
		opts.PaycheckDates = dates
	} else {
		opts.PayCadence = planning.PayCadence(req.PayCadence)
		if req.NextPayday != "" {
			next, err := timeutil.ParseISODate(req.NextPayday, loc)
			if err != nil {
				return nil, &ValidationFieldError{Field: "nextPayday", Detail: err.Error()}
			}
			opts.NextPayday = next
		}
	}
	sched, err := planning.ProjectPaydays(opts)
	if err != nil {
		return nil, &ValidationFieldError{Field: "payCadence", Detail: err.Error()}
	}
	return sched, nil
}

func customSkipSet(dates []string) map[string]bool {
	out := make(map[string]bool, len(dates))
	for _, d := range dates {
		out[d] = true
	}
	return out
}

// RunPipeline executes normalize -> shift -> project paydays -> detect risks ->
// prioritize actions -> generate summary -> generate ICS -> normalize output
// (spec §4.C15 step 8), given the already-field-validated request and its timezone.
func RunPipeline(req *PlanRequest, loc *time.Location, now time.Time) (*PlanResponse, error) {
	items, err := normalizeItems(req.Items, loc)
	if err != nil {
		return nil, err
	}

	shiftOpts := planning.ShiftOptions{
		BusinessDayMode: req.businessDayMode(),
		Country:         req.country(),
		CustomSkipDates: customSkipSet(req.CustomSkipDates),
	}
	shifted, moves := planning.ShiftInstallments(items, shiftOpts)

	paydays, err := projectPaydays(req, loc)
	if err != nil {
		return nil, err
	}

	minBufferCents := toCents(req.MinBuffer)
	risks := planning.DetectRisks(shifted, paydays, minBufferCents)
	actions := planning.PrioritizeActions(shifted, now, risks)
	summary := planning.GenerateSummary(actions, risks)

	events := make([]ics.Event, 0, len(actions))
	for _, a := range actions {
		riskLines := riskLinesFor(a, risks)
		shiftedItem := shiftedOf(shifted, a.Provider, a.InstallmentNo)
		events = append(events, ics.Event{
			Provider:        a.Provider,
			InstallmentNo:   a.InstallmentNo,
			AmountCents:     a.AmountCents,
			DueDate:         a.DueDate,
			WasShifted:      shiftedItem.WasShifted,
			OriginalDueDate: shiftedItem.OriginalDueDate,
			RiskLines:       riskLines,
		})
	}
	icsBase64 := ics.GenerateBase64(events, loc, true)

	return &PlanResponse{
		Summary:         summary,
		ActionsThisWeek: toActionResponses(actions),
		RiskFlags:       toRiskFlagResponses(risks),
		ICS:             icsBase64,
		Normalized:      toNormalizedItems(shifted),
		MovedDates:      toMovedDates(moves),
	}, nil
}

func shiftedOf(items []planning.ShiftedInstallment, provider string, installmentNo int) planning.ShiftedInstallment {
	for _, it := range items {
		if it.Provider == provider && it.InstallmentNo == installmentNo {
			return it
		}
	}
	return planning.ShiftedInstallment{}
}

func riskLinesFor(a planning.Action, risks []planning.RiskFlag) []string {
	var lines []string
	for _, r := range risks {
		for _, aff := range r.Affected {
			if aff.Provider == a.Provider && aff.InstallmentNo == a.InstallmentNo {
				lines = append(lines, planning.FormatRiskFlag(r))
				break
			}
		}
	}
	return lines
}

func toActionResponses(actions []planning.Action) []ActionResponse {
	out := make([]ActionResponse, len(actions))
	for i, a := range actions {
		out[i] = ActionResponse{
			Provider:      a.Provider,
			InstallmentNo: a.InstallmentNo,
			DueDate:       timeutil.ISODate(a.DueDate),
			Line:          a.Line,
		}
	}
	return out
}

func toRiskFlagResponses(risks []planning.RiskFlag) []RiskFlagResponse {
	out := make([]RiskFlagResponse, len(risks))
	for i, r := range risks {
		out[i] = RiskFlagResponse{Kind: string(r.Kind), Severity: string(r.Severity), Message: r.Message}
	}
	return out
}

func toNormalizedItems(items []planning.ShiftedInstallment) []NormalizedItem {
	out := make([]NormalizedItem, len(items))
	for i, it := range items {
		n := NormalizedItem{
			Provider:      it.Provider,
			InstallmentNo: it.InstallmentNo,
			DueDate:       timeutil.ISODate(it.DueDate),
			WasShifted:    it.WasShifted,
			AmountCents:   it.AmountCents,
			Currency:      it.Currency,
			Autopay:       it.Autopay,
			LateFeeCents:  it.LateFeeCents,
		}
		if it.WasShifted {
			n.OriginalDueDate = timeutil.ISODate(it.OriginalDueDate)
			n.ShiftReason = string(it.ShiftReason)
		}
		out[i] = n
	}
	return out
}

func toMovedDates(moves []planning.MovementRecord) []MovedDate {
	out := make([]MovedDate, len(moves))
	for i, m := range moves {
		out[i] = MovedDate{
			Provider:        m.Provider,
			InstallmentNo:   m.InstallmentNo,
			OriginalDueDate: timeutil.ISODate(m.OriginalDueDate),
			ShiftedDueDate:  timeutil.ISODate(m.ShiftedDueDate),
			Reason:          string(m.Reason),
		}
	}
	return out
}
