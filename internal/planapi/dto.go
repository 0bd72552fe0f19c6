// Package planapi wires the planning pipeline (internal/planning, internal/ics) to the
// HTTP plan handler (spec §4.C15), grounded on the teacher's feature-handler layout
// (features/presets/presentation/{dto,handlers}).
package planapi

// ItemRequest is one BNPL installment as submitted in a plan request.
type ItemRequest struct {
	Provider      string  `json:"provider" validate:"required"`
	InstallmentNo int     `json:"installment_no" validate:"required,min=1"`
	DueDate       string  `json:"due_date" validate:"required"`
	Amount        float64 `json:"amount" validate:"required"`
	Currency      string  `json:"currency"`
	Autopay       bool    `json:"autopay"`
	LateFee       float64 `json:"late_fee"`
}

// PlanRequest is the POST /api/plan request body (spec §6 HTTP).
type PlanRequest struct {
	Items           []ItemRequest      `json:"items" validate:"required,min=1,dive"`
	PaycheckDates   []string           `json:"paycheckDates"`
	PayCadence      string             `json:"payCadence"`
	NextPayday      string             `json:"nextPayday"`
	MinBuffer       float64            `json:"minBuffer" validate:"min=0"`
	TimeZone        string             `json:"timeZone" validate:"required"`
	BusinessDayMode *bool              `json:"businessDayMode"`
	Country         string             `json:"country"`
	CustomSkipDates []string           `json:"customSkipDates"`
}

// businessDayMode returns the request's BusinessDayMode, defaulting to true when absent
// (spec §6: "businessDayMode: bool = true").
func (r *PlanRequest) businessDayMode() bool {
	if r.BusinessDayMode == nil {
		return true
	}
	return *r.BusinessDayMode
}

// country returns the request's Country, defaulting to "US" when absent (spec §6).
func (r *PlanRequest) country() string {
	if r.Country == "" {
		return "US"
	}
	return r.Country
}

// NormalizedItem mirrors a ShiftedInstallment in the response's wire shape.
type NormalizedItem struct {
	Provider        string `json:"provider"`
	InstallmentNo   int    `json:"installment_no"`
	DueDate         string `json:"due_date"`
	OriginalDueDate string `json:"original_due_date,omitempty"`
	WasShifted      bool   `json:"was_shifted"`
	ShiftReason     string `json:"shift_reason,omitempty"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
	Autopay         bool   `json:"autopay"`
	LateFeeCents    int64  `json:"late_fee_cents"`
}

// MovedDate mirrors a planning.MovementRecord in the response's wire shape.
type MovedDate struct {
	Provider        string `json:"provider"`
	InstallmentNo   int    `json:"installment_no"`
	OriginalDueDate string `json:"original_due_date"`
	ShiftedDueDate  string `json:"shifted_due_date"`
	Reason          string `json:"reason"`
}

// RiskFlagResponse mirrors a planning.RiskFlag in the response's wire shape.
type RiskFlagResponse struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ActionResponse mirrors a planning.Action in the response's wire shape.
type ActionResponse struct {
	Provider      string `json:"provider"`
	InstallmentNo int    `json:"installment_no"`
	DueDate       string `json:"due_date"`
	Line          string `json:"line"`
}

// PlanResponse is the POST /api/plan 200 response body (spec §6 HTTP, §4.C15 step 10).
type PlanResponse struct {
	Summary         []string           `json:"summary"`
	ActionsThisWeek []ActionResponse   `json:"actionsThisWeek"`
	RiskFlags       []RiskFlagResponse `json:"riskFlags"`
	ICS             string             `json:"ics"`
	Normalized      []NormalizedItem   `json:"normalized"`
	MovedDates      []MovedDate        `json:"movedDates,omitempty"`
}
