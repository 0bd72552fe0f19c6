// Package planning implements the normalization, shifting, payday projection, risk
// detection, and action/summary generation pipeline (spec §4.C6-C9).
package planning

import "time"

// ShiftReason enumerates why a due date moved (spec §3 ShiftedInstallment).
type ShiftReason string

// Reasons a date may be shifted forward, in priority order when several could apply.
const (
	ShiftNone    ShiftReason = ""
	ShiftWeekend ShiftReason = "WEEKEND"
	ShiftHoliday ShiftReason = "HOLIDAY"
	ShiftCustom  ShiftReason = "CUSTOM"
)

// Installment is the canonical, normalized input payment record (spec §3).
type Installment struct {
	Provider      string
	InstallmentNo int
	DueDate       time.Time // date-only, in the request's timezone
	AmountCents   int64     // signed; negative denotes a refund (spec §9 open question)
	Currency      string
	Autopay       bool
	LateFeeCents  int64
}

// ShiftedInstallment extends Installment with business-day shift bookkeeping. DueDate holds
// the shifted date once C6 has run; OriginalDueDate is retained for display and ICS
// annotation (spec §3).
type ShiftedInstallment struct {
	Installment
	WasShifted      bool
	OriginalDueDate time.Time
	ShiftReason     ShiftReason
}

// MovementRecord documents one shifted installment (spec §3), ordered by ShiftedDueDate
// then Provider.
type MovementRecord struct {
	Provider        string
	InstallmentNo   int
	OriginalDueDate time.Time
	ShiftedDueDate  time.Time
	Reason          ShiftReason
}

// PaydaySchedule is an ordered sequence of projected payday dates (spec §3), length >= 3.
type PaydaySchedule []time.Time

// Severity is a RiskFlag's urgency level (spec §3).
type Severity string

// Severity levels, ordered high to low for sorting purposes.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

var severityRank = map[Severity]int{
	SeverityHigh:   0,
	SeverityMedium: 1,
	SeverityLow:    2,
	SeverityInfo:   3,
}

// RiskKind enumerates the risk flag variants (spec §3 / §4.C8).
type RiskKind string

// Risk kinds the detector can emit.
const (
	RiskCollision      RiskKind = "COLLISION"
	RiskCashCrunch     RiskKind = "CASH_CRUNCH"
	RiskWeekendAutopay RiskKind = "WEEKEND_AUTOPAY"
	RiskShifted        RiskKind = "SHIFTED_NEXT_BUSINESS_DAY"
)

// AffectedInstallment identifies one installment a RiskFlag applies to.
type AffectedInstallment struct {
	Provider      string
	InstallmentNo int
	DueDate       time.Time
}

// RiskFlag is a detected risk on the shifted schedule (spec §3).
type RiskFlag struct {
	Kind     RiskKind
	Severity Severity
	Affected []AffectedInstallment
	Message  string
}

// Action is one weekly action-plan line item (spec §4.C9).
type Action struct {
	Provider      string
	InstallmentNo int
	DueDate       time.Time
	AmountCents   int64
	LateFeeCents  int64
	Autopay       bool
	Line          string
}
