package planning

import (
	"strings"
	"testing"
	"time"
)

func TestPrioritizeActions_FiltersToCurrentISOWeekAndSorts(t *testing.T) {
	reference := time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC) // Thursday, week of Sep 29 - Oct 5
	items := []ShiftedInstallment{
		{Installment: Installment{Provider: "Klarna", InstallmentNo: 1, DueDate: time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), AmountCents: 1000, LateFeeCents: 0}},
		{Installment: Installment{Provider: "Affirm", InstallmentNo: 1, DueDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), AmountCents: 5000, LateFeeCents: 700}},
		{Installment: Installment{Provider: "Sezzle", InstallmentNo: 1, DueDate: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), AmountCents: 2000, LateFeeCents: 0}}, // outside the week
	}
	actions := PrioritizeActions(items, reference, nil)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions within the ISO week, got %d: %+v", len(actions), actions)
	}
	if actions[0].Provider != "Affirm" {
		t.Fatalf("expected the item with a late fee to sort first, got %s", actions[0].Provider)
	}
}

func TestPrioritizeActions_LineIncludesRisk(t *testing.T) {
	reference := time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)
	items := []ShiftedInstallment{
		{Installment: Installment{Provider: "Klarna", InstallmentNo: 1, DueDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), AmountCents: 1000}},
	}
	risks := []RiskFlag{
		{Kind: RiskCollision, Severity: SeverityHigh, Message: "Multiple payments due 2025-10-01",
			Affected: []AffectedInstallment{{Provider: "Klarna", InstallmentNo: 1}}},
	}
	actions := PrioritizeActions(items, reference, risks)
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if !strings.Contains(actions[0].Line, "[HIGH]") {
		t.Fatalf("expected action line to include risk annotation, got %q", actions[0].Line)
	}
}

func TestGenerateSummary_BulletCountWithinBounds(t *testing.T) {
	actions := []Action{{Provider: "Klarna", Line: "Klarna installment #1: $10.00 due 2025-10-01"}}
	risks := []RiskFlag{
		{Kind: RiskShifted, Severity: SeverityInfo, Message: "Klarna installment shifted"},
	}
	bullets := GenerateSummary(actions, risks)
	if len(bullets) < minSummaryBullets || len(bullets) > maxSummaryBullets {
		t.Fatalf("expected between %d and %d bullets, got %d: %v", minSummaryBullets, maxSummaryBullets, len(bullets), bullets)
	}
}

func TestGenerateSummary_NoActionsStillProducesBullets(t *testing.T) {
	bullets := GenerateSummary(nil, nil)
	if len(bullets) < minSummaryBullets {
		t.Fatalf("expected at least %d bullets even with no actions, got %d", minSummaryBullets, len(bullets))
	}
}

func TestFormatRiskFlag_SeverityPrefix(t *testing.T) {
	line := FormatRiskFlag(RiskFlag{Severity: SeverityMedium, Message: "test message"})
	if line != "[MEDIUM] test message" {
		t.Fatalf("unexpected format: %q", line)
	}
}
