package planning

import (
	"testing"
	"time"
)

func shiftedOf(provider string, no int, due time.Time, amountCents, lateFeeCents int64, autopay bool) ShiftedInstallment {
	return ShiftedInstallment{Installment: Installment{
		Provider: provider, InstallmentNo: no, DueDate: due,
		AmountCents: amountCents, LateFeeCents: lateFeeCents, Autopay: autopay,
	}}
}

func TestDetectRisks_Collision(t *testing.T) {
	due := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	items := []ShiftedInstallment{
		shiftedOf("Klarna", 1, due, 1000, 0, false),
		shiftedOf("Affirm", 1, due, 2000, 0, false),
	}
	flags := DetectRisks(items, nil, 0)
	if len(flags) != 1 || flags[0].Kind != RiskCollision || flags[0].Severity != SeverityMedium {
		t.Fatalf("expected one medium COLLISION flag, got %+v", flags)
	}
}

func TestDetectRisks_CollisionHighAtThreeOrMore(t *testing.T) {
	due := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	items := []ShiftedInstallment{
		shiftedOf("Klarna", 1, due, 1000, 0, false),
		shiftedOf("Affirm", 1, due, 2000, 0, false),
		shiftedOf("Sezzle", 1, due, 1500, 0, false),
	}
	flags := DetectRisks(items, nil, 0)
	if len(flags) != 1 || flags[0].Severity != SeverityHigh {
		t.Fatalf("expected high severity at 3+ collisions, got %+v", flags)
	}
}

func TestDetectRisks_CashCrunch(t *testing.T) {
	payday := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	items := []ShiftedInstallment{
		shiftedOf("Klarna", 1, payday.AddDate(0, 0, -1), 30000, 0, false),
		shiftedOf("Affirm", 1, payday.AddDate(0, 0, 2), 40000, 0, false),
	}
	flags := DetectRisks(items, PaydaySchedule{payday}, 10000)
	var found bool
	for _, f := range flags {
		if f.Kind == RiskCashCrunch {
			found = true
			if f.Severity != SeverityHigh {
				t.Errorf("expected high severity for $600 overage, got %v", f.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("expected a CASH_CRUNCH flag, got %+v", flags)
	}
}

func TestDetectRisks_CashCrunch_NegativeAmountsExcluded(t *testing.T) {
	payday := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	items := []ShiftedInstallment{
		shiftedOf("Klarna", 1, payday, 5000, 0, false),
		shiftedOf("Klarna", 2, payday, -20000, 0, false), // refund, must not offset the crunch calc
	}
	flags := DetectRisks(items, PaydaySchedule{payday}, 1000)
	found := false
	for _, f := range flags {
		if f.Kind == RiskCashCrunch {
			found = true
		}
	}
	if !found {
		t.Fatalf("refund should not suppress a cash crunch by netting out: %+v", flags)
	}
}

func TestDetectRisks_WeekendAutopaySuppressedWhenShifted(t *testing.T) {
	weekendDue := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC) // Saturday
	unshifted := shiftedOf("Affirm", 1, weekendDue, 1000, 0, true)
	shiftedItem := shiftedOf("Klarna", 2, weekendDue.AddDate(0, 0, 2), 1000, 0, true)
	shiftedItem.WasShifted = true
	shiftedItem.OriginalDueDate = weekendDue

	flags := DetectRisks([]ShiftedInstallment{unshifted, shiftedItem}, nil, 0)
	var weekendCount int
	for _, f := range flags {
		if f.Kind == RiskWeekendAutopay {
			weekendCount++
		}
	}
	if weekendCount != 1 {
		t.Fatalf("expected exactly one WEEKEND_AUTOPAY flag (suppressed for the shifted item), got %d", weekendCount)
	}
}

func TestDetectRisks_OrderingHighBeforeInfo(t *testing.T) {
	due := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	collision := []ShiftedInstallment{
		shiftedOf("A", 1, due, 1000, 0, false),
		shiftedOf("B", 1, due, 1000, 0, false),
		shiftedOf("C", 1, due, 1000, 0, false),
	}
	shiftedItem := shiftedOf("D", 1, due.AddDate(0, 0, 1), 500, 0, false)
	shiftedItem.WasShifted = true
	items := append(collision, shiftedItem)

	flags := DetectRisks(items, nil, 0)
	if flags[0].Severity != SeverityHigh {
		t.Fatalf("expected high severity first, got %v", flags[0].Severity)
	}
	if flags[len(flags)-1].Severity != SeverityInfo {
		t.Fatalf("expected info severity last, got %v", flags[len(flags)-1].Severity)
	}
}
