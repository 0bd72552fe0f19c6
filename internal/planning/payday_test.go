package planning

import (
	"testing"
	"time"
)

func TestProjectPaydays_ExplicitList(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC),
	}
	sched, err := ProjectPaydays(PaydayOptions{PaycheckDates: dates})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched) != 3 {
		t.Fatalf("expected 3 paydays, got %d", len(sched))
	}
	if !sched[0].Equal(dates[1]) {
		t.Fatalf("expected schedule sorted ascending, got %v", sched)
	}
}

func TestProjectPaydays_TooFewExplicitDates(t *testing.T) {
	_, err := ProjectPaydays(PaydayOptions{PaycheckDates: []time.Time{time.Now(), time.Now()}})
	if err != ErrInsufficientPaycheckDates {
		t.Fatalf("expected ErrInsufficientPaycheckDates, got %v", err)
	}
}

func TestProjectPaydays_Biweekly(t *testing.T) {
	next := time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC)
	sched, err := ProjectPaydays(PaydayOptions{PayCadence: CadenceBiweekly, NextPayday: next})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched) != maxProjectedPaydays {
		t.Fatalf("expected %d paydays, got %d", maxProjectedPaydays, len(sched))
	}
	if !sched[0].Equal(next) {
		t.Fatalf("expected first payday to be nextPayday itself")
	}
	if got := sched[1].Format("2006-01-02"); got != "2025-10-17" {
		t.Fatalf("expected second biweekly payday 2025-10-17, got %s", got)
	}
}

func TestProjectPaydays_SemimonthlyAlternates(t *testing.T) {
	next := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	sched, err := ProjectPaydays(PaydayOptions{PayCadence: CadenceSemimonthly, NextPayday: next})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2025-10-01", "2025-10-15", "2025-11-01", "2025-11-15", "2025-12-01", "2025-12-15"}
	for i, w := range want {
		if got := sched[i].Format("2006-01-02"); got != w {
			t.Errorf("payday[%d] = %s, want %s", i, got, w)
		}
	}
}

func TestProjectPaydays_MonthlyClampsToLastValidDay(t *testing.T) {
	next := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	sched, err := ProjectPaydays(PaydayOptions{PayCadence: CadenceMonthly, NextPayday: next})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sched[1].Format("2006-01-02"); got != "2025-02-28" {
		t.Fatalf("expected Jan 31 + 1 month to clamp to 2025-02-28, got %s", got)
	}
	if got := sched[2].Format("2006-01-02"); got != "2025-03-28" {
		t.Fatalf("expected clamped day to carry forward (no snap-back to 31), got %s", got)
	}
}
