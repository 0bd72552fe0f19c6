package planapi

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/mmtuentertainment/payplan/internal/timeutil"
)

func decodeICS(b64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%s): %v", name, err)
	}
	return loc
}

func boolPtr(b bool) *bool { return &b }

// TestRunPipeline_KlarnaPayInFourCanonical mirrors spec scenario S1.
func TestRunPipeline_KlarnaPayInFourCanonical(t *testing.T) {
	loc := mustLoc(t, "America/New_York")
	req := &PlanRequest{
		Items: []ItemRequest{
			{Provider: "Klarna", InstallmentNo: 1, DueDate: "2025-10-02", Amount: 45, Currency: "USD", Autopay: true, LateFee: 7},
			{Provider: "Klarna", InstallmentNo: 2, DueDate: "2025-10-16", Amount: 45, Currency: "USD", Autopay: true, LateFee: 7},
			{Provider: "Klarna", InstallmentNo: 3, DueDate: "2025-10-30", Amount: 45, Currency: "USD", Autopay: true, LateFee: 7},
			{Provider: "Klarna", InstallmentNo: 4, DueDate: "2025-11-13", Amount: 45, Currency: "USD", Autopay: true, LateFee: 7},
		},
		PaycheckDates: []string{"2025-10-05", "2025-10-19", "2025-11-02"},
		MinBuffer:     200,
		TimeZone:      "America/New_York",
	}
	now, err := timeutil.ParseISODate("2025-10-02", loc)
	if err != nil {
		t.Fatalf("ParseISODate: %v", err)
	}

	resp, err := RunPipeline(req, loc, now)
	if err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if len(resp.MovedDates) != 0 {
		t.Errorf("expected no movedDates (all weekdays), got %+v", resp.MovedDates)
	}
	if len(resp.ActionsThisWeek) != 1 || resp.ActionsThisWeek[0].InstallmentNo != 1 {
		t.Errorf("expected exactly installment 1 in actionsThisWeek, got %+v", resp.ActionsThisWeek)
	}
	for _, r := range resp.RiskFlags {
		if r.Kind == "WEEKEND_AUTOPAY" {
			t.Errorf("unexpected WEEKEND_AUTOPAY flag: %+v", r)
		}
	}
	if resp.ICS == "" {
		t.Error("expected non-empty base64 ICS payload")
	}
}

// TestRunPipeline_MixedProvidersCollisionAndWeekendShift mirrors spec scenario S2.
func TestRunPipeline_MixedProvidersCollisionAndWeekendShift(t *testing.T) {
	loc := mustLoc(t, "America/New_York")
	req := &PlanRequest{
		Items: []ItemRequest{
			{Provider: "Affirm", InstallmentNo: 1, DueDate: "2025-10-02", Amount: 58, Currency: "USD", LateFee: 15},
			{Provider: "Klarna", InstallmentNo: 1, DueDate: "2025-10-02", Amount: 45, Currency: "USD", LateFee: 7},
			{Provider: "Afterpay", InstallmentNo: 1, DueDate: "2025-10-05", Amount: 32.50, Currency: "USD", Autopay: true},
		},
		PaycheckDates:   []string{"2025-10-05", "2025-10-19", "2025-11-02"},
		MinBuffer:       200,
		TimeZone:        "America/New_York",
		BusinessDayMode: boolPtr(true),
	}
	now, err := timeutil.ParseISODate("2025-10-02", loc)
	if err != nil {
		t.Fatalf("ParseISODate: %v", err)
	}

	resp, err := RunPipeline(req, loc, now)
	if err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}

	var foundCollision bool
	for _, r := range resp.RiskFlags {
		if r.Kind == "COLLISION" && r.Severity == "medium" {
			foundCollision = true
		}
		if r.Kind == "WEEKEND_AUTOPAY" {
			t.Errorf("unexpected WEEKEND_AUTOPAY flag for a shifted installment: %+v", r)
		}
	}
	if !foundCollision {
		t.Errorf("expected a medium COLLISION flag, got %+v", resp.RiskFlags)
	}

	if len(resp.MovedDates) != 1 || resp.MovedDates[0].Provider != "Afterpay" || resp.MovedDates[0].Reason != "WEEKEND" {
		t.Fatalf("expected exactly one Afterpay WEEKEND move, got %+v", resp.MovedDates)
	}
	if resp.MovedDates[0].ShiftedDueDate != "2025-10-06" {
		t.Errorf("expected Afterpay shifted to 2025-10-06, got %s", resp.MovedDates[0].ShiftedDueDate)
	}

	if len(resp.ActionsThisWeek) == 0 || resp.ActionsThisWeek[0].Provider != "Affirm" {
		t.Errorf("expected Affirm (highest late fee) first in actionsThisWeek, got %+v", resp.ActionsThisWeek)
	}
}

// TestRunPipeline_ThanksgivingHoliday mirrors spec scenario S3.
func TestRunPipeline_ThanksgivingHoliday(t *testing.T) {
	loc := mustLoc(t, "America/New_York")
	req := &PlanRequest{
		Items: []ItemRequest{
			{Provider: "Klarna", InstallmentNo: 1, DueDate: "2025-11-27", Amount: 45, Currency: "USD", LateFee: 7},
		},
		PaycheckDates: []string{"2025-11-02", "2025-11-16", "2025-11-30"},
		MinBuffer:     200,
		TimeZone:      "America/New_York",
	}
	now, err := timeutil.ParseISODate("2025-11-27", loc)
	if err != nil {
		t.Fatalf("ParseISODate: %v", err)
	}

	resp, err := RunPipeline(req, loc, now)
	if err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if len(resp.MovedDates) != 1 || resp.MovedDates[0].Reason != "HOLIDAY" || resp.MovedDates[0].ShiftedDueDate != "2025-11-28" {
		t.Fatalf("expected a single HOLIDAY move to 2025-11-28, got %+v", resp.MovedDates)
	}

	var foundShiftedInfo bool
	for _, r := range resp.RiskFlags {
		if r.Kind == "SHIFTED_NEXT_BUSINESS_DAY" {
			foundShiftedInfo = true
		}
	}
	if !foundShiftedInfo {
		t.Errorf("expected a SHIFTED_NEXT_BUSINESS_DAY info flag, got %+v", resp.RiskFlags)
	}

	decoded, err := decodeICS(resp.ICS)
	if err != nil {
		t.Fatalf("decodeICS: %v", err)
	}
	if !strings.Contains(decoded, " (shifted)") {
		t.Errorf("expected ICS SUMMARY to contain \" (shifted)\", got %s", decoded)
	}
	if !strings.Contains(decoded, "Originally due: 2025-11-27") {
		t.Errorf("expected ICS DESCRIPTION to mention the original due date, got %s", decoded)
	}
}

func TestValidatePlanFields_RejectsMissingPaydaySource(t *testing.T) {
	req := &PlanRequest{
		Items:    []ItemRequest{{Provider: "Klarna", InstallmentNo: 1, DueDate: "2025-10-02", Amount: 45}},
		TimeZone: "America/New_York",
	}
	if _, err := validatePlanFields(req); err == nil {
		t.Fatal("expected an error when neither paycheckDates nor payCadence+nextPayday is present")
	}
}

func TestValidatePlanFields_RejectsInvalidTimezone(t *testing.T) {
	req := &PlanRequest{
		Items:         []ItemRequest{{Provider: "Klarna", InstallmentNo: 1, DueDate: "2025-10-02", Amount: 45}},
		PaycheckDates: []string{"2025-10-05", "2025-10-19", "2025-11-02"},
		TimeZone:      "EST",
	}
	if _, err := validatePlanFields(req); err == nil {
		t.Fatal("expected an error for a rejected timezone abbreviation")
	}
}
