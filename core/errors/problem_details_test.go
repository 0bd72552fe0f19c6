package errors

import (
	"net/http"
	"testing"

	"github.com/mmtuentertainment/payplan/core/entities"
)

func TestNewProblemDetails_RatesLimitedShape(t *testing.T) {
	appErr := RateLimitedError("Rate limit exceeded.")
	pd := NewProblemDetails(appErr, "payplan.example.com", "/api/plan")

	if pd.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d", pd.Status, http.StatusTooManyRequests)
	}
	if pd.Instance != "/api/plan" {
		t.Errorf("Instance = %q, want /api/plan", pd.Instance)
	}
	wantType := "https://payplan.example.com/problems/RATE_LIMIT_EXCEEDED"
	if pd.Type != wantType {
		t.Errorf("Type = %q, want %q", pd.Type, wantType)
	}
	if pd.Title != "Rate Limit Exceeded" {
		t.Errorf("Title = %q, want %q", pd.Title, "Rate Limit Exceeded")
	}
}

func TestNewProblemDetails_ValidationErrorPointsAtField(t *testing.T) {
	appErr := ValidationError("timeZone", "is not a valid IANA zone")
	pd := NewProblemDetails(appErr, "", "/api/plan")

	if pd.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", pd.Status)
	}
	want := "timeZone: is not a valid IANA zone"
	if pd.Detail != want {
		t.Errorf("Detail = %q, want %q", pd.Detail, want)
	}
	// Empty host falls back to the default namespace.
	if pd.Type != "https://payplan.local/problems/VALIDATION_ERROR" {
		t.Errorf("Type = %q, want the payplan.local fallback", pd.Type)
	}
}

func TestInternalError_CapturesStackButNeverRendersIt(t *testing.T) {
	cause := ValidationError("ignored", "boom")
	appErr := InternalError(cause)

	if appErr.Stack == nil {
		t.Fatal("expected InternalError to capture a stack trace")
	}

	httpErr := appErr.ToHTTPError()
	if httpErr.Type != entities.ErrInternal {
		t.Errorf("ToHTTPError().Type = %v, want ErrInternal", httpErr.Type)
	}

	fields := appErr.ToLogFields()
	if _, ok := fields["stack"]; !ok {
		t.Error("expected ToLogFields to include the captured stack trace for server-side logging")
	}
}
