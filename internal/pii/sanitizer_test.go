package pii

import (
	"reflect"
	"testing"
)

func TestSanitize_StructuralSharingWhenNoPII(t *testing.T) {
	input := map[string]any{
		"id":    "x",
		"items": []any{map[string]any{"amount": 100}},
	}
	out := Sanitize(input)
	outMap, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", out)
	}
	if reflect.ValueOf(outMap["items"]).Pointer() != reflect.ValueOf(input["items"]).Pointer() {
		t.Fatalf("expected structural sharing of unmodified items slice")
	}
}

func TestSanitize_RemovesSecretsAndPII(t *testing.T) {
	input := map[string]any{"tokenId": "abc", "email": "a@b.com", "amount": 1}
	out := Sanitize(input).(map[string]any)
	if out["tokenId"] != RedactedPlaceholder {
		t.Fatalf("expected tokenId redacted, got %v", out["tokenId"])
	}
	if out["email"] != RedactedPlaceholder {
		t.Fatalf("expected email redacted, got %v", out["email"])
	}
	if out["amount"] != 1 {
		t.Fatalf("expected amount preserved, got %v", out["amount"])
	}
}

func TestSanitize_DropsPrototypePollutionKeys(t *testing.T) {
	input := map[string]any{"a": 1, "__proto__": map[string]any{"polluted": true}}
	out := Sanitize(input).(map[string]any)
	if _, present := out["__proto__"]; present {
		t.Fatalf("expected __proto__ key to be dropped")
	}
	if out["a"] != 1 {
		t.Fatalf("expected sibling key preserved")
	}
	// Original input must never be mutated.
	if _, present := input["__proto__"]; !present {
		t.Fatalf("sanitize must not mutate its input")
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	input := map[string]any{
		"password": "hunter2",
		"nested":   map[string]any{"ssn": "123-45-6789", "ok": "fine"},
		"list":     []any{map[string]any{"apiKey": "xyz"}, "plain"},
	}
	once := Sanitize(input)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("sanitize is not idempotent:\n once=%#v\n twice=%#v", once, twice)
	}
}

func TestSanitize_CircularReference(t *testing.T) {
	a := map[string]any{"name_unused": "ok"}
	a["self"] = a
	out := Sanitize(a).(map[string]any)
	if out["self"] != CircularSentinel {
		t.Fatalf("expected circular sentinel, got %v", out["self"])
	}
}

func TestIsPIIField_ASCIIOnlyCaseFold(t *testing.T) {
	if IsPIIField("password") == false {
		t.Fatalf("expected ascii 'password' to match")
	}
	if IsPIIField("ⲣassword") { // U+2CA3 COPTIC SMALL LETTER RO ("ⲣ"), not 'p'
		t.Fatalf("expected unicode look-alike to NOT match (ASCII-only case folding)")
	}
}

func TestClassifyField_TierSeparation(t *testing.T) {
	cases := []struct {
		field string
		want  Tier
	}{
		{"password", TierAuth},
		{"api_key", TierAuth},
		{"accessKey", TierAuth},
		{"authorization", TierAuth},
		{"email", TierPII},
		{"userEmail", TierPII},
		{"nationalId", TierPII},
		{"billingAddress", TierPII},
		{"amount", TierNone},
		{"dueDate", TierNone},
	}
	for _, c := range cases {
		if got := ClassifyField(c.field); got != c.want {
			t.Errorf("ClassifyField(%q) = %v, want %v", c.field, got, c.want)
		}
	}
}
