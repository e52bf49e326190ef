package shared

import (
	"net/http/httptest"
	"testing"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Positive("daysCount", 0, "must be positive")
	if _, ok := v.Date("startDate", "not-a-date"); ok {
		t.Fatal("expected date parse failure")
	}

	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	if issues[0].Field != "daysCount" {
		t.Fatalf("expected sorted issues, got %+v", issues)
	}
}

func TestValidatorRejectWritesValidationError(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected rejection")
	}
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	clean := NewValidator()
	rec = httptest.NewRecorder()
	if clean.Reject(rec, "req-1") {
		t.Fatal("clean validator should not reject")
	}
}

func TestParseDateFormats(t *testing.T) {
	if _, err := ParseDate("2026-09-01"); err != nil {
		t.Fatalf("iso date failed: %v", err)
	}
	if _, err := ParseDate("2026-09-01T10:00:00Z"); err != nil {
		t.Fatalf("rfc3339 failed: %v", err)
	}
	if _, err := ParseDate("garbage"); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
