package shared

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-01-15")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("expected %v, got %v", want, parsed)
	}

	if _, err := ParseDate("15/01/2025"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParsePeriod(t *testing.T) {
	period, err := ParsePeriod("2025-03")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if period != "2025-03" {
		t.Fatalf("expected normalized period, got %q", period)
	}

	if _, err := ParsePeriod("2025-3"); err == nil {
		t.Fatal("expected error for malformed period")
	}
	if _, err := ParsePeriod("March 2025"); err == nil {
		t.Fatal("expected error for malformed period")
	}
}

func TestValidatorCollectsSortedIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Positive("poolUsd", 0, "pool must be positive")
	v.Add("currency", "unknown currency")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	if issues[0].Field != "currency" || issues[2].Field != "poolUsd" {
		t.Fatalf("expected issues sorted by field, got %+v", issues)
	}
}
