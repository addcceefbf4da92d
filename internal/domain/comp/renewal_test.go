package comp

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestRenewalLookup(t *testing.T) {
	schedule, err := NewRenewalSchedule([]RenewalTier{
		{MinYears: 1, MaxYears: intPtr(2), Multiplier: 0.5},
		{MinYears: 3, MaxYears: intPtr(5), Multiplier: 0.75},
		{MinYears: 6, MaxYears: nil, Multiplier: 1.25},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		years int
		want  float64
	}{
		{1, 0.5},
		{2, 0.5},
		{3, 0.75},
		{5, 0.75},
		{6, 1.25},
		{40, 1.25},
	}
	for _, c := range cases {
		if got := schedule.Lookup(c.years); got != c.want {
			t.Fatalf("Lookup(%d) = %v, want %v", c.years, got, c.want)
		}
	}
}

func TestRenewalLookupUnmatchedPassesThrough(t *testing.T) {
	schedule, err := NewRenewalSchedule([]RenewalTier{
		{MinYears: 3, MaxYears: intPtr(5), Multiplier: 0.75},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := schedule.Lookup(1); got != 1.0 {
		t.Fatalf("unmatched years must pass through at 1.0, got %v", got)
	}
	if got := schedule.Lookup(9); got != 1.0 {
		t.Fatalf("unmatched years must pass through at 1.0, got %v", got)
	}
}

func TestRenewalScheduleRejectsOverlap(t *testing.T) {
	_, err := NewRenewalSchedule([]RenewalTier{
		{MinYears: 1, MaxYears: intPtr(3), Multiplier: 0.5},
		{MinYears: 3, MaxYears: intPtr(5), Multiplier: 0.75},
	})
	if err == nil {
		t.Fatal("expected overlap error")
	}
}

func TestRenewalScheduleRejectsUnboundedNotLast(t *testing.T) {
	_, err := NewRenewalSchedule([]RenewalTier{
		{MinYears: 1, MaxYears: nil, Multiplier: 0.5},
		{MinYears: 4, MaxYears: intPtr(6), Multiplier: 0.75},
	})
	if err == nil {
		t.Fatal("expected overlap error for unbounded tier shadowing a later one")
	}
}

func TestRenewalScheduleRejectsBadTiers(t *testing.T) {
	if _, err := NewRenewalSchedule([]RenewalTier{{MinYears: 0, Multiplier: 1}}); !errors.Is(err, ErrTierMinYears) {
		t.Fatalf("expected ErrTierMinYears, got %v", err)
	}
	if _, err := NewRenewalSchedule([]RenewalTier{{MinYears: 4, MaxYears: intPtr(2), Multiplier: 1}}); !errors.Is(err, ErrTierRange) {
		t.Fatalf("expected ErrTierRange, got %v", err)
	}
	if _, err := NewRenewalSchedule([]RenewalTier{{MinYears: 1, Multiplier: -0.5}}); !errors.Is(err, ErrTierNegative) {
		t.Fatalf("expected ErrTierNegative, got %v", err)
	}
}

func TestAdjustedARR(t *testing.T) {
	schedule, err := NewRenewalSchedule([]RenewalTier{
		{MinYears: 2, MaxYears: intPtr(4), Multiplier: 0.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := schedule.AdjustedARR(80000, 3); got != 40000 {
		t.Fatalf("expected adjusted ARR 40000, got %v", got)
	}
	if got := schedule.AdjustedARR(80000, 10); got != 80000 {
		t.Fatalf("uncovered years must pass ARR through, got %v", got)
	}
}
