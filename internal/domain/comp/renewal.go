package comp

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrTierMinYears = errors.New("renewal tier min_years must be at least 1")
	ErrTierRange    = errors.New("renewal tier max_years must not be below min_years")
	ErrTierNegative = errors.New("renewal tier multiplier must not be negative")
)

// RenewalSchedule is a validated, disjoint set of renewal-year tiers.
// Overlap is rejected at construction so the lookup never has to pick
// between ambiguous matches.
type RenewalSchedule struct {
	tiers []RenewalTier
}

func NewRenewalSchedule(tiers []RenewalTier) (*RenewalSchedule, error) {
	sorted := make([]RenewalTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinYears < sorted[j].MinYears })

	for i, tier := range sorted {
		if tier.MinYears < 1 {
			return nil, ErrTierMinYears
		}
		if tier.MaxYears != nil && *tier.MaxYears < tier.MinYears {
			return nil, ErrTierRange
		}
		if tier.Multiplier < 0 {
			return nil, ErrTierNegative
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.MaxYears == nil || *prev.MaxYears >= tier.MinYears {
			return nil, fmt.Errorf("renewal tiers overlap at %d years", tier.MinYears)
		}
	}

	return &RenewalSchedule{tiers: sorted}, nil
}

// Tiers returns the schedule's tiers in min-years order.
func (s *RenewalSchedule) Tiers() []RenewalTier {
	out := make([]RenewalTier, len(s.tiers))
	copy(out, s.tiers)
	return out
}

// Lookup returns the multiplier for a deal's renewal-year count. A count
// covered by no tier passes through at 1.0; that is the configured default,
// not a failure.
func (s *RenewalSchedule) Lookup(renewalYears int) float64 {
	for _, tier := range s.tiers {
		if renewalYears < tier.MinYears {
			continue
		}
		if tier.MaxYears == nil || renewalYears <= *tier.MaxYears {
			return tier.Multiplier
		}
	}
	return 1.0
}

// AdjustedARR scales a deal's Closing ARR by the tier multiplier before it
// enters payout math. Left unrounded: it is an intermediate value, and cent
// rounding happens at result boundaries.
func (s *RenewalSchedule) AdjustedARR(closingArrUSD float64, renewalYears int) float64 {
	return closingArrUSD * s.Lookup(renewalYears)
}
