package settlement

import (
	"time"

	"salescomp/internal/domain/comp"
)

// EligibleAt is the date from which tranche 2 may be calculated: departure
// plus the plan's collection grace period.
func EligibleAt(departure time.Time, graceDays int) time.Time {
	return departure.AddDate(0, 0, graceDays)
}

// CalculateTranche1 nets the immediate year-end releases against clawback
// deductions. Deduction lines carry negative amounts. If clawbacks exceed
// the releases the payable total floors at zero and the uncovered remainder
// is carried forward into tranche 2.
func CalculateTranche1(lines []LineItem) Tranche1Result {
	var total float64
	kept := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		if line.Kind != LineYearEndRelease && line.Kind != LineClawbackDeduction {
			continue
		}
		total += line.AmountUSD
		kept = append(kept, line)
	}

	out := Tranche1Result{Lines: kept}
	if total < 0 {
		out.CarryForwardUSD = comp.RoundCents(-total)
		return out
	}
	out.TotalUSD = comp.RoundCents(total)
	return out
}

// CalculateTranche2 computes the deferred tranche. Calling it before the
// eligibility date is an error and generates no line items; that gate is a
// hard precondition, not a UI hint. Only collection releases and forfeits
// on or after the eligibility date participate, and any clawback carried
// over from tranche 1 is deducted first.
func CalculateTranche2(now, eligibleAt time.Time, lines []LineItem, carryForwardUSD float64) (Tranche2Result, error) {
	if now.Before(eligibleAt) {
		return Tranche2Result{}, ErrNotYetEligible
	}

	var total float64
	kept := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		if line.Kind != LineCollectionRelease && line.Kind != LineCollectionForfeit {
			continue
		}
		if line.OccurredAt.Before(eligibleAt) {
			continue
		}
		total += line.AmountUSD
		kept = append(kept, line)
	}

	total -= carryForwardUSD
	out := Tranche2Result{Lines: kept}
	if total < 0 {
		out.RemainingClawbackUSD = comp.RoundCents(-total)
		return out, nil
	}
	out.TotalUSD = comp.RoundCents(total)
	return out, nil
}

var statusOrder = []string{StatusDraft, StatusReview, StatusApproved, StatusFinalized, StatusPaid}

// NextStatus advances a tranche exactly one step along
// draft -> review -> approved -> finalized -> paid. Skipping and reverting
// are not representable; advancing past paid is rejected.
func NextStatus(current string) (string, error) {
	for i, status := range statusOrder {
		if status != current {
			continue
		}
		if i == len(statusOrder)-1 {
			return "", ErrStatusFinal
		}
		return statusOrder[i+1], nil
	}
	return "", ErrUnknownStatus
}
