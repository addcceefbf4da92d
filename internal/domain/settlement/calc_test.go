package settlement

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEligibleAt(t *testing.T) {
	got := EligibleAt(date(2025, 1, 15), 90)
	if !got.Equal(date(2025, 4, 15)) {
		t.Fatalf("expected 2025-04-15, got %v", got)
	}
}

func TestCalculateTranche1NetsClawbacks(t *testing.T) {
	result := CalculateTranche1([]LineItem{
		{DealID: "d1", Kind: LineYearEndRelease, AmountUSD: 864},
		{DealID: "d2", Kind: LineYearEndRelease, AmountUSD: 576},
		{DealID: "d3", Kind: LineClawbackDeduction, AmountUSD: -400},
	})
	if result.TotalUSD != 1040 {
		t.Fatalf("expected total 1040, got %v", result.TotalUSD)
	}
	if result.CarryForwardUSD != 0 {
		t.Fatalf("expected no carry-forward, got %v", result.CarryForwardUSD)
	}
	if len(result.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(result.Lines))
	}
}

func TestCalculateTranche1CarriesUnrecoveredClawback(t *testing.T) {
	result := CalculateTranche1([]LineItem{
		{DealID: "d1", Kind: LineYearEndRelease, AmountUSD: 300},
		{DealID: "d2", Kind: LineClawbackDeduction, AmountUSD: -1000},
	})
	if result.TotalUSD != 0 {
		t.Fatalf("payable total must floor at zero, got %v", result.TotalUSD)
	}
	if result.CarryForwardUSD != 700 {
		t.Fatalf("expected carry-forward 700, got %v", result.CarryForwardUSD)
	}
}

func TestCalculateTranche1IgnoresCollectionLines(t *testing.T) {
	result := CalculateTranche1([]LineItem{
		{DealID: "d1", Kind: LineYearEndRelease, AmountUSD: 500},
		{DealID: "d2", Kind: LineCollectionRelease, AmountUSD: 9999},
	})
	if result.TotalUSD != 500 {
		t.Fatalf("collection lines must not enter tranche 1, got %v", result.TotalUSD)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(result.Lines))
	}
}

func TestCalculateTranche2BeforeEligibilityRejected(t *testing.T) {
	eligible := EligibleAt(date(2025, 1, 15), 90)
	_, err := CalculateTranche2(date(2025, 4, 10), eligible, []LineItem{
		{DealID: "d1", Kind: LineCollectionRelease, AmountUSD: 1000, OccurredAt: date(2025, 4, 20)},
	}, 0)
	if !errors.Is(err, ErrNotYetEligible) {
		t.Fatalf("expected ErrNotYetEligible, got %v", err)
	}
}

func TestCalculateTranche2AfterEligibilityProceeds(t *testing.T) {
	eligible := EligibleAt(date(2025, 1, 15), 90)
	result, err := CalculateTranche2(date(2025, 4, 16), eligible, []LineItem{
		{DealID: "d1", Kind: LineCollectionRelease, AmountUSD: 1200, OccurredAt: date(2025, 4, 20)},
		{DealID: "d2", Kind: LineCollectionForfeit, AmountUSD: -200, OccurredAt: date(2025, 5, 2)},
	}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalUSD != 1000 {
		t.Fatalf("expected total 1000, got %v", result.TotalUSD)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
}

func TestCalculateTranche2ExcludesPreEligibilityCollections(t *testing.T) {
	eligible := date(2025, 4, 15)
	result, err := CalculateTranche2(date(2025, 6, 1), eligible, []LineItem{
		{DealID: "early", Kind: LineCollectionRelease, AmountUSD: 500, OccurredAt: date(2025, 3, 1)},
		{DealID: "late", Kind: LineCollectionRelease, AmountUSD: 800, OccurredAt: date(2025, 5, 1)},
	}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalUSD != 800 {
		t.Fatalf("pre-eligibility collections must be excluded, got %v", result.TotalUSD)
	}
}

func TestCalculateTranche2DeductsCarryForward(t *testing.T) {
	eligible := date(2025, 4, 15)
	result, err := CalculateTranche2(date(2025, 6, 1), eligible, []LineItem{
		{DealID: "d1", Kind: LineCollectionRelease, AmountUSD: 1000, OccurredAt: date(2025, 5, 1)},
	}, 700)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalUSD != 300 {
		t.Fatalf("expected 300 after carry-forward, got %v", result.TotalUSD)
	}
	if result.RemainingClawbackUSD != 0 {
		t.Fatalf("expected carry-forward fully recovered, got %v", result.RemainingClawbackUSD)
	}
}

func TestCalculateTranche2ReportsUnrecoveredCarryForward(t *testing.T) {
	eligible := date(2025, 4, 15)
	result, err := CalculateTranche2(date(2025, 6, 1), eligible, []LineItem{
		{DealID: "d1", Kind: LineCollectionRelease, AmountUSD: 400, OccurredAt: date(2025, 5, 1)},
	}, 700)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalUSD != 0 {
		t.Fatalf("expected zero payable, got %v", result.TotalUSD)
	}
	if result.RemainingClawbackUSD != 300 {
		t.Fatalf("expected remaining clawback 300, got %v", result.RemainingClawbackUSD)
	}
}

func TestNextStatusWalksTheChain(t *testing.T) {
	order := []string{StatusDraft, StatusReview, StatusApproved, StatusFinalized, StatusPaid}
	for i := 0; i < len(order)-1; i++ {
		next, err := NextStatus(order[i])
		if err != nil {
			t.Fatalf("advance from %s: %v", order[i], err)
		}
		if next != order[i+1] {
			t.Fatalf("advance from %s: expected %s, got %s", order[i], order[i+1], next)
		}
	}
}

func TestNextStatusRejectsAdvancingPastPaid(t *testing.T) {
	if _, err := NextStatus(StatusPaid); !errors.Is(err, ErrStatusFinal) {
		t.Fatalf("expected ErrStatusFinal, got %v", err)
	}
}

func TestNextStatusRejectsUnknownStatus(t *testing.T) {
	if _, err := NextStatus("shipped"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}
