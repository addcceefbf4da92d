package plan

import (
	"errors"
	"testing"

	"salescomp/internal/domain/comp"
)

func fptr(v float64) *float64 { return &v }

func validMetricSet() []Metric {
	return []Metric{
		{
			Name:         "new_arr",
			LogicType:    comp.LogicSteppedAccelerator,
			WeightagePct: 60,
			Split:        comp.PayoutSplit{BookingPct: 70, CollectionPct: 25, YearEndPct: 5},
			Bands: []comp.MultiplierBand{
				{FromPct: 0, ToPct: fptr(100), Multiplier: 1},
				{FromPct: 100, ToPct: nil, Multiplier: 1.5},
			},
		},
		{
			Name:             "renewal_arr",
			LogicType:        comp.LogicGatedThreshold,
			WeightagePct:     40,
			GateThresholdPct: fptr(80),
			Split:            comp.PayoutSplit{BookingPct: 100},
		},
	}
}

func TestValidateMetricsAcceptsWellFormedSet(t *testing.T) {
	if err := ValidateMetrics(validMetricSet()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateMetricsRejectsEmptySet(t *testing.T) {
	if err := ValidateMetrics(nil); !errors.Is(err, ErrNoMetrics) {
		t.Fatalf("expected ErrNoMetrics, got %v", err)
	}
}

func TestValidateMetricsRejectsWeightageNotSummingTo100(t *testing.T) {
	metrics := validMetricSet()
	metrics[0].WeightagePct = 50
	if err := ValidateMetrics(metrics); !errors.Is(err, ErrWeightageSum) {
		t.Fatalf("expected ErrWeightageSum, got %v", err)
	}
}

func TestValidateMetricsRejectsSplitNotSummingTo100(t *testing.T) {
	metrics := validMetricSet()
	metrics[0].Split = comp.PayoutSplit{BookingPct: 70, CollectionPct: 25, YearEndPct: 10}
	if err := ValidateMetrics(metrics); !errors.Is(err, ErrSplitSum) {
		t.Fatalf("expected ErrSplitSum, got %v", err)
	}
}

func TestValidateMetricsAcceptsZeroSplitAsDefault(t *testing.T) {
	metrics := validMetricSet()
	metrics[0].Split = comp.PayoutSplit{}
	if err := ValidateMetrics(metrics); err != nil {
		t.Fatalf("zero split must fall back to the default, got %v", err)
	}
}

func TestValidateMetricsRejectsUnknownLogicType(t *testing.T) {
	metrics := validMetricSet()
	metrics[0].LogicType = "quadratic"
	if err := ValidateMetrics(metrics); !errors.Is(err, ErrBadLogicType) {
		t.Fatalf("expected ErrBadLogicType, got %v", err)
	}
}

func TestValidateMetricsRequiresGateForGatedLogic(t *testing.T) {
	metrics := validMetricSet()
	metrics[1].GateThresholdPct = nil
	if err := ValidateMetrics(metrics); !errors.Is(err, ErrGateRequired) {
		t.Fatalf("expected ErrGateRequired, got %v", err)
	}
}

func TestValidateMetricsRejectsOverlappingBands(t *testing.T) {
	metrics := validMetricSet()
	metrics[0].Bands = []comp.MultiplierBand{
		{FromPct: 0, ToPct: fptr(100), Multiplier: 1},
		{FromPct: 90, ToPct: nil, Multiplier: 1.5},
	}
	if err := ValidateMetrics(metrics); !errors.Is(err, ErrBandOverlap) {
		t.Fatalf("expected ErrBandOverlap, got %v", err)
	}
}

func TestValidateMetricsRejectsOpenBandBeforeLast(t *testing.T) {
	metrics := validMetricSet()
	metrics[0].Bands = []comp.MultiplierBand{
		{FromPct: 0, ToPct: nil, Multiplier: 1},
		{FromPct: 150, ToPct: fptr(200), Multiplier: 2},
	}
	if err := ValidateMetrics(metrics); !errors.Is(err, ErrBandUnboundedNotLast) {
		t.Fatalf("expected ErrBandUnboundedNotLast, got %v", err)
	}
}

func TestValidateMetricsRejectsInvertedBand(t *testing.T) {
	metrics := validMetricSet()
	metrics[0].Bands = []comp.MultiplierBand{
		{FromPct: 120, ToPct: fptr(100), Multiplier: 1},
	}
	if err := ValidateMetrics(metrics); !errors.Is(err, ErrBandRange) {
		t.Fatalf("expected ErrBandRange, got %v", err)
	}
}

func TestValidateSpiffRejectsNegativePool(t *testing.T) {
	err := ValidateSpiff(Spiff{Name: "q1_push", PoolUSD: -10})
	if err == nil {
		t.Fatal("expected error for negative pool")
	}
}

func TestValidateSpiffChecksSplit(t *testing.T) {
	err := ValidateSpiff(Spiff{Name: "q1_push", PoolUSD: 500, Split: comp.PayoutSplit{BookingPct: 60, CollectionPct: 20}})
	if !errors.Is(err, ErrSplitSum) {
		t.Fatalf("expected ErrSplitSum, got %v", err)
	}
}
