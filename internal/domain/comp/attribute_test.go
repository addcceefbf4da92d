package comp

import (
	"math"
	"testing"
)

func linearMetricAt120() Metric {
	return Metric{
		LogicType: LogicLinear,
		Grid:      []MultiplierBand{{FromPct: 0, ToPct: nil, Multiplier: 1.2}},
		Split:     PayoutSplit{BookingPct: 70, CollectionPct: 25, YearEndPct: 5},
	}
}

func TestAttributeTwoDealExample(t *testing.T) {
	deals := []Deal{
		{ID: "d1", ValueUSD: 72000, Period: "2025-06"},
		{ID: "d2", ValueUSD: 48000, Period: "2025-06"},
	}

	attrs, ctx := Attribute(deals, linearMetricAt120(), 100000, 20000)
	if ctx.TotalVariablePayUSD != 28800 {
		t.Fatalf("expected total variable pay 28800, got %v", ctx.TotalVariablePayUSD)
	}
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributions, got %d", len(attrs))
	}

	first := attrs[0]
	if first.ProportionPct != 60 {
		t.Fatalf("expected proportion 60, got %v", first.ProportionPct)
	}
	if first.VariablePayUSD != 17280 {
		t.Fatalf("expected share 17280, got %v", first.VariablePayUSD)
	}
	if first.PayoutOnBookingUSD != 12096 {
		t.Fatalf("expected booking 12096, got %v", first.PayoutOnBookingUSD)
	}
	if first.PayoutOnCollectionUSD != 4320 {
		t.Fatalf("expected collection 4320, got %v", first.PayoutOnCollectionUSD)
	}
	if first.PayoutOnYearEndUSD != 864 {
		t.Fatalf("expected year-end 864, got %v", first.PayoutOnYearEndUSD)
	}
	if first.ClawbackEligibleUSD != first.PayoutOnBookingUSD {
		t.Fatalf("clawback-eligible must equal booking bucket, got %v", first.ClawbackEligibleUSD)
	}

	second := attrs[1]
	if second.ProportionPct != 40 || second.VariablePayUSD != 11520 {
		t.Fatalf("expected 40%%/11520, got %v/%v", second.ProportionPct, second.VariablePayUSD)
	}
}

func TestAttributeDropsNonPositiveDeals(t *testing.T) {
	deals := []Deal{
		{ID: "d1", ValueUSD: 50000},
		{ID: "zero", ValueUSD: 0},
		{ID: "neg", ValueUSD: -10000},
	}
	attrs, ctx := Attribute(deals, linearMetricAt120(), 100000, 20000)
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribution, got %d", len(attrs))
	}
	if attrs[0].ProportionPct != 100 {
		t.Fatalf("sole valid deal must own 100%%, got %v", attrs[0].ProportionPct)
	}
	if ctx.TotalActualUSD != 50000 {
		t.Fatalf("dropped deals must not enter the denominator, got %v", ctx.TotalActualUSD)
	}
}

func TestAttributeNoQualifyingDeals(t *testing.T) {
	cases := [][]Deal{
		nil,
		{},
		{{ID: "zero", ValueUSD: 0}},
		{{ID: "neg", ValueUSD: -5}},
	}
	for _, deals := range cases {
		attrs, ctx := Attribute(deals, linearMetricAt120(), 100000, 20000)
		if len(attrs) != 0 {
			t.Fatalf("expected no attributions, got %d", len(attrs))
		}
		if ctx.TotalVariablePayUSD != 0 || ctx.TotalActualUSD != 0 {
			t.Fatalf("expected zeroed context, got %+v", ctx)
		}
	}
}

func TestAttributeBelowGateZeroesEveryDeal(t *testing.T) {
	metric := Metric{
		LogicType:        LogicGatedThreshold,
		GateThresholdPct: ptr(80),
		Grid:             []MultiplierBand{{FromPct: 0, ToPct: nil, Multiplier: 1.0}},
	}
	deals := []Deal{{ID: "d1", ValueUSD: 30000}, {ID: "d2", ValueUSD: 10000}}

	attrs, ctx := Attribute(deals, metric, 100000, 20000)
	if !ctx.BelowGate {
		t.Fatalf("expected below-gate context, got %+v", ctx)
	}
	for _, a := range attrs {
		if a.VariablePayUSD != 0 || a.PayoutOnBookingUSD != 0 {
			t.Fatalf("below-gate attribution must carry zero money, got %+v", a)
		}
	}
}

func TestAttributeDefaultSplitFallback(t *testing.T) {
	metric := linearMetricAt120()
	metric.Split = PayoutSplit{}

	attrs, _ := Attribute([]Deal{{ID: "d1", ValueUSD: 120000}}, metric, 100000, 20000)
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribution, got %d", len(attrs))
	}
	if attrs[0].PayoutOnBookingUSD != 20160 {
		t.Fatalf("expected default 70%% booking bucket 20160, got %v", attrs[0].PayoutOnBookingUSD)
	}
	if attrs[0].PayoutOnCollectionUSD != 7200 || attrs[0].PayoutOnYearEndUSD != 1440 {
		t.Fatalf("expected default 25/5 buckets, got %+v", attrs[0])
	}
}

func TestAttributeSumsApproximateTotals(t *testing.T) {
	deals := []Deal{
		{ID: "a", ValueUSD: 33333.33},
		{ID: "b", ValueUSD: 14285.71},
		{ID: "c", ValueUSD: 9999.99},
		{ID: "d", ValueUSD: 77777.77},
		{ID: "e", ValueUSD: 123.45},
		{ID: "f", ValueUSD: 20000.01},
	}

	attrs, ctx := Attribute(deals, linearMetricAt120(), 140000, 35000)

	var paySum, propSum float64
	for _, a := range attrs {
		paySum += a.VariablePayUSD
		propSum += a.ProportionPct
	}

	tolerance := 0.01 * float64(len(attrs))
	if math.Abs(paySum-ctx.TotalVariablePayUSD) > tolerance {
		t.Fatalf("share sum %v deviates from total %v by more than %v", paySum, ctx.TotalVariablePayUSD, tolerance)
	}
	if math.Abs(propSum-100) > tolerance {
		t.Fatalf("proportion sum %v deviates from 100 by more than %v", propSum, tolerance)
	}
}

func TestAttributeAmountFansOutSpiffPool(t *testing.T) {
	deals := []Deal{
		{ID: "d1", ValueUSD: 7500},
		{ID: "d2", ValueUSD: 2500},
	}
	attrs, ctx := AttributeAmount(deals, 1000, PayoutSplit{BookingPct: 100})
	if ctx.TotalVariablePayUSD != 1000 {
		t.Fatalf("expected pool total 1000, got %v", ctx.TotalVariablePayUSD)
	}
	if attrs[0].VariablePayUSD != 750 || attrs[1].VariablePayUSD != 250 {
		t.Fatalf("expected 750/250 split, got %v/%v", attrs[0].VariablePayUSD, attrs[1].VariablePayUSD)
	}
	if attrs[0].PayoutOnBookingUSD != 750 || attrs[0].ClawbackEligibleUSD != 750 {
		t.Fatalf("100%% booking split must land everything in booking, got %+v", attrs[0])
	}
}

func TestAttributeAmountRejectsNonPositivePool(t *testing.T) {
	deals := []Deal{{ID: "d1", ValueUSD: 100}}
	for _, amount := range []float64{0, -50} {
		attrs, ctx := AttributeAmount(deals, amount, DefaultPayoutSplit)
		if len(attrs) != 0 || ctx.TotalVariablePayUSD != 0 {
			t.Fatalf("amount %v: expected empty result, got %d attrs", amount, len(attrs))
		}
	}
}
