package payout

import (
	"math"
	"testing"

	"salescomp/internal/domain/comp"
	"salescomp/internal/domain/core"
	"salescomp/internal/domain/plan"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func singleMetricPlan() []plan.Metric {
	return []plan.Metric{{
		ID:           "m1",
		Name:         "new_arr",
		LogicType:    comp.LogicSteppedAccelerator,
		WeightagePct: 100,
		Split:        comp.PayoutSplit{BookingPct: 70, CollectionPct: 25, YearEndPct: 5},
		Bands: []comp.MultiplierBand{
			{FromPct: 0, ToPct: fptr(100), Multiplier: 1},
			{FromPct: 100, ToPct: nil, Multiplier: 1.2},
		},
	}}
}

func TestCalculateEmployeeSingleMetric(t *testing.T) {
	target := core.Target{EmployeeID: "e1", TargetUSD: 100000, BonusAllocationUSD: 20000}
	deals := []Deal{
		{ID: "d1", MetricName: "new_arr", AmountUSD: 72000, Period: "2025-03"},
		{ID: "d2", MetricName: "new_arr", AmountUSD: 48000, Period: "2025-05"},
	}

	outcome := CalculateEmployee(singleMetricPlan(), nil, nil, deals, target)

	if len(outcome.Metrics) != 1 {
		t.Fatalf("expected 1 metric outcome, got %d", len(outcome.Metrics))
	}
	m := outcome.Metrics[0]
	if m.AchievementPct != 120 {
		t.Fatalf("expected achievement 120, got %v", m.AchievementPct)
	}
	if m.Multiplier != 1.2 {
		t.Fatalf("expected multiplier 1.2, got %v", m.Multiplier)
	}
	if m.TotalVariablePayUSD != 28800 {
		t.Fatalf("expected total 28800, got %v", m.TotalVariablePayUSD)
	}
	if outcome.TotalVariablePayUSD != 28800 {
		t.Fatalf("expected outcome total 28800, got %v", outcome.TotalVariablePayUSD)
	}
	if len(m.Attributions) != 2 {
		t.Fatalf("expected 2 attributions, got %d", len(m.Attributions))
	}
	if m.Attributions[0].VariablePayUSD != 17280 {
		t.Fatalf("expected deal 1 share 17280, got %v", m.Attributions[0].VariablePayUSD)
	}
}

func TestCalculateEmployeeApportionsByWeightage(t *testing.T) {
	metrics := []plan.Metric{
		{
			ID: "m1", Name: "new_arr", LogicType: comp.LogicLinear, WeightagePct: 60,
			Bands: []comp.MultiplierBand{{FromPct: 0, ToPct: nil, Multiplier: 1}},
		},
		{
			ID: "m2", Name: "renewal_arr", LogicType: comp.LogicLinear, WeightagePct: 40,
			Bands: []comp.MultiplierBand{{FromPct: 0, ToPct: nil, Multiplier: 1}},
		},
	}
	target := core.Target{EmployeeID: "e1", TargetUSD: 100000, BonusAllocationUSD: 10000}
	deals := []Deal{
		{ID: "d1", MetricName: "new_arr", AmountUSD: 60000},
		{ID: "d2", MetricName: "renewal_arr", AmountUSD: 40000},
	}

	outcome := CalculateEmployee(metrics, nil, nil, deals, target)

	if len(outcome.Metrics) != 2 {
		t.Fatalf("expected 2 metric outcomes, got %d", len(outcome.Metrics))
	}
	for _, m := range outcome.Metrics {
		if m.AchievementPct != 100 {
			t.Fatalf("metric %s: expected achievement 100, got %v", m.MetricName, m.AchievementPct)
		}
	}
	if outcome.Metrics[0].TotalVariablePayUSD != 6000 {
		t.Fatalf("expected 6000 for 60%% weightage, got %v", outcome.Metrics[0].TotalVariablePayUSD)
	}
	if outcome.Metrics[1].TotalVariablePayUSD != 4000 {
		t.Fatalf("expected 4000 for 40%% weightage, got %v", outcome.Metrics[1].TotalVariablePayUSD)
	}
	if outcome.TotalVariablePayUSD != 10000 {
		t.Fatalf("expected total 10000, got %v", outcome.TotalVariablePayUSD)
	}
}

func TestCalculateEmployeeAppliesRenewalMultiplier(t *testing.T) {
	metrics := []plan.Metric{{
		ID: "m1", Name: "renewal_arr", LogicType: comp.LogicLinear, WeightagePct: 100,
		Bands: []comp.MultiplierBand{{FromPct: 0, ToPct: nil, Multiplier: 1}},
	}}
	schedule, err := comp.NewRenewalSchedule([]comp.RenewalTier{
		{MinYears: 1, MaxYears: iptr(2), Multiplier: 0.5},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	target := core.Target{EmployeeID: "e1", TargetUSD: 40000, BonusAllocationUSD: 10000}
	deals := []Deal{
		{ID: "d1", MetricName: "renewal_arr", AmountUSD: 80000, ContractYears: 2},
	}

	outcome := CalculateEmployee(metrics, nil, schedule, deals, target)

	m := outcome.Metrics[0]
	if m.AchievementPct != 100 {
		t.Fatalf("expected achievement 100 on halved ARR, got %v", m.AchievementPct)
	}
	if m.TotalVariablePayUSD != 10000 {
		t.Fatalf("expected total 10000, got %v", m.TotalVariablePayUSD)
	}
}

func TestCalculateEmployeeSpiffPool(t *testing.T) {
	spiffs := []plan.Spiff{{Name: "q1_push", PoolUSD: 1000, Split: comp.PayoutSplit{BookingPct: 100}}}
	target := core.Target{EmployeeID: "e1", TargetUSD: 100000, BonusAllocationUSD: 20000}
	deals := []Deal{
		{ID: "d1", MetricName: "new_arr", AmountUSD: 75000},
		{ID: "d2", MetricName: "new_arr", AmountUSD: 25000},
	}

	outcome := CalculateEmployee(singleMetricPlan(), spiffs, nil, deals, target)

	if outcome.SpiffUSD != 1000 {
		t.Fatalf("expected spiff total 1000, got %v", outcome.SpiffUSD)
	}
	last := outcome.Metrics[len(outcome.Metrics)-1]
	if last.MetricName != "spiff:q1_push" {
		t.Fatalf("expected spiff outcome last, got %s", last.MetricName)
	}
	if len(last.Attributions) != 2 {
		t.Fatalf("expected spiff fan-out over 2 deals, got %d", len(last.Attributions))
	}
	if last.Attributions[0].VariablePayUSD != 750 {
		t.Fatalf("expected 750 for the 75%% deal, got %v", last.Attributions[0].VariablePayUSD)
	}
}

func TestCalculateEmployeeNoDeals(t *testing.T) {
	target := core.Target{EmployeeID: "e1", TargetUSD: 100000, BonusAllocationUSD: 20000}

	outcome := CalculateEmployee(singleMetricPlan(), nil, nil, nil, target)

	if outcome.TotalVariablePayUSD != 0 {
		t.Fatalf("expected zero pay with no deals, got %v", outcome.TotalVariablePayUSD)
	}
	if len(outcome.Metrics) != 1 || len(outcome.Metrics[0].Attributions) != 0 {
		t.Fatal("expected an empty metric outcome and no attributions")
	}
}

func TestCalculateEmployeeTotalsAreCentRounded(t *testing.T) {
	metrics := []plan.Metric{{
		ID: "m1", Name: "new_arr", LogicType: comp.LogicLinear, WeightagePct: 100,
		Bands: []comp.MultiplierBand{{FromPct: 0, ToPct: nil, Multiplier: 1}},
	}}
	target := core.Target{EmployeeID: "e1", TargetUSD: 30000, BonusAllocationUSD: 10000}
	deals := []Deal{
		{ID: "d1", MetricName: "new_arr", AmountUSD: 10000},
		{ID: "d2", MetricName: "new_arr", AmountUSD: 10000},
		{ID: "d3", MetricName: "new_arr", AmountUSD: 10000},
	}

	outcome := CalculateEmployee(metrics, nil, nil, deals, target)

	cents := outcome.TotalVariablePayUSD * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		t.Fatalf("total not rounded to cents: %v", outcome.TotalVariablePayUSD)
	}
}
