package payout

import (
	"salescomp/internal/domain/comp"
	"salescomp/internal/domain/core"
	"salescomp/internal/domain/plan"
)

// CalculateEmployee resolves every plan metric for one employee and fans the
// resulting variable pay across their deals. Deals must already carry USD
// amounts; renewal deals with a contract length are scaled by the schedule's
// multiplier before they count toward achievement. The plan-level target and
// bonus allocation are apportioned to each metric by its weightage.
func CalculateEmployee(metrics []plan.Metric, spiffs []plan.Spiff, schedule *comp.RenewalSchedule, deals []Deal, target core.Target) Outcome {
	out := Outcome{EmployeeID: target.EmployeeID}

	for _, metric := range metrics {
		compDeals := dealsForMetric(deals, metric.Name, schedule)

		metricTarget := target.TargetUSD * metric.WeightagePct / 100
		metricAllocation := target.BonusAllocationUSD * metric.WeightagePct / 100

		attributions, attrCtx := comp.Attribute(compDeals, metric.ToComp(), metricTarget, metricAllocation)
		out.Metrics = append(out.Metrics, MetricOutcome{
			MetricID:            metric.ID,
			MetricName:          metric.Name,
			AchievementPct:      attrCtx.AchievementPct,
			Multiplier:          attrCtx.Multiplier,
			BelowGate:           attrCtx.BelowGate,
			TotalVariablePayUSD: attrCtx.TotalVariablePayUSD,
			Attributions:        attributions,
		})
		out.TotalVariablePayUSD += attrCtx.TotalVariablePayUSD
	}

	for _, spiff := range spiffs {
		compDeals := allDeals(deals, schedule)
		attributions, _ := comp.AttributeAmount(compDeals, spiff.PoolUSD, spiff.Split)
		if len(attributions) == 0 {
			continue
		}
		out.Metrics = append(out.Metrics, MetricOutcome{
			MetricName:          "spiff:" + spiff.Name,
			Multiplier:          1,
			TotalVariablePayUSD: spiff.PoolUSD,
			Attributions:        attributions,
		})
		out.SpiffUSD += spiff.PoolUSD
		out.TotalVariablePayUSD += spiff.PoolUSD
	}

	out.TotalVariablePayUSD = comp.RoundCents(out.TotalVariablePayUSD)
	out.SpiffUSD = comp.RoundCents(out.SpiffUSD)
	return out
}

func dealsForMetric(deals []Deal, metricName string, schedule *comp.RenewalSchedule) []comp.Deal {
	var out []comp.Deal
	for _, deal := range deals {
		if deal.MetricName != metricName {
			continue
		}
		out = append(out, toCompDeal(deal, schedule))
	}
	return out
}

func allDeals(deals []Deal, schedule *comp.RenewalSchedule) []comp.Deal {
	out := make([]comp.Deal, 0, len(deals))
	for _, deal := range deals {
		out = append(out, toCompDeal(deal, schedule))
	}
	return out
}

func toCompDeal(deal Deal, schedule *comp.RenewalSchedule) comp.Deal {
	value := deal.AmountUSD
	if schedule != nil && deal.ContractYears > 0 {
		value = schedule.AdjustedARR(value, deal.ContractYears)
	}
	return comp.Deal{
		ID:        deal.ID,
		ProjectID: deal.ProjectID,
		ValueUSD:  value,
		Period:    deal.Period,
	}
}
