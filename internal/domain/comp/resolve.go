package comp

// Resolve turns actual-vs-target into an achievement percentage and the
// multiplier configured for that achievement level.
//
// A zero target means "no target, no payout": both outputs are zero rather
// than an error. Achievement is not clamped, so over-achievement exceeds 100.
// Linear and stepped metrics share the same grid lookup; a linear plan simply
// configures fine-grained 1:1 bands.
func Resolve(actualUSD, targetUSD float64, metric Metric) (achievementPct, multiplier float64) {
	if targetUSD == 0 {
		return 0, 0
	}
	achievementPct = actualUSD / targetUSD * 100
	return achievementPct, lookupMultiplier(metric.Grid, achievementPct)
}

// lookupMultiplier scans the ordered grid for the band containing the
// achievement percentage. Achievement below the lowest configured band earns
// no multiplier; plans that pay from zero configure a band starting at 0.
func lookupMultiplier(grid []MultiplierBand, achievementPct float64) float64 {
	for _, band := range grid {
		if achievementPct < band.FromPct {
			continue
		}
		if band.ToPct == nil || achievementPct <= *band.ToPct {
			return band.Multiplier
		}
	}
	return 0
}

// belowGate reports whether a gated metric zeroes the payout at this
// achievement level. The gate is strict: achievement must exceed the
// threshold, merely meeting it pays nothing.
func belowGate(metric Metric, achievementPct float64) bool {
	if metric.LogicType != LogicGatedThreshold || metric.GateThresholdPct == nil {
		return false
	}
	return achievementPct <= *metric.GateThresholdPct
}

// Aggregate computes the total variable pay for one employee/metric/period.
// bonusAllocationUSD is supplied by the caller (variable OTE x metric
// weightage). The result is rounded to cents at this boundary only.
func Aggregate(totalActualUSD, targetUSD, bonusAllocationUSD float64, metric Metric) AggregateResult {
	achievementPct, multiplier := Resolve(totalActualUSD, targetUSD, metric)
	out := AggregateResult{
		AchievementPct: achievementPct,
		Multiplier:     multiplier,
		BelowGate:      belowGate(metric, achievementPct),
	}
	if out.BelowGate {
		return out
	}
	out.TotalVariablePayUSD = RoundCents(achievementPct / 100 * bonusAllocationUSD * multiplier)
	return out
}
