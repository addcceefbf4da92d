package comp

// Attribute distributes one employee/metric/period variable-pay total across
// the deals that produced the actuals, proportional to each deal's USD
// contribution, then splits each share into booking/collection/year-end
// buckets.
//
// Deals with zero or negative value are dropped before any computation: they
// appear in neither numerator nor denominator. No qualifying deals is not an
// error; it yields an empty attribution list and a zeroed context.
//
// The sum of VariablePayUSD across attributions approximates the aggregate
// total within 0.005 USD per deal: each deal's share is rounded to cents
// independently. ProportionPct is rounded independently of the money, so
// proportion times total need not reproduce the rounded share exactly. Both
// are deliberate, documented behavior.
func Attribute(deals []Deal, metric Metric, targetUSD, bonusAllocationUSD float64) ([]Attribution, AttributionContext) {
	valid, totalActualUSD := validDeals(deals)

	ctx := AttributionContext{
		TotalActualUSD:     totalActualUSD,
		TargetUSD:          targetUSD,
		BonusAllocationUSD: bonusAllocationUSD,
		DealCount:          len(valid),
	}
	if totalActualUSD == 0 {
		return nil, ctx
	}

	agg := Aggregate(totalActualUSD, targetUSD, bonusAllocationUSD, metric)
	ctx.AchievementPct = RoundCents(agg.AchievementPct)
	ctx.Multiplier = agg.Multiplier
	ctx.TotalVariablePayUSD = agg.TotalVariablePayUSD
	ctx.BelowGate = agg.BelowGate

	split := metric.Split
	if split.IsZero() {
		split = DefaultPayoutSplit
	}

	return fanOut(valid, totalActualUSD, agg.TotalVariablePayUSD, split), ctx
}

// AttributeAmount fans a fixed USD amount (commission or SPIFF pool) out
// across deals with the same pro-rata and bucket-split rules, without the
// achievement math.
func AttributeAmount(deals []Deal, amountUSD float64, split PayoutSplit) ([]Attribution, AttributionContext) {
	valid, totalActualUSD := validDeals(deals)

	ctx := AttributionContext{
		TotalActualUSD: totalActualUSD,
		DealCount:      len(valid),
	}
	if totalActualUSD == 0 || amountUSD <= 0 {
		return nil, ctx
	}
	ctx.TotalVariablePayUSD = RoundCents(amountUSD)

	if split.IsZero() {
		split = DefaultPayoutSplit
	}
	return fanOut(valid, totalActualUSD, amountUSD, split), ctx
}

func validDeals(deals []Deal) ([]Deal, float64) {
	valid := make([]Deal, 0, len(deals))
	var total float64
	for _, deal := range deals {
		if deal.ValueUSD <= 0 {
			continue
		}
		valid = append(valid, deal)
		total += deal.ValueUSD
	}
	return valid, total
}

func fanOut(deals []Deal, totalActualUSD, totalPayUSD float64, split PayoutSplit) []Attribution {
	out := make([]Attribution, 0, len(deals))
	for _, deal := range deals {
		proportionPct := deal.ValueUSD / totalActualUSD * 100
		share := totalPayUSD * proportionPct / 100

		booking := RoundCents(share * split.BookingPct / 100)
		collection := RoundCents(share * split.CollectionPct / 100)
		yearEnd := RoundCents(share * split.YearEndPct / 100)

		out = append(out, Attribution{
			DealID:                deal.ID,
			ProjectID:             deal.ProjectID,
			ProportionPct:         RoundCents(proportionPct),
			VariablePayUSD:        RoundCents(share),
			PayoutOnBookingUSD:    booking,
			PayoutOnCollectionUSD: collection,
			PayoutOnYearEndUSD:    yearEnd,
			ClawbackEligibleUSD:   booking,
		})
	}
	return out
}
