package comp

// Metric is one compensation rule on a plan: how much of the variable OTE it
// carries, how achievement maps to a multiplier, and how payouts are split
// across timing buckets. Configuration invariants (weightages summing to 100,
// split summing to 100, ordered grid bands) are enforced when plans are
// saved, not here.
type Metric struct {
	ID               string
	Name             string
	LogicType        string
	WeightagePct     float64
	GateThresholdPct *float64
	Grid             []MultiplierBand
	Split            PayoutSplit
}

// MultiplierBand maps an achievement range to a payout multiplier.
// ToPct nil means the band is open ended.
type MultiplierBand struct {
	FromPct    float64  `json:"fromPct"`
	ToPct      *float64 `json:"toPct,omitempty"`
	Multiplier float64  `json:"multiplier"`
}

// PayoutSplit is the booking/collection/year-end percentage split for one
// metric. The three fields sum to 100 for valid configuration.
type PayoutSplit struct {
	BookingPct    float64 `json:"bookingPct"`
	CollectionPct float64 `json:"collectionPct"`
	YearEndPct    float64 `json:"yearEndPct"`
}

func (p PayoutSplit) IsZero() bool {
	return p.BookingPct == 0 && p.CollectionPct == 0 && p.YearEndPct == 0
}

// Deal is a single attribution input: one closed deal's USD contribution for
// a month. Deals with zero or negative value never enter the math.
type Deal struct {
	ID        string
	ProjectID string
	ValueUSD  float64
	Period    string
}

// Attribution is the per-deal share of an aggregate payout, split into
// timing buckets. ClawbackEligibleUSD equals the booking bucket: that money
// is paid before collection is confirmed and is the only amount subject to
// recovery.
type Attribution struct {
	DealID                string  `json:"dealId"`
	ProjectID             string  `json:"projectId,omitempty"`
	ProportionPct         float64 `json:"proportionPct"`
	VariablePayUSD        float64 `json:"variablePayUsd"`
	PayoutOnBookingUSD    float64 `json:"payoutOnBookingUsd"`
	PayoutOnCollectionUSD float64 `json:"payoutOnCollectionUsd"`
	PayoutOnYearEndUSD    float64 `json:"payoutOnYearEndUsd"`
	ClawbackEligibleUSD   float64 `json:"clawbackEligibleUsd"`
}

// AggregateResult is the employee/metric/period level outcome before the
// per-deal fan-out.
type AggregateResult struct {
	AchievementPct      float64
	Multiplier          float64
	TotalVariablePayUSD float64
	BelowGate           bool
}

// AttributionContext summarizes one attribution run.
type AttributionContext struct {
	TotalActualUSD      float64
	TargetUSD           float64
	BonusAllocationUSD  float64
	AchievementPct      float64
	Multiplier          float64
	TotalVariablePayUSD float64
	BelowGate           bool
	DealCount           int
}

// RenewalTier scales a deal's Closing ARR by Multiplier when the deal's
// renewal-year count falls inside [MinYears, MaxYears]. MaxYears nil means
// unbounded.
type RenewalTier struct {
	MinYears   int     `json:"minYears"`
	MaxYears   *int    `json:"maxYears,omitempty"`
	Multiplier float64 `json:"multiplier"`
}
