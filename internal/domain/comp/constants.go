package comp

const (
	LogicLinear             = "linear"
	LogicGatedThreshold     = "gated_threshold"
	LogicSteppedAccelerator = "stepped_accelerator"
)

// DefaultPayoutSplit is the documented fallback used when a plan has not
// configured its own split. Not every plan wants 70/25/5; plans override it
// per metric.
var DefaultPayoutSplit = PayoutSplit{BookingPct: 70, CollectionPct: 25, YearEndPct: 5}
