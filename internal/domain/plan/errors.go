package plan

import "errors"

var (
	ErrNotFound             = errors.New("plan not found")
	ErrNoMetrics            = errors.New("plan has no metrics")
	ErrWeightageSum         = errors.New("metric weightages must sum to 100")
	ErrSplitSum             = errors.New("payout split must sum to 100")
	ErrBandRange            = errors.New("multiplier band range is invalid")
	ErrBandOverlap          = errors.New("multiplier bands overlap")
	ErrBandUnboundedNotLast = errors.New("open-ended multiplier band must be last")
	ErrBadLogicType         = errors.New("unknown payout logic type")
	ErrGateRequired         = errors.New("gated metric requires a gate threshold")
)
