package settlement

import "errors"

var (
	ErrNotFound         = errors.New("settlement not found")
	ErrTrancheNotFound  = errors.New("settlement tranche not found")
	ErrNotYetEligible   = errors.New("tranche 2 eligibility date not reached")
	ErrStatusFinal      = errors.New("tranche already paid")
	ErrUnknownStatus    = errors.New("unknown tranche status")
	ErrTranche1NotBuilt = errors.New("tranche 1 must be calculated first")
)
