package settlement

const (
	StatusDraft     = "draft"
	StatusReview    = "review"
	StatusApproved  = "approved"
	StatusFinalized = "finalized"
	StatusPaid      = "paid"
)

const (
	LineYearEndRelease    = "year_end_release"
	LineClawbackDeduction = "clawback_deduction"
	LineCollectionRelease = "collection_release"
	LineCollectionForfeit = "collection_forfeit"
)
