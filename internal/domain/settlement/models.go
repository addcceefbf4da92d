package settlement

import "time"

// Settlement is the full-and-final record for one departing employee.
type Settlement struct {
	ID                  string    `json:"id"`
	EmployeeID          string    `json:"employeeId"`
	DepartureDate       time.Time `json:"departureDate"`
	CollectionGraceDays int       `json:"collectionGraceDays"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Tranche is one time-phased portion of a settlement. Tranche 1 is released
// immediately from year-end balances net of clawbacks; tranche 2 is deferred
// until the collection grace window has passed.
type Tranche struct {
	ID              string     `json:"id"`
	SettlementID    string     `json:"settlementId"`
	Number          int        `json:"number"`
	Status          string     `json:"status"`
	TotalUSD        float64    `json:"totalUsd"`
	CarryForwardUSD float64    `json:"carryForwardUsd"`
	EligibleAt      *time.Time `json:"eligibleAt,omitempty"`
	CalculatedAt    time.Time  `json:"calculatedAt"`
}

// LineItem is a signed contribution to a tranche total. Releases are
// positive; clawback deductions and collection forfeits are negative.
type LineItem struct {
	DealID     string    `json:"dealId"`
	Kind       string    `json:"kind"`
	AmountUSD  float64   `json:"amountUsd"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Tranche1Result is the immediate tranche: total payable now plus any
// clawback amount the year-end releases could not absorb, carried into
// tranche 2.
type Tranche1Result struct {
	Lines           []LineItem
	TotalUSD        float64
	CarryForwardUSD float64
}

// Tranche2Result is the deferred tranche computed after the eligibility
// date. RemainingClawbackUSD is whatever part of the carry-forward the
// collection releases still could not cover.
type Tranche2Result struct {
	Lines                []LineItem
	TotalUSD             float64
	RemainingClawbackUSD float64
}
