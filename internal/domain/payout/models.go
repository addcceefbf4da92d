package payout

import (
	"time"

	"salescomp/internal/domain/comp"
)

type Run struct {
	ID            string     `json:"id"`
	PlanID        string     `json:"planId"`
	PlanYear      int        `json:"planYear"`
	Status        string     `json:"status"`
	EmployeeCount int        `json:"employeeCount"`
	FailureCount  int        `json:"failureCount"`
	StartedAt     time.Time  `json:"startedAt"`
	FinishedAt    *time.Time `json:"finishedAt,omitempty"`
}

// Deal is a booked deal row as loaded for calculation. Amount is in the
// deal's own currency; AmountUSD is filled in after conversion.
type Deal struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employeeId"`
	ProjectID     string  `json:"projectId"`
	MetricName    string  `json:"metricName"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Period        string  `json:"period"`
	ContractYears int     `json:"contractYears"`
	AmountUSD     float64 `json:"amountUsd"`
}

// MetricOutcome is the resolved result for one plan metric.
type MetricOutcome struct {
	MetricID            string             `json:"metricId"`
	MetricName          string             `json:"metricName"`
	AchievementPct      float64            `json:"achievementPct"`
	Multiplier          float64            `json:"multiplier"`
	BelowGate           bool               `json:"belowGate"`
	TotalVariablePayUSD float64            `json:"totalVariablePayUsd"`
	Attributions        []comp.Attribution `json:"attributions"`
}

// Outcome is one employee's full calculation result for a run.
type Outcome struct {
	EmployeeID          string          `json:"employeeId"`
	Metrics             []MetricOutcome `json:"metrics"`
	SpiffUSD            float64         `json:"spiffUsd"`
	TotalVariablePayUSD float64         `json:"totalVariablePayUsd"`
}

// AttributionRow is one persisted deal-level attribution line.
type AttributionRow struct {
	ID                  string    `json:"id"`
	RunID               string    `json:"runId"`
	EmployeeID          string    `json:"employeeId"`
	MetricName          string    `json:"metricName"`
	DealID              string    `json:"dealId"`
	ProjectID           string    `json:"projectId"`
	ProportionPct       float64   `json:"proportionPct"`
	VariablePayUSD      float64   `json:"variablePayUsd"`
	PayoutBookingUSD    float64   `json:"payoutBookingUsd"`
	PayoutCollectionUSD float64   `json:"payoutCollectionUsd"`
	PayoutYearEndUSD    float64   `json:"payoutYearEndUsd"`
	ClawbackEligibleUSD float64   `json:"clawbackEligibleUsd"`
	CreatedAt           time.Time `json:"createdAt"`
}
