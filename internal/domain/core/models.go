package core

import "time"

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Region         string     `json:"region"`
	Currency       string     `json:"currency"`
	OTEUSD         *float64   `json:"oteUsd,omitempty"`
	VariablePayPct float64    `json:"variablePayPct"`
	BankAccount    string     `json:"bankAccount,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	DepartureDate  *time.Time `json:"departureDate,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Target is an employee's quota for one plan year. BonusAllocationUSD is the
// variable-pay pool the aggregate calculator scales; it defaults to
// OTE * variable share when not set explicitly.
type Target struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employeeId"`
	PlanID             string  `json:"planId"`
	PlanYear           int     `json:"planYear"`
	TargetUSD          float64 `json:"targetUsd"`
	BonusAllocationUSD float64 `json:"bonusAllocationUsd"`
}
