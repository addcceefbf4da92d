package payout

import "errors"

var (
	ErrRunNotFound   = errors.New("calculation run not found")
	ErrPlanNotActive = errors.New("plan is not active")
	ErrNoTarget      = errors.New("employee has no target for the plan year")
	ErrRunInProgress = errors.New("a calculation run is already in progress for this plan")
)
