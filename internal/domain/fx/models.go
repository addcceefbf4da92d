package fx

import (
	"errors"
	"time"
)

type Rate struct {
	ID        string    `json:"id"`
	Currency  string    `json:"currency"`
	Period    string    `json:"period"`
	RateToUSD float64   `json:"rateToUsd"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrRateNotFound = errors.New("exchange rate not found")
	ErrBadRate      = errors.New("exchange rate must be positive")
)
