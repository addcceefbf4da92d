package fx

import (
	"context"
	"strings"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) SetRate(ctx context.Context, tenantID string, rate Rate) (string, error) {
	if rate.RateToUSD <= 0 {
		return "", ErrBadRate
	}
	rate.Currency = strings.ToUpper(rate.Currency)
	return s.store.Upsert(ctx, tenantID, rate)
}

func (s *Service) List(ctx context.Context, tenantID, period string) ([]Rate, error) {
	return s.store.List(ctx, tenantID, period)
}

// ToUSD converts a deal amount into USD using the tenant's stored rate for
// the deal's period. USD amounts pass through untouched.
func (s *Service) ToUSD(ctx context.Context, tenantID, currency, period string, amount float64) (float64, error) {
	currency = strings.ToUpper(currency)
	if currency == "" || currency == "USD" {
		return amount, nil
	}
	rate, err := s.store.Get(ctx, tenantID, currency, period)
	if err != nil {
		return 0, err
	}
	return amount * rate.RateToUSD, nil
}
