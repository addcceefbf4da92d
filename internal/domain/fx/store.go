package fx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Upsert(ctx context.Context, tenantID string, rate Rate) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO exchange_rates (tenant_id, currency, period, rate_to_usd)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (tenant_id, currency, period)
    DO UPDATE SET rate_to_usd = $4
    RETURNING id
  `, tenantID, rate.Currency, rate.Period, rate.RateToUSD).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, tenantID, currency, period string) (Rate, error) {
	var out Rate
	err := s.DB.QueryRow(ctx, `
    SELECT id, currency, period, rate_to_usd, created_at
    FROM exchange_rates
    WHERE tenant_id = $1 AND currency = $2 AND period = $3
  `, tenantID, currency, period).Scan(&out.ID, &out.Currency, &out.Period, &out.RateToUSD, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, ErrRateNotFound
	}
	return out, err
}

func (s *Store) List(ctx context.Context, tenantID, period string) ([]Rate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, currency, period, rate_to_usd, created_at
    FROM exchange_rates
    WHERE tenant_id = $1 AND period = $2
    ORDER BY currency
  `, tenantID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rate
	for rows.Next() {
		var item Rate
		if err := rows.Scan(&item.ID, &item.Currency, &item.Period, &item.RateToUSD, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
