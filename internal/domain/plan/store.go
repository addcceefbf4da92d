package plan

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salescomp/internal/domain/comp"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, tenantID string, p Plan) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO plans (tenant_id, name, plan_year, status, grace_days)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tenantID, p.Name, p.PlanYear, p.Status, p.CollectionGraceDays).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, tenantID, planID string) (Plan, error) {
	var out Plan
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, plan_year, status, grace_days, created_at, updated_at
    FROM plans
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, planID).Scan(&out.ID, &out.Name, &out.PlanYear, &out.Status,
		&out.CollectionGraceDays, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	return out, err
}

func (s *Store) List(ctx context.Context, tenantID string, limit, offset int) ([]Plan, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, plan_year, status, grace_days, created_at, updated_at
    FROM plans
    WHERE tenant_id = $1
    ORDER BY plan_year DESC, name
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		var item Plan
		if err := rows.Scan(&item.ID, &item.Name, &item.PlanYear, &item.Status,
			&item.CollectionGraceDays, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, tenantID, planID, status string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE plans SET status = $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3
  `, status, tenantID, planID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceMetrics swaps the plan's whole metric configuration in one
// transaction. Bands cascade with their metric rows.
func (s *Store) ReplaceMetrics(ctx context.Context, tenantID, planID string, metrics []Metric) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM plan_metrics WHERE plan_id = $1", planID); err != nil {
		return err
	}
	for _, metric := range metrics {
		var metricID string
		err := tx.QueryRow(ctx, `
      INSERT INTO plan_metrics (tenant_id, plan_id, name, logic_type, weightage_pct, gate_threshold_pct,
        split_booking_pct, split_collection_pct, split_year_end_pct)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
      RETURNING id
    `, tenantID, planID, metric.Name, metric.LogicType, metric.WeightagePct, metric.GateThresholdPct,
			metric.Split.BookingPct, metric.Split.CollectionPct, metric.Split.YearEndPct).Scan(&metricID)
		if err != nil {
			return err
		}
		for _, band := range metric.Bands {
			if _, err := tx.Exec(ctx, `
        INSERT INTO metric_bands (metric_id, from_pct, to_pct, multiplier)
        VALUES ($1,$2,$3,$4)
      `, metricID, band.FromPct, band.ToPct, band.Multiplier); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) Metrics(ctx context.Context, tenantID, planID string) ([]Metric, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, plan_id, name, logic_type, weightage_pct, gate_threshold_pct,
           split_booking_pct, split_collection_pct, split_year_end_pct
    FROM plan_metrics
    WHERE tenant_id = $1 AND plan_id = $2
    ORDER BY name
  `, tenantID, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Metric
	for rows.Next() {
		var item Metric
		if err := rows.Scan(&item.ID, &item.PlanID, &item.Name, &item.LogicType, &item.WeightagePct,
			&item.GateThresholdPct, &item.Split.BookingPct, &item.Split.CollectionPct, &item.Split.YearEndPct); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	rows.Close()

	for i := range out {
		bands, err := s.metricBands(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Bands = bands
	}
	return out, nil
}

func (s *Store) metricBands(ctx context.Context, metricID string) ([]comp.MultiplierBand, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT from_pct, to_pct, multiplier
    FROM metric_bands
    WHERE metric_id = $1
    ORDER BY from_pct
  `, metricID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []comp.MultiplierBand
	for rows.Next() {
		var band comp.MultiplierBand
		if err := rows.Scan(&band.FromPct, &band.ToPct, &band.Multiplier); err != nil {
			return nil, err
		}
		out = append(out, band)
	}
	return out, nil
}

// ReplaceRenewalTiers swaps the plan's renewal multiplier schedule.
func (s *Store) ReplaceRenewalTiers(ctx context.Context, planID string, tiers []comp.RenewalTier) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM renewal_tiers WHERE plan_id = $1", planID); err != nil {
		return err
	}
	for _, tier := range tiers {
		if _, err := tx.Exec(ctx, `
      INSERT INTO renewal_tiers (plan_id, min_years, max_years, multiplier)
      VALUES ($1,$2,$3,$4)
    `, planID, tier.MinYears, tier.MaxYears, tier.Multiplier); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) RenewalTiers(ctx context.Context, planID string) ([]comp.RenewalTier, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT min_years, max_years, multiplier
    FROM renewal_tiers
    WHERE plan_id = $1
    ORDER BY min_years
  `, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []comp.RenewalTier
	for rows.Next() {
		var tier comp.RenewalTier
		if err := rows.Scan(&tier.MinYears, &tier.MaxYears, &tier.Multiplier); err != nil {
			return nil, err
		}
		out = append(out, tier)
	}
	return out, nil
}

func (s *Store) CreateSpiff(ctx context.Context, tenantID string, spiff Spiff) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO spiffs (tenant_id, plan_id, name, pool_usd, split_booking_pct, split_collection_pct, split_year_end_pct)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, tenantID, spiff.PlanID, spiff.Name, spiff.PoolUSD,
		spiff.Split.BookingPct, spiff.Split.CollectionPct, spiff.Split.YearEndPct).Scan(&id)
	return id, err
}

func (s *Store) Spiffs(ctx context.Context, tenantID, planID string) ([]Spiff, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, plan_id, name, pool_usd, split_booking_pct, split_collection_pct, split_year_end_pct
    FROM spiffs
    WHERE tenant_id = $1 AND plan_id = $2
    ORDER BY name
  `, tenantID, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Spiff
	for rows.Next() {
		var item Spiff
		if err := rows.Scan(&item.ID, &item.PlanID, &item.Name, &item.PoolUSD,
			&item.Split.BookingPct, &item.Split.CollectionPct, &item.Split.YearEndPct); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
