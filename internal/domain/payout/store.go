package payout

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// CreateRun inserts the 'running' bookkeeping row. A partial unique index on
// (tenant_id, plan_id) WHERE status = 'running' makes this the concurrency
// guard: a second concurrent run hits the index and gets ErrRunInProgress.
func (s *Store) CreateRun(ctx context.Context, tenantID, planID string, planYear int) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO calc_runs (tenant_id, plan_id, plan_year, status, started_at)
    VALUES ($1,$2,$3,'running',now())
    RETURNING id
  `, tenantID, planID, planYear).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrRunInProgress
	}
	return id, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) FinishRun(ctx context.Context, runID, status string, employeeCount, failureCount int, failures []string) error {
	details, err := json.Marshal(map[string]any{"failures": failures})
	if err != nil {
		details = []byte("{}")
	}
	_, err = s.DB.Exec(ctx, `
    UPDATE calc_runs
    SET status = $1, employee_count = $2, failure_count = $3, details_json = $4, finished_at = now()
    WHERE id = $5
  `, status, employeeCount, failureCount, details, runID)
	return err
}

func (s *Store) Run(ctx context.Context, tenantID, runID string) (Run, error) {
	var out Run
	err := s.DB.QueryRow(ctx, `
    SELECT id, plan_id, plan_year, status, employee_count, failure_count, started_at, finished_at
    FROM calc_runs
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, runID).Scan(&out.ID, &out.PlanID, &out.PlanYear, &out.Status,
		&out.EmployeeCount, &out.FailureCount, &out.StartedAt, &out.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return out, err
}

func (s *Store) ListRuns(ctx context.Context, tenantID string, limit, offset int) ([]Run, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, plan_id, plan_year, status, employee_count, failure_count, started_at, finished_at
    FROM calc_runs
    WHERE tenant_id = $1
    ORDER BY started_at DESC
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var item Run
		if err := rows.Scan(&item.ID, &item.PlanID, &item.PlanYear, &item.Status,
			&item.EmployeeCount, &item.FailureCount, &item.StartedAt, &item.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// DealsForEmployee loads the employee's deals for the plan year, in their
// original currency.
func (s *Store) DealsForEmployee(ctx context.Context, tenantID, employeeID string, planYear int) ([]Deal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, COALESCE(project_id, ''), metric_name, amount, currency, period, COALESCE(contract_years, 0)
    FROM deals
    WHERE tenant_id = $1 AND employee_id = $2 AND plan_year = $3
    ORDER BY period, id
  `, tenantID, employeeID, planYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Deal
	for rows.Next() {
		var deal Deal
		if err := rows.Scan(&deal.ID, &deal.EmployeeID, &deal.ProjectID, &deal.MetricName,
			&deal.Amount, &deal.Currency, &deal.Period, &deal.ContractYears); err != nil {
			return nil, err
		}
		out = append(out, deal)
	}
	return out, nil
}

// ReplaceAttributions deletes the employee's rows for the run and writes the
// fresh outcome, so reruns are idempotent.
func (s *Store) ReplaceAttributions(ctx context.Context, tenantID, runID string, outcome Outcome) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    DELETE FROM payout_attributions
    WHERE tenant_id = $1 AND run_id = $2 AND employee_id = $3
  `, tenantID, runID, outcome.EmployeeID); err != nil {
		return err
	}

	for _, metric := range outcome.Metrics {
		for _, attr := range metric.Attributions {
			if _, err := tx.Exec(ctx, `
        INSERT INTO payout_attributions (tenant_id, run_id, employee_id, metric_name, deal_id, project_id,
          proportion_pct, variable_pay_usd, payout_booking_usd, payout_collection_usd, payout_year_end_usd,
          clawback_eligible_usd)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
      `, tenantID, runID, outcome.EmployeeID, metric.MetricName, attr.DealID, attr.ProjectID,
				attr.ProportionPct, attr.VariablePayUSD, attr.PayoutOnBookingUSD, attr.PayoutOnCollectionUSD,
				attr.PayoutOnYearEndUSD, attr.ClawbackEligibleUSD); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) Attributions(ctx context.Context, tenantID, runID string) ([]AttributionRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, run_id, employee_id, metric_name, deal_id, COALESCE(project_id, ''),
           proportion_pct, variable_pay_usd, payout_booking_usd, payout_collection_usd,
           payout_year_end_usd, clawback_eligible_usd, created_at
    FROM payout_attributions
    WHERE tenant_id = $1 AND run_id = $2
    ORDER BY employee_id, metric_name, deal_id
  `, tenantID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttributionRow
	for rows.Next() {
		var row AttributionRow
		if err := rows.Scan(&row.ID, &row.RunID, &row.EmployeeID, &row.MetricName, &row.DealID, &row.ProjectID,
			&row.ProportionPct, &row.VariablePayUSD, &row.PayoutBookingUSD, &row.PayoutCollectionUSD,
			&row.PayoutYearEndUSD, &row.ClawbackEligibleUSD, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
