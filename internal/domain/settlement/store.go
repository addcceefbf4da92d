package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, tenantID, employeeID string, departure time.Time, graceDays int) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO settlements (tenant_id, employee_id, departure_date, grace_days, status)
    VALUES ($1,$2,$3,$4,'open')
    RETURNING id
  `, tenantID, employeeID, departure, graceDays).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Settlement, error) {
	var out Settlement
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, departure_date, grace_days, status, created_at
    FROM settlements
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id).Scan(&out.ID, &out.EmployeeID, &out.DepartureDate, &out.CollectionGraceDays, &out.Status, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settlement{}, ErrNotFound
	}
	return out, err
}

func (s *Store) List(ctx context.Context, tenantID string, limit, offset int) ([]Settlement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, departure_date, grace_days, status, created_at
    FROM settlements
    WHERE tenant_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Settlement
	for rows.Next() {
		var item Settlement
		if err := rows.Scan(&item.ID, &item.EmployeeID, &item.DepartureDate, &item.CollectionGraceDays, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// YearEndLines collects the employee's year-end bucket amounts from prior
// attribution results as release lines for tranche 1.
func (s *Store) YearEndLines(ctx context.Context, tenantID, employeeID string) ([]LineItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT deal_id, payout_year_end_usd, created_at
    FROM payout_attributions
    WHERE tenant_id = $1 AND employee_id = $2 AND payout_year_end_usd > 0
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineItem
	for rows.Next() {
		var line LineItem
		if err := rows.Scan(&line.DealID, &line.AmountUSD, &line.OccurredAt); err != nil {
			return nil, err
		}
		line.Kind = LineYearEndRelease
		out = append(out, line)
	}
	return out, nil
}

// CollectionLines returns recorded collection-side events (releases,
// forfeits, clawback deductions) for the employee, filtered by kind.
func (s *Store) CollectionLines(ctx context.Context, tenantID, employeeID string, kinds []string) ([]LineItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT deal_id, kind, amount_usd, occurred_at
    FROM collection_events
    WHERE tenant_id = $1 AND employee_id = $2 AND kind = ANY($3)
    ORDER BY occurred_at
  `, tenantID, employeeID, kinds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineItem
	for rows.Next() {
		var line LineItem
		if err := rows.Scan(&line.DealID, &line.Kind, &line.AmountUSD, &line.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

// SaveTranche upserts the tranche row and replaces its line items in one
// transaction, so recalculation is idempotent.
func (s *Store) SaveTranche(ctx context.Context, settlementID string, number int, totalUSD, carryForwardUSD float64, eligibleAt *time.Time, lines []LineItem) (Tranche, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Tranche{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var tranche Tranche
	err = tx.QueryRow(ctx, `
    INSERT INTO settlement_tranches (settlement_id, number, status, total_usd, carry_forward_usd, eligible_at, calculated_at)
    VALUES ($1,$2,'draft',$3,$4,$5,now())
    ON CONFLICT (settlement_id, number)
    DO UPDATE SET total_usd = $3, carry_forward_usd = $4, eligible_at = $5, calculated_at = now()
    RETURNING id, settlement_id, number, status, total_usd, carry_forward_usd, eligible_at, calculated_at
  `, settlementID, number, totalUSD, carryForwardUSD, eligibleAt).Scan(
		&tranche.ID, &tranche.SettlementID, &tranche.Number, &tranche.Status,
		&tranche.TotalUSD, &tranche.CarryForwardUSD, &tranche.EligibleAt, &tranche.CalculatedAt)
	if err != nil {
		return Tranche{}, err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM settlement_lines WHERE tranche_id = $1", tranche.ID); err != nil {
		return Tranche{}, err
	}
	for _, line := range lines {
		if _, err := tx.Exec(ctx, `
      INSERT INTO settlement_lines (tranche_id, deal_id, kind, amount_usd, occurred_at)
      VALUES ($1,$2,$3,$4,$5)
    `, tranche.ID, line.DealID, line.Kind, line.AmountUSD, line.OccurredAt); err != nil {
			return Tranche{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Tranche{}, err
	}
	return tranche, nil
}

func (s *Store) Tranche(ctx context.Context, tenantID, trancheID string) (Tranche, error) {
	var out Tranche
	err := s.DB.QueryRow(ctx, `
    SELECT t.id, t.settlement_id, t.number, t.status, t.total_usd, t.carry_forward_usd, t.eligible_at, t.calculated_at
    FROM settlement_tranches t
    JOIN settlements s ON t.settlement_id = s.id
    WHERE s.tenant_id = $1 AND t.id = $2
  `, tenantID, trancheID).Scan(&out.ID, &out.SettlementID, &out.Number, &out.Status,
		&out.TotalUSD, &out.CarryForwardUSD, &out.EligibleAt, &out.CalculatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tranche{}, ErrTrancheNotFound
	}
	return out, err
}

func (s *Store) TrancheByNumber(ctx context.Context, settlementID string, number int) (Tranche, error) {
	var out Tranche
	err := s.DB.QueryRow(ctx, `
    SELECT id, settlement_id, number, status, total_usd, carry_forward_usd, eligible_at, calculated_at
    FROM settlement_tranches
    WHERE settlement_id = $1 AND number = $2
  `, settlementID, number).Scan(&out.ID, &out.SettlementID, &out.Number, &out.Status,
		&out.TotalUSD, &out.CarryForwardUSD, &out.EligibleAt, &out.CalculatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tranche{}, ErrTrancheNotFound
	}
	return out, err
}

func (s *Store) Tranches(ctx context.Context, settlementID string) ([]Tranche, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, settlement_id, number, status, total_usd, carry_forward_usd, eligible_at, calculated_at
    FROM settlement_tranches
    WHERE settlement_id = $1
    ORDER BY number
  `, settlementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tranche
	for rows.Next() {
		var item Tranche
		if err := rows.Scan(&item.ID, &item.SettlementID, &item.Number, &item.Status,
			&item.TotalUSD, &item.CarryForwardUSD, &item.EligibleAt, &item.CalculatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) TrancheLines(ctx context.Context, trancheID string) ([]LineItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT deal_id, kind, amount_usd, occurred_at
    FROM settlement_lines
    WHERE tranche_id = $1
    ORDER BY occurred_at
  `, trancheID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineItem
	for rows.Next() {
		var line LineItem
		if err := rows.Scan(&line.DealID, &line.Kind, &line.AmountUSD, &line.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (s *Store) UpdateTrancheStatus(ctx context.Context, trancheID, status string) error {
	_, err := s.DB.Exec(ctx, "UPDATE settlement_tranches SET status = $1 WHERE id = $2", status, trancheID)
	return err
}
