package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cryptoutil "salescomp/internal/platform/crypto"
)

type Store struct {
	DB     *pgxpool.Pool
	Crypto *cryptoutil.Service
}

func NewStore(db *pgxpool.Pool, crypto *cryptoutil.Service) *Store {
	return &Store{DB: db, Crypto: crypto}
}

const employeeColumns = `
    id,
    COALESCE(user_id::text, ''),
    COALESCE(employee_number, ''),
    first_name, last_name, email,
    COALESCE(region, ''),
    currency,
    ote_usd,
    variable_pay_pct,
    COALESCE(bank_account, ''),
    bank_account_enc,
    start_date, departure_date, status, created_at, updated_at`

func (s *Store) scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var bankEnc []byte
	var bankPlain string
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.Region, &emp.Currency, &emp.OTEUSD, &emp.VariablePayPct, &bankPlain, &bankEnc,
		&emp.StartDate, &emp.DepartureDate, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return Employee{}, err
	}
	emp.BankAccount = decryptStringFallback(s.Crypto, bankEnc, bankPlain)
	return emp, nil
}

func (s *Store) GetEmployee(ctx context.Context, tenantID, employeeID string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID)

	emp, err := s.scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) ListEmployees(ctx context.Context, tenantID string, activeOnly bool) ([]Employee, error) {
	query := `
    SELECT ` + employeeColumns + `
    FROM employees
    WHERE tenant_id = $1
    ORDER BY last_name, first_name`
	if activeOnly {
		query = `
    SELECT ` + employeeColumns + `
    FROM employees
    WHERE tenant_id = $1 AND status = 'active'
    ORDER BY last_name, first_name`
	}
	rows, err := s.DB.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := s.scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, nil
}

func (s *Store) CreateEmployee(ctx context.Context, tenantID string, emp Employee) (string, error) {
	bankEnc := encryptBankAccount(s.Crypto, emp.BankAccount)
	var bankPlain any = emp.BankAccount
	if s.Crypto != nil && s.Crypto.Configured() {
		bankPlain = nil
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (tenant_id, user_id, employee_number, first_name, last_name, email, region,
      currency, ote_usd, variable_pay_pct, bank_account, bank_account_enc, start_date, departure_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    RETURNING id
  `,
		tenantID, nullIfEmpty(emp.UserID), nullIfEmpty(emp.EmployeeNumber), emp.FirstName, emp.LastName, emp.Email,
		emp.Region, emp.Currency, emp.OTEUSD, emp.VariablePayPct, bankPlain, bankEnc,
		emp.StartDate, emp.DepartureDate, emp.Status,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, tenantID, employeeID string, emp Employee) error {
	bankEnc := encryptBankAccount(s.Crypto, emp.BankAccount)
	var bankPlain any = emp.BankAccount
	if s.Crypto != nil && s.Crypto.Configured() {
		bankPlain = nil
	}
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET employee_number = $1,
        first_name = $2,
        last_name = $3,
        email = $4,
        region = $5,
        currency = $6,
        ote_usd = $7,
        variable_pay_pct = $8,
        bank_account = $9,
        bank_account_enc = $10,
        start_date = $11,
        departure_date = $12,
        status = $13,
        updated_at = now()
    WHERE tenant_id = $14 AND id = $15
  `,
		emp.EmployeeNumber, emp.FirstName, emp.LastName, emp.Email, emp.Region, emp.Currency,
		emp.OTEUSD, emp.VariablePayPct, bankPlain, bankEnc,
		emp.StartDate, emp.DepartureDate, emp.Status, tenantID, employeeID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// MarkDeparted records the departure date and flips the employee out of the
// active roster so calculation runs stop picking them up.
func (s *Store) MarkDeparted(ctx context.Context, tenantID, employeeID string, departure time.Time) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET departure_date = $1, status = 'departed', updated_at = now()
    WHERE tenant_id = $2 AND id = $3
  `, departure, tenantID, employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) GetTarget(ctx context.Context, tenantID, employeeID, planID string, planYear int) (Target, error) {
	var out Target
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, plan_id, plan_year, target_usd, bonus_allocation_usd
    FROM employee_targets
    WHERE tenant_id = $1 AND employee_id = $2 AND plan_id = $3 AND plan_year = $4
  `, tenantID, employeeID, planID, planYear).Scan(
		&out.ID, &out.EmployeeID, &out.PlanID, &out.PlanYear, &out.TargetUSD, &out.BonusAllocationUSD)
	if errors.Is(err, pgx.ErrNoRows) {
		return Target{}, ErrTargetNotFound
	}
	return out, err
}

// UpsertTarget replaces the employee's quota row for the plan year.
func (s *Store) UpsertTarget(ctx context.Context, tenantID string, target Target) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_targets (tenant_id, employee_id, plan_id, plan_year, target_usd, bonus_allocation_usd)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (tenant_id, employee_id, plan_id, plan_year)
    DO UPDATE SET target_usd = $5, bonus_allocation_usd = $6
    RETURNING id
  `, tenantID, target.EmployeeID, target.PlanID, target.PlanYear, target.TargetUSD, target.BonusAllocationUSD).Scan(&id)
	return id, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func encryptBankAccount(crypto *cryptoutil.Service, bankAccount string) []byte {
	if crypto == nil || !crypto.Configured() {
		return nil
	}
	enc, _ := crypto.EncryptString(bankAccount)
	return enc
}

func decryptStringFallback(crypto *cryptoutil.Service, encrypted []byte, plain string) string {
	if crypto == nil || !crypto.Configured() || len(encrypted) == 0 {
		return plain
	}
	decrypted, err := crypto.DecryptString(encrypted)
	if err != nil {
		return plain
	}
	return decrypted
}
