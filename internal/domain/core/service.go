package core

import (
	"context"
	"time"

	"salescomp/internal/domain/comp"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetEmployee(ctx context.Context, tenantID, employeeID string) (*Employee, error) {
	return s.store.GetEmployee(ctx, tenantID, employeeID)
}

func (s *Service) ListEmployees(ctx context.Context, tenantID string, activeOnly bool) ([]Employee, error) {
	return s.store.ListEmployees(ctx, tenantID, activeOnly)
}

func (s *Service) CreateEmployee(ctx context.Context, tenantID string, emp Employee) (string, error) {
	if emp.Status == "" {
		emp.Status = "active"
	}
	return s.store.CreateEmployee(ctx, tenantID, emp)
}

func (s *Service) UpdateEmployee(ctx context.Context, tenantID, employeeID string, emp Employee) error {
	return s.store.UpdateEmployee(ctx, tenantID, employeeID, emp)
}

func (s *Service) MarkDeparted(ctx context.Context, tenantID, employeeID string, departure time.Time) error {
	return s.store.MarkDeparted(ctx, tenantID, employeeID, departure)
}

func (s *Service) GetTarget(ctx context.Context, tenantID, employeeID, planID string, planYear int) (Target, error) {
	return s.store.GetTarget(ctx, tenantID, employeeID, planID, planYear)
}

// SetTarget stores the quota row. A zero bonus allocation is derived from the
// employee's OTE and variable-pay share when both are on file.
func (s *Service) SetTarget(ctx context.Context, tenantID string, target Target) (string, error) {
	if target.BonusAllocationUSD == 0 {
		emp, err := s.store.GetEmployee(ctx, tenantID, target.EmployeeID)
		if err != nil {
			return "", err
		}
		if emp.OTEUSD != nil && emp.VariablePayPct > 0 {
			target.BonusAllocationUSD = comp.RoundCents(*emp.OTEUSD * emp.VariablePayPct / 100)
		}
	}
	return s.store.UpsertTarget(ctx, tenantID, target)
}
