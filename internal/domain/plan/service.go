package plan

import (
	"context"

	"salescomp/internal/domain/comp"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, tenantID string, p Plan) (string, error) {
	if p.Status == "" {
		p.Status = "draft"
	}
	return s.store.Create(ctx, tenantID, p)
}

func (s *Service) Get(ctx context.Context, tenantID, planID string) (Plan, error) {
	return s.store.Get(ctx, tenantID, planID)
}

func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]Plan, error) {
	return s.store.List(ctx, tenantID, limit, offset)
}

func (s *Service) Activate(ctx context.Context, tenantID, planID string) error {
	metrics, err := s.store.Metrics(ctx, tenantID, planID)
	if err != nil {
		return err
	}
	if err := ValidateMetrics(metrics); err != nil {
		return err
	}
	return s.store.UpdateStatus(ctx, tenantID, planID, "active")
}

func (s *Service) Archive(ctx context.Context, tenantID, planID string) error {
	return s.store.UpdateStatus(ctx, tenantID, planID, "archived")
}

// SetMetrics validates and replaces the plan's metric configuration.
func (s *Service) SetMetrics(ctx context.Context, tenantID, planID string, metrics []Metric) error {
	if _, err := s.store.Get(ctx, tenantID, planID); err != nil {
		return err
	}
	if err := ValidateMetrics(metrics); err != nil {
		return err
	}
	return s.store.ReplaceMetrics(ctx, tenantID, planID, metrics)
}

func (s *Service) Metrics(ctx context.Context, tenantID, planID string) ([]Metric, error) {
	return s.store.Metrics(ctx, tenantID, planID)
}

// SetRenewalTiers validates the schedule through the engine's constructor
// before persisting, so a stored schedule always loads cleanly.
func (s *Service) SetRenewalTiers(ctx context.Context, tenantID, planID string, tiers []comp.RenewalTier) error {
	if _, err := s.store.Get(ctx, tenantID, planID); err != nil {
		return err
	}
	if _, err := comp.NewRenewalSchedule(tiers); err != nil {
		return err
	}
	return s.store.ReplaceRenewalTiers(ctx, planID, tiers)
}

func (s *Service) RenewalSchedule(ctx context.Context, tenantID, planID string) (*comp.RenewalSchedule, error) {
	if _, err := s.store.Get(ctx, tenantID, planID); err != nil {
		return nil, err
	}
	tiers, err := s.store.RenewalTiers(ctx, planID)
	if err != nil {
		return nil, err
	}
	return comp.NewRenewalSchedule(tiers)
}

func (s *Service) CreateSpiff(ctx context.Context, tenantID string, spiff Spiff) (string, error) {
	if _, err := s.store.Get(ctx, tenantID, spiff.PlanID); err != nil {
		return "", err
	}
	if err := ValidateSpiff(spiff); err != nil {
		return "", err
	}
	return s.store.CreateSpiff(ctx, tenantID, spiff)
}

func (s *Service) Spiffs(ctx context.Context, tenantID, planID string) ([]Spiff, error) {
	return s.store.Spiffs(ctx, tenantID, planID)
}
