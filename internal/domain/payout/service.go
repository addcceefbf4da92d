package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"salescomp/internal/domain/comp"
	"salescomp/internal/domain/core"
	"salescomp/internal/domain/fx"
	"salescomp/internal/domain/plan"
	"salescomp/internal/platform/metrics"
)

type Service struct {
	store       *Store
	plans       *plan.Service
	employees   *core.Service
	rates       *fx.Service
	collector   *metrics.Collector
	concurrency int
}

func NewService(store *Store, plans *plan.Service, employees *core.Service, rates *fx.Service, collector *metrics.Collector, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		store:       store,
		plans:       plans,
		employees:   employees,
		rates:       rates,
		collector:   collector,
		concurrency: concurrency,
	}
}

func (s *Service) Run(ctx context.Context, tenantID, runID string) (Run, error) {
	return s.store.Run(ctx, tenantID, runID)
}

func (s *Service) ListRuns(ctx context.Context, tenantID string, limit, offset int) ([]Run, error) {
	return s.store.ListRuns(ctx, tenantID, limit, offset)
}

func (s *Service) Attributions(ctx context.Context, tenantID, runID string) ([]AttributionRow, error) {
	if _, err := s.store.Run(ctx, tenantID, runID); err != nil {
		return nil, err
	}
	return s.store.Attributions(ctx, tenantID, runID)
}

// RunCalculation calculates the whole active roster for a plan. Employees
// are processed concurrently with a bounded worker count; one employee's
// failure is recorded and the rest of the batch continues. progress may be
// nil.
func (s *Service) RunCalculation(ctx context.Context, tenantID, planID string, progress func(done, total int)) (Run, error) {
	started := time.Now()

	p, err := s.plans.Get(ctx, tenantID, planID)
	if err != nil {
		return Run{}, err
	}
	if p.Status != "active" {
		return Run{}, ErrPlanNotActive
	}

	metricSet, err := s.plans.Metrics(ctx, tenantID, planID)
	if err != nil {
		return Run{}, err
	}
	if err := plan.ValidateMetrics(metricSet); err != nil {
		return Run{}, err
	}
	schedule, err := s.plans.RenewalSchedule(ctx, tenantID, planID)
	if err != nil {
		return Run{}, err
	}
	spiffs, err := s.plans.Spiffs(ctx, tenantID, planID)
	if err != nil {
		return Run{}, err
	}
	roster, err := s.employees.ListEmployees(ctx, tenantID, true)
	if err != nil {
		return Run{}, err
	}

	runID, err := s.store.CreateRun(ctx, tenantID, planID, p.PlanYear)
	if err != nil {
		return Run{}, err
	}

	var done, failed atomic.Int64
	var mu sync.Mutex
	var failures []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, emp := range roster {
		emp := emp
		g.Go(func() error {
			err := s.calculateOne(gctx, tenantID, runID, emp, p, metricSet, spiffs, schedule)
			if err != nil && !errors.Is(err, ErrNoTarget) {
				failed.Add(1)
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", emp.ID, err))
				mu.Unlock()
				slog.Error("employee calculation failed",
					"runId", runID, "employeeId", emp.ID, "error", err)
			}
			if progress != nil {
				progress(int(done.Add(1)), len(roster))
			} else {
				done.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	status := "completed"
	if int(failed.Load()) == len(roster) && len(roster) > 0 {
		status = "failed"
	}
	if err := s.store.FinishRun(ctx, runID, status, len(roster), int(failed.Load()), failures); err != nil {
		return Run{}, err
	}
	if s.collector != nil {
		s.collector.RecordCalcRun(len(roster), int(failed.Load()), time.Since(started))
	}
	slog.Info("calculation run finished",
		"runId", runID, "planId", planID, "employees", len(roster),
		"failures", failed.Load(), "durationMs", time.Since(started).Milliseconds())

	return s.store.Run(ctx, tenantID, runID)
}

func (s *Service) calculateOne(ctx context.Context, tenantID, runID string, emp core.Employee, p plan.Plan, metricSet []plan.Metric, spiffs []plan.Spiff, schedule *comp.RenewalSchedule) error {
	target, err := s.employees.GetTarget(ctx, tenantID, emp.ID, p.ID, p.PlanYear)
	if errors.Is(err, core.ErrTargetNotFound) {
		return ErrNoTarget
	}
	if err != nil {
		return err
	}

	deals, err := s.store.DealsForEmployee(ctx, tenantID, emp.ID, p.PlanYear)
	if err != nil {
		return err
	}
	for i := range deals {
		usd, err := s.rates.ToUSD(ctx, tenantID, deals[i].Currency, deals[i].Period, deals[i].Amount)
		if err != nil {
			return fmt.Errorf("deal %s: %w", deals[i].ID, err)
		}
		deals[i].AmountUSD = usd
	}

	outcome := CalculateEmployee(metricSet, spiffs, schedule, deals, target)
	return s.store.ReplaceAttributions(ctx, tenantID, runID, outcome)
}
