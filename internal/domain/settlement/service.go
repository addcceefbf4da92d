package settlement

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Service struct {
	store        *Store
	statementDir string
}

func NewService(store *Store, statementDir string) *Service {
	return &Service{store: store, statementDir: statementDir}
}

func (s *Service) Create(ctx context.Context, tenantID, employeeID string, departure time.Time, graceDays int) (string, error) {
	return s.store.Create(ctx, tenantID, employeeID, departure, graceDays)
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Settlement, error) {
	return s.store.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]Settlement, error) {
	return s.store.List(ctx, tenantID, limit, offset)
}

func (s *Service) Tranches(ctx context.Context, tenantID, settlementID string) ([]Tranche, error) {
	if _, err := s.store.Get(ctx, tenantID, settlementID); err != nil {
		return nil, err
	}
	return s.store.Tranches(ctx, settlementID)
}

func (s *Service) TrancheLines(ctx context.Context, tenantID, trancheID string) ([]LineItem, error) {
	if _, err := s.store.Tranche(ctx, tenantID, trancheID); err != nil {
		return nil, err
	}
	return s.store.TrancheLines(ctx, trancheID)
}

// BuildTranche1 gathers year-end releases from the employee's attribution
// history plus recorded clawback deductions, nets them, and persists the
// immediate tranche. Recalculating replaces the previous draft.
func (s *Service) BuildTranche1(ctx context.Context, tenantID, settlementID string) (Tranche, error) {
	stl, err := s.store.Get(ctx, tenantID, settlementID)
	if err != nil {
		return Tranche{}, err
	}

	releases, err := s.store.YearEndLines(ctx, tenantID, stl.EmployeeID)
	if err != nil {
		return Tranche{}, err
	}
	clawbacks, err := s.store.CollectionLines(ctx, tenantID, stl.EmployeeID, []string{LineClawbackDeduction})
	if err != nil {
		return Tranche{}, err
	}

	result := CalculateTranche1(append(releases, clawbacks...))
	return s.store.SaveTranche(ctx, settlementID, 1, result.TotalUSD, result.CarryForwardUSD, nil, result.Lines)
}

// BuildTranche2 computes the deferred tranche once the collection grace
// window has passed, deducting any clawback carried forward from tranche 1.
// Tranche 1 must have been calculated first.
func (s *Service) BuildTranche2(ctx context.Context, tenantID, settlementID string, now time.Time) (Tranche, error) {
	stl, err := s.store.Get(ctx, tenantID, settlementID)
	if err != nil {
		return Tranche{}, err
	}

	first, err := s.store.TrancheByNumber(ctx, settlementID, 1)
	if errors.Is(err, ErrTrancheNotFound) {
		return Tranche{}, ErrTranche1NotBuilt
	}
	if err != nil {
		return Tranche{}, err
	}

	eligibleAt := EligibleAt(stl.DepartureDate, stl.CollectionGraceDays)
	collections, err := s.store.CollectionLines(ctx, tenantID, stl.EmployeeID, []string{LineCollectionRelease, LineCollectionForfeit})
	if err != nil {
		return Tranche{}, err
	}

	result, err := CalculateTranche2(now, eligibleAt, collections, first.CarryForwardUSD)
	if err != nil {
		return Tranche{}, err
	}
	return s.store.SaveTranche(ctx, settlementID, 2, result.TotalUSD, result.RemainingClawbackUSD, &eligibleAt, result.Lines)
}

// AdvanceTranche moves a tranche exactly one status step. A deferred
// tranche cannot advance before its eligibility date.
func (s *Service) AdvanceTranche(ctx context.Context, tenantID, trancheID string, now time.Time) (Tranche, error) {
	tranche, err := s.store.Tranche(ctx, tenantID, trancheID)
	if err != nil {
		return Tranche{}, err
	}
	if tranche.Number == 2 && tranche.EligibleAt != nil && now.Before(*tranche.EligibleAt) {
		return Tranche{}, ErrNotYetEligible
	}

	next, err := NextStatus(tranche.Status)
	if err != nil {
		return Tranche{}, err
	}
	if err := s.store.UpdateTrancheStatus(ctx, trancheID, next); err != nil {
		return Tranche{}, err
	}
	tranche.Status = next
	return tranche, nil
}

// GenerateStatementPDF writes a settlement statement for offboarding
// paperwork and returns the file path.
func (s *Service) GenerateStatementPDF(ctx context.Context, tenantID, settlementID string) (string, error) {
	stl, err := s.store.Get(ctx, tenantID, settlementID)
	if err != nil {
		return "", err
	}
	tranches, err := s.store.Tranches(ctx, settlementID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.statementDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.statementDir, settlementID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Full & Final Settlement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", stl.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Departure: %s", stl.DepartureDate.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Collection grace: %d days", stl.CollectionGraceDays))
	pdf.Ln(10)

	for _, tranche := range tranches {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Tranche %d (%s)", tranche.Number, tranche.Status))
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f USD", tranche.TotalUSD))
		pdf.Ln(7)
		if tranche.CarryForwardUSD > 0 {
			pdf.Cell(0, 8, fmt.Sprintf("Unrecovered clawback: %.2f USD", tranche.CarryForwardUSD))
			pdf.Ln(7)
		}
		if tranche.EligibleAt != nil {
			pdf.Cell(0, 8, fmt.Sprintf("Eligible from: %s", tranche.EligibleAt.Format("2006-01-02")))
			pdf.Ln(7)
		}
		pdf.Ln(3)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
