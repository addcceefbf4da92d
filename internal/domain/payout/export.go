package payout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tealeg/xlsx/v2"
)

// ExportRegisterXLSX writes the run's full attribution register to a
// spreadsheet for finance review and returns the file path.
func (s *Service) ExportRegisterXLSX(ctx context.Context, tenantID, runID, exportDir string) (string, error) {
	run, err := s.store.Run(ctx, tenantID, runID)
	if err != nil {
		return "", err
	}
	rows, err := s.store.Attributions(ctx, tenantID, runID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(exportDir, fmt.Sprintf("payout-register-%s.xlsx", run.ID))

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Payout Register")
	if err != nil {
		return "", err
	}

	header := sheet.AddRow()
	for _, title := range []string{
		"Employee", "Metric", "Deal", "Project", "Proportion %",
		"Variable Pay USD", "On Booking USD", "On Collection USD", "On Year End USD", "Clawback Eligible USD",
	} {
		header.AddCell().SetString(title)
	}

	for _, row := range rows {
		r := sheet.AddRow()
		r.AddCell().SetString(row.EmployeeID)
		r.AddCell().SetString(row.MetricName)
		r.AddCell().SetString(row.DealID)
		r.AddCell().SetString(row.ProjectID)
		r.AddCell().SetFloatWithFormat(row.ProportionPct, "0.00")
		r.AddCell().SetFloatWithFormat(row.VariablePayUSD, "0.00")
		r.AddCell().SetFloatWithFormat(row.PayoutBookingUSD, "0.00")
		r.AddCell().SetFloatWithFormat(row.PayoutCollectionUSD, "0.00")
		r.AddCell().SetFloatWithFormat(row.PayoutYearEndUSD, "0.00")
		r.AddCell().SetFloatWithFormat(row.ClawbackEligibleUSD, "0.00")
	}

	if err := f.Save(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
