// Package export writes movement reports to xlsx workbooks.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

const (
	movementsSheet = "Movements"
	summarySheet   = "Summary"
)

var movementHeaders = []string{
	"Date", "Type", "Reference", "Description", "Status",
	"Items", "Quantity", "Amount", "Balance Before", "Balance After",
}

// WriteMovementWorkbook writes the report to an xlsx file at path: one sheet
// with the ledger newest-first and one with the summary cards.
func WriteMovementWorkbook(path string, report *domain.MovementReport) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", movementsSheet)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	for i, h := range movementHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(movementsSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
	}

	for i, m := range report.Movements {
		row := i + 2
		values := []interface{}{
			m.Date.Format("2006-01-02 15:04"),
			titleCase(string(m.Type)),
			m.Reference,
			m.Description,
			m.Status,
			m.ItemsCount,
			m.TotalQuantity,
			m.TotalAmount,
			m.InventoryValueBefore,
			m.InventoryValueAfter,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to resolve cell at row %d: %w", row, err)
			}
			if err := f.SetCellValue(movementsSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	summary := [][]interface{}{
		{"Opening Balance", report.Summary.OpeningBalance},
		{"Closing Balance", report.Summary.ClosingBalance},
		{"Total Increase", report.Summary.TotalIncrease},
		{"Total Decrease", report.Summary.TotalDecrease},
		{"Movements", report.Summary.MovementCount},
	}
	for i, pair := range summary {
		row := i + 1
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), pair[0]); err != nil {
			return fmt.Errorf("failed to write summary label: %w", err)
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), pair[1]); err != nil {
			return fmt.Errorf("failed to write summary value: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
