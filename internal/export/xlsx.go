package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/brokerstat/brokerstat/internal/domain"
)

// XLSXWriter implements Writer by saving the report as an Excel workbook
// with Performance, Balance, and Holdings sheets.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates a writer that saves to path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write renders the report into a workbook and saves it.
func (w *XLSXWriter) Write(_ context.Context, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Performance")
	if err := writeRows(f, "Performance", report.Performance); err != nil {
		return err
	}

	if _, err := f.NewSheet("Balance"); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeRows(f, "Balance", report.Balance); err != nil {
		return err
	}

	if _, err := f.NewSheet("Holdings"); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeHoldings(f, report.Ledger); err != nil {
		return err
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows []Row) error {
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &[]any{row.Name, row.Value}); err != nil {
			return fmt.Errorf("writing %s row: %w", sheet, err)
		}
	}
	return nil
}

// writeHoldings dumps the closing-day positions: one row per asset with its
// holding, close, value, and cumulative invested amount.
func writeHoldings(f *excelize.File, ledger *domain.Ledger) error {
	header := []any{"Asset", "Holding", "Close", "Value", "Invested"}
	if err := f.SetSheetRow("Holdings", "A1", &header); err != nil {
		return fmt.Errorf("writing holdings header: %w", err)
	}
	if ledger == nil || ledger.IsEmpty() {
		return nil
	}

	row := ledger.At(ledger.End())
	line := 2
	for _, asset := range ledger.Assets() {
		pos, ok := row[asset]
		if !ok {
			continue
		}
		cells := []any{asset, pos.Holding.InexactFloat64(), nil, nil, pos.Investment.InexactFloat64()}
		if pos.Close != nil {
			cells[2] = pos.Close.InexactFloat64()
		}
		if pos.Value != nil {
			cells[3] = pos.Value.InexactFloat64()
		}
		if err := f.SetSheetRow("Holdings", fmt.Sprintf("A%d", line), &cells); err != nil {
			return fmt.Errorf("writing holdings row: %w", err)
		}
		line++
	}
	return nil
}
