// Package export turns record lists into downloadable CSV and XLSX
// files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Table is a rendered record list: one header row plus data rows,
// all values already formatted as strings
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Exporter writes tables in the supported formats
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// CSV renders the table as RFC 4180 CSV with quoted fields
func (e *Exporter) CSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders the table as a single-sheet workbook
func (e *Exporter) XLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Name
	if sheet == "" {
		sheet = "Sheet1"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	writeRow := func(rowIdx int, values []string) error {
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	for i, row := range t.Rows {
		if err := writeRow(i+2, row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Workbook rendered",
		zap.String("sheet", sheet),
		zap.Int("rows", len(t.Rows)))
	return buf.Bytes(), nil
}

// DocumentsTable formats a financial document list for export
func DocumentsTable(name string, docs []entity.Document) Table {
	t := Table{
		Name:    name,
		Headers: []string{"Number", "Client ID", "Status", "Currency", "Sub Total", "Tax", "Discount", "Total", "Created At"},
	}
	for _, d := range docs {
		t.Rows = append(t.Rows, []string{
			d.Number,
			fmt.Sprintf("%d", d.ClientID),
			d.Status,
			d.Currency,
			d.SubTotal.StringFixed(2),
			d.TaxAmount.StringFixed(2),
			d.DiscountAmount.StringFixed(2),
			d.Total.StringFixed(2),
			d.CreatedAt.Format("2006-01-02"),
		})
	}
	return t
}

// BankAccountsTable formats a bank account list for export
func BankAccountsTable(accounts []entity.BankAccount) Table {
	t := Table{
		Name:    "Bank Accounts",
		Headers: []string{"Account Name", "Account Number", "Bank", "Type", "Currency", "Opening Balance", "Current Balance", "Status"},
	}
	for _, a := range accounts {
		t.Rows = append(t.Rows, []string{
			a.AccountName,
			a.AccountNumber,
			a.BankName,
			a.AccountType,
			a.Currency,
			a.OpeningBalance.StringFixed(2),
			a.CurrentBalance.StringFixed(2),
			a.Status,
		})
	}
	return t
}
