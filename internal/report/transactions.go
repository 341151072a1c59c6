// Package report renders owner exports.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
)

// TransactionSheet is the sheet name of the transaction export.
const TransactionSheet = "Transaksi"

// TransactionHeader is the first row of the export.
var TransactionHeader = []string{
	"ID", "Kos", "Kamar", "Penyewa", "Periode", "Jumlah (Rp)", "Status", "Dibayar", "Dibuat",
}

var columnWidths = []float64{8, 28, 10, 24, 10, 16, 12, 20, 20}

const timeLayout = "2006-01-02 15:04"

// TransactionsXLSX writes rows to a single-sheet workbook and returns the
// encoded file.  The last row holds the total of paid amounts.
func TransactionsXLSX(rows []repository.TransactionDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TransactionSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetSheetRow(TransactionSheet, "A1", &TransactionHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(TransactionHeader), 1)
	if err := f.SetCellStyle(TransactionSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}
	for i, w := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(TransactionSheet, col, col, w); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}

	var paid int64
	for i, t := range rows {
		paidAt := ""
		if t.PaidAt != nil {
			paidAt = t.PaidAt.In(time.UTC).Format(timeLayout)
		}
		values := []any{
			t.ID, t.KosName, t.RoomNumber, t.TenantName, t.PeriodMonth, t.Amount,
			t.Status, paidAt, t.CreatedAt.In(time.UTC).Format(timeLayout),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(TransactionSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
		if t.Status == model.TxPaid {
			paid += t.Amount
		}
	}

	totalRow := len(rows) + 2
	label, _ := excelize.CoordinatesToCellName(5, totalRow)
	amount, _ := excelize.CoordinatesToCellName(6, totalRow)
	if err := f.SetCellValue(TransactionSheet, label, "Total dibayar"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(TransactionSheet, amount, paid); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
