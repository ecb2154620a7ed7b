package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ccrecon/internal/models"
)

// MIMEType is the content type of the generated artifact.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetAll       = "All Transactions"
	SheetByLabel   = "By Label & Date"
	SheetMatched   = "Matched"
	SheetUnmatched = "Unmatched"
	SheetSummary   = "Summary"
)

var txnHeader = []string{"Card Last 4", "Post Date", "Amount", "Description", "Memo", "Label", "Group", "Matched"}

// WriteXLSX serializes the bundle as an OOXML workbook, one sheet per
// view. Matched rows on the All Transactions sheet get a green fill,
// mirroring the on-screen reconciliation view.
func WriteXLSX(w io.Writer, b *models.ReportBundle) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAll); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	matchedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("matched style: %w", err)
	}

	if err := writeTxnSheet(f, SheetAll, b.AllByDate, matchedStyle); err != nil {
		return err
	}
	for _, s := range []struct {
		name string
		rows []models.Transaction
	}{
		{SheetByLabel, b.ByLabelDate},
		{SheetMatched, b.Matched},
		{SheetUnmatched, b.Unmatched},
	} {
		if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("new sheet %s: %w", s.name, err)
		}
		if err := writeTxnSheet(f, s.name, s.rows, 0); err != nil {
			return err
		}
	}

	if err := writeSummarySheet(f, b.Summary); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// writeTxnSheet writes the header row plus one row per transaction.
// matchedStyle of 0 disables highlighting.
func writeTxnSheet(f *excelize.File, sheet string, rows []models.Transaction, matchedStyle int) error {
	for c, h := range txnHeader {
		if err := setCell(f, sheet, c+1, 1, h); err != nil {
			return err
		}
	}

	for r, txn := range rows {
		row := r + 2
		cells := []interface{}{
			txn.AccountID,
			dateCell(txn),
			amountCell(txn),
			txn.Description,
			txn.Memo,
			txn.Label,
			txn.Group,
			txn.Matched,
		}
		for c, v := range cells {
			if err := setCell(f, sheet, c+1, row, v); err != nil {
				return err
			}
		}
		if matchedStyle != 0 && txn.Matched {
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(cells), row)
			if err := f.SetCellStyle(sheet, start, end, matchedStyle); err != nil {
				return fmt.Errorf("style %s row %d: %w", sheet, row, err)
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, totals []models.GroupTotal) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("new sheet %s: %w", SheetSummary, err)
	}
	if err := setCell(f, SheetSummary, 1, 1, "Group"); err != nil {
		return err
	}
	if err := setCell(f, SheetSummary, 2, 1, "Total Amount"); err != nil {
		return err
	}
	for r, gt := range totals {
		if err := setCell(f, SheetSummary, 1, r+2, gt.Group); err != nil {
			return err
		}
		if err := setCell(f, SheetSummary, 2, r+2, gt.Total.InexactFloat64()); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, name, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, name, err)
	}
	return nil
}

// dateCell renders a date as YYYY-MM-DD, blank when unparsed.
func dateCell(txn models.Transaction) interface{} {
	if txn.PostDate == nil {
		return ""
	}
	return txn.PostDate.Format("2006-01-02")
}

// amountCell renders the amount as a number, blank when unparsed.
func amountCell(txn models.Transaction) interface{} {
	if !txn.Amount.Valid {
		return ""
	}
	return txn.Amount.Decimal.InexactFloat64()
}
