package parser

import (
	"fmt"
	"strings"

	"ccrecon/internal/models"
)

// LayoutError reports a card export whose column count, after stripping
// empty and placeholder columns, is not one the normalizer recognizes.
// The file is skipped; other files still process.
type LayoutError struct {
	Columns int
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("unexpected column layout: %d usable columns (want 3, 4 or 5)", e.Columns)
}

// Normalized is the result of reshaping one card export.
type Normalized struct {
	Transactions []models.Transaction
	RawColumns   int    // usable columns before layout interpretation
	Layout       string // human-readable layout description, for display only
}

// Normalize reshapes a raw card export into transactions tagged with the
// given account identifier.
//
// Empty columns and columns consisting entirely of the "*" placeholder are
// dropped first. The survivors are then interpreted by count:
//
//	3 columns: date, amount, description
//	4 columns: date, amount, description, memo
//	5 columns: as 4, after dropping the third (a blank spacer some export
//	           variants carry that escapes the empty-column check)
//
// Any other count is a LayoutError. Unparseable date or amount cells
// become nil fields on the row, never row failures.
func Normalize(table RawTable, accountID string) (*Normalized, error) {
	cols := keepColumns(table)
	usable := len(cols)

	var (
		memoIdx = -1
		layout  string
	)
	switch usable {
	case 3:
		layout = "3 columns: date, amount, description"
	case 4:
		memoIdx = cols[3]
		layout = "4 columns: date, amount, description, memo"
	case 5:
		cols = append(cols[:2], cols[3:]...)
		memoIdx = cols[3]
		layout = "5 columns: spacer dropped; date, amount, description, memo"
	default:
		return nil, &LayoutError{Columns: usable}
	}
	dateIdx, amountIdx, descIdx := cols[0], cols[1], cols[2]

	n := &Normalized{
		RawColumns: usable,
		Layout:     layout,
	}

	for _, row := range table {
		txn := models.Transaction{
			AccountID:   accountID,
			PostDate:    parseDate(cell(row, dateIdx)),
			Amount:      parseAmount(cell(row, amountIdx)),
			Description: strings.TrimSpace(cell(row, descIdx)),
		}
		if memoIdx >= 0 {
			txn.Memo = strings.TrimSpace(cell(row, memoIdx))
		}
		n.Transactions = append(n.Transactions, txn)
	}
	return n, nil
}

// keepColumns returns the indexes of columns that survive stripping:
// a column is dropped when every cell is blank, or every cell is "*".
func keepColumns(table RawTable) []int {
	width := 0
	for _, row := range table {
		if len(row) > width {
			width = len(row)
		}
	}

	var kept []int
	for c := 0; c < width; c++ {
		allBlank := true
		allStar := true
		for _, row := range table {
			v := strings.TrimSpace(cell(row, c))
			if v != "" {
				allBlank = false
			}
			if v != "*" {
				allStar = false
			}
		}
		if allBlank || allStar {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
