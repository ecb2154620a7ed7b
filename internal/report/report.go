// Package report builds the output views for a reconciled transaction
// set and serializes them to a spreadsheet.
package report

import (
	"github.com/shopspring/decimal"

	"ccrecon/internal/models"
	"ccrecon/internal/reconcile"
)

// Groups appear in the summary in this order, every run, so a total is
// never silently absent just because no transaction fell into it.
var summaryGroups = []string{
	models.GroupCOG,
	models.GroupOtherExpenses,
	models.GroupPayment,
	models.GroupUncategorized,
}

// Build derives the full set of report views from a reconciled
// transaction set. The bundle is a snapshot; callers must not mutate it.
func Build(txns []models.Transaction) *models.ReportBundle {
	all := reconcile.SortByDate(txns)

	var matched, unmatched []models.Transaction
	for _, txn := range all {
		if txn.Matched {
			matched = append(matched, txn)
		} else {
			unmatched = append(unmatched, txn)
		}
	}

	return &models.ReportBundle{
		AllByDate:   all,
		ByLabelDate: reconcile.SortByLabelDate(txns),
		Matched:     matched,
		Unmatched:   unmatched,
		Summary:     summarize(txns),
	}
}

// summarize sums amounts by group. Rows with no parseable amount
// contribute nothing (absent, not zero).
func summarize(txns []models.Transaction) []models.GroupTotal {
	totals := make(map[string]decimal.Decimal, len(summaryGroups))
	for _, txn := range txns {
		if !txn.Amount.Valid {
			continue
		}
		totals[txn.Group] = totals[txn.Group].Add(txn.Amount.Decimal)
	}

	out := make([]models.GroupTotal, 0, len(summaryGroups))
	for _, g := range summaryGroups {
		out = append(out, models.GroupTotal{Group: g, Total: totals[g]})
	}
	return out
}
