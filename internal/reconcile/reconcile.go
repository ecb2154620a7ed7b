// Package reconcile merges per-account transaction sets and marks
// transactions that have a counterpart in the parts report.
package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ccrecon/internal/models"
)

// Matching tolerances. A transaction matches a parts record when their
// dates are at most one day apart and their amounts differ by less than
// one cent.
var (
	dateTolerance = 24 * time.Hour
	amountEpsilon = decimal.New(1, -2) // 0.01
)

// Merge concatenates per-account transaction sets and removes duplicate
// rows. The first occurrence of a dedup key wins; later duplicates are
// discarded.
func Merge(sets ...[]models.Transaction) []models.Transaction {
	seen := make(map[string]bool)
	var out []models.Transaction
	for _, set := range sets {
		for _, txn := range set {
			key := txn.DedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, txn)
		}
	}
	return out
}

// SortByDate returns a copy ordered by post date ascending. Rows with no
// parseable date sort last, keeping their relative order.
func SortByDate(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	copy(out, txns)
	sort.SliceStable(out, func(i, j int) bool {
		return dateLess(out[i].PostDate, out[j].PostDate)
	})
	return out
}

// SortByLabelDate returns a copy ordered by (label, post date) ascending.
func SortByLabelDate(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	copy(out, txns)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return dateLess(out[i].PostDate, out[j].PostDate)
	})
	return out
}

func dateLess(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// Match sets Matched on every transaction that has at least one parts
// record within tolerance. It is an existence check: a single parts
// record may satisfy any number of transactions. With no parts report
// every transaction stays unmatched. Rows with a missing date or amount
// on either side never match.
func Match(txns []models.Transaction, parts []models.PartsRecord) {
	if len(parts) == 0 {
		return
	}
	for i := range txns {
		txns[i].Matched = hasCounterpart(txns[i], parts)
	}
}

func hasCounterpart(txn models.Transaction, parts []models.PartsRecord) bool {
	if txn.PostDate == nil || !txn.Amount.Valid {
		return false
	}
	for _, p := range parts {
		if p.Date == nil || !p.Amount.Valid {
			continue
		}
		diff := p.Date.Sub(*txn.PostDate)
		if diff < -dateTolerance || diff > dateTolerance {
			continue
		}
		if p.Amount.Decimal.Sub(txn.Amount.Decimal).Abs().LessThan(amountEpsilon) {
			return true
		}
	}
	return false
}
