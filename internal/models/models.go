package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category groups that labels roll up into.
const (
	GroupCOG           = "COG"
	GroupOtherExpenses = "Other Expenses"
	GroupPayment       = "Payment"
	GroupUncategorized = "Uncategorized"
)

// Transaction is a single credit-card transaction after normalization.
// PostDate and Amount are nil/invalid when the source cell could not be
// parsed; downstream stages must treat them as absent, never as zero.
type Transaction struct {
	AccountID   string // last 4 digits of the source card
	PostDate    *time.Time
	Amount      decimal.NullDecimal
	Description string
	Memo        string
	Label       string // assigned by classify, never empty after classification
	Group       string // derived from Label
	Matched     bool   // set by reconcile when a parts record is within tolerance
}

// DedupKey identifies a transaction for deduplication purposes.
// Two transactions sharing account, date, amount and description are the
// same logical row.
func (t Transaction) DedupKey() string {
	var b strings.Builder
	b.WriteString(t.AccountID)
	b.WriteByte('|')
	if t.PostDate != nil {
		b.WriteString(t.PostDate.Format("2006-01-02"))
	}
	b.WriteByte('|')
	if t.Amount.Valid {
		b.WriteString(t.Amount.Decimal.String())
	}
	b.WriteByte('|')
	b.WriteString(t.Description)
	return b.String()
}

// HasDate reports whether the post date parsed successfully.
func (t Transaction) HasDate() bool {
	return t.PostDate != nil
}

// HasAmount reports whether the amount parsed successfully.
func (t Transaction) HasAmount() bool {
	return t.Amount.Valid
}

// PartsRecord is a single row of the point-of-sale parts report, the
// secondary ledger transactions are reconciled against.
type PartsRecord struct {
	Date   *time.Time
	Amount decimal.NullDecimal
}

// GroupTotal is one row of the summary view.
type GroupTotal struct {
	Group string
	Total decimal.Decimal
}

// ReportBundle is the full set of output views for one pipeline run.
// All slices are derived orderings/subsets over the same deduplicated
// transaction set; the bundle is built once and never mutated.
type ReportBundle struct {
	AllByDate   []Transaction // every transaction, post date ascending
	ByLabelDate []Transaction // every transaction, (label, post date) ascending
	Matched     []Transaction // matched subset, post date ascending
	Unmatched   []Transaction // unmatched subset, post date ascending
	Summary     []GroupTotal
}

// FileDiagnostic describes how one input file was interpreted, for
// display by the caller. Not part of the data contract.
type FileDiagnostic struct {
	AccountID  string
	RawColumns int
	Layout     string // e.g. "4 columns: date, amount, description, memo"
	Rows       int
	Err        error // non-nil when the file was skipped
}
