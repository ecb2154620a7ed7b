// Package pipeline wires the full reconciliation run: raw card exports
// in, report bundle out. Each stage fully consumes its input before the
// next begins; nothing is shared across runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ccrecon/internal/classify"
	"ccrecon/internal/logger"
	"ccrecon/internal/models"
	"ccrecon/internal/parser"
	"ccrecon/internal/reconcile"
	"ccrecon/internal/report"
)

// CardFile is one uploaded card export plus the account tag the caller
// supplied for it.
type CardFile struct {
	AccountID string
	Data      io.Reader
}

// Inputs are the byte streams for one run. Parts is optional; when nil
// every transaction stays unmatched. Rules overrides the built-in vendor
// taxonomy when non-nil.
type Inputs struct {
	Cards []CardFile
	Parts io.Reader
	Rules []classify.Rule
}

// Result is everything a shell needs to render and serialize a run.
type Result struct {
	Bundle       *models.ReportBundle
	Transactions []models.Transaction     // merged, classified, reconciled
	Files        []models.FileDiagnostic  // one per card input, in order
	PartsRecords int
	Matched      int
	Unmatched    int
}

// ErrNoUsableInput means every card file failed layout detection (or
// none were supplied), so there is nothing to report on.
var ErrNoUsableInput = errors.New("no card file produced any transactions")

// Run executes the pipeline. Layout failures are per-file: the file is
// recorded in Result.Files with its error and skipped, the rest of the
// run continues. I/O failures abort the run.
func Run(ctx context.Context, in Inputs) (*Result, error) {
	log := logger.FromContext(ctx)

	rules := in.Rules
	if rules == nil {
		rules = classify.DefaultRules()
	}
	cls := classify.New(rules)

	res := &Result{}
	var sets [][]models.Transaction
	for _, card := range in.Cards {
		diag := models.FileDiagnostic{AccountID: card.AccountID}

		table, err := parser.ReadRawTable(card.Data)
		if err != nil {
			return nil, fmt.Errorf("read card %s: %w", card.AccountID, err)
		}

		norm, err := parser.Normalize(table, card.AccountID)
		if err != nil {
			var layoutErr *parser.LayoutError
			if !errors.As(err, &layoutErr) {
				return nil, fmt.Errorf("normalize card %s: %w", card.AccountID, err)
			}
			diag.RawColumns = layoutErr.Columns
			diag.Err = layoutErr
			res.Files = append(res.Files, diag)
			log.Warn("layout_error", "account", card.AccountID, "columns", layoutErr.Columns)
			continue
		}

		cls.Apply(norm.Transactions)
		sets = append(sets, norm.Transactions)

		diag.RawColumns = norm.RawColumns
		diag.Layout = norm.Layout
		diag.Rows = len(norm.Transactions)
		res.Files = append(res.Files, diag)
		log.Info("card_normalized", "account", card.AccountID, "layout", norm.Layout, "rows", diag.Rows)
	}

	if len(sets) == 0 {
		return res, ErrNoUsableInput
	}

	merged := reconcile.Merge(sets...)

	var parts []models.PartsRecord
	if in.Parts != nil {
		var err error
		parts, err = parser.ReadPartsReport(in.Parts)
		if err != nil {
			return nil, fmt.Errorf("read parts report: %w", err)
		}
		res.PartsRecords = len(parts)
	}
	reconcile.Match(merged, parts)

	for _, txn := range merged {
		if txn.Matched {
			res.Matched++
		} else {
			res.Unmatched++
		}
	}

	res.Transactions = merged
	res.Bundle = report.Build(merged)

	log.Info("pipeline_complete",
		"files", len(in.Cards),
		"transactions", len(merged),
		"parts_records", res.PartsRecords,
		"matched", res.Matched,
		"unmatched", res.Unmatched,
	)
	return res, nil
}
