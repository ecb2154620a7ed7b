package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"ccrecon/internal/models"
)

// RawTable is an untyped grid of cells read straight from a CSV, padded
// rectangular. Card exports carry no header row.
type RawTable [][]string

// ReadRawTable reads a headerless card export into a RawTable. Exports in
// the wild have ragged rows, so rows are padded to the widest row seen.
func ReadRawTable(r io.Reader) (RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var table RawTable
	width := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > width {
			width = len(rec)
		}
		table = append(table, rec)
	}

	for i, row := range table {
		for len(row) < width {
			row = append(row, "")
		}
		table[i] = row
	}
	return table, nil
}

// ReadPartsReport reads the point-of-sale parts report. Unlike the card
// exports it has a header row; header names are trimmed before matching.
// Unparseable date or amount cells become nil fields rather than errors.
func ReadPartsReport(r io.Reader) ([]models.PartsRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := toIndex(headers)
	for _, k := range []string{"Date", "Amount"} {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("parts report missing column: %s", k)
		}
	}

	var out []models.PartsRecord
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		out = append(out, models.PartsRecord{
			Date:   parseDate(cell(rec, col["Date"])),
			Amount: parseAmount(cell(rec, col["Amount"])),
		})
	}
	return out, nil
}

func toIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
