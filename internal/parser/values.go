package parser

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Formats seen across card export variants, tried in order. Time of day
// is discarded; dates normalize to midnight UTC.
var dateFormats = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate returns nil when the cell does not parse as a date.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, f := range dateFormats {
		t, err := time.Parse(f, s)
		if err != nil {
			continue
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	return nil
}

// parseAmount returns an invalid NullDecimal when the cell does not parse.
// Tolerates "$", thousands commas, surrounding spaces, and accounting-style
// parenthesized negatives.
func parseAmount(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if neg {
		d = d.Neg()
	}
	return decimal.NewNullDecimal(d)
}
