package parser

import "testing"

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string // "" means nil expected
	}{
		{"1/5/2025", "2025-01-05"},
		{"01/05/2025", "2025-01-05"},
		{"2025-01-05", "2025-01-05"},
		{"2025-01-05 14:30:00", "2025-01-05"}, // time of day discarded
		{"2025-01-05T14:30:00Z", "2025-01-05"},
		{"  01/05/2025  ", "2025-01-05"},
		{"", ""},
		{"yesterday", ""},
		{"13/45/2025", ""},
	}
	for _, tt := range tests {
		got := parseDate(tt.in)
		if tt.want == "" {
			if got != nil {
				t.Errorf("parseDate(%q) got=%v want=nil", tt.in, got)
			}
			continue
		}
		if got == nil || got.Format("2006-01-02") != tt.want {
			t.Errorf("parseDate(%q) got=%v want=%s", tt.in, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string // "" means invalid expected
	}{
		{"120.00", "120"},
		{"-45.50", "-45.5"},
		{"$1,234.56", "1234.56"},
		{"(45.50)", "-45.5"},
		{" 12.30 ", "12.3"},
		{"", ""},
		{"n/a", ""},
	}
	for _, tt := range tests {
		got := parseAmount(tt.in)
		if tt.want == "" {
			if got.Valid {
				t.Errorf("parseAmount(%q) got=%v want invalid", tt.in, got)
			}
			continue
		}
		if !got.Valid || got.Decimal.String() != tt.want {
			t.Errorf("parseAmount(%q) got=%v want=%s", tt.in, got, tt.want)
		}
	}
}
