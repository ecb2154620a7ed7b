// Package classify assigns a category label to a transaction description
// by scanning an ordered keyword rule list, and rolls labels up into a
// small fixed set of expense groups.
package classify

import (
	"strings"

	"ccrecon/internal/models"
)

// Labels with special meaning.
const (
	LabelPayment  = "Payment"   // card payment, not an expense
	LabelUnknown  = "Unknown"   // blank description
	LabelOtherCOG = "OTHER COG" // non-blank description matching no rule
)

// Rule maps a keyword substring to a category label. Keywords are
// matched against the lower-cased description.
type Rule struct {
	Keyword string
	Label   string
}

// DefaultRules returns the built-in vendor taxonomy. Order matters: the
// first rule whose keyword appears in the description wins, so more
// specific keywords must precede broader ones.
func DefaultRules() []Rule {
	return []Rule{
		{"1-800 radiator", "1-800 RADIATOR"},
		{"a-1 auto", "A-1 AUTO ELECTRIC"},
		{"advance auto", "ADVANCE"},
		{"autozone", "AUTOZONE"},
		{"brenntag", "BRENNTAG"},
		{"o'reilly", "O'REILLY"},
		{"xl parts", "XL PARTS"},
		{"amazon", "AMAZON"},
		{"walmart", "WALMART"},
		{"cdjr", "DEALERSHIP"},
		{"mercedes-benz", "DEALERSHIP"},
		{"tom peacock", "DEALERSHIP"},
		{"planet ford", "DEALERSHIP"},
		{"chevron", "GAS"},
		{"shell", "GAS"},
		{"exxon", "GAS"},
		{"mobil", "GAS"},
		{"fixed asset", "FIXED ASSET"},
		{"sublet", "SUBLET"},
		{"office depot", "OFFICE EXP"},
		{"staples", "OFFICE EXP"},
	}
}

// Classifier scans an ordered rule list, first match wins.
type Classifier struct {
	rules []Rule
}

// New builds a classifier over the given rules, in the given order.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return New(DefaultRules())
}

// Classify returns exactly one label for any description. Blank or
// whitespace-only input yields LabelUnknown; the literal phrase
// "online payment thank you" yields LabelPayment before any rule is
// consulted; otherwise the first matching rule's label, falling back to
// LabelOtherCOG.
func (c *Classifier) Classify(description string) string {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return LabelUnknown
	}
	if strings.Contains(desc, "online payment thank you") {
		return LabelPayment
	}
	for _, r := range c.rules {
		if strings.Contains(desc, r.Keyword) {
			return r.Label
		}
	}
	return LabelOtherCOG
}

// Labels belonging to cost-of-goods. LabelOtherCOG is the COG catch-all.
var cogLabels = map[string]bool{
	"1-800 RADIATOR":    true,
	"A-1 AUTO ELECTRIC": true,
	"ADVANCE":           true,
	"AUTOZONE":          true,
	"BRENNTAG":          true,
	"DEALERSHIP":        true,
	"O'REILLY":          true,
	"XL PARTS":          true,
	LabelOtherCOG:       true,
}

var otherExpenseLabels = map[string]bool{
	"AMAZON":      true,
	"FIXED ASSET": true,
	"GAS":         true,
	"SUBLET":      true,
	"OFFICE EXP":  true,
	"WALMART":     true,
}

// GroupFor rolls a label up into its expense group. Labels outside the
// static membership tables are Uncategorized.
func GroupFor(label string) string {
	switch {
	case cogLabels[label]:
		return models.GroupCOG
	case otherExpenseLabels[label]:
		return models.GroupOtherExpenses
	case label == LabelPayment:
		return models.GroupPayment
	default:
		return models.GroupUncategorized
	}
}

// Apply classifies every transaction in place, setting Label and Group.
func (c *Classifier) Apply(txns []models.Transaction) {
	for i := range txns {
		txns[i].Label = c.Classify(txns[i].Description)
		txns[i].Group = GroupFor(txns[i].Label)
	}
}
