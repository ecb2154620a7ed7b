package classify

import (
	"testing"

	"ccrecon/internal/models"
)

func TestClassify(t *testing.T) {
	c := Default()

	tests := []struct {
		desc string
		want string
	}{
		{"AUTOZONE #1234 HOUSTON TX", "AUTOZONE"},
		{"O'REILLY AUTO PARTS 5678", "O'REILLY"},
		{"CHEVRON 00123 HOUSTON TX", "GAS"},
		{"SHELL OIL 9101", "GAS"},
		{"Payment - ONLINE PAYMENT THANK YOU", LabelPayment},
		{"TOTALLY NEW VENDOR LLC", LabelOtherCOG},
		{"", LabelUnknown},
		{"   ", LabelUnknown},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.desc); got != tt.want {
			t.Errorf("Classify(%q) got=%q want=%q", tt.desc, got, tt.want)
		}
	}
}

// The payment phrase wins even when a vendor keyword is also present.
func TestClassify_PaymentBeforeRules(t *testing.T) {
	c := Default()
	got := c.Classify("AUTOZONE ONLINE PAYMENT THANK YOU")
	if got != LabelPayment {
		t.Fatalf("got=%q want=%q", got, LabelPayment)
	}
}

// First rule in the list wins when a description matches several keywords.
func TestClassify_FirstMatchWins(t *testing.T) {
	c := Default()

	// "autozone" precedes "amazon" in the default rules.
	if got := c.Classify("AMAZON ORDER VIA AUTOZONE MARKETPLACE"); got != "AUTOZONE" {
		t.Errorf("got=%q want=AUTOZONE", got)
	}

	// Custom rules make order fully observable.
	reversed := New([]Rule{
		{"shell", "SHELL-FIRST"},
		{"chevron", "CHEVRON-SECOND"},
	})
	if got := reversed.Classify("CHEVRON AND SHELL STATION"); got != "SHELL-FIRST" {
		t.Errorf("got=%q want=SHELL-FIRST", got)
	}
}

func TestGroupFor(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"AUTOZONE", models.GroupCOG},
		{"DEALERSHIP", models.GroupCOG},
		{LabelOtherCOG, models.GroupCOG},
		{"GAS", models.GroupOtherExpenses},
		{"AMAZON", models.GroupOtherExpenses},
		{LabelPayment, models.GroupPayment},
		{LabelUnknown, models.GroupUncategorized},
		{"NEVER HEARD OF IT", models.GroupUncategorized},
	}
	for _, tt := range tests {
		if got := GroupFor(tt.label); got != tt.want {
			t.Errorf("GroupFor(%q) got=%q want=%q", tt.label, got, tt.want)
		}
	}
}

// Every label the default rules can emit has a group.
func TestDefaultRules_AllLabelsGrouped(t *testing.T) {
	for _, r := range DefaultRules() {
		if g := GroupFor(r.Label); g == models.GroupUncategorized {
			t.Errorf("rule %q -> label %q has no group membership", r.Keyword, r.Label)
		}
	}
}

func TestApply(t *testing.T) {
	txns := []models.Transaction{
		{Description: "AUTOZONE #1234"},
		{Description: ""},
	}
	Default().Apply(txns)

	if txns[0].Label != "AUTOZONE" || txns[0].Group != models.GroupCOG {
		t.Errorf("txn 0 got label=%q group=%q", txns[0].Label, txns[0].Group)
	}
	if txns[1].Label != LabelUnknown || txns[1].Group != models.GroupUncategorized {
		t.Errorf("txn 1 got label=%q group=%q", txns[1].Label, txns[1].Group)
	}
}
