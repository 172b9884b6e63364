package damage_rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/tiger/internal/domain/document"
)

const northStarBlock = `Financial Harm:
- Denied Auto Loan: Capital One (April 2025) [Evidence: denial letter]
- Credit Limit Reduction: Chase card dropped from $15,000 to $5,000
Reputational Harm:
- Damaged credit standing with existing creditors
Emotional Harm:
- Stress and anxiety from collection calls
Personal Costs:
- Hours spent on dispute letters and phone calls`

func TestRecognizer_Parse_NorthStar(t *testing.T) {
	t.Parallel()

	items := NewRecognizer().Parse(northStarBlock)
	require.Len(t, items, 5)

	denied := items[0]
	assert.Equal(t, document.DamageCreditDenial, denied.Category)
	assert.Equal(t, "auto_loan_denial", denied.Type)
	assert.Equal(t, "Capital One", denied.Entity)
	assert.Equal(t, "April 2025", denied.Date)
	assert.True(t, denied.EvidenceAvailable)
	assert.False(t, denied.Selected)
	assert.Nil(t, denied.Amount)

	limit := items[1]
	assert.Equal(t, document.DamageExistingCredit, limit.Category)
	assert.Equal(t, "credit_limit_reduction", limit.Type)
	assert.Equal(t, "Chase card dropped from $15,000 to $5,000", limit.Entity)
	assert.False(t, limit.EvidenceAvailable)
	assert.Nil(t, limit.Amount, "two dollar figures stay unquantified")

	reputational := items[2]
	assert.Equal(t, document.DamageOther, reputational.Category)
	assert.Equal(t, "reputational_harm", reputational.Type)

	emotional := items[3]
	assert.Equal(t, document.DamageEmotional, emotional.Category)
	assert.Equal(t, "emotional_distress", emotional.Type)

	personal := items[4]
	assert.Equal(t, document.DamageTimeResources, personal.Category)
	assert.Equal(t, "personal_costs", personal.Type)
}

func TestRecognizer_Parse_FlatBullets(t *testing.T) {
	t.Parallel()

	block := `- Denied Mortgage: First National Bank (March 2025)
- Lost $500 deposit on the apartment application
- Could not sleep worrying about the accounts`

	items := NewRecognizer().Parse(block)
	require.Len(t, items, 3)

	mortgage := items[0]
	assert.Equal(t, document.DamageCreditDenial, mortgage.Category)
	assert.Equal(t, "mortgage_denial", mortgage.Type)
	assert.Equal(t, "First National Bank", mortgage.Entity)
	assert.Equal(t, "March 2025", mortgage.Date)

	deposit := items[1]
	assert.Equal(t, document.DamageHousing, deposit.Category, "keyword heuristic picks housing")
	assert.Equal(t, "generic", deposit.Type)
	require.NotNil(t, deposit.Amount)
	assert.InDelta(t, 500.0, *deposit.Amount, 0.001)

	sleep := items[2]
	assert.Equal(t, document.DamageEmotional, sleep.Category)
	assert.Equal(t, "generic", sleep.Type)
}

func TestRecognizer_Parse_KeywordMissFallsToOther(t *testing.T) {
	t.Parallel()

	items := NewRecognizer().Parse("- Miscellaneous inconvenience\n")
	require.Len(t, items, 1)
	assert.Equal(t, document.DamageOther, items[0].Category)
	assert.Equal(t, "generic", items[0].Type)
}

func TestRecognizer_Parse_NonBulletLinesIgnored(t *testing.T) {
	t.Parallel()

	block := "Summary of harms follows.\n- Denied Credit Card: Apple Card (2025)\nNothing else."
	items := NewRecognizer().Parse(block)

	require.Len(t, items, 1)
	assert.Equal(t, "credit_card_denial", items[0].Type)
	assert.Equal(t, "Apple Card", items[0].Entity)
	assert.Equal(t, "2025", items[0].Date)
}

func TestExtractBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "block runs until blank line",
			text: "Intro prose.\n\nDAMAGES:\n- Denied Auto Loan: Capital One\n- Emotional Distress: ongoing\n\nTrailing prose.\n",
			want: "- Denied Auto Loan: Capital One\n- Emotional Distress: ongoing",
		},
		{
			name: "header is case insensitive",
			text: "damages:\n- Lost Time: hours on hold\n",
			want: "- Lost Time: hours on hold",
		},
		{
			name: "inline content after the header is kept",
			text: "DAMAGES: see bullets\n- Lost Time: hours on hold\n\n",
			want: "see bullets\n- Lost Time: hours on hold",
		},
		{
			name: "no header",
			text: "Nothing here about harms.",
			want: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExtractBlock(tc.text))
		})
	}
}

func TestSingleAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{"single figure", "lost a $500 deposit", 500, true},
		{"figure with cents and separators", "charged $1,250.50 in fees", 1250.50, true},
		{"two figures", "from $15,000 to $5,000", 0, false},
		{"no figure", "no money involved", 0, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := singleAmount(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.want, got, 0.001)
			}
		})
	}
}
