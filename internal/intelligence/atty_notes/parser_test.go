package atty_notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullNotesFixture = `CASE_NUMBER: 1:25-cv-01987
COURT_NAME: UNITED STATES DISTRICT COURT
COURT_DISTRICT: EASTERN DISTRICT OF NEW YORK
FILING_DATE: TBD

NAME: Eman Youssef
ADDRESS: 45-09 Smart Street
Apt 2B
Flushing, NY 11355
PHONE: (347) 785-5544

DEFENDANTS:
- TD BANK, N.A.
- EQUIFAX INFORMATION SERVICES, LLC
- EXPERIAN INFORMATION SOLUTIONS, INC.
- TRANS UNION, LLC

PLAINTIFF_COUNSEL_NAME: Kevin Mallon

BACKGROUND:
Plaintiff traveled to Egypt with her family from June 30 to July 30, 2024.
While she was abroad, imposters used her TD Bank credit card to run up over $7,700 in fraudulent charges.
Plaintiff disputed the charges with TD Bank and each credit bureau.

DAMAGES:
Financial Harm:
- Denied Auto Loan: Capital One (April 2025) [Evidence: denial letter]
- Credit Limit Reduction: Chase card dropped from $15,000 to $5,000
Reputational Harm:
- Damaged credit standing with existing creditors
Emotional Harm:
- Stress and anxiety from collection calls
Personal Costs:
- Hours spent on dispute letters and phone calls

KEY_DATES:
- Discovery: July 30, 2024
- Dispute: August 7, 2024
- Denial: April 9, 2025

DISPUTE_DATE: August 5, 2024

LEGAL_CLAIMS:
Count 1 - FCRA Violations:
- 15 U.S.C. § 1681e(b): Failure to follow reasonable procedures (All Defendants)
- 15 U.S.C. § 1681i: Failure to reasonably reinvestigate disputes (All Defendants)

RELIEF_SOUGHT:
- Actual damages
- Statutory damages
- Punitive damages
`

func TestParse_FullNotes(t *testing.T) {
	t.Parallel()

	n := Parse(fullNotesFixture)

	assert.Equal(t, "1:25-cv-01987", n.CaseNumber)
	assert.Equal(t, "UNITED STATES DISTRICT COURT", n.CourtName)
	assert.Equal(t, "EASTERN DISTRICT OF NEW YORK", n.CourtDistrict)
	assert.Empty(t, n.FilingDate, "TBD means absent")

	assert.Equal(t, "Eman Youssef", n.PlaintiffName)
	assert.Equal(t, "45-09 Smart Street, Apt 2B, Flushing, NY 11355", n.PlaintiffAddress)
	assert.Equal(t, "(347) 785-5544", n.PlaintiffPhone)
	assert.Equal(t, "Kevin Mallon", n.CounselName)

	assert.Equal(t, []string{
		"TD BANK, N.A.",
		"EQUIFAX INFORMATION SERVICES, LLC",
		"EXPERIAN INFORMATION SOLUTIONS, INC.",
		"TRANS UNION, LLC",
	}, n.Defendants)

	require.Len(t, n.Background, 3)
	assert.Contains(t, n.Background[1], "$7,700")

	require.True(t, n.HasDamages())
	assert.Contains(t, n.DamagesBlock, "Financial Harm:")
	assert.Contains(t, n.DamagesBlock, "Denied Auto Loan: Capital One")
	assert.Contains(t, n.DamagesBlock, "Personal Costs:")

	require.True(t, n.HasLegalClaims())
	assert.Contains(t, n.LegalClaimsBlock, "Count 1 - FCRA Violations:")
	assert.Contains(t, n.LegalClaimsBlock, "15 U.S.C. § 1681i")

	assert.Equal(t, []string{"Actual damages", "Statutory damages", "Punitive damages"}, n.ReliefSought)
	assert.False(t, n.Empty())
}

func TestParse_KeyDatePrecedence(t *testing.T) {
	t.Parallel()

	n := Parse(fullNotesFixture)

	assert.Equal(t, map[string]string{
		"DISCOVERY_DATE": "July 30, 2024",
		// the explicit DISPUTE_DATE label beats the KEY_DATES bullet
		"DISPUTE_DATE": "August 5, 2024",
		"DENIAL_DATE":  "April 9, 2025",
	}, n.KeyDates)
}

func TestParse_KeyDateBulletNormalization(t *testing.T) {
	t.Parallel()

	n := Parse("KEY_DATES:\n- Filing Date: 04/01/2025\n- Application: March 3, 2025\n")

	assert.Equal(t, map[string]string{
		"FILING_DATE":      "04/01/2025",
		"APPLICATION_DATE": "March 3, 2025",
	}, n.KeyDates)
}

func TestParse_TBDMeansAbsent(t *testing.T) {
	t.Parallel()

	n := Parse("CASE_NUMBER: TBD\nCOURT_NAME: tbd\nFILING_DATE: TBD\n")

	assert.Empty(t, n.CaseNumber)
	assert.Empty(t, n.CourtName)
	assert.Empty(t, n.FilingDate)
	assert.True(t, n.Empty())
}

func TestParse_Address(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "continuation stops at next label",
			text: "ADDRESS: 1 Main Street\nBrooklyn, NY 11201\nPHONE: (718) 555-0199\n",
			want: "1 Main Street, Brooklyn, NY 11201",
		},
		{
			name: "continuation stops at blank line",
			text: "ADDRESS: 1 Main Street\nBrooklyn, NY 11201\n\nUnrelated prose follows.\n",
			want: "1 Main Street, Brooklyn, NY 11201",
		},
		{
			name: "inline only",
			text: "ADDRESS: 45-09 Smart Street, Flushing, NY 11355\n",
			want: "45-09 Smart Street, Flushing, NY 11355",
		},
		{
			name: "TBD consumes nothing",
			text: "ADDRESS: TBD\nNot an address line.\n",
			want: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Parse(tc.text).PlaintiffAddress)
		})
	}
}

func TestParse_InlineDefendants(t *testing.T) {
	t.Parallel()

	n := Parse("DEFENDANTS: TD BANK, N.A.; EQUIFAX INFORMATION SERVICES, LLC\n- TRANS UNION, LLC\n")

	assert.Equal(t, []string{
		"TD BANK, N.A.",
		"EQUIFAX INFORMATION SERVICES, LLC",
		"TRANS UNION, LLC",
	}, n.Defendants)
}

func TestParse_BackgroundStripsBullets(t *testing.T) {
	t.Parallel()

	n := Parse("BACKGROUND:\n- First fact.\n\n- Second fact.\n")

	assert.Equal(t, []string{"First fact.", "Second fact."}, n.Background)
}

func TestParse_InlineBlockContent(t *testing.T) {
	t.Parallel()

	n := Parse("BACKGROUND: Client traveled abroad.\nImposters ran up charges.\n")

	assert.Equal(t, []string{"Client traveled abroad.", "Imposters ran up charges."}, n.Background)
}

func TestParse_UnknownLabelPreserved(t *testing.T) {
	t.Parallel()

	n := Parse("EMAIL: eman@example.com\n")

	assert.Equal(t, "eman@example.com", n.Fields["EMAIL"])
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	n := Parse("")

	assert.True(t, n.Empty())
	assert.Empty(t, n.Defendants)
	assert.Empty(t, n.KeyDates)
}
