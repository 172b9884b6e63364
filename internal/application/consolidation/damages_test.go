package consolidation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/intelligence/atty_notes"
)

func TestDenialDetail_LabeledCreditor(t *testing.T) {
	t.Parallel()

	r := docResult("rocket_denial.txt", `ADVERSE ACTION NOTICE

Creditor: Rocket Mortgage, LLC

Your application for a home mortgage was denied on March 3, 2025.
Your credit score of 602 was used in making this decision.

Reasons:
1. Serious delinquency
2. Amount owed on accounts is too high
`)

	d, ok := denialDetail(r)
	require.True(t, ok)
	assert.Equal(t, "Rocket Mortgage, LLC", d.Creditor)
	assert.Equal(t, "home mortgage", d.ApplicationType)
	assert.Equal(t, "602", d.CreditScore)
	assert.Equal(t, "March 3, 2025", d.Date)
	assert.Equal(t, []string{"Serious delinquency", "Amount owed on accounts is too high"}, d.Reasons)
	assert.Equal(t, "rocket_denial.txt", d.SourceDocument)
}

func TestDenialDetail_LetterheadFallback(t *testing.T) {
	t.Parallel()

	d, ok := denialDetail(docResult("CapitalOne_Denial.txt", denialLetterDoc))
	require.True(t, ok)
	assert.Equal(t, "Capital One", d.Creditor)
	assert.Equal(t, "credit card", d.ApplicationType)
	assert.Equal(t, "545", d.CreditScore)
	assert.Equal(t, "December 9, 2024", d.Date)
	assert.Len(t, d.Reasons, 2)
}

func TestDenialDetail_NothingUsable(t *testing.T) {
	t.Parallel()

	_, ok := denialDetail(document.ExtractionResult{
		FileName:      "denial_stub.txt",
		ExtractedText: "Dear Sir:\n\nThank you for writing to us.\n",
	})
	assert.False(t, ok)
}

func TestLetterheadLine_SkipsTitlesAndDates(t *testing.T) {
	t.Parallel()

	text := `NOTICE OF ADVERSE ACTION

January 5, 2025

Synchrony Financial

Dear Applicant:
`
	assert.Equal(t, "Synchrony Financial", letterheadLine(text))
	assert.Empty(t, letterheadLine("NOTICE\n\nDear Sir:\n"))
}

func TestLetterheadLine_StopsAtSalutation(t *testing.T) {
	t.Parallel()

	// Short body lines below the salutation are prose, not letterhead.
	text := `Dear Sir:

Thank you for writing to us.

Best regards,
Customer Service
`
	assert.Empty(t, letterheadLine(text))
}

func TestDenialReasons_StopAtBlankLine(t *testing.T) {
	t.Parallel()

	text := `Principal reasons for our decision:

- Too many inquiries in the last twelve months
- Proportion of balances to credit limits is too high

If you have questions, call us.
`
	assert.Equal(t, []string{
		"Too many inquiries in the last twelve months",
		"Proportion of balances to credit limits is too high",
	}, denialReasons(text))

	assert.Nil(t, denialReasons("No header here.\n- stray bullet\n"))
}

func TestConsolidator_DamagesStep_NotesBlockPreferred(t *testing.T) {
	t.Parallel()

	c, ok := newTestConsolidator(t).(*consolidator)
	require.True(t, ok)

	record := legalcase.NewConsolidatedCase("x")
	notes := atty_notes.Parse(attyNotesDoc)
	docs := []findings{{result: docResult("statement.txt", "DAMAGES:\n- Lost deposit of $500 after the denial\n")}}

	c.damagesStep(record, notes, docs)

	// counsel's block wins over anything found in the documents
	require.Len(t, record.Damages.StructuredDamages, 3)
	assert.True(t, record.Damages.HasItems())
	assert.Empty(t, record.Damages.DenialDetails)
	assert.Empty(t, record.Warnings)
}

func TestConsolidator_DamagesStep_FallsBackToDocumentBlocks(t *testing.T) {
	t.Parallel()

	c, ok := newTestConsolidator(t).(*consolidator)
	require.True(t, ok)

	record := legalcase.NewConsolidatedCase("x")
	docs := []findings{{result: docResult("statement.txt", "DAMAGES:\n- Lost deposit of $500 after the denial\n")}}

	c.damagesStep(record, nil, docs)

	require.Len(t, record.Damages.StructuredDamages, 1)
	assert.True(t, record.Damages.HasItems())
}

func TestConsolidator_DamagesStep_WarnsWhenNothingFound(t *testing.T) {
	t.Parallel()

	c, ok := newTestConsolidator(t).(*consolidator)
	require.True(t, ok)

	record := legalcase.NewConsolidatedCase("x")
	c.damagesStep(record, nil, []findings{{result: docResult("statement.txt", "Nothing of note.\n")}})

	assert.False(t, record.Damages.HasItems())
	assert.Contains(t, record.Warnings, "No structured damages extracted")
}
