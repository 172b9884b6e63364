package legalcase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsolidatedCase_Defaults(t *testing.T) {
	t.Parallel()

	c := NewConsolidatedCase("youssef_v_equifax")
	assert.Equal(t, "youssef_v_equifax", c.CaseID)
	assert.Equal(t, DocumentTitleComplaint, c.CaseInformation.DocumentTitle)
	assert.Equal(t, DocumentTypeFCRA, c.CaseInformation.DocumentType)
	assert.NotNil(t, c.Warnings)
	assert.Empty(t, c.Warnings)
	assert.NotNil(t, c.Defendants)
	assert.NotNil(t, c.SourceDocuments)
	assert.False(t, c.ConsolidationTimestamp.IsZero())
}

func TestConsolidatedCase_AddWarning(t *testing.T) {
	t.Parallel()

	c := NewConsolidatedCase("case")
	c.AddWarning("conflicting case numbers across documents")
	c.AddWarning("   ")
	c.AddWarning("")
	require.Len(t, c.Warnings, 1)
	assert.True(t, c.HasWarnings())
}

func TestConsolidatedCase_AddDefendant_DeduplicatesByKey(t *testing.T) {
	t.Parallel()

	c := NewConsolidatedCase("case")
	assert.True(t, c.AddDefendant(LookupDefendant("TRANS UNION LLC")))
	assert.False(t, c.AddDefendant(LookupDefendant("TRANS UNION, LLC")))
	assert.False(t, c.AddDefendant(Defendant{Name: "TransUnion"}))
	require.Len(t, c.Defendants, 1)
	assert.Equal(t, "TRANS UNION, LLC", c.Defendants[0].Name)
}

func TestConsolidatedCase_AddDefendant_RejectsPlaintiff(t *testing.T) {
	t.Parallel()

	c := NewConsolidatedCase("case")
	c.Plaintiff.Name = "Eman Youssef"
	assert.False(t, c.AddDefendant(Defendant{Name: "EMAN YOUSSEF"}))
	assert.True(t, c.AddDefendant(LookupDefendant("TD Bank, N.A.")))
	assert.Len(t, c.Defendants, 1)
}

func TestConsolidatedCase_AddDefendant_RejectsEmptyName(t *testing.T) {
	t.Parallel()

	c := NewConsolidatedCase("case")
	assert.False(t, c.AddDefendant(Defendant{Name: "  "}))
	assert.Empty(t, c.Defendants)
}

func TestConsolidatedCase_AddSourceDocument_Deduplicates(t *testing.T) {
	t.Parallel()

	c := NewConsolidatedCase("case")
	c.AddSourceDocument("Atty_Notes.docx")
	c.AddSourceDocument("Complaint.pdf")
	c.AddSourceDocument("Atty_Notes.docx")
	assert.Equal(t, []string{"Atty_Notes.docx", "Complaint.pdf"}, c.SourceDocuments)
}

func TestConsolidatedCase_DefendantNames(t *testing.T) {
	t.Parallel()

	c := NewConsolidatedCase("case")
	c.AddDefendant(LookupDefendant("Equifax"))
	c.AddDefendant(LookupDefendant("TD Bank"))
	assert.Equal(t, []string{"EQUIFAX INFORMATION SERVICES, LLC", "TD BANK, N.A."}, c.DefendantNames())
}

func TestSummarizeAllegations(t *testing.T) {
	t.Parallel()

	t.Run("short text passes through", func(t *testing.T) {
		t.Parallel()
		got := SummarizeAllegations([]string{"Plaintiff disputed the fraudulent charges.", "The bureaus verified them anyway."})
		assert.Equal(t, "Plaintiff disputed the fraudulent charges. The bureaus verified them anyway.", got)
	})

	t.Run("long text truncates at word boundary", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("The defendant failed to investigate. ", 20)
		got := SummarizeAllegations([]string{long})
		assert.LessOrEqual(t, len(got), summaryLimit+len("..."))
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.NotContains(t, got, "  ")
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, SummarizeAllegations(nil))
	})
}
