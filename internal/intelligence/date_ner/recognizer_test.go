package date_ner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/tiger/internal/domain/document"
)

// fixedNow pins the year plausibility window to August 2025.
func fixedNow() time.Time {
	return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
}

func newTestRecognizer() *Recognizer {
	return NewRecognizer(WithNow(fixedNow))
}

func TestExtractDates_ContextAndProvenance(t *testing.T) {
	t.Parallel()

	text := "BACKGROUND:\n" +
		"Plaintiff disputed the fraudulent charges with all three bureaus on April 9, 2025.\n" +
		"The complaint was filed on 08/01/2025.\n"

	dates := newTestRecognizer().ExtractDates(text, document.TypeAttorneyNotes)
	require.Len(t, dates, 2)

	dispute := dates[0]
	assert.Equal(t, "April 9, 2025", dispute.RawText)
	assert.Equal(t, document.ContextDispute, dispute.Context)
	assert.Equal(t, 2, dispute.LineNumber)
	assert.Equal(t, "BACKGROUND", dispute.DocumentSection)
	require.True(t, dispute.HasParsed())
	assert.Equal(t, 2025, dispute.Year())

	filing := dates[1]
	assert.Equal(t, document.ContextFiling, filing.Context)
	assert.Equal(t, 3, filing.LineNumber)
}

func TestExtractDates_ConfidenceModel(t *testing.T) {
	t.Parallel()

	r := newTestRecognizer()

	tests := []struct {
		name    string
		text    string
		docType document.DocumentType
		want    float64
	}{
		{
			name:    "bare date in unknown context",
			text:    "The weather on 01/02/2021 was unremarkable.",
			docType: document.TypeUnknown,
			want:    0.5,
		},
		{
			name:    "context only",
			text:    "Plaintiff disputed the account on 04/09/2025.",
			docType: document.TypeUnknown,
			want:    0.8,
		},
		{
			name:    "context plus generic keyword",
			text:    "Dispute letter dated 04/09/2025.",
			docType: document.TypeUnknown,
			want:    0.9,
		},
		{
			name:    "document type agreement caps at one",
			text:    "Your application has been denied as of July 15, 2025.",
			docType: document.TypeDenialLetter,
			want:    1.0,
		},
		{
			name:    "ancient year penalized",
			text:    "Dated 01/01/1950.",
			docType: document.TypeUnknown,
			want:    0.4,
		},
		{
			name:    "far future year penalized",
			text:    "Settlement projected for 2099-12-31.",
			docType: document.TypeUnknown,
			want:    0.3,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dates := r.ExtractDates(tc.text, tc.docType)
			require.Len(t, dates, 1)
			assert.InDelta(t, tc.want, dates[0].Confidence, 0.0001)
		})
	}
}

func TestExtractDates_SectionTracking(t *testing.T) {
	t.Parallel()

	text := "KEY_DATES:\n" +
		"- Dispute: 04/09/2025\n" +
		"DAMAGES:\n" +
		"- Denied Auto Loan: 07/15/2025\n"

	dates := newTestRecognizer().ExtractDates(text, document.TypeAttorneyNotes)
	require.Len(t, dates, 2)
	assert.Equal(t, "KEY_DATES", dates[0].DocumentSection)
	assert.Equal(t, "DAMAGES", dates[1].DocumentSection)
	assert.Equal(t, document.ContextDispute, dates[0].Context)
	assert.Equal(t, document.ContextDenial, dates[1].Context)
}

func TestExtractDates_AdverseActionBeatsNotice(t *testing.T) {
	t.Parallel()

	text := "This notice of adverse action was issued on July 20, 2025."
	dates := newTestRecognizer().ExtractDates(text, document.TypeAdverseAction)
	require.Len(t, dates, 1)
	assert.Equal(t, document.ContextAdverseAction, dates[0].Context,
		"specific language outranks the generic notice keyword")
}

func TestExtractDates_UnparseableShapeKeepsRawText(t *testing.T) {
	t.Parallel()

	// matches the numeric pattern but is not a calendar date
	dates := newTestRecognizer().ExtractDates("Payment of 13/45/2025 units.", document.TypeUnknown)
	require.Len(t, dates, 1)
	assert.False(t, dates[0].HasParsed())
	assert.Equal(t, "13/45/2025", dates[0].RawText)
}

func TestExtractDates_EmptyText(t *testing.T) {
	t.Parallel()

	assert.Empty(t, newTestRecognizer().ExtractDates("", document.TypeUnknown))
}

func TestSentenceAround_BoundsAtSentencePeriods(t *testing.T) {
	t.Parallel()

	line := "The account was opened long ago. Plaintiff disputed it on 04/09/2025. Nothing happened."
	matches := findDateMatches(line)
	require.Len(t, matches, 1)
	sentence := sentenceAround(line, matches[0])
	assert.Contains(t, sentence, "disputed it on")
	assert.NotContains(t, sentence, "opened long ago")
	assert.NotContains(t, sentence, "Nothing happened")
}

func TestSectionHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"BACKGROUND:", "BACKGROUND", true},
		{"KEY_DATES:", "KEY_DATES", true},
		{"  LEGAL_CLAIMS:  ", "LEGAL_CLAIMS", true},
		{"CASE_NUMBER: 1:25-cv-01987", "", false},
		{"Background:", "", false},
		{"plain prose line", "", false},
		{":", "", false},
	}
	for _, tc := range tests {
		got, ok := sectionHeading(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}
}
