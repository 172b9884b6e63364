package legal_ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const fullComplaintFixture = `UNITED STATES DISTRICT COURT
EASTERN DISTRICT OF NEW YORK

EMAN YOUSSEF,
                         Plaintiff,
        v.
TD BANK, N.A., EQUIFAX INFORMATION SERVICES, LLC,
EXPERIAN INFORMATION SOLUTIONS, INC., and
TRANS UNION, LLC,
                         Defendants.

Case No. 1:25-cv-01987
JURY TRIAL DEMANDED

COMPLAINT

1. Plaintiff Eman Youssef brings this action under the Fair Credit Reporting Act.
2. Defendants furnished and reported inaccurate information about Plaintiff.
3. Plaintiff disputed the inaccurate tradelines with each credit bureau.

FIRST CAUSE OF ACTION

4. Plaintiff repeats and realleges each allegation above.

WHEREFORE, Plaintiff demands judgment against Defendants.
`

const captionOnlyFixture = `UNITED STATES DISTRICT COURT
EASTERN DISTRICT OF NEW YORK

EMAN YOUSSEF,
                         Plaintiff,
        v.
TD BANK, N.A.,
                         Defendants.

Case No. 1:25-cv-01987
`

func TestRecognizer_StructureScore(t *testing.T) {
	t.Parallel()

	r := NewRecognizer()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty text", "", 0},
		{"whitespace only", "   \n\t", 0},
		{"narrative prose", "The quick brown fox jumped over the lazy dog. It was raining.", 0},
		{"full complaint hits every marker", fullComplaintFixture, 100},
		{"caption without pleading body", captionOnlyFixture, 60},
		{"two numbered paragraphs miss the threshold", "1. First allegation.\n2. Second allegation.\n", 0},
		{"three numbered paragraphs meet the threshold", "1. First.\n2. Second.\n3. Third.\n", 10},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, r.StructureScore(tc.text))
		})
	}
}

func TestRecognizer_StructureIndicators(t *testing.T) {
	t.Parallel()

	r := NewRecognizer()

	assert.Equal(t, 11, r.StructureIndicators(fullComplaintFixture))
	assert.Equal(t, 6, r.StructureIndicators(captionOnlyFixture),
		"caption carries court, district, case number, versus, and both party tokens")
	assert.Zero(t, r.StructureIndicators(""))
	assert.Zero(t, r.StructureIndicators("plain narrative text"))
}
