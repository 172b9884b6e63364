package legal_ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseNumberPatterns(t *testing.T) {
	t.Parallel()

	t.Run("federal docket numbers", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			in   string
			want string
		}{
			{"Case No. 1:25-cv-01987", "1:25-cv-01987"},
			{"2:24-cv-9876-ARR-LB", "2:24-cv-9876-ARR-LB"},
			{"removed to 1:25-cv-01987-PKC-RER yesterday", "1:25-cv-01987-PKC-RER"},
		}
		for _, tc := range tests {
			m := federalCaseNumberPattern.FindStringSubmatch(tc.in)
			require.NotNil(t, m, tc.in)
			assert.Equal(t, tc.want, m[1], tc.in)
		}
	})

	t.Run("federal pattern rejects lookalikes", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{"25-cv-1987", "1:25-cr-01987", "1:25-cv-98"} {
			assert.Nil(t, federalCaseNumberPattern.FindStringSubmatch(in), in)
		}
	})

	t.Run("state index numbers", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			in   string
			want string
		}{
			{"Index No. 654321/2025", "654321/2025"},
			{"INDEX NO: 1234/2024", "1234/2024"},
		}
		for _, tc := range tests {
			m := stateIndexPattern.FindStringSubmatch(tc.in)
			require.NotNil(t, m, tc.in)
			assert.Equal(t, tc.want, m[1], tc.in)
		}
	})

	t.Run("labeled case numbers", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			in   string
			want string
		}{
			{"Civil Action No. 25-1987", "25-1987"},
			{"Docket No.: CV-2025-00123", "CV-2025-00123"},
		}
		for _, tc := range tests {
			m := labeledCaseNumberPattern.FindStringSubmatch(tc.in)
			require.NotNil(t, m, tc.in)
			assert.Equal(t, tc.want, m[1], tc.in)
		}
	})
}

func TestDistrictPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "two word state",
			in:   "EASTERN DISTRICT OF NEW YORK",
			want: "EASTERN DISTRICT OF NEW YORK",
		},
		{
			name: "inline after for the",
			in:   "FOR THE SOUTHERN DISTRICT OF NEW YORK\n",
			want: "SOUTHERN DISTRICT OF NEW YORK",
		},
		{
			name: "single word state",
			in:   "NORTHERN DISTRICT OF CALIFORNIA",
			want: "NORTHERN DISTRICT OF CALIFORNIA",
		},
		{
			name: "match stops at the line break",
			in:   "EASTERN DISTRICT OF NEW YORK\nEMAN YOUSSEF,",
			want: "EASTERN DISTRICT OF NEW YORK",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := districtPattern.FindStringSubmatch(tc.in)
			require.NotNil(t, m)
			assert.Equal(t, tc.want, m[1])
		})
	}
}

func TestContactPatterns(t *testing.T) {
	t.Parallel()

	t.Run("phone formats", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{"(718) 555-0199", "718-555-0199", "212.555.0148"} {
			assert.Equal(t, in, phonePattern.FindString(in), in)
		}
	})

	t.Run("email inside prose", func(t *testing.T) {
		t.Parallel()
		got := emailPattern.FindString("reach us at intake@faircreditlaw.com today")
		assert.Equal(t, "intake@faircreditlaw.com", got)
	})

	t.Run("street addresses", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			in   string
			want string
		}{
			{"located at 45-09 Smart Street, Apt 2B", "45-09 Smart Street"},
			{"30 Wall Street, 8th Floor", "30 Wall Street"},
		}
		for _, tc := range tests {
			assert.Equal(t, tc.want, streetPattern.FindString(tc.in), tc.in)
		}
	})

	t.Run("city state zip", func(t *testing.T) {
		t.Parallel()
		m := cityStateZipPattern.FindStringSubmatch("Jamaica, NY 11435-1234")
		require.NotNil(t, m)
		assert.Equal(t, "Jamaica", m[1])
		assert.Equal(t, "NY", m[2])
		assert.Equal(t, "11435-1234", m[3])
	})
}
