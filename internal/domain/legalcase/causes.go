package legalcase

import "fmt"

// LegalClaim is one statutory citation asserted under a cause of action.
// Claims parsed from the attorney notes arrive selected; claims suggested
// from the rules corpus arrive with Selected false and await attorney review.
type LegalClaim struct {
	Citation    string  `json:"citation"`
	Description string  `json:"description"`
	Selected    bool    `json:"selected"`
	Confidence  float64 `json:"confidence"`
	Category    string  `json:"category,omitempty"`

	// Against narrows a claim to specific defendants while counts are being
	// grouped. It never serializes; the count-level AgainstDefendants list is
	// the output view.
	Against []string `json:"-"`
}

// CauseOfAction is one numbered count of the complaint.
type CauseOfAction struct {
	CountNumber       int          `json:"count_number"`
	Title             string       `json:"title"`
	AgainstDefendants []string     `json:"against_defendants"`
	LegalClaims       []LegalClaim `json:"legal_claims"`
}

const (
	// CategoryFCRA tags claims arising under the federal FCRA.
	CategoryFCRA = "FCRA"
	// CategoryNYFCRA tags claims arising under the New York FCRA (GBL art. 25).
	CategoryNYFCRA = "NY_FCRA"
)

// suggestedConfidence is assigned to corpus-suggested claims pending review.
const suggestedConfidence = 0.5

var ordinalWords = []string{
	"FIRST", "SECOND", "THIRD", "FOURTH", "FIFTH",
	"SIXTH", "SEVENTH", "EIGHTH", "NINTH", "TENTH",
}

// OrdinalTitle renders the complaint-style heading for count n, e.g.
// "FIRST CAUSE OF ACTION".
func OrdinalTitle(n int) string {
	if n >= 1 && n <= len(ordinalWords) {
		return ordinalWords[n-1] + " CAUSE OF ACTION"
	}
	return fmt.Sprintf("CAUSE OF ACTION NO. %d", n)
}

// DefaultFederalFCRAClaims returns the federal FCRA corpus suggestions,
// Selected false, asserted against every defendant.
func DefaultFederalFCRAClaims() []LegalClaim {
	return []LegalClaim{
		{
			Citation:    "15 U.S.C. § 1681e(b)",
			Description: "Failure to follow reasonable procedures to assure maximum possible accuracy of consumer reports",
			Selected:    false,
			Confidence:  suggestedConfidence,
			Category:    CategoryFCRA,
		},
		{
			Citation:    "15 U.S.C. § 1681i",
			Description: "Failure to conduct a reasonable reinvestigation of disputed information",
			Selected:    false,
			Confidence:  suggestedConfidence,
			Category:    CategoryFCRA,
		},
		{
			Citation:    "15 U.S.C. § 1681s-2(b)",
			Description: "Furnisher failure to reasonably investigate disputed information after notice from a consumer reporting agency",
			Selected:    false,
			Confidence:  suggestedConfidence,
			Category:    CategoryFCRA,
		},
		{
			Citation:    "15 U.S.C. § 1681n",
			Description: "Willful noncompliance with the FCRA",
			Selected:    false,
			Confidence:  suggestedConfidence,
			Category:    CategoryFCRA,
		},
		{
			Citation:    "15 U.S.C. § 1681o",
			Description: "Negligent noncompliance with the FCRA",
			Selected:    false,
			Confidence:  suggestedConfidence,
			Category:    CategoryFCRA,
		},
	}
}

// DefaultNYFCRAClaims returns the New York FCRA corpus suggestions,
// Selected false, asserted against consumer reporting agencies only.
func DefaultNYFCRAClaims() []LegalClaim {
	return []LegalClaim{
		{
			Citation:    "N.Y. GBL § 380-f",
			Description: "Failure to reinvestigate disputed information within the statutory period",
			Selected:    false,
			Confidence:  suggestedConfidence,
			Category:    CategoryNYFCRA,
		},
		{
			Citation:    "N.Y. GBL § 380-j(a)",
			Description: "Reporting of known erroneous information prohibited under the New York FCRA",
			Selected:    false,
			Confidence:  suggestedConfidence,
			Category:    CategoryNYFCRA,
		},
		{
			Citation:    "N.Y. GBL § 380-l",
			Description: "Willful noncompliance with the New York FCRA",
			Selected:    false,
			Confidence:  suggestedConfidence,
			Category:    CategoryNYFCRA,
		},
		{
			Citation:    "N.Y. GBL § 380-m",
			Description: "Negligent noncompliance with the New York FCRA",
			Selected:    false,
			Confidence:  suggestedConfidence,
			Category:    CategoryNYFCRA,
		},
	}
}

// BuildDefaultCausesOfAction emits the two standard counts used when the
// attorney notes carry no LEGAL_CLAIMS block: a federal FCRA count against
// all defendants and a New York FCRA count against the consumer reporting
// agencies only.
func BuildDefaultCausesOfAction(defendants []Defendant) []CauseOfAction {
	all := make([]string, 0, len(defendants))
	cras := make([]string, 0, len(defendants))
	for _, d := range defendants {
		name := d.ShortName
		if name == "" {
			name = d.Name
		}
		all = append(all, name)
		if d.IsCreditBureau() {
			cras = append(cras, name)
		}
	}

	return []CauseOfAction{
		{
			CountNumber:       1,
			Title:             OrdinalTitle(1) + " - Violations of the FCRA",
			AgainstDefendants: all,
			LegalClaims:       DefaultFederalFCRAClaims(),
		},
		{
			CountNumber:       2,
			Title:             OrdinalTitle(2) + " - Violations of the New York FCRA",
			AgainstDefendants: cras,
			LegalClaims:       DefaultNYFCRAClaims(),
		},
	}
}
