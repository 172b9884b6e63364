package validation

import (
	"github.com/caselens/tiger/internal/domain/legalcase"
)

// minTimelineEvents is the smallest chronology a filing can stand on: a
// dispute and something that happened because of it.
const minTimelineEvents = 2

// CompletenessValidator checks that the record carries enough identity and
// chronology to draft a caption and a statement of facts.
type CompletenessValidator struct{}

// NewCompletenessValidator builds the completeness validator.
func NewCompletenessValidator() *CompletenessValidator { return &CompletenessValidator{} }

// Name identifies the validator in suite results.
func (v *CompletenessValidator) Name() string { return "completeness" }

// Validate reports the structural gaps in the record.
func (v *CompletenessValidator) Validate(record *legalcase.ConsolidatedCase) []string {
	var issues []string

	if record.Plaintiff.Name == "" {
		issues = append(issues, "plaintiff name is missing")
	}
	if record.Plaintiff.Address.City == "" || record.Plaintiff.Address.State == "" {
		issues = append(issues, "plaintiff address lacks city or state")
	}

	named := 0
	for _, d := range record.Defendants {
		if d.Name != "" {
			named++
		}
	}
	if named == 0 {
		issues = append(issues, "no named defendants")
	}

	if record.CaseInformation.CaseNumber == "" {
		issues = append(issues, "case number is missing")
	}
	if record.CaseInformation.CourtName == "" && record.CaseInformation.CourtDistrict == "" {
		issues = append(issues, "court jurisdiction is missing")
	}

	if record.CaseTimeline.EventCount() < minTimelineEvents {
		issues = append(issues, "timeline has fewer than two events")
	}

	return issues
}
