package validation

import (
	"strings"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
)

// furnisherIndicators mark a defendant name as a furnisher of credit
// information when its declared type does not already say so.
var furnisherIndicators = []string{
	"bank", "credit", "financ", "lend", "loan", "card", "mortgage",
}

// FCRAValidator checks that the record states a viable FCRA claim: someone
// reported the data, someone furnished it, the consumer disputed it, and an
// adverse action followed.
type FCRAValidator struct{}

// NewFCRAValidator builds the FCRA sufficiency validator.
func NewFCRAValidator() *FCRAValidator { return &FCRAValidator{} }

// Name identifies the validator in suite results.
func (v *FCRAValidator) Name() string { return "fcra" }

// Validate reports the missing elements of an FCRA claim.
func (v *FCRAValidator) Validate(record *legalcase.ConsolidatedCase) []string {
	var issues []string

	var hasCRA, hasFurnisher bool
	for _, d := range record.Defendants {
		if d.IsCreditBureau() {
			hasCRA = true
			continue
		}
		if isFurnisher(d) {
			hasFurnisher = true
		}
	}
	if !hasCRA {
		issues = append(issues, "no consumer reporting agency named as defendant")
	}
	if !hasFurnisher {
		issues = append(issues, "no furnisher of credit information named as defendant")
	}

	tl := record.CaseTimeline
	if tl.DisputeDate == "" && !hasDateWithContext(tl.DocumentDates, document.ContextDispute) {
		issues = append(issues, "no dispute event on the timeline")
	}
	adverse := tl.DenialDate != "" || len(tl.DamageEvents) > 0 ||
		hasDateWithContext(tl.DocumentDates, document.ContextDenial) ||
		hasDateWithContext(tl.DocumentDates, document.ContextAdverseAction)
	if !adverse {
		issues = append(issues, "no adverse action event on the timeline")
	}

	return issues
}

func isFurnisher(d legalcase.Defendant) bool {
	if d.Type == legalcase.DefendantTypeFurnisher {
		return true
	}
	name := strings.ToLower(d.Name)
	for _, indicator := range furnisherIndicators {
		if strings.Contains(name, indicator) {
			return true
		}
	}
	return false
}

func hasDateWithContext(dates []document.ExtractedDate, ctx document.DateContext) bool {
	for _, d := range dates {
		if d.Context == ctx {
			return true
		}
	}
	return false
}
