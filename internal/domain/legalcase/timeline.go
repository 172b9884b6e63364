package legalcase

import (
	"github.com/caselens/tiger/internal/domain/document"
)

// ChronologicalValidation is the outcome of running the chronology rules
// over a timeline.  Errors flip IsValid; warnings never do.
type ChronologicalValidation struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewChronologicalValidation returns a passing validation with empty issue
// lists, ready for rule evaluation.
func NewChronologicalValidation() ChronologicalValidation {
	return ChronologicalValidation{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}
}

// AddError records a rule violation and marks the timeline invalid.
func (v *ChronologicalValidation) AddError(msg string) {
	v.Errors = append(v.Errors, msg)
	v.IsValid = false
}

// AddWarning records a non-fatal chronology concern.
func (v *ChronologicalValidation) AddWarning(msg string) {
	v.Warnings = append(v.Warnings, msg)
}

// Clean reports a valid timeline with no warnings either.
func (v ChronologicalValidation) Clean() bool {
	return v.IsValid && len(v.Warnings) == 0
}

// CaseTimeline is the reconciled chronology of the case.  Key dates keep the
// source representation as found in the documents; parsing happens only at
// validation time.
type CaseTimeline struct {
	DiscoveryDate   string `json:"discovery_date,omitempty"`
	DisputeDate     string `json:"dispute_date,omitempty"`
	FilingDate      string `json:"filing_date,omitempty"`
	ApplicationDate string `json:"application_date,omitempty"`
	DenialDate      string `json:"denial_date,omitempty"`

	DamageEvents  []document.ExtractedDate `json:"damage_events"`
	DocumentDates []document.ExtractedDate `json:"document_dates"`

	ChronologicalValidation ChronologicalValidation `json:"chronological_validation"`
	TimelineConfidence      float64                 `json:"timeline_confidence"`
}

// NewCaseTimeline returns an empty timeline with initialized collections.
func NewCaseTimeline() CaseTimeline {
	return CaseTimeline{
		DamageEvents:            []document.ExtractedDate{},
		DocumentDates:           []document.ExtractedDate{},
		ChronologicalValidation: NewChronologicalValidation(),
	}
}

// KeyDates returns the labeled key dates that are set, keyed by their
// timeline field name.
func (t CaseTimeline) KeyDates() map[string]string {
	dates := make(map[string]string, 5)
	for name, value := range map[string]string{
		"discovery_date":   t.DiscoveryDate,
		"dispute_date":     t.DisputeDate,
		"filing_date":      t.FilingDate,
		"application_date": t.ApplicationDate,
		"denial_date":      t.DenialDate,
	} {
		if value != "" {
			dates[name] = value
		}
	}
	return dates
}

// EventCount is the number of distinct timeline entries: set key dates plus
// damage events.
func (t CaseTimeline) EventCount() int {
	return len(t.KeyDates()) + len(t.DamageEvents)
}
