// Package legalcase defines the consolidated case record and its parts: case
// information, parties, damages, causes of action, and the reconciled
// timeline.  The consolidator in the application layer builds these values;
// this package owns their invariants, in particular defendant deduplication
// by normalized key.
package legalcase

import (
	"strings"

	"github.com/caselens/tiger/pkg/types/common"
)

const (
	// DocumentTitleComplaint is the fixed document title of a hydrated record.
	DocumentTitleComplaint = "COMPLAINT"
	// DocumentTypeFCRA is the fixed document type of a hydrated record.
	DocumentTypeFCRA = "FCRA"
	// FormatVersion is the on-disk schema version of the hydrated JSON.
	FormatVersion = "3.0"
)

// CaseInformation holds the caption-level facts of the case.
type CaseInformation struct {
	CaseNumber    string `json:"case_number,omitempty"`
	CourtName     string `json:"court_name,omitempty"`
	CourtDistrict string `json:"court_district,omitempty"`
	FilingDate    string `json:"filing_date,omitempty"`
	JuryDemand    bool   `json:"jury_demand"`
	DocumentTitle string `json:"document_title"`
	DocumentType  string `json:"document_type"`
}

// FactualBackground is the allegation list plus its generated summary.
type FactualBackground struct {
	Summary     string   `json:"summary,omitempty"`
	Allegations []string `json:"allegations"`
}

// summaryLimit caps the generated background summary length in characters.
const summaryLimit = 250

// SummarizeAllegations joins allegations into a single summary, truncated at
// a word boundary near the character limit.
func SummarizeAllegations(allegations []string) string {
	joined := strings.TrimSpace(strings.Join(allegations, " "))
	if len(joined) <= summaryLimit {
		return joined
	}
	cut := joined[:summaryLimit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// ConsolidatedCase is the hydrated case record, the single output of
// consolidating one case folder.  The consolidator owns it during
// construction; afterwards it is the caller's value.
type ConsolidatedCase struct {
	CaseID            string            `json:"case_id"`
	CaseInformation   CaseInformation   `json:"case_information"`
	Plaintiff         Plaintiff         `json:"plaintiff"`
	PlaintiffCounsel  PlaintiffCounsel  `json:"plaintiff_counsel"`
	Defendants        []Defendant       `json:"defendants"`
	FactualBackground FactualBackground `json:"factual_background"`
	Damages           CaseDamages       `json:"damages"`
	CausesOfAction    []CauseOfAction   `json:"causes_of_action"`
	CaseTimeline      CaseTimeline      `json:"case_timeline"`

	SourceDocuments        []string         `json:"source_documents"`
	ExtractionConfidence   float64          `json:"extraction_confidence"`
	ConsolidationTimestamp common.Timestamp `json:"consolidation_timestamp"`
	Warnings               []string         `json:"warnings"`
}

// NewConsolidatedCase returns an empty record for the given case identifier
// (the case folder's basename).  Slices are initialized so the JSON output
// renders [] rather than null.
func NewConsolidatedCase(caseID string) *ConsolidatedCase {
	return &ConsolidatedCase{
		CaseID: caseID,
		CaseInformation: CaseInformation{
			DocumentTitle: DocumentTitleComplaint,
			DocumentType:  DocumentTypeFCRA,
		},
		Defendants:             []Defendant{},
		FactualBackground:      FactualBackground{Allegations: []string{}},
		CausesOfAction:         []CauseOfAction{},
		SourceDocuments:        []string{},
		ConsolidationTimestamp: common.NewTimestamp(),
		Warnings:               []string{},
	}
}

// AddWarning records one consolidation warning. Empty messages are ignored.
func (c *ConsolidatedCase) AddWarning(msg string) {
	if strings.TrimSpace(msg) == "" {
		return
	}
	c.Warnings = append(c.Warnings, msg)
}

// HasWarnings reports whether any warning was recorded.
func (c *ConsolidatedCase) HasWarnings() bool { return len(c.Warnings) > 0 }

// AddDefendant appends a defendant unless one with the same normalized key is
// already present, or the candidate normalizes to the plaintiff's own name.
// It reports whether the defendant was added.
func (c *ConsolidatedCase) AddDefendant(d Defendant) bool {
	key := NormalizeDefendantKey(d.Name)
	if key == "" {
		return false
	}
	if pk := NormalizeDefendantKey(c.Plaintiff.Name); pk != "" && pk == key {
		return false
	}
	for _, existing := range c.Defendants {
		if NormalizeDefendantKey(existing.Name) == key {
			return false
		}
	}
	c.Defendants = append(c.Defendants, d)
	return true
}

// DefendantNames returns the display names of all defendants in order.
func (c *ConsolidatedCase) DefendantNames() []string {
	names := make([]string, 0, len(c.Defendants))
	for _, d := range c.Defendants {
		names = append(names, d.Name)
	}
	return names
}

// AddSourceDocument records a contributing file name exactly once.
func (c *ConsolidatedCase) AddSourceDocument(fileName string) {
	for _, existing := range c.SourceDocuments {
		if existing == fileName {
			return
		}
	}
	c.SourceDocuments = append(c.SourceDocuments, fileName)
}
