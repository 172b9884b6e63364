// Package atty_notes parses the labeled attorney-notes format that intake
// staff prepare for each case.  The format is line-oriented: one
// "LABEL: value" field per line, a bulleted DEFENDANTS list, and free-text
// blocks (BACKGROUND, DAMAGES, LEGAL_CLAIMS, RELIEF_SOUGHT, KEY_DATES) that
// run until the next flush-left uppercase label.  The value "TBD" marks a
// field the intake staff could not determine and is treated as absent.
package atty_notes

import "strings"

// Single-line field labels.
const (
	LabelCaseNumber      = "CASE_NUMBER"
	LabelCourtName       = "COURT_NAME"
	LabelCourtDistrict   = "COURT_DISTRICT"
	LabelFilingDate      = "FILING_DATE"
	LabelName            = "NAME"
	LabelAddress         = "ADDRESS"
	LabelPhone           = "PHONE"
	LabelDefendants      = "DEFENDANTS"
	LabelCounselName     = "PLAINTIFF_COUNSEL_NAME"
	LabelDiscoveryDate   = "DISCOVERY_DATE"
	LabelDisputeDate     = "DISPUTE_DATE"
	LabelApplicationDate = "APPLICATION_DATE"
	LabelDenialDate      = "DENIAL_DATE"
)

// Free-text block labels.
const (
	BlockBackground   = "BACKGROUND"
	BlockDamages      = "DAMAGES"
	BlockLegalClaims  = "LEGAL_CLAIMS"
	BlockReliefSought = "RELIEF_SOUGHT"
	BlockKeyDates     = "KEY_DATES"
)

// missingValue is the intake placeholder for a field nobody could fill in.
const missingValue = "TBD"

// Notes is the structured content of one attorney-notes document.
type Notes struct {
	CaseNumber    string
	CourtName     string
	CourtDistrict string
	FilingDate    string

	PlaintiffName    string
	PlaintiffAddress string
	PlaintiffPhone   string

	Defendants  []string
	CounselName string

	Background       []string
	DamagesBlock     string
	LegalClaimsBlock string
	ReliefSought     []string

	// KeyDates maps canonical date labels (DISPUTE_DATE, DENIAL_DATE, ...)
	// to the raw date text counsel recorded.  Explicit single-line labels
	// take precedence over KEY_DATES block bullets.
	KeyDates map[string]string

	// Fields preserves every labeled single-line value, known or not.
	Fields map[string]string
}

// HasLegalClaims reports whether the notes carry a LEGAL_CLAIMS block.
func (n *Notes) HasLegalClaims() bool { return strings.TrimSpace(n.LegalClaimsBlock) != "" }

// HasDamages reports whether the notes carry a DAMAGES block.
func (n *Notes) HasDamages() bool { return strings.TrimSpace(n.DamagesBlock) != "" }

// Empty reports whether parsing found no usable content at all.
func (n *Notes) Empty() bool {
	return len(n.Fields) == 0 && len(n.Defendants) == 0 && len(n.Background) == 0 &&
		n.DamagesBlock == "" && n.LegalClaimsBlock == "" &&
		len(n.ReliefSought) == 0 && len(n.KeyDates) == 0
}
