// Package hydration turns a consolidated case into the hydrated complaint
// JSON: the fixed document shape downstream drafting tools consume. The
// document is validated against an embedded schema; violations surface as
// warnings and never block the write.
package hydration

import (
	"fmt"
	"strings"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
)

// CaseInformation is the hydrated caption block. The filing date and jury
// demand hydrate into filing_details and the top-level jury_demand flag
// instead.
type CaseInformation struct {
	CourtName     string `json:"court_name,omitempty"`
	CourtDistrict string `json:"court_district,omitempty"`
	CaseNumber    string `json:"case_number,omitempty"`
	DocumentTitle string `json:"document_title"`
	DocumentType  string `json:"document_type"`
}

// Parties groups the plaintiff with the defendant roster.
type Parties struct {
	Plaintiff  legalcase.Plaintiff   `json:"plaintiff"`
	Defendants []legalcase.Defendant `json:"defendants"`
}

// JurisdictionAndVenue holds the standard jurisdictional allegations.
type JurisdictionAndVenue struct {
	FederalJurisdiction      string `json:"federal_jurisdiction"`
	SupplementalJurisdiction string `json:"supplemental_jurisdiction,omitempty"`
	Venue                    string `json:"venue"`
}

// PrayerForRelief lists the demands closing the complaint.
type PrayerForRelief struct {
	Damages          []string `json:"damages"`
	InjunctiveRelief []string `json:"injunctive_relief"`
	CostsAndFees     []string `json:"costs_and_fees"`
}

// FilingDetails carries the filing and signature dates as found in the
// source documents.
type FilingDetails struct {
	Date          string `json:"date,omitempty"`
	SignatureDate string `json:"signature_date,omitempty"`
}

// Metadata identifies the producing case run and the document format.
type Metadata struct {
	TigerCaseID   string `json:"tiger_case_id"`
	FormatVersion string `json:"format_version"`
}

// Document is the hydrated complaint record. Field order is fixed so the
// serialized form is deterministic for a given case record.
type Document struct {
	CaseInformation      CaseInformation             `json:"case_information"`
	Parties              Parties                     `json:"parties"`
	PlaintiffCounsel     legalcase.PlaintiffCounsel  `json:"plaintiff_counsel"`
	JurisdictionAndVenue JurisdictionAndVenue        `json:"jurisdiction_and_venue"`
	PreliminaryStatement string                      `json:"preliminary_statement"`
	FactualBackground    legalcase.FactualBackground `json:"factual_background"`
	CausesOfAction       []legalcase.CauseOfAction   `json:"causes_of_action"`
	Damages              legalcase.CaseDamages       `json:"damages"`
	CaseTimeline         legalcase.CaseTimeline      `json:"case_timeline"`
	PrayerForRelief      PrayerForRelief             `json:"prayer_for_relief"`
	JuryDemand           bool                        `json:"jury_demand"`
	FilingDetails        FilingDetails               `json:"filing_details"`
	Metadata             Metadata                    `json:"metadata"`
}

// build assembles the document from the record alone. Everything here is a
// pure projection: same record in, same document out.
func build(record *legalcase.ConsolidatedCase) *Document {
	info := record.CaseInformation
	doc := &Document{
		CaseInformation: CaseInformation{
			CourtName:     info.CourtName,
			CourtDistrict: info.CourtDistrict,
			CaseNumber:    info.CaseNumber,
			DocumentTitle: legalcase.DocumentTitleComplaint,
			DocumentType:  legalcase.DocumentTypeFCRA,
		},
		Parties: Parties{
			Plaintiff:  record.Plaintiff,
			Defendants: record.Defendants,
		},
		PlaintiffCounsel:     record.PlaintiffCounsel,
		JurisdictionAndVenue: jurisdictionAndVenue(record),
		PreliminaryStatement: preliminaryStatement(record),
		FactualBackground:    record.FactualBackground,
		CausesOfAction:       record.CausesOfAction,
		Damages:              record.Damages,
		CaseTimeline:         record.CaseTimeline,
		PrayerForRelief:      prayerForRelief(record),
		JuryDemand:           info.JuryDemand,
		FilingDetails:        FilingDetails{Date: info.FilingDate, SignatureDate: info.FilingDate},
		Metadata:             Metadata{TigerCaseID: record.CaseID, FormatVersion: legalcase.FormatVersion},
	}
	normalize(doc)
	return doc
}

// normalize replaces nil collections with empty ones so the document always
// serializes arrays and objects, never null. Records that skipped a pipeline
// stage otherwise leak nil slices into the JSON.
func normalize(doc *Document) {
	if doc.Parties.Defendants == nil {
		doc.Parties.Defendants = []legalcase.Defendant{}
	}
	if doc.CausesOfAction == nil {
		doc.CausesOfAction = []legalcase.CauseOfAction{}
	}
	if doc.FactualBackground.Allegations == nil {
		doc.FactualBackground.Allegations = []string{}
	}
	if doc.Damages.StructuredDamages == nil {
		doc.Damages.StructuredDamages = []document.DamageItem{}
	}
	if doc.Damages.CategorizedDamages == nil {
		doc.Damages.CategorizedDamages = map[string][]document.DamageItem{}
	}
	if doc.Damages.Statistics.ByCategory == nil {
		doc.Damages.Statistics.ByCategory = map[string]int{}
	}
	if doc.CaseTimeline.DamageEvents == nil {
		doc.CaseTimeline.DamageEvents = []document.ExtractedDate{}
	}
	if doc.CaseTimeline.DocumentDates == nil {
		doc.CaseTimeline.DocumentDates = []document.ExtractedDate{}
	}
	if doc.CaseTimeline.ChronologicalValidation.Errors == nil {
		doc.CaseTimeline.ChronologicalValidation.Errors = []string{}
	}
	if doc.CaseTimeline.ChronologicalValidation.Warnings == nil {
		doc.CaseTimeline.ChronologicalValidation.Warnings = []string{}
	}
}

func jurisdictionAndVenue(record *legalcase.ConsolidatedCase) JurisdictionAndVenue {
	j := JurisdictionAndVenue{
		FederalJurisdiction: "This Court has jurisdiction over Plaintiff's FCRA claims under 15 U.S.C. § 1681p and 28 U.S.C. § 1331.",
		Venue: "Venue is proper in this District under 28 U.S.C. § 1391(b) because a substantial part of the events " +
			"giving rise to the claims occurred in this District.",
	}
	if hasStateClaims(record) {
		j.SupplementalJurisdiction = "This Court has supplemental jurisdiction over Plaintiff's state law claims under 28 U.S.C. § 1367(a)."
	}
	return j
}

func hasStateClaims(record *legalcase.ConsolidatedCase) bool {
	for _, cause := range record.CausesOfAction {
		for _, claim := range cause.LegalClaims {
			if claim.Category == legalcase.CategoryNYFCRA {
				return true
			}
		}
	}
	return false
}

func preliminaryStatement(record *legalcase.ConsolidatedCase) string {
	name := record.Plaintiff.Name
	if name == "" {
		name = "Plaintiff"
	}
	statutes := "the Fair Credit Reporting Act, 15 U.S.C. § 1681 et seq."
	if hasStateClaims(record) {
		statutes = "the Fair Credit Reporting Act, 15 U.S.C. § 1681 et seq., and the New York Fair Credit Reporting Act, N.Y. GBL § 380 et seq."
	}
	return fmt.Sprintf("%s brings this action against %s for violations of %s",
		name, defendantPhrase(record.Defendants), statutes)
}

// defendantPhrase renders the roster as prose, preferring short names so a
// four-defendant statement stays readable.
func defendantPhrase(defendants []legalcase.Defendant) string {
	if len(defendants) == 0 {
		return "the defendants"
	}
	names := make([]string, 0, len(defendants))
	for _, d := range defendants {
		name := d.ShortName
		if name == "" {
			name = d.Name
		}
		names = append(names, name)
	}
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

func prayerForRelief(record *legalcase.ConsolidatedCase) PrayerForRelief {
	p := PrayerForRelief{
		Damages:          []string{},
		InjunctiveRelief: []string{},
		CostsAndFees:     []string{},
	}
	d := record.Damages
	for _, claim := range []legalcase.DamageClaim{d.ActualDamages, d.StatutoryDamages, d.PunitiveDamages} {
		if claim.Available {
			p.Damages = append(p.Damages, demandLine(claim))
		}
	}
	p.InjunctiveRelief = append(p.InjunctiveRelief,
		"An order directing the defendants to correct or delete the inaccurate information from Plaintiff's credit file")
	if d.AttorneyFees.Available {
		p.CostsAndFees = append(p.CostsAndFees, demandLine(d.AttorneyFees))
	}
	return p
}

func demandLine(claim legalcase.DamageClaim) string {
	if claim.Basis == "" {
		return claim.Description
	}
	return fmt.Sprintf("%s pursuant to %s", claim.Description, claim.Basis)
}
