// Package consolidation merges the extraction results of one case folder
// into a single reviewed-ready case record: it filters unusable sources,
// reconciles conflicting field values, assembles the party roster, builds
// and validates the chronology, and scores how complete the record is.
//
// Consolidation is total. Missing or contradictory inputs degrade the
// record and append warnings; they never surface as an error to the
// caller.
package consolidation

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/events"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/internal/intelligence/atty_notes"
	"github.com/caselens/tiger/internal/intelligence/claim_rules"
	"github.com/caselens/tiger/internal/intelligence/damage_rules"
	"github.com/caselens/tiger/internal/intelligence/legal_ner"
)

// Placeholders written into counsel fields when the firm settings leave
// them blank, so an assembled document shows an obvious gap to fill
// rather than silently omitting its signature block.
const (
	PlaceholderFirmName    = "[FIRM NAME]"
	PlaceholderFirmAddress = "[FIRM ADDRESS]"
	PlaceholderFirmPhone   = "[FIRM PHONE]"
	PlaceholderFirmEmail   = "[FIRM EMAIL]"
)

// Settings carries the externally supplied firm identity and court
// defaults. Firm fields come from configuration, never from the case
// documents; court defaults apply only when no document names a court.
type Settings struct {
	FirmName    string
	FirmAddress string
	FirmPhone   string
	FirmEmail   string

	DefaultCourt    string
	DefaultDistrict string
}

// withPlaceholders returns a copy of s with every blank firm field
// replaced by its placeholder marker.
func (s Settings) withPlaceholders() Settings {
	if strings.TrimSpace(s.FirmName) == "" {
		s.FirmName = PlaceholderFirmName
	}
	if strings.TrimSpace(s.FirmAddress) == "" {
		s.FirmAddress = PlaceholderFirmAddress
	}
	if strings.TrimSpace(s.FirmPhone) == "" {
		s.FirmPhone = PlaceholderFirmPhone
	}
	if strings.TrimSpace(s.FirmEmail) == "" {
		s.FirmEmail = PlaceholderFirmEmail
	}
	return s
}

// Consolidator builds one case record from a folder's extraction results.
type Consolidator interface {
	// Consolidate never fails: whatever happens, it returns a record whose
	// warnings describe everything that went wrong along the way. The sink
	// may be nil when nobody is listening for progress events.
	Consolidate(ctx context.Context, folder string, results []document.ExtractionResult, sink events.Sink) *legalcase.ConsolidatedCase
}

type consolidator struct {
	settings Settings
	legal    *legal_ner.Recognizer
	damages  *damage_rules.Recognizer
	claims   *claim_rules.Extractor
	logger   logging.Logger
	now      func() time.Time
}

// Option customizes the consolidator.
type Option func(*consolidator)

// WithNow overrides the clock used for future-date checks.
func WithNow(now func() time.Time) Option {
	return func(c *consolidator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewConsolidator wires a consolidation service around the given firm
// settings. A nil logger falls back to the process default.
func NewConsolidator(settings Settings, logger logging.Logger, opts ...Option) Consolidator {
	if logger == nil {
		logger = logging.Default()
	}
	c := &consolidator{
		settings: settings.withPlaceholders(),
		legal:    legal_ner.NewRecognizer(),
		damages:  damage_rules.NewRecognizer(),
		claims:   claim_rules.NewExtractor(),
		logger:   logger.Named("consolidation"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// findings pairs one usable extraction result with the entities and
// caption fields recognized in its text.
type findings struct {
	result   document.ExtractionResult
	entities []document.LegalEntity
	info     document.CaseInformation
}

func (c *consolidator) Consolidate(ctx context.Context, folder string, results []document.ExtractionResult, sink events.Sink) *legalcase.ConsolidatedCase {
	start := c.now()
	caseID := filepath.Base(filepath.Clean(folder))
	bc := events.NewBroadcaster(caseID, sink, events.WithLogger(c.logger), events.WithNow(c.now))
	record := legalcase.NewConsolidatedCase(caseID)
	record.CaseTimeline = legalcase.NewCaseTimeline()

	bc.CaseStart(fmt.Sprintf("consolidating %d extraction results", len(results)))

	usable, notes := c.splitSources(record, results)
	if len(usable) == 0 {
		record.AddWarning("no documents processed")
		record.ExtractionConfidence = Confidence(record)
		bc.CaseComplete("no documents processed")
		return record
	}
	for _, r := range usable {
		record.AddSourceDocument(r.FileName)
	}
	docs := c.analyze(usable)

	steps := []struct {
		name string
		run  func()
	}{
		{"case information", func() { c.caseInformationStep(record, notes, docs) }},
		{"parties", func() { c.partiesStep(record, notes, docs) }},
		{"attorneys", func() { c.attorneysStep(record, notes) }},
		{"factual background", func() { c.backgroundStep(record, notes) }},
		{"damages", func() { c.damagesStep(record, notes, docs) }},
		{"timeline", func() { c.timelineStep(record, notes, docs) }},
		{"causes of action", func() { c.causesStep(record, notes) }},
	}
	for _, step := range steps {
		if ctx.Err() != nil {
			record.AddWarning(fmt.Sprintf("consolidation canceled before the %s step", step.name))
			break
		}
		step.run()
	}

	// Confidence is computed last so every warning the steps raised is on
	// the record before the completeness bonus is judged.
	record.ExtractionConfidence = Confidence(record)

	c.logger.Info("case consolidated",
		logging.String("case_id", caseID),
		logging.Int("documents", len(usable)),
		logging.Int("defendants", len(record.Defendants)),
		logging.Float64("confidence", record.ExtractionConfidence),
		logging.Int("warnings", len(record.Warnings)),
		logging.Duration("elapsed", c.now().Sub(start)))
	bc.CaseComplete(fmt.Sprintf("confidence %.0f with %d warnings", record.ExtractionConfidence, len(record.Warnings)))
	return record
}

// splitSources drops failed extractions and summonses, warns about the
// former, and parses the attorney notes if one of the remaining documents
// is them. The first notes document wins when a folder has several.
func (c *consolidator) splitSources(record *legalcase.ConsolidatedCase, results []document.ExtractionResult) ([]document.ExtractionResult, *atty_notes.Notes) {
	usable := make([]document.ExtractionResult, 0, len(results))
	var notes *atty_notes.Notes
	for _, r := range results {
		if !r.Success {
			reason := r.Error
			if reason == "" {
				reason = "extraction failed"
			}
			record.AddWarning(fmt.Sprintf("skipped %s: %s", r.FileName, reason))
			continue
		}
		if r.IsSummons() {
			c.logger.Debug("summons excluded from consolidation", logging.String("file", r.FileName))
			continue
		}
		usable = append(usable, r)
		if notes == nil && r.IsAttorneyNotes() {
			notes = atty_notes.Parse(r.ExtractedText)
			if notes.Empty() {
				notes = nil
			}
		}
	}
	return usable, notes
}

// analyze runs entity recognition once per usable document.
func (c *consolidator) analyze(usable []document.ExtractionResult) []findings {
	docs := make([]findings, 0, len(usable))
	for _, r := range usable {
		entities, info := c.legal.Recognize(r.ExtractedText)
		docs = append(docs, findings{result: r, entities: entities, info: info})
	}
	return docs
}

// caseInformationStep fills the caption fields. Counsel's notes are
// authoritative; fields they leave open fall back to a majority vote
// across the documents, then to the configured defaults.
func (c *consolidator) caseInformationStep(record *legalcase.ConsolidatedCase, notes *atty_notes.Notes, docs []findings) {
	info := &record.CaseInformation
	if notes != nil {
		info.CaseNumber = notes.CaseNumber
		info.CourtName = notes.CourtName
		info.CourtDistrict = notes.CourtDistrict
		info.FilingDate = notes.FilingDate
	}

	if info.CaseNumber == "" {
		info.CaseNumber = resolveField(record, "case number", docCandidates(docs, func(i document.CaseInformation) string { return i.CaseNumber }))
	}
	if info.CourtName == "" {
		info.CourtName = resolveField(record, "court name", docCandidates(docs, func(i document.CaseInformation) string { return i.CourtName }))
	}
	if info.CourtDistrict == "" {
		info.CourtDistrict = resolveField(record, "court district", docCandidates(docs, func(i document.CaseInformation) string { return i.CourtDistrict }))
	}

	if info.CourtName == "" {
		info.CourtName = c.settings.DefaultCourt
	}
	if info.CourtDistrict == "" {
		info.CourtDistrict = c.settings.DefaultDistrict
	}

	for _, f := range docs {
		if c.legal.HasJuryDemand(f.result.ExtractedText) {
			info.JuryDemand = true
			break
		}
	}

	if info.CaseNumber == "" {
		record.AddWarning("Missing case number")
	}
	if info.CourtName == "" {
		record.AddWarning("Missing court name")
	}
	if info.CourtDistrict == "" {
		record.AddWarning("Missing court district")
	}
}

// docCandidates projects one caption field out of every analyzed document.
func docCandidates(docs []findings, value func(document.CaseInformation) string) []candidate {
	cands := make([]candidate, 0, len(docs))
	for _, f := range docs {
		cands = append(cands, candidate{value: value(f.info), source: f.result.FileName})
	}
	return cands
}

// attorneysStep fills plaintiff counsel. Firm identity comes from the
// settings alone; the individual attorney's name comes from the notes.
func (c *consolidator) attorneysStep(record *legalcase.ConsolidatedCase, notes *atty_notes.Notes) {
	record.PlaintiffCounsel = legalcase.PlaintiffCounsel{
		Firm:    c.settings.FirmName,
		Address: c.settings.FirmAddress,
		Phone:   c.settings.FirmPhone,
		Email:   c.settings.FirmEmail,
	}
	if notes != nil {
		record.PlaintiffCounsel.Name = notes.CounselName
	}
	if record.PlaintiffCounsel.Name == "" {
		record.AddWarning("Missing attorney name")
	}
}

// backgroundStep turns counsel's BACKGROUND block into the allegation
// list, one allegation per non-empty line, plus a short summary.
func (c *consolidator) backgroundStep(record *legalcase.ConsolidatedCase, notes *atty_notes.Notes) {
	if notes == nil || len(notes.Background) == 0 {
		record.AddWarning("Missing factual background")
		return
	}
	record.FactualBackground.Allegations = append([]string(nil), notes.Background...)
	record.FactualBackground.Summary = legalcase.SummarizeAllegations(notes.Background)
}

// causesStep fills the causes of action. A LEGAL_CLAIMS block from
// counsel is authoritative; without one the record gets the standard
// federal and New York counts, unselected, pending attorney review.
func (c *consolidator) causesStep(record *legalcase.ConsolidatedCase, notes *atty_notes.Notes) {
	if notes != nil && notes.HasLegalClaims() {
		if causes := c.claims.Parse(notes.LegalClaimsBlock); len(causes) > 0 {
			record.CausesOfAction = causes
			return
		}
		record.AddWarning("LEGAL_CLAIMS block present but no counts could be parsed")
	}
	record.CausesOfAction = legalcase.BuildDefaultCausesOfAction(record.Defendants)
}
