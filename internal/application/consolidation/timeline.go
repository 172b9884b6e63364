package consolidation

import (
	"fmt"
	"strings"
	"time"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/intelligence/atty_notes"
	"github.com/caselens/tiger/internal/intelligence/date_ner"
)

// timelineStep builds the case chronology: every extracted date is kept
// with its provenance, the five key dates are resolved with counsel's
// labels taking precedence, denial-letter dates become damage events, and
// the chronology rules run over the result.
func (c *consolidator) timelineStep(record *legalcase.ConsolidatedCase, notes *atty_notes.Notes, docs []findings) {
	t := legalcase.NewCaseTimeline()

	for _, f := range docs {
		for _, d := range f.result.ExtractedDates {
			d.SourceDocument = f.result.FileName
			t.DocumentDates = append(t.DocumentDates, d)
		}
	}

	labeled := map[string]string{}
	if notes != nil {
		for label, value := range notes.KeyDates {
			labeled[label] = value
		}
		if notes.FilingDate != "" {
			labeled[atty_notes.LabelFilingDate] = notes.FilingDate
		}
	}

	t.DiscoveryDate = chooseKeyDate(labeled[atty_notes.LabelDiscoveryDate], t.DocumentDates, document.ContextDiscovery)
	t.DisputeDate = chooseKeyDate(labeled[atty_notes.LabelDisputeDate], t.DocumentDates, document.ContextDispute)
	t.FilingDate = chooseKeyDate(labeled[atty_notes.LabelFilingDate], t.DocumentDates, document.ContextFiling)
	t.ApplicationDate = chooseKeyDate(labeled[atty_notes.LabelApplicationDate], t.DocumentDates, document.ContextApplication)
	t.DenialDate = chooseKeyDate(labeled[atty_notes.LabelDenialDate], t.DocumentDates, document.ContextDenial)

	for _, f := range docs {
		dt := f.result.DocumentType
		if dt != document.TypeDenialLetter && dt != document.TypeAdverseAction {
			continue
		}
		for _, d := range f.result.ExtractedDates {
			if d.Context == document.ContextDenial || d.Context == document.ContextAdverseAction {
				d.SourceDocument = f.result.FileName
				t.DamageEvents = append(t.DamageEvents, d)
			}
		}
	}

	c.validateChronology(record, &t, labeled, docs)
	t.TimelineConfidence = timelineConfidence(t)

	record.CaseTimeline = t
	if record.CaseInformation.FilingDate == "" {
		record.CaseInformation.FilingDate = t.FilingDate
	}
}

// chooseKeyDate returns the labeled value when counsel supplied one,
// otherwise the highest-confidence extracted date carrying the wanted
// context. Either way the raw source text is kept; parsing waits for
// validation.
func chooseKeyDate(labeled string, dates []document.ExtractedDate, ctx document.DateContext) string {
	if labeled = strings.TrimSpace(labeled); labeled != "" {
		return labeled
	}
	best := -1
	for i, d := range dates {
		if d.Context != ctx {
			continue
		}
		if best == -1 || d.Confidence > dates[best].Confidence {
			best = i
		}
	}
	if best == -1 {
		return ""
	}
	return dates[best].RawText
}

// validateChronology runs the chronology rules. Rule violations land in
// the timeline's validation result; errors are additionally mirrored onto
// the record's warnings so a reviewer sees them without digging.
//
// The rules, in evaluation order: discovery must not follow dispute,
// dispute must not follow filing, and an application must not follow its
// denial within one document (all errors); damage events after filing,
// any date in the future, a dispute after the last damage event, and any
// date before 1990 are flagged but tolerated.
func (c *consolidator) validateChronology(record *legalcase.ConsolidatedCase, t *legalcase.CaseTimeline, labeled map[string]string, docs []findings) {
	v := &t.ChronologicalValidation

	discovery, hasDiscovery := parseKeyDate(v, "discovery date", t.DiscoveryDate)
	dispute, hasDispute := parseKeyDate(v, "dispute date", t.DisputeDate)
	filing, hasFiling := parseKeyDate(v, "filing date", t.FilingDate)
	application, hasApplication := parseKeyDate(v, "application date", t.ApplicationDate)
	denial, hasDenial := parseKeyDate(v, "denial date", t.DenialDate)

	if hasDiscovery && hasDispute && discovery.After(dispute) {
		v.AddError(fmt.Sprintf("discovery date %q is after dispute date %q", t.DiscoveryDate, t.DisputeDate))
	}
	if hasDispute && hasFiling && dispute.After(filing) {
		v.AddError(fmt.Sprintf("dispute date %q is after filing date %q", t.DisputeDate, t.FilingDate))
	}

	// The application-versus-denial rule only holds within one document.
	// Counsel's labels live in one document by definition; otherwise the
	// comparison runs per letter.
	if labeled[atty_notes.LabelApplicationDate] != "" && labeled[atty_notes.LabelDenialDate] != "" &&
		hasApplication && hasDenial && application.After(denial) {
		v.AddError(fmt.Sprintf("application date %q is after denial date %q", t.ApplicationDate, t.DenialDate))
	}
	for _, f := range docs {
		if f.result.IsAttorneyNotes() {
			continue
		}
		earliestApp, latestDenial := contextBounds(f.result.ExtractedDates)
		if earliestApp != nil && latestDenial != nil && earliestApp.ParsedDate.After(*latestDenial.ParsedDate) {
			v.AddError(fmt.Sprintf("application date %q is after denial date %q in %s",
				earliestApp.RawText, latestDenial.RawText, f.result.FileName))
		}
	}

	if hasFiling {
		for _, d := range t.DamageEvents {
			if d.HasParsed() && d.ParsedDate.After(filing) {
				v.AddWarning(fmt.Sprintf("damage event %q (%s) is after filing date %q",
					d.RawText, d.SourceDocument, t.FilingDate))
			}
		}
	}

	if hasDispute {
		var latest *document.ExtractedDate
		for i, d := range t.DamageEvents {
			if d.HasParsed() && (latest == nil || d.ParsedDate.After(*latest.ParsedDate)) {
				latest = &t.DamageEvents[i]
			}
		}
		if latest != nil && dispute.After(*latest.ParsedDate) {
			v.AddWarning(fmt.Sprintf("dispute date %q is after the latest damage event %q",
				t.DisputeDate, latest.RawText))
		}
	}

	// Future and pre-1990 checks cover every date on the timeline, with one
	// warning per distinct raw value.
	type datum struct {
		raw    string
		when   time.Time
		source string
	}
	var data []datum
	keyDates := []struct {
		raw  string
		when time.Time
		ok   bool
	}{
		{t.DiscoveryDate, discovery, hasDiscovery},
		{t.DisputeDate, dispute, hasDispute},
		{t.FilingDate, filing, hasFiling},
		{t.ApplicationDate, application, hasApplication},
		{t.DenialDate, denial, hasDenial},
	}
	for _, kd := range keyDates {
		if kd.ok {
			data = append(data, datum{raw: kd.raw, when: kd.when})
		}
	}
	for _, d := range t.DocumentDates {
		if d.HasParsed() {
			data = append(data, datum{raw: d.RawText, when: *d.ParsedDate, source: d.SourceDocument})
		}
	}

	today := c.now()
	seenFuture := map[string]bool{}
	seenAncient := map[string]bool{}
	for _, d := range data {
		where := ""
		if d.source != "" {
			where = fmt.Sprintf(" (%s)", d.source)
		}
		if d.when.After(today) && !seenFuture[d.raw] {
			seenFuture[d.raw] = true
			v.AddWarning(fmt.Sprintf("date %q%s is in the future", d.raw, where))
		}
		if d.when.Year() < 1990 && !seenAncient[d.raw] {
			seenAncient[d.raw] = true
			v.AddWarning(fmt.Sprintf("date %q%s predates 1990", d.raw, where))
		}
	}

	for _, e := range v.Errors {
		record.AddWarning("chronology: " + e)
	}
}

// contextBounds returns the earliest application-context date and the
// latest denial-context date among one document's parsed dates.
func contextBounds(dates []document.ExtractedDate) (earliestApp, latestDenial *document.ExtractedDate) {
	for i, d := range dates {
		if !d.HasParsed() {
			continue
		}
		switch d.Context {
		case document.ContextApplication:
			if earliestApp == nil || d.ParsedDate.Before(*earliestApp.ParsedDate) {
				earliestApp = &dates[i]
			}
		case document.ContextDenial:
			if latestDenial == nil || d.ParsedDate.After(*latestDenial.ParsedDate) {
				latestDenial = &dates[i]
			}
		}
	}
	return earliestApp, latestDenial
}

// parseKeyDate parses a key date when one is set. A set but unparseable
// value is itself a chronology error.
func parseKeyDate(v *legalcase.ChronologicalValidation, name, raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, false
	}
	when, err := date_ner.ParseFlexible(raw)
	if err != nil {
		v.AddError(fmt.Sprintf("unparseable %s %q", name, raw))
		return time.Time{}, false
	}
	return when, true
}

// timelineConfidence scores how complete and consistent the chronology is,
// topping out at 100: the dispute date carries half the weight, the filing
// date most of the rest, and a validated chronology earns the remainder,
// reduced when warnings were tolerated.
func timelineConfidence(t legalcase.CaseTimeline) float64 {
	score := 0.0
	if t.DisputeDate != "" {
		score += 50
	}
	if t.FilingDate != "" {
		score += 40
	}
	switch {
	case t.ChronologicalValidation.Clean():
		score += 10
	case t.ChronologicalValidation.IsValid:
		score += 5
	}
	return score
}
