package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/intelligence/date_ner"
)

// TimelineValidator re-derives the chronology rules from the persisted
// record alone. It deliberately shares no code with the consolidator's own
// validation, so a record that skipped consolidation, or was edited after
// it, is still checked.
type TimelineValidator struct {
	now func() time.Time
}

// TimelineOption configures a TimelineValidator.
type TimelineOption func(*TimelineValidator)

// WithNow overrides the clock used by the future-date rule, for tests.
func WithNow(now func() time.Time) TimelineOption {
	return func(v *TimelineValidator) { v.now = now }
}

// NewTimelineValidator builds the timeline consistency validator.
func NewTimelineValidator(opts ...TimelineOption) *TimelineValidator {
	v := &TimelineValidator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Name identifies the validator in suite results.
func (v *TimelineValidator) Name() string { return "timeline" }

// Validate reports chronology violations in the persisted timeline.
func (v *TimelineValidator) Validate(record *legalcase.ConsolidatedCase) []string {
	tl := record.CaseTimeline
	var issues []string

	parse := func(name, raw string) (time.Time, bool) {
		if raw == "" {
			return time.Time{}, false
		}
		when, err := date_ner.ParseFlexible(raw)
		if err != nil {
			issues = append(issues, fmt.Sprintf("unparseable %s %q", name, raw))
			return time.Time{}, false
		}
		return when, true
	}

	discovery, hasDiscovery := parse("discovery date", tl.DiscoveryDate)
	dispute, hasDispute := parse("dispute date", tl.DisputeDate)
	filing, hasFiling := parse("filing date", tl.FilingDate)
	application, hasApplication := parse("application date", tl.ApplicationDate)
	denial, hasDenial := parse("denial date", tl.DenialDate)

	if hasDiscovery && hasDispute && discovery.After(dispute) {
		issues = append(issues, fmt.Sprintf("discovery date %q is after dispute date %q", tl.DiscoveryDate, tl.DisputeDate))
	}
	if hasDispute && hasFiling && dispute.After(filing) {
		issues = append(issues, fmt.Sprintf("dispute date %q is after filing date %q", tl.DisputeDate, tl.FilingDate))
	}
	if hasApplication && hasDenial && application.After(denial) {
		issues = append(issues, fmt.Sprintf("application date %q is after denial date %q", tl.ApplicationDate, tl.DenialDate))
	}
	issues = append(issues, perDocumentOrder(tl.DocumentDates)...)

	if hasFiling {
		for _, d := range tl.DamageEvents {
			if d.HasParsed() && d.ParsedDate.After(filing) {
				issues = append(issues, fmt.Sprintf("damage event %q (%s) is after filing date %q",
					d.RawText, d.SourceDocument, tl.FilingDate))
			}
		}
	}

	if hasDispute {
		var latest *document.ExtractedDate
		for i, d := range tl.DamageEvents {
			if d.HasParsed() && (latest == nil || d.ParsedDate.After(*latest.ParsedDate)) {
				latest = &tl.DamageEvents[i]
			}
		}
		if latest != nil && dispute.After(*latest.ParsedDate) {
			issues = append(issues, fmt.Sprintf("dispute date %q is after the latest damage event %q",
				tl.DisputeDate, latest.RawText))
		}
	}

	type datum struct {
		raw  string
		when time.Time
	}
	var data []datum
	for _, kd := range []struct {
		raw  string
		when time.Time
		ok   bool
	}{
		{tl.DiscoveryDate, discovery, hasDiscovery},
		{tl.DisputeDate, dispute, hasDispute},
		{tl.FilingDate, filing, hasFiling},
		{tl.ApplicationDate, application, hasApplication},
		{tl.DenialDate, denial, hasDenial},
	} {
		if kd.ok {
			data = append(data, datum{raw: kd.raw, when: kd.when})
		}
	}
	for _, d := range tl.DocumentDates {
		if d.HasParsed() {
			data = append(data, datum{raw: d.RawText, when: *d.ParsedDate})
		}
	}

	today := v.now()
	seenFuture := map[string]bool{}
	seenAncient := map[string]bool{}
	for _, d := range data {
		if d.when.After(today) && !seenFuture[d.raw] {
			seenFuture[d.raw] = true
			issues = append(issues, fmt.Sprintf("date %q is in the future", d.raw))
		}
		if d.when.Year() < 1990 && !seenAncient[d.raw] {
			seenAncient[d.raw] = true
			issues = append(issues, fmt.Sprintf("date %q predates 1990", d.raw))
		}
	}

	return issues
}

// perDocumentOrder checks that no source document shows a credit
// application after its own denial. Documents are visited in name order so
// repeated runs report identically.
func perDocumentOrder(dates []document.ExtractedDate) []string {
	byDoc := map[string][]document.ExtractedDate{}
	for _, d := range dates {
		byDoc[d.SourceDocument] = append(byDoc[d.SourceDocument], d)
	}
	names := make([]string, 0, len(byDoc))
	for name := range byDoc {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []string
	for _, name := range names {
		var earliestApp, latestDenial *document.ExtractedDate
		group := byDoc[name]
		for i, d := range group {
			if !d.HasParsed() {
				continue
			}
			switch d.Context {
			case document.ContextApplication:
				if earliestApp == nil || d.ParsedDate.Before(*earliestApp.ParsedDate) {
					earliestApp = &group[i]
				}
			case document.ContextDenial:
				if latestDenial == nil || d.ParsedDate.After(*latestDenial.ParsedDate) {
					latestDenial = &group[i]
				}
			}
		}
		if earliestApp != nil && latestDenial != nil && earliestApp.ParsedDate.After(*latestDenial.ParsedDate) {
			issues = append(issues, fmt.Sprintf("application date %q is after denial date %q in %s",
				earliestApp.RawText, latestDenial.RawText, name))
		}
	}
	return issues
}
