package consolidation

import (
	"regexp"
	"strings"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/intelligence/atty_notes"
	"github.com/caselens/tiger/internal/intelligence/damage_rules"
	"github.com/caselens/tiger/internal/intelligence/date_ner"
)

// damagesStep extracts structured damage items, preferring the DAMAGES
// block counsel wrote, and mines every denial or adverse-action letter for
// its particulars.
func (c *consolidator) damagesStep(record *legalcase.ConsolidatedCase, notes *atty_notes.Notes, docs []findings) {
	var items []document.DamageItem
	switch {
	case notes != nil && notes.HasDamages():
		items = c.damages.Parse(notes.DamagesBlock)
	default:
		for _, f := range docs {
			if block := damage_rules.ExtractBlock(f.result.ExtractedText); block != "" {
				items = append(items, c.damages.Parse(block)...)
			}
		}
	}
	record.Damages = legalcase.NewCaseDamages(items)

	for _, f := range docs {
		t := f.result.DocumentType
		if t != document.TypeDenialLetter && t != document.TypeAdverseAction {
			continue
		}
		if detail, ok := denialDetail(f.result); ok {
			record.Damages.AddDenialDetail(detail)
		}
	}

	if !record.Damages.HasItems() {
		record.AddWarning("No structured damages extracted")
	}
}

var (
	creditorLabelPattern = regexp.MustCompile(`(?im)^[ \t]*(?:from|creditor|lender|issuer)[ \t]*:[ \t]*(.+)$`)

	applicationTypePattern = regexp.MustCompile(
		`(?i)\bapplication\s+for\s+(?:an?\s+|your\s+)?([A-Za-z][A-Za-z ]{2,40}?)\s+(?:was|has\s+been|is|account)\b`)

	creditScorePattern = regexp.MustCompile(`(?i)\bcredit\s+score\b[^0-9]{0,20}(\d{3})\b`)

	reasonsHeaderPattern = regexp.MustCompile(
		`(?i)^[ \t]*(?:(?:principal|key)\s+)?reasons?\s+(?:for\s+(?:our\s+)?(?:decision|denial|this\s+action))?\s*:?\s*$|^[ \t]*reasons?\s*:`)
)

// denialDetail mines one denial or adverse-action letter. ok is false when
// the letter yielded nothing usable.
func denialDetail(r document.ExtractionResult) (legalcase.DenialDetail, bool) {
	text := r.ExtractedText
	d := legalcase.DenialDetail{SourceDocument: r.FileName}

	if m := creditorLabelPattern.FindStringSubmatch(text); m != nil {
		d.Creditor = strings.TrimSpace(m[1])
	} else {
		d.Creditor = letterheadLine(text)
	}
	if m := applicationTypePattern.FindStringSubmatch(text); m != nil {
		d.ApplicationType = strings.TrimSpace(m[1])
	}
	if m := creditScorePattern.FindStringSubmatch(text); m != nil {
		d.CreditScore = m[1]
	}
	d.Date = denialDate(r)
	d.Reasons = denialReasons(text)

	ok := d.Creditor != "" || d.ApplicationType != "" || d.CreditScore != "" ||
		d.Date != "" || len(d.Reasons) > 0
	return d, ok
}

// denialDate prefers a date the recognizer tied to the denial itself and
// falls back to the letter date, which is the first date on the page.
func denialDate(r document.ExtractionResult) string {
	for _, ctx := range []document.DateContext{document.ContextDenial, document.ContextAdverseAction} {
		for _, dt := range r.ExtractedDates {
			if dt.Context == ctx {
				return dt.RawText
			}
		}
	}
	if len(r.ExtractedDates) > 0 {
		return r.ExtractedDates[0].RawText
	}
	return ""
}

// letterheadLine guesses the creditor from the letterhead: the first short
// line that is neither a document title nor a date. The letterhead precedes
// the salutation, so the scan stops at "Dear ..."; body prose below it never
// qualifies.
func letterheadLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToUpper(line), "DEAR") {
			return ""
		}
		if line == "" || len(line) > 60 {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "NOTICE") || strings.Contains(upper, "ADVERSE ACTION") ||
			strings.HasPrefix(upper, "RE:") {
			continue
		}
		if _, err := date_ner.ParseFlexible(line); err == nil {
			continue
		}
		return line
	}
	return ""
}

// denialReasons collects the stated reasons following a reasons header:
// bulleted, numbered, or plain lines up to the next blank line.
func denialReasons(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !reasonsHeaderPattern.MatchString(line) {
			continue
		}
		var reasons []string
		for _, rest := range lines[i+1:] {
			rest = strings.TrimSpace(rest)
			if rest == "" {
				if len(reasons) > 0 {
					break
				}
				continue
			}
			rest = strings.TrimLeft(rest, "-*• \t")
			rest = strings.TrimLeft(rest, "0123456789.) ")
			if rest == "" {
				continue
			}
			reasons = append(reasons, rest)
			if len(reasons) == 8 {
				break
			}
		}
		return reasons
	}
	return nil
}
