package date_ner

import (
	"strings"
	"time"

	"github.com/caselens/tiger/internal/domain/document"
)

// ---------------------------------------------------------------------------
// Context classification
// ---------------------------------------------------------------------------

// contextRule binds one DateContext to the keywords that signal it.  Rules
// are evaluated in order; the first hit wins, so more specific language sits
// before generic language.
type contextRule struct {
	context  document.DateContext
	keywords []string
}

var contextRules = []contextRule{
	{document.ContextAdverseAction, []string{"adverse action"}},
	{document.ContextDenial, []string{"denied", "denial", "declined", "rejected", "unable to approve"}},
	{document.ContextApplication, []string{"applied", "application", "applying"}},
	{document.ContextDispute, []string{"dispute", "disputed", "disputing", "challenged", "contested"}},
	{document.ContextDiscovery, []string{"discovered", "discovery", "found out", "learned of", "became aware", "noticed the"}},
	{document.ContextFiling, []string{"filed", "filing", "commenced", "commencement"}},
	{document.ContextResponse, []string{"responded", "response", "replied", "reply received"}},
	{document.ContextTransaction, []string{"transaction", "purchase", "charged", "charges", "withdrawal"}},
	{document.ContextDamageEvent, []string{"damage", "harmed", "suffered", "lost the", "turned down"}},
	{document.ContextNotice, []string{"notice", "notified", "notification", "informed"}},
}

// classifyContext scans the surrounding sentence for context keywords.
func classifyContext(sentence string) document.DateContext {
	lower := strings.ToLower(sentence)
	for _, rule := range contextRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.context
			}
		}
	}
	return document.ContextUnknown
}

// genericDateKeywords raise confidence slightly when present near a hit.
var genericDateKeywords = []string{"date", "dated", "on or about", "as of"}

// docTypeContexts lists the contexts each document type is expected to talk
// about.  Agreement between file type and date context raises confidence.
var docTypeContexts = map[document.DocumentType][]document.DateContext{
	document.TypeDenialLetter:  {document.ContextDenial, document.ContextApplication, document.ContextAdverseAction, document.ContextNotice},
	document.TypeAdverseAction: {document.ContextAdverseAction, document.ContextDenial, document.ContextNotice},
	document.TypeComplaint:     {document.ContextFiling, document.ContextDispute, document.ContextDiscovery},
	document.TypeSummons:       {document.ContextFiling},
}

// ---------------------------------------------------------------------------
// Recognizer
// ---------------------------------------------------------------------------

// confidence adjustments; the base score is for finding a date shape at all
const (
	confidenceBase         = 0.5
	confidenceContextBonus = 0.3
	confidenceKeywordBonus = 0.1
	confidenceDocTypeBonus = 0.2
	confidenceYearPenalty  = 0.2

	earliestPlausibleYear = 1970
)

// Recognizer enumerates and classifies the dates of a document.
type Recognizer struct {
	now func() time.Time
}

// Option is a functional option for Recognizer construction.
type Option func(*Recognizer)

// WithNow overrides the clock used for year plausibility checks.
func WithNow(now func() time.Time) Option {
	return func(r *Recognizer) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecognizer builds a date recognizer.
func NewRecognizer(opts ...Option) *Recognizer {
	r := &Recognizer{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExtractDates scans the text line by line and returns every date hit with
// context, confidence, and provenance.  docType is the source file's
// classification and may be TypeUnknown.
func (r *Recognizer) ExtractDates(text string, docType document.DocumentType) []document.ExtractedDate {
	var out []document.ExtractedDate
	section := ""

	for i, line := range strings.Split(text, "\n") {
		if heading, ok := sectionHeading(line); ok {
			section = heading
		}

		for _, m := range findDateMatches(line) {
			date := document.ExtractedDate{
				RawText:         m.text,
				Context:         classifyContext(sentenceAround(line, m)),
				SourceLine:      strings.TrimSpace(line),
				LineNumber:      i + 1,
				DocumentSection: section,
			}
			if parsed, err := ParseFlexible(m.text); err == nil {
				t := parsed
				date.ParsedDate = &t
			}
			date.Confidence = r.scoreConfidence(date, docType, line)
			out = append(out, date)
		}
	}
	return out
}

// scoreConfidence applies the additive confidence model to one hit.
func (r *Recognizer) scoreConfidence(d document.ExtractedDate, docType document.DocumentType, line string) float64 {
	score := confidenceBase

	if d.Context != document.ContextUnknown {
		score += confidenceContextBonus
	}

	lower := strings.ToLower(line)
	for _, kw := range genericDateKeywords {
		if strings.Contains(lower, kw) {
			score += confidenceKeywordBonus
			break
		}
	}

	for _, ctx := range docTypeContexts[docType] {
		if ctx == d.Context {
			score += confidenceDocTypeBonus
			break
		}
	}

	if d.HasParsed() {
		year := d.Year()
		if year < earliestPlausibleYear || year > r.now().Year()+1 {
			score -= confidenceYearPenalty
		}
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// sentenceAround returns the sentence of the line containing the match,
// bounded by periods that end sentences rather than abbreviations.
func sentenceAround(line string, m match) string {
	start := 0
	for i := m.start - 1; i >= 0; i-- {
		if line[i] == '.' && isSentenceBoundary(line, i) {
			start = i + 1
			break
		}
	}
	end := len(line)
	for i := m.end; i < len(line); i++ {
		if line[i] == '.' && isSentenceBoundary(line, i) {
			end = i + 1
			break
		}
	}
	return line[start:end]
}

// isSentenceBoundary distinguishes "2025. The" from "N.A." and "U.S.C.".
func isSentenceBoundary(line string, dot int) bool {
	if dot+1 >= len(line) {
		return true
	}
	if line[dot+1] != ' ' {
		return false
	}
	// single-letter token before the dot reads as an abbreviation
	if dot >= 2 && line[dot-2] == '.' {
		return false
	}
	if dot >= 1 && line[dot-1] == ' ' {
		return false
	}
	return true
}

// sectionHeading recognizes short all-caps lines ending with a colon, the
// convention attorney notes use to open a section.
func sectionHeading(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 || len(trimmed) > 60 || !strings.HasSuffix(trimmed, ":") {
		return "", false
	}
	name := strings.TrimSuffix(trimmed, ":")
	hasLetter := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			return "", false
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	if !hasLetter {
		return "", false
	}
	return name, true
}
