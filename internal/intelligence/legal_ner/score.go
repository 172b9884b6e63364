package legal_ner

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Document structure score
// ---------------------------------------------------------------------------

// structureMarker is one canonical legal-document feature and its weight.
// Weights sum to 100.
type structureMarker struct {
	name   string
	weight float64
	hit    func(text string) bool
}

var (
	juryDemandPattern     = regexp.MustCompile(`(?i)jury\s+trial\s+demanded|demand\s+for\s+jury\s+trial`)
	numberedParagraph     = regexp.MustCompile(`(?m)^\s*\d{1,3}\.\s+\S`)
	causeOfActionPattern  = regexp.MustCompile(`(?i)cause\s+of\s+action|count\s+(?:[IVX]+|\d+)`)
	documentTitlePattern  = regexp.MustCompile(`(?m)^\s*(COMPLAINT|SUMMONS|CIVIL COVER SHEET|NOTICE OF [A-Z ]+|ANSWER)\s*$`)
	whereforePattern      = regexp.MustCompile(`(?i)\bwherefore\b`)
	plaintiffTokenPattern = regexp.MustCompile(`(?i)\bplaintiffs?\b`)
	defendantTokenPattern = regexp.MustCompile(`(?i)\bdefendants?\b`)
	versusAnywherePattern = regexp.MustCompile(`(?im)^\s*-?\s*(?:v|vs)\.?\s*-?\s*$|\s-v-\s`)
)

// numbered paragraphs below this count read as incidental numbering
const minNumberedParagraphs = 3

var structureMarkers = []structureMarker{
	{"court heading", 15, func(t string) bool { return courtNamePattern.MatchString(t) }},
	{"district line", 10, func(t string) bool { return districtPattern.MatchString(t) }},
	{"case number", 15, func(t string) bool {
		return federalCaseNumberPattern.MatchString(t) || stateIndexPattern.MatchString(t) || labeledCaseNumberPattern.MatchString(t)
	}},
	{"versus separator", 10, func(t string) bool { return versusAnywherePattern.MatchString(t) }},
	{"plaintiff token", 5, func(t string) bool { return plaintiffTokenPattern.MatchString(t) }},
	{"defendant token", 5, func(t string) bool { return defendantTokenPattern.MatchString(t) }},
	{"document title", 10, func(t string) bool { return documentTitlePattern.MatchString(t) }},
	{"jury demand", 5, func(t string) bool { return juryDemandPattern.MatchString(t) }},
	{"numbered paragraphs", 10, func(t string) bool {
		return len(numberedParagraph.FindAllStringIndex(t, minNumberedParagraphs)) >= minNumberedParagraphs
	}},
	{"cause of action", 10, func(t string) bool { return causeOfActionPattern.MatchString(t) }},
	{"prayer for relief", 5, func(t string) bool { return whereforePattern.MatchString(t) }},
}

// StructureScore rates how strongly the text exhibits the canonical markers
// of a filed legal document, from 0 (free prose) to 100 (full complaint
// shape).
func (r *Recognizer) StructureScore(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	score := 0.0
	for _, marker := range structureMarkers {
		if marker.hit(text) {
			score += marker.weight
		}
	}
	return score
}

// StructureIndicators counts the structure markers the text exhibits,
// independent of their weights.
func (r *Recognizer) StructureIndicators(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	n := 0
	for _, marker := range structureMarkers {
		if marker.hit(text) {
			n++
		}
	}
	return n
}

// HasJuryDemand reports whether the text carries a jury trial demand.
func (r *Recognizer) HasJuryDemand(text string) bool {
	return juryDemandPattern.MatchString(text)
}
