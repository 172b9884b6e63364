// Package date_ner finds calendar dates in extracted document text,
// classifies each occurrence by its surrounding language, and scores the
// classification.  It also owns the permissive date parser shared by the
// chronology rules.
package date_ner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/caselens/tiger/pkg/errors"
)

// ---------------------------------------------------------------------------
// Date patterns
// ---------------------------------------------------------------------------

var (
	// isoDatePattern matches e.g. "2025-04-09".
	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

	// numericDatePattern matches e.g. "4/9/2025" and "04/09/2025".
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	// monthNamePattern matches e.g. "April 9, 2025" and "April 9th 2025".
	monthNamePattern = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)

	// monthAbbrevPattern matches e.g. "Apr 9, 2025" and "Sept. 9, 2025".
	monthAbbrevPattern = regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)

	// dayFirstPattern matches e.g. "9 April 2025".
	dayFirstPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})\b`)
)

// datePatterns is the closed pattern set, in match-priority order.
var datePatterns = []*regexp.Regexp{
	isoDatePattern,
	numericDatePattern,
	monthNamePattern,
	monthAbbrevPattern,
	dayFirstPattern,
}

// ordinalSuffixPattern strips "9th" style suffixes before parsing.
var ordinalSuffixPattern = regexp.MustCompile(`(\d{1,2})(st|nd|rd|th)\b`)

// parseLayouts are tried in order by ParseFlexible, after normalization has
// removed commas and ordinal suffixes.
var parseLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
}

// ParseFlexible parses a date string in any of the accepted formats: ISO,
// MM/DD/YYYY, "Month D, YYYY", "Mon D, YYYY", or "D Month YYYY".
func ParseFlexible(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.New(errors.ErrCodeDateUnparseable, "empty date string")
	}
	s = strings.ReplaceAll(s, ",", " ")
	s = ordinalSuffixPattern.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Join(strings.Fields(s), " ")
	// Go's reference layout does not know "Sept"
	s = strings.Replace(s, "Sept ", "Sep ", 1)

	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeDateUnparseable,
		fmt.Sprintf("unparseable date %q", raw))
}

// ---------------------------------------------------------------------------
// Match enumeration
// ---------------------------------------------------------------------------

// match is one raw date hit within a line.
type match struct {
	text  string
	start int
	end   int
}

// findDateMatches enumerates non-overlapping date hits in one line,
// left to right.  When patterns overlap, the earlier (and on ties the
// longer) hit wins.
func findDateMatches(line string) []match {
	var all []match
	for _, p := range datePatterns {
		for _, loc := range p.FindAllStringIndex(line, -1) {
			all = append(all, match{text: line[loc[0]:loc[1]], start: loc[0], end: loc[1]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	// order by start, longest first on equal starts
	for i := 1; i < len(all); i++ {
		for j := i; j > 0; j-- {
			a, b := all[j-1], all[j]
			if b.start < a.start || (b.start == a.start && b.end > a.end) {
				all[j-1], all[j] = b, a
			} else {
				break
			}
		}
	}

	kept := all[:1]
	for _, m := range all[1:] {
		if m.start >= kept[len(kept)-1].end {
			kept = append(kept, m)
		}
	}
	return kept
}
