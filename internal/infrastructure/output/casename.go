// Package output writes the per-case artifact tree: processed text, raw
// text, and metadata for every document, plus the case-level record, the
// complaint JSON, and a Markdown summary. The tree layout is fixed; the
// overwrite policy is the caller's choice.
package output

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/caselens/tiger/internal/intelligence/date_ner"
)

// nameSuffixes are generational suffixes dropped when deriving folder names.
var nameSuffixes = map[string]struct{}{
	"JR": {}, "SR": {}, "II": {}, "III": {}, "IV": {}, "V": {},
}

var nonNameChars = regexp.MustCompile(`[^A-Za-z0-9-]`)

// CaseName derives the case folder name <LastName>_<FirstName>_YYYYMMDD from
// the plaintiff's name and the filing date. The date stamp prefers the parsed
// filing date so a reprocessed case lands in the same folder; the clock is
// used when the filing date is missing or unparseable. Cases without a usable
// plaintiff name fall back to Unknown_Case_YYYYMMDD_HHMMSS stamped from now.
func CaseName(plaintiffName, filingDate string, now time.Time) string {
	first, last := splitPersonName(plaintiffName)
	if first == "" || last == "" {
		return "Unknown_Case_" + now.Format("20060102_150405")
	}
	stamp := now.Format("20060102")
	if parsed, err := date_ner.ParseFlexible(filingDate); err == nil {
		stamp = parsed.Format("20060102")
	}
	return fmt.Sprintf("%s_%s_%s", last, first, stamp)
}

// splitPersonName extracts the first and last name from a caption-style
// person name. Both "EMAN YOUSSEF" and "Youssef, Eman" orders are accepted;
// middle names and generational suffixes are dropped.
func splitPersonName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}

	if idx := strings.Index(name, ","); idx >= 0 {
		last = cleanNamePart(name[:idx])
		if rest := strings.Fields(name[idx+1:]); len(rest) > 0 {
			first = cleanNamePart(rest[0])
		}
		if first == "" || last == "" {
			return "", ""
		}
		return first, last
	}

	tokens := strings.Fields(name)
	for len(tokens) > 0 {
		trailing := nonNameChars.ReplaceAllString(strings.ToUpper(tokens[len(tokens)-1]), "")
		if _, ok := nameSuffixes[trailing]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) < 2 {
		return "", ""
	}
	first = cleanNamePart(tokens[0])
	last = cleanNamePart(tokens[len(tokens)-1])
	if first == "" || last == "" {
		return "", ""
	}
	return first, last
}

// cleanNamePart strips everything but letters, digits, and hyphens, then
// title-cases the remainder.
func cleanNamePart(s string) string {
	s = nonNameChars.ReplaceAllString(strings.TrimSpace(s), "")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
