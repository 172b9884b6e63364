// Package damage_rules classifies the damage allegations of attorney notes.
// A DAMAGES block is parsed either through the North-Star subcategory
// headers (Financial, Reputational, Emotional, Personal Costs) or, when no
// headers are present, bullet by bullet against a fixed pattern table with a
// keyword heuristic as the last resort.
package damage_rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/caselens/tiger/internal/domain/document"
)

// ---------------------------------------------------------------------------
// Line grammar
// ---------------------------------------------------------------------------

var (
	// damagesHeaderPattern finds the block opener, e.g. "DAMAGES:".
	damagesHeaderPattern = regexp.MustCompile(`(?i)^\s*damages\s*:\s*(.*)$`)

	// northStarHeaderPattern matches one subcategory header alone on its
	// line, e.g. "Financial Harm:" or "PERSONAL COSTS:".
	northStarHeaderPattern = regexp.MustCompile(`(?i)^\s*(financial|reputational|emotional|personal)[a-z ]*:\s*$`)

	// bulletPattern matches one bulleted damage line.
	bulletPattern = regexp.MustCompile(`^\s*[-*•]\s+(.*)$`)

	// parenPattern captures parenthesized fragments, usually dates.
	parenPattern = regexp.MustCompile(`\(([^)]+)\)`)

	// bracketPattern captures bracketed asides, usually evidence notes.
	bracketPattern = regexp.MustCompile(`\[[^\]]*\]`)

	// evidencePattern detects an evidence marker, e.g. "[Evidence: letter]"
	// or "(evidence available)".
	evidencePattern = regexp.MustCompile(`(?i)[\[(]\s*evidence`)

	// amountPattern captures dollar figures, e.g. "$7,700" or "$1,250.50".
	amountPattern = regexp.MustCompile(`\$([\d,]+(?:\.\d{2})?)`)

	yearTokenPattern  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	monthTokenPattern = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)
)

// Recognizer classifies damage bullets.  It is stateless and safe for
// concurrent use.
type Recognizer struct{}

// NewRecognizer builds a damage recognizer.
func NewRecognizer() *Recognizer { return &Recognizer{} }

// ExtractBlock locates the DAMAGES header in raw document text and returns
// the content running until the first blank line or EOF.  An empty string
// means the text carries no such block.
func ExtractBlock(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := damagesHeaderPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var body []string
		if rest := strings.TrimSpace(m[1]); rest != "" {
			body = append(body, rest)
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				break
			}
			body = append(body, lines[j])
		}
		return strings.Join(body, "\n")
	}
	return ""
}

// Parse turns a DAMAGES block into damage items.  Blocks with North-Star
// subcategory headers are grouped by header; anything else is parsed flat,
// one bullet at a time.
func (r *Recognizer) Parse(block string) []document.DamageItem {
	if items, ok := r.parseNorthStar(block); ok {
		return items
	}
	return r.parseFlat(block)
}

// parseNorthStar walks the block keeping track of the current subcategory
// header; ok is false when the block has no headers at all.
func (r *Recognizer) parseNorthStar(block string) ([]document.DamageItem, bool) {
	var items []document.DamageItem
	var current *Entry
	found := false

	for _, line := range strings.Split(block, "\n") {
		if m := northStarHeaderPattern.FindStringSubmatch(line); m != nil {
			entry := northStarFallback[strings.ToLower(m[1])]
			current = &entry
			found = true
			continue
		}
		m := bulletPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, r.parseBullet(m[1], current))
	}
	if !found {
		return nil, false
	}
	return items, true
}

func (r *Recognizer) parseFlat(block string) []document.DamageItem {
	var items []document.DamageItem
	for _, line := range strings.Split(block, "\n") {
		m := bulletPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, r.parseBullet(m[1], nil))
	}
	return items
}

// parseBullet classifies one bullet.  Precedence: pattern table, then the
// North-Star subcategory the bullet sits under, then the keyword heuristic.
func (r *Recognizer) parseBullet(text string, fallback *Entry) document.DamageItem {
	desc := strings.TrimSpace(text)
	item := document.DamageItem{
		Category:    document.DamageOther,
		Type:        "generic",
		Description: desc,
	}

	detail := ""
	matched := false
	if label, rest, ok := strings.Cut(desc, ":"); ok {
		if entry, hit := patternTable[normalizeTypeLabel(label)]; hit {
			item.Category = entry.Category
			item.Type = entry.Type
			detail = rest
			matched = true
		}
	}
	switch {
	case matched:
		item.Entity = cleanEntity(detail)
	case fallback != nil:
		item.Category = fallback.Category
		item.Type = fallback.Type
	default:
		if category, ok := keywordCategory(desc); ok {
			item.Category = category
		}
	}

	if evidencePattern.MatchString(desc) {
		item.EvidenceAvailable = true
	}
	for _, m := range parenPattern.FindAllStringSubmatch(desc, -1) {
		if looksLikeDate(m[1]) {
			item.Date = strings.TrimSpace(m[1])
			break
		}
	}
	if amount, ok := singleAmount(desc); ok {
		item.Amount = &amount
	}
	return item
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// normalizeTypeLabel lowercases and collapses whitespace so the label keys
// the pattern table.
func normalizeTypeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// keywordCategory assigns a category from the keyword table; ok is false
// when no keyword hits.
func keywordCategory(text string) (document.DamageCategory, bool) {
	lower := strings.ToLower(text)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category, true
			}
		}
	}
	return document.DamageOther, false
}

// cleanEntity strips evidence brackets and date parentheses from the detail
// part of a matched bullet, leaving the counterparty text.
func cleanEntity(detail string) string {
	out := bracketPattern.ReplaceAllString(detail, "")
	for _, m := range parenPattern.FindAllStringSubmatch(out, -1) {
		if looksLikeDate(m[1]) {
			out = strings.Replace(out, m[0], "", 1)
		}
	}
	return strings.Trim(strings.Join(strings.Fields(out), " "), ".,; ")
}

// looksLikeDate reports whether a parenthesized fragment reads as a date.
func looksLikeDate(s string) bool {
	return yearTokenPattern.MatchString(s) || monthTokenPattern.MatchString(s)
}

// singleAmount extracts a dollar figure when the bullet carries exactly one;
// bullets quoting two figures ("from $15,000 to $5,000") stay unquantified.
func singleAmount(text string) (float64, bool) {
	matches := amountPattern.FindAllStringSubmatch(text, 2)
	if len(matches) != 1 {
		return 0, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(matches[0][1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
