// Package claim_rules parses the authoritative LEGAL_CLAIMS block of
// attorney notes.  The grammar is line-oriented:
//
//	Count <N> - <ClaimType>:
//	- <Citation>: <Description> (<Defendants affected>)
//
// Claims parsed here supersede any corpus-based suggestions downstream.
package claim_rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/intelligence/common"
)

// AllDefendants is the marker counsel use in a claim's defendants list to
// mean every defendant in the case.  The consolidator resolves it against
// the final defendant roster.
const AllDefendants = "All Defendants"

// authoritativeConfidence is carried by claims counsel wrote themselves.
const authoritativeConfidence = 1.0

var (
	// countHeaderPattern matches "Count 1 - FCRA Violations:".
	countHeaderPattern = regexp.MustCompile(`(?i)^\s*count\s+(\d{1,2})\s*[-–—]\s*(.+?):?\s*$`)

	// citationBulletPattern matches "- <Citation>: <Description> (<Defendants>)";
	// the trailing defendants group is optional.
	citationBulletPattern = regexp.MustCompile(`^\s*[-*•]\s*([^:]+):\s*(.+?)(?:\s*\(([^()]*)\))?\s*$`)
)

// Extractor parses LEGAL_CLAIMS blocks.  It is stateless and safe for
// concurrent use.
type Extractor struct{}

// NewExtractor builds a claim extractor.
func NewExtractor() *Extractor { return &Extractor{} }

// Parse reads the block into causes of action, one per Count header.
// Bullets ahead of the first header are ignored, and headers without any
// parseable bullet are dropped.
func (e *Extractor) Parse(block string) []legalcase.CauseOfAction {
	var causes []legalcase.CauseOfAction
	var current *legalcase.CauseOfAction

	flush := func() {
		if current != nil && len(current.LegalClaims) > 0 {
			causes = append(causes, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(block, "\n") {
		if m := countHeaderPattern.FindStringSubmatch(line); m != nil {
			flush()
			n, _ := strconv.Atoi(m[1])
			current = &legalcase.CauseOfAction{
				CountNumber: n,
				Title:       legalcase.OrdinalTitle(n) + " - " + strings.TrimSpace(m[2]),
			}
			continue
		}
		if current == nil {
			continue
		}
		m := citationBulletPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		claim := legalcase.LegalClaim{
			Citation:    strings.TrimSpace(m[1]),
			Description: strings.TrimSpace(m[2]),
			Selected:    true,
			Confidence:  authoritativeConfidence,
			Category:    inferCategory(m[1] + " " + m[2]),
			Against:     splitAgainst(m[3]),
		}
		current.LegalClaims = append(current.LegalClaims, claim)
		current.AgainstDefendants = unionAgainst(current.AgainstDefendants, claim.Against)
	}
	flush()
	return causes
}

// inferCategory tags a claim by its citation vocabulary.  New York markers
// are checked first because federal wording ("FCRA") shows up in state claim
// descriptions too.
func inferCategory(text string) string {
	lc := strings.ToLower(text)
	switch {
	case strings.Contains(lc, "gbl") || strings.Contains(lc, "n.y.") ||
		strings.Contains(lc, "new york") || strings.Contains(lc, "ny fcra"):
		return legalcase.CategoryNYFCRA
	case strings.Contains(lc, "u.s.c") || strings.Contains(lc, "1681") ||
		strings.Contains(lc, "fcra"):
		return legalcase.CategoryFCRA
	default:
		return ""
	}
}

// splitAgainst reads the parenthesized defendants list.  The AllDefendants
// marker is preserved verbatim.
func splitAgainst(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.EqualFold(raw, AllDefendants) {
		return []string{AllDefendants}
	}
	return common.SplitPartyList(raw)
}

// unionAgainst merges defendant lists preserving first-seen order; the
// AllDefendants marker absorbs everything else.
func unionAgainst(have, add []string) []string {
	for _, v := range have {
		if v == AllDefendants {
			return have
		}
	}
	for _, v := range add {
		if v == AllDefendants {
			return []string{AllDefendants}
		}
	}
	seen := map[string]bool{}
	var out []string
	for _, v := range append(append([]string{}, have...), add...) {
		key := strings.ToUpper(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
