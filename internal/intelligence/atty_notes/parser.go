package atty_notes

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Line grammar
// ---------------------------------------------------------------------------

var (
	// labelLinePattern matches a flush-left uppercase label introducing a
	// field or block, e.g. "CASE_NUMBER: 1:25-cv-01987" or "BACKGROUND:".
	labelLinePattern = regexp.MustCompile(`^([A-Z][A-Z0-9_]{2,40}):\s*(.*)$`)

	// bulletPattern matches one bulleted list item, e.g. "- TD BANK, N.A.".
	bulletPattern = regexp.MustCompile(`^\s*[-*•]\s+(.*)$`)

	// keyDateBulletPattern splits "- EventType: Date" bullets of the
	// KEY_DATES block.
	keyDateBulletPattern = regexp.MustCompile(`^\s*[-*•]\s*([^:]+):\s*(.+)$`)
)

var blockLabels = map[string]bool{
	BlockBackground:   true,
	BlockDamages:      true,
	BlockLegalClaims:  true,
	BlockReliefSought: true,
	BlockKeyDates:     true,
}

var keyDateLabels = map[string]bool{
	LabelDiscoveryDate:   true,
	LabelDisputeDate:     true,
	LabelFilingDate:      true,
	LabelApplicationDate: true,
	LabelDenialDate:      true,
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

type parser struct {
	fields     map[string]string
	blockDates map[string]string
	defendants []string
	background []string
	relief     []string
	damages    string
	claims     string
}

// Parse reads attorney-notes text into its structured form.  Parsing never
// fails: lines that fit no rule are skipped, and absent or TBD fields stay
// zero-valued.
func Parse(text string) *Notes {
	p := &parser{
		fields:     map[string]string{},
		blockDates: map[string]string{},
	}
	p.run(strings.Split(text, "\n"))
	return p.finish()
}

func (p *parser) run(lines []string) {
	for i := 0; i < len(lines); {
		m := labelLinePattern.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}
		label, inline := m[1], strings.TrimSpace(m[2])

		switch {
		case blockLabels[label]:
			body, next := collectBlock(lines, i+1)
			if inline != "" {
				body = append([]string{inline}, body...)
			}
			p.setBlock(label, body)
			i = next
		case label == LabelDefendants:
			items, next := collectBullets(lines, i+1)
			if inline != "" && !isMissing(inline) {
				items = append(splitInlineDefendants(inline), items...)
			}
			p.defendants = append(p.defendants, items...)
			i = next
		case label == LabelAddress:
			addr, next := collectAddress(lines, i+1, inline)
			if addr != "" {
				p.fields[LabelAddress] = addr
			}
			i = next
		default:
			if inline != "" && !isMissing(inline) {
				p.fields[label] = inline
			}
			i++
		}
	}
}

func (p *parser) setBlock(label string, body []string) {
	switch label {
	case BlockBackground:
		p.background = contentLines(body)
	case BlockDamages:
		p.damages = strings.TrimSpace(strings.Join(body, "\n"))
	case BlockLegalClaims:
		p.claims = strings.TrimSpace(strings.Join(body, "\n"))
	case BlockReliefSought:
		p.relief = contentLines(body)
	case BlockKeyDates:
		for _, line := range body {
			if m := keyDateBulletPattern.FindStringSubmatch(line); m != nil {
				p.blockDates[normalizeKeyDateLabel(m[1])] = strings.TrimSpace(m[2])
			}
		}
	}
}

func (p *parser) finish() *Notes {
	n := &Notes{
		CaseNumber:       p.fields[LabelCaseNumber],
		CourtName:        p.fields[LabelCourtName],
		CourtDistrict:    p.fields[LabelCourtDistrict],
		FilingDate:       p.fields[LabelFilingDate],
		PlaintiffName:    p.fields[LabelName],
		PlaintiffAddress: p.fields[LabelAddress],
		PlaintiffPhone:   p.fields[LabelPhone],
		CounselName:      p.fields[LabelCounselName],
		Defendants:       p.defendants,
		Background:       p.background,
		DamagesBlock:     p.damages,
		LegalClaimsBlock: p.claims,
		ReliefSought:     p.relief,
		Fields:           p.fields,
		KeyDates:         map[string]string{},
	}
	for label := range keyDateLabels {
		if v, ok := p.fields[label]; ok {
			n.KeyDates[label] = v
		}
	}
	for label, v := range p.blockDates {
		if _, ok := n.KeyDates[label]; !ok {
			n.KeyDates[label] = v
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Collectors
// ---------------------------------------------------------------------------

// collectBlock gathers raw lines until the next flush-left uppercase label
// or EOF.
func collectBlock(lines []string, start int) ([]string, int) {
	var body []string
	i := start
	for ; i < len(lines); i++ {
		if labelLinePattern.MatchString(lines[i]) {
			break
		}
		body = append(body, lines[i])
	}
	return body, i
}

// collectBullets gathers "- item" lines following a list label.  Blank lines
// are tolerated; the list ends at the next label or the first non-bullet
// content line.
func collectBullets(lines []string, start int) ([]string, int) {
	var items []string
	i := start
	for ; i < len(lines); i++ {
		if labelLinePattern.MatchString(lines[i]) {
			break
		}
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		m := bulletPattern.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		item := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m[1]), ","))
		if item != "" {
			items = append(items, item)
		}
	}
	return items, i
}

// collectAddress joins the inline value and its continuation lines with
// commas so the result parses as one postal address.  Continuation stops at
// the next label or a blank line.
func collectAddress(lines []string, start int, inline string) (string, int) {
	if isMissing(inline) {
		return "", start
	}
	var parts []string
	if inline != "" {
		parts = append(parts, strings.TrimSuffix(inline, ","))
	}
	i := start
	for ; i < len(lines); i++ {
		if labelLinePattern.MatchString(lines[i]) {
			break
		}
		line := strings.TrimSpace(lines[i])
		if line == "" {
			break
		}
		parts = append(parts, strings.TrimSuffix(line, ","))
	}
	return strings.Join(parts, ", "), i
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// isMissing reports whether the value is the intake placeholder for an
// unknown field.
func isMissing(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), missingValue)
}

// splitInlineDefendants splits an inline DEFENDANTS value on semicolons.
// Commas are left alone because they belong to corporate designators
// ("TD BANK, N.A."); multiple defendants normally arrive as bullets.
func splitInlineDefendants(value string) []string {
	var out []string
	for _, piece := range strings.Split(value, ";") {
		piece = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(piece), ","))
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// contentLines trims, drops empties, and strips bullet markers.
func contentLines(body []string) []string {
	var out []string
	for _, line := range body {
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			line = m[1]
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// normalizeKeyDateLabel maps a KEY_DATES bullet key onto the canonical label
// vocabulary: "Dispute" and "DISPUTE DATE" both become "DISPUTE_DATE".
func normalizeKeyDateLabel(raw string) string {
	label := strings.Join(strings.Fields(strings.ToUpper(strings.TrimSpace(raw))), "_")
	if !strings.HasSuffix(label, "_DATE") {
		label += "_DATE"
	}
	return label
}
