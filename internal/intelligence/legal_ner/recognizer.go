package legal_ner

import (
	"strings"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/intelligence/common"
)

// entity confidence by extraction route
const (
	confidenceCaseNumber   = 0.95
	confidenceCourt        = 0.9
	confidenceCaptionParty = 0.85
	confidenceAttorney     = 0.8
	confidenceInlineParty  = 0.6
	confidenceSalutation   = 0.5
)

// Recognizer extracts legal entities and caption-level case information
// from document text.  It is stateless and safe for concurrent use.
type Recognizer struct{}

// NewRecognizer builds a legal entity recognizer.
func NewRecognizer() *Recognizer { return &Recognizer{} }

// Recognize scans the text and returns every recognized entity together
// with the structured case information assembled from the first hits.
func (r *Recognizer) Recognize(text string) ([]document.LegalEntity, document.CaseInformation) {
	var entities []document.LegalEntity
	var info document.CaseInformation

	entities = append(entities, r.caseNumbers(text, &info)...)
	entities = append(entities, r.courts(text, &info)...)
	entities = append(entities, r.captionParties(text)...)
	entities = append(entities, r.attorneyBlocks(text)...)

	return entities, info
}

// caseNumbers finds federal docket numbers first, then state index numbers,
// then loosely labeled case numbers.
func (r *Recognizer) caseNumbers(text string, info *document.CaseInformation) []document.LegalEntity {
	var out []document.LegalEntity

	seen := map[string]bool{}
	record := func(number, source string) {
		if number == "" || seen[number] {
			return
		}
		seen[number] = true
		out = append(out, document.LegalEntity{
			EntityType: document.EntityCaseNumber,
			Name:       number,
			Role:       document.RoleNone,
			Confidence: confidenceCaseNumber,
			SourceText: strings.TrimSpace(source),
		})
		if info.CaseNumber == "" {
			info.CaseNumber = number
		}
	}

	for _, m := range federalCaseNumberPattern.FindAllStringSubmatch(text, -1) {
		record(m[1], m[0])
	}
	for _, m := range stateIndexPattern.FindAllStringSubmatch(text, -1) {
		record(m[1], m[0])
	}
	if len(out) == 0 {
		for _, m := range labeledCaseNumberPattern.FindAllStringSubmatch(text, -1) {
			record(strings.TrimRight(m[1], ".,"), m[0])
		}
	}
	return out
}

// courts finds the court heading and district lines of a caption.
func (r *Recognizer) courts(text string, info *document.CaseInformation) []document.LegalEntity {
	var out []document.LegalEntity

	if m := courtNamePattern.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		info.CourtName = name
		out = append(out, document.LegalEntity{
			EntityType: document.EntityCourt,
			Name:       name,
			Role:       document.RoleNone,
			Confidence: confidenceCourt,
			SourceText: name,
		})
	}
	if m := districtPattern.FindStringSubmatch(text); m != nil {
		district := strings.TrimSpace(m[1])
		info.CourtDistrict = district
		out = append(out, document.LegalEntity{
			EntityType: document.EntityCourt,
			Name:       district,
			Role:       document.RoleNone,
			Confidence: confidenceCourt,
			SourceText: district,
		})
	}
	return out
}

// captionParties walks the caption block: names above the "Plaintiff," line
// are plaintiffs, names between "v." and "Defendants." are defendants.
// When a document has no caption, inline "NAME, Plaintiff" forms and letter
// salutations are picked up as progressively weaker fallbacks.
func (r *Recognizer) captionParties(text string) []document.LegalEntity {
	lines := strings.Split(text, "\n")

	var out []document.LegalEntity
	add := func(name string, role document.Role, confidence float64, source string) {
		name = strings.TrimSpace(strings.Trim(name, ",;"))
		if len(name) < 2 {
			return
		}
		out = append(out, document.LegalEntity{
			EntityType: document.EntityParty,
			Name:       name,
			Role:       role,
			Confidence: confidence,
			SourceText: strings.TrimSpace(source),
		})
	}

	plaintiffLine, versusLine, defendantLine := -1, -1, -1
	for i, line := range lines {
		switch {
		case plaintiffLine < 0 && captionPlaintiffLinePattern.MatchString(line):
			plaintiffLine = i
		case versusLine < 0 && captionVersusPattern.MatchString(line):
			versusLine = i
		case defendantLine < 0 && captionDefendantLinePattern.MatchString(line):
			defendantLine = i
		}
	}

	if plaintiffLine > 0 {
		for i := plaintiffLine - 1; i >= 0; i-- {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				break
			}
			if looksLikeCaptionScaffold(line) {
				break
			}
			for _, name := range common.SplitPartyList(line) {
				add(name, document.RolePlaintiff, confidenceCaptionParty, lines[i])
			}
			break // plaintiff names sit on the single line above the marker
		}
	}

	if versusLine >= 0 {
		end := defendantLine
		if end < 0 {
			end = min(versusLine+4, len(lines))
		}
		for i := versusLine + 1; i < end && i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if line == "" || looksLikeCaptionScaffold(line) {
				continue
			}
			for _, name := range common.SplitPartyList(line) {
				add(name, document.RoleDefendant, confidenceCaptionParty, lines[i])
			}
		}
	}

	if plaintiffLine < 0 {
		found := false
		for _, line := range lines {
			if m := inlinePlaintiffPattern.FindStringSubmatch(line); m != nil {
				add(m[1], document.RolePlaintiff, confidenceInlineParty, line)
				found = true
				break
			}
		}
		if !found {
			for _, line := range lines {
				m := salutationPattern.FindStringSubmatch(line)
				if m == nil || genericSalutations[strings.ToUpper(m[1])] {
					continue
				}
				add(m[1], document.RolePlaintiff, confidenceSalutation, line)
				break
			}
		}
	}
	return out
}

// looksLikeCaptionScaffold filters caption frame lines that are not names.
func looksLikeCaptionScaffold(line string) bool {
	if strings.ContainsAny(line, "-_)(x") && strings.Count(line, "-")+strings.Count(line, "_")+strings.Count(line, "x") > len(line)/2 {
		return true
	}
	return federalCaseNumberPattern.MatchString(line) ||
		labeledCaseNumberPattern.MatchString(line) ||
		courtNamePattern.MatchString(line) ||
		districtPattern.MatchString(line)
}

// attorneyBlocks extracts counsel identity from letterhead or signature
// blocks anchored on an "Attorneys for Plaintiff" line: the firm sits one
// line above, contact details on the lines below.
func (r *Recognizer) attorneyBlocks(text string) []document.LegalEntity {
	lines := strings.Split(text, "\n")

	var out []document.LegalEntity
	for i, line := range lines {
		if !attorneyForPattern.MatchString(line) {
			continue
		}

		entity := document.LegalEntity{
			EntityType: document.EntityAttorney,
			Role:       document.RoleCounsel,
			Confidence: confidenceAttorney,
			SourceText: strings.TrimSpace(line),
		}
		if i > 0 {
			entity.Name = strings.TrimSpace(lines[i-1])
		}

		var addressParts []string
		for j := i + 1; j < len(lines) && j <= i+6; j++ {
			detail := strings.TrimSpace(lines[j])
			if detail == "" {
				break
			}
			switch {
			case phonePattern.MatchString(detail) && entity.Phone == "":
				entity.Phone = phonePattern.FindString(detail)
			case emailPattern.MatchString(detail) && entity.Email == "":
				entity.Email = emailPattern.FindString(detail)
			case streetPattern.MatchString(detail) || cityStateZipPattern.MatchString(detail):
				addressParts = append(addressParts, detail)
			}
		}
		entity.Address = strings.Join(addressParts, ", ")
		out = append(out, entity)
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
