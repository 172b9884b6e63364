package consolidation

import (
	"regexp"
	"strings"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/intelligence/atty_notes"
)

// partiesStep resolves the plaintiff first, then assembles the defendant
// roster. The order matters: AddDefendant refuses anyone who normalizes to
// the plaintiff, so the plaintiff has to be known before the roster grows.
func (c *consolidator) partiesStep(record *legalcase.ConsolidatedCase, notes *atty_notes.Notes, docs []findings) {
	c.resolvePlaintiff(record, notes, docs)
	c.resolveDefendants(record, notes, docs)

	if record.Plaintiff.Name == "" {
		record.AddWarning("Missing plaintiff name")
	}
	if record.Plaintiff.Address.IsEmpty() {
		record.AddWarning("Missing plaintiff address")
	}
	if len(record.Defendants) == 0 {
		record.AddWarning("No defendants identified")
	}
}

// resolvePlaintiff prefers counsel's NAME, ADDRESS, and PHONE labels and
// falls back to a vote over the plaintiff entities recognized in captions.
func (c *consolidator) resolvePlaintiff(record *legalcase.ConsolidatedCase, notes *atty_notes.Notes, docs []findings) {
	p := &record.Plaintiff
	p.ConsumerStatus = legalcase.DefaultConsumerStatus

	if notes != nil {
		p.Name = notes.PlaintiffName
		if notes.PlaintiffAddress != "" {
			p.Address = legalcase.ParseAddress(notes.PlaintiffAddress)
		}
		p.Phone = notes.PlaintiffPhone
		p.Email = notes.Fields["EMAIL"]
	}

	if p.Name == "" {
		var cands []candidate
		for _, f := range docs {
			for _, e := range f.entities {
				if e.EntityType == document.EntityParty && e.Role == document.RolePlaintiff {
					cands = append(cands, candidate{value: e.Name, source: f.result.FileName, confidence: e.Confidence})
				}
			}
		}
		p.Name = resolveField(record, "plaintiff name", cands)
	}

	if p.Residency == "" && !p.Address.IsEmpty() {
		p.Residency = residencyFromAddress(p.Address)
	}
}

// resolveDefendants unions four sources in a fixed order: counsel's
// DEFENDANTS list, caption defendants recognized in the documents,
// furnisher banks named in dispute or fraud language, and the standard
// agency block whenever the case reads as an FCRA matter at all.
// AddDefendant deduplicates by normalized key throughout.
func (c *consolidator) resolveDefendants(record *legalcase.ConsolidatedCase, notes *atty_notes.Notes, docs []findings) {
	if notes != nil {
		for _, name := range notes.Defendants {
			record.AddDefendant(legalcase.LookupDefendant(name))
		}
	}

	for _, f := range docs {
		for _, e := range f.entities {
			if e.EntityType == document.EntityParty && e.Role == document.RoleDefendant {
				record.AddDefendant(legalcase.LookupDefendant(e.Name))
			}
		}
	}

	for _, f := range docs {
		for _, bank := range furnisherBanks(f.result.ExtractedText) {
			d := legalcase.LookupDefendant(bank)
			if d.Type == "" {
				d.Type = legalcase.DefendantTypeFurnisher
			}
			record.AddDefendant(d)
		}
	}

	if hasFCRAIndicators(docs) {
		for _, cra := range legalcase.StandardCRADefendants() {
			record.AddDefendant(cra)
		}
	}

	// Denial letters name the creditor that pulled the report, not the
	// party that furnished the bad data, so they contribute no defendants
	// of their own. The furnisher arrives through the dispute-language
	// scan above; the letters feed the damages step instead.
}

var (
	// bankNamePattern matches the common ways a furnisher bank is written:
	// one to three capitalized words before "Bank", optional USA and N.A.
	// designators, or the "Bank of X" form.
	bankNamePattern = regexp.MustCompile(
		`\b((?:[A-Z][A-Za-z&.'-]*[ \t]+){1,3}(?:Bank|BANK)(?:[ \t]+(?:USA|N\.A\.|NA))?(?:,[ \t]*N\.?A\.?)?|(?:Bank|BANK)[ \t]+(?:of|OF)[ \t]+[A-Z][A-Za-z]+)`)

	disputeLanguagePattern = regexp.MustCompile(
		`(?i)\b(?:disput\w*|fraud\w*|identity theft|unauthorized|not authorized|did not open)\b`)
)

// furnisherBanks returns bank names from lines that also carry dispute or
// fraud language. Leading articles are dropped so "the TD Bank account"
// and "TD Bank, N.A." normalize to the same defendant.
func furnisherBanks(text string) []string {
	var banks []string
	for _, line := range strings.Split(text, "\n") {
		if !disputeLanguagePattern.MatchString(line) {
			continue
		}
		for _, m := range bankNamePattern.FindAllStringSubmatch(line, -1) {
			name := strings.TrimSpace(m[1])
			for _, article := range []string{"The ", "THE ", "A ", "An "} {
				name = strings.TrimPrefix(name, article)
			}
			if name != "" {
				banks = append(banks, name)
			}
		}
	}
	return banks
}

// fcraIndicators are the phrases whose presence anywhere in a case folder
// marks the matter as a credit-reporting case, which in turn warrants
// naming all three national agencies.
var fcraIndicators = []string{
	"fair credit reporting act",
	"fcra",
	"15 u.s.c. § 1681",
	"15 u.s.c. 1681",
	"credit report",
	"credit reporting agency",
	"reinvestigation",
}

func hasFCRAIndicators(docs []findings) bool {
	for _, f := range docs {
		lower := strings.ToLower(f.result.ExtractedText)
		for _, indicator := range fcraIndicators {
			if strings.Contains(lower, indicator) {
				return true
			}
		}
	}
	return false
}

// stateNames expands the postal abbreviations the firm's intake actually
// sees; anything else keeps its abbreviation.
var stateNames = map[string]string{
	"NY": "New York",
	"NJ": "New Jersey",
	"CT": "Connecticut",
	"PA": "Pennsylvania",
	"FL": "Florida",
	"CA": "California",
	"TX": "Texas",
}

// residencyFromAddress renders the residency allegation for a parsed
// address, e.g. "Flushing, New York".
func residencyFromAddress(a legalcase.Address) string {
	var parts []string
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.State != "" {
		if full, ok := stateNames[strings.ToUpper(a.State)]; ok {
			parts = append(parts, full)
		} else {
			parts = append(parts, a.State)
		}
	}
	return strings.Join(parts, ", ")
}
