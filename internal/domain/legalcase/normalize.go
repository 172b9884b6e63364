package legalcase

import (
	"regexp"
	"strings"
)

// Raw defendant strings arrive in many spellings of the same party, e.g.
// "TRANS UNION LLC", "Trans Union, LLC", "TRANS UNION, LLC (a Delaware
// company)".  NormalizeDefendantKey maps every spelling to one canonical key
// used for deduplication only; the display identity comes from the directory
// further down.

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	whitespaceRuns       = regexp.MustCompile(`\s+`)

	namePunctReplacer = strings.NewReplacer(".", "", ",", "", ";", "", ":", "", "'", "", `"`, "")
)

// trailing corporate designators stripped from keys, after punctuation removal
var trailingDesignators = map[string]struct{}{
	"LLC":         {},
	"LLP":         {},
	"INC":         {},
	"CORP":        {},
	"CORPORATION": {},
	"COMPANY":     {},
	"CO":          {},
	"NA":          {},
}

// keySubstitutions folds well-known long forms into their canonical key.
// Applied once, after uppercasing, punctuation removal, and designator
// stripping.
var keySubstitutions = map[string]string{
	"TRANS UNION":                    "TRANSUNION",
	"EQUIFAX INFORMATION SERVICES":   "EQUIFAX",
	"EXPERIAN INFORMATION SOLUTIONS": "EXPERIAN",
	"TD BANK USA":                    "TD BANK",
}

// NormalizeDefendantKey reduces a raw defendant string to its deduplication
// key.  The key is for identity comparison only and is never displayed.
func NormalizeDefendantKey(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = parentheticalPattern.ReplaceAllString(s, " ")
	s = namePunctReplacer.Replace(s)
	s = strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))

	for {
		tokens := strings.Fields(s)
		if len(tokens) <= 1 {
			break
		}
		last := tokens[len(tokens)-1]
		if _, ok := trailingDesignators[last]; ok {
			s = strings.Join(tokens[:len(tokens)-1], " ")
			continue
		}
		// "N.A." loses its periods upstream; "N. A." splits into two tokens.
		if len(tokens) >= 3 && tokens[len(tokens)-2] == "N" && last == "A" {
			s = strings.Join(tokens[:len(tokens)-2], " ")
			continue
		}
		break
	}
	s = strings.TrimSpace(strings.TrimRight(s, "-& "))

	if canonical, ok := keySubstitutions[s]; ok {
		return canonical
	}
	return s
}

// knownCRAKeys is the fixed set of major consumer reporting agencies.
var knownCRAKeys = map[string]struct{}{
	"TRANSUNION": {},
	"EQUIFAX":    {},
	"EXPERIAN":   {},
}

// IsKnownCRAKey reports whether a normalized key names one of the three
// major consumer reporting agencies.
func IsKnownCRAKey(key string) bool {
	_, ok := knownCRAKeys[key]
	return ok
}

// defendantDirectory maps normalized keys to canonical display identities.
var defendantDirectory = map[string]Defendant{
	"TRANSUNION": {
		Name:                 "TRANS UNION, LLC",
		ShortName:            "TransUnion",
		Type:                 DefendantTypeCRA,
		StateOfIncorporation: "Delaware",
		BusinessStatus:       "limited liability company duly authorized and qualified to do business in the State of New York",
	},
	"EQUIFAX": {
		Name:                 "EQUIFAX INFORMATION SERVICES, LLC",
		ShortName:            "Equifax",
		Type:                 DefendantTypeCRA,
		StateOfIncorporation: "Georgia",
		BusinessStatus:       "limited liability company duly authorized and qualified to do business in the State of New York",
	},
	"EXPERIAN": {
		Name:                 "EXPERIAN INFORMATION SOLUTIONS, INC.",
		ShortName:            "Experian",
		Type:                 DefendantTypeCRA,
		StateOfIncorporation: "Ohio",
		BusinessStatus:       "corporation duly authorized and qualified to do business in the State of New York",
	},
	"TD BANK": {
		Name:                 "TD BANK, N.A.",
		ShortName:            "TD Bank",
		Type:                 DefendantTypeFurnisher,
		StateOfIncorporation: "Delaware",
		BusinessStatus:       "national banking association with branches located in the State of New York",
	},
}

// LookupDefendant resolves a raw defendant string to its canonical display
// identity.  Unknown parties fall through to a generic identity built from
// the raw string itself.
func LookupDefendant(raw string) Defendant {
	key := NormalizeDefendantKey(raw)
	if d, ok := defendantDirectory[key]; ok {
		return d
	}
	return genericDefendant(raw, key)
}

// StandardCRADefendants returns the three major consumer reporting agencies
// in a fixed order, used when FCRA indicators warrant naming all of them.
func StandardCRADefendants() []Defendant {
	return []Defendant{
		defendantDirectory["EQUIFAX"],
		defendantDirectory["EXPERIAN"],
		defendantDirectory["TRANSUNION"],
	}
}

// genericDefendant builds a display identity for a party the directory does
// not know.  The caption name keeps the raw spelling uppercased; the short
// name is a title-cased rendering of the normalized key.
func genericDefendant(raw, key string) Defendant {
	display := strings.TrimSpace(whitespaceRuns.ReplaceAllString(raw, " "))
	return Defendant{
		Name:      strings.ToUpper(display),
		ShortName: titleCaseKey(key),
	}
}

func titleCaseKey(key string) string {
	words := strings.Fields(key)
	for i, w := range words {
		// short all-caps tokens read as acronyms and stay as-is
		if len(w) <= 3 {
			continue
		}
		words[i] = w[:1] + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
