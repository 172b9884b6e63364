// Package common holds the small pieces shared by more than one recognizer,
// such as party-list splitting and the corporate designator vocabulary.
package common

import (
	"regexp"
	"strings"
)

// andSeparatorPattern splits "X and Y" party enumerations.
var andSeparatorPattern = regexp.MustCompile(`(?i)\s+and\s+`)

// CorporateDesignators are tokens that belong to the preceding party name
// when a list is split on commas.
var CorporateDesignators = map[string]struct{}{
	"LLC": {}, "L.L.C.": {}, "LLP": {}, "L.L.P.": {}, "PLLC": {},
	"INC": {}, "INC.": {}, "CORP": {}, "CORP.": {}, "CO": {}, "CO.": {},
	"N.A.": {}, "NA": {}, "P.C.": {}, "LTD": {}, "LTD.": {},
}

// SplitPartyList splits a line naming several parties into one name per
// party.  Corporate designators reattach to the name before them, so
// "TD BANK, N.A., EQUIFAX INFORMATION SERVICES, LLC" yields two parties.
// A dangling "and" left over from a wrapped caption line is dropped.
func SplitPartyList(line string) []string {
	line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
	if line == "" {
		return nil
	}
	line = andSeparatorPattern.ReplaceAllString(line, ", ")

	var parties []string
	for _, piece := range strings.Split(line, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		up := strings.ToUpper(strings.TrimSuffix(piece, ","))
		if up == "AND" {
			continue
		}
		if _, isDesignator := CorporateDesignators[up]; isDesignator && len(parties) > 0 {
			parties[len(parties)-1] += ", " + piece
			continue
		}
		parties = append(parties, piece)
	}
	return parties
}
