// Package legal_ner recognizes legal entities in extracted document text:
// case numbers, courts and districts, caption parties, letter salutations,
// attorney blocks, and their contact details.  Everything is rule-based
// over the raw text.
package legal_ner

import "regexp"

// ---------------------------------------------------------------------------
// Pattern catalog
// ---------------------------------------------------------------------------

var (
	// federalCaseNumberPattern matches e.g. "1:25-cv-01987" and
	// "2:24-cv-9876-ARR-LB" (judge initials attached).
	federalCaseNumberPattern = regexp.MustCompile(`\b(\d:\d{2}-cv-\d{4,5}(?:-[A-Z]{1,4})*)\b`)

	// stateIndexPattern matches e.g. "Index No. 654321/2025".
	stateIndexPattern = regexp.MustCompile(`(?i)\bindex\s+no\.?\s*:?\s*(\d{3,6}/\d{4})\b`)

	// labeledCaseNumberPattern matches e.g. "Case No.: 1:25-cv-01987" and
	// "Civil Action No. 25-1987".
	labeledCaseNumberPattern = regexp.MustCompile(`(?i)\b(?:case|docket|civil action)\s+no\.?\s*:?\s*([A-Za-z0-9:/.-]{4,30})`)

	// courtNamePattern matches caption court headings on their own line,
	// e.g. "UNITED STATES DISTRICT COURT".
	courtNamePattern = regexp.MustCompile(`(?m)^\s*(UNITED STATES DISTRICT COURT|UNITED STATES BANKRUPTCY COURT|SUPREME COURT OF THE STATE OF NEW YORK|CIVIL COURT OF THE CITY OF NEW YORK)\s*$`)

	// districtPattern matches e.g. "EASTERN DISTRICT OF NEW YORK", alone on
	// a caption line or inline after "FOR THE".  Separators are spaces only
	// so the match never runs onto the next caption line.
	districtPattern = regexp.MustCompile(`\b((?:EASTERN|WESTERN|NORTHERN|SOUTHERN|CENTRAL|MIDDLE)[ \t]+DISTRICT[ \t]+OF[ \t]+[A-Z]+(?:[ \t]+[A-Z]+){0,2})\b`)

	// captionPlaintiffLinePattern marks the "Plaintiff," line under the
	// plaintiff names in a caption.
	captionPlaintiffLinePattern = regexp.MustCompile(`(?i)^\s*plaintiffs?[.,]?\s*$`)

	// captionVersusPattern marks the "v." separator line.
	captionVersusPattern = regexp.MustCompile(`(?i)^\s*-?\s*(?:v|vs)\.?\s*-?\s*$`)

	// captionDefendantLinePattern marks the "Defendants." line closing the
	// caption.
	captionDefendantLinePattern = regexp.MustCompile(`(?i)^\s*defendants?[.,]?\s*$`)

	// inlinePlaintiffPattern matches e.g. "EMAN YOUSSEF, Plaintiff".
	inlinePlaintiffPattern = regexp.MustCompile(`^\s*([A-Z][A-Z .'-]{2,60}?),?\s+Plaintiffs?\b`)

	// salutationPattern matches the "Dear Eman Youssef:" line opening a
	// creditor letter. The addressed consumer is the prospective
	// plaintiff. An honorific is skipped, and the name needs at least two
	// capitalized words so "Dear Customer," never matches.
	salutationPattern = regexp.MustCompile(`^[ \t]*(?:Dear|DEAR)[ \t]+(?:(?:Mr|Ms|Mrs|Dr)\.?[ \t]+)?([A-Z][A-Za-z.'-]+(?:[ \t]+[A-Z][A-Za-z.'-]+)+)[ \t]*[:,][ \t]*$`)

	// attorneyForPattern marks the "Attorneys for Plaintiff" line of a
	// signature or letterhead block.
	attorneyForPattern = regexp.MustCompile(`(?i)^\s*attorneys?\s+for\s+(?:the\s+)?plaintiffs?\s*$`)

	// phonePattern matches e.g. "(718) 555-0199" and "718-555-0199".
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[\s.-]\s?\d{3}[\s.-]\d{4}`)

	// emailPattern matches ordinary addresses, e.g. "intake@firmname.com".
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// streetPattern matches e.g. "30 Wall Street, 8th Floor" up to the
	// street designator.
	streetPattern = regexp.MustCompile(`\b\d+(?:-\d+)?\s+[A-Za-z0-9 .]+?\s(?:Street|St\.?|Avenue|Ave\.?|Boulevard|Blvd\.?|Road|Rd\.?|Drive|Dr\.?|Lane|Ln\.?|Place|Pl\.?|Court|Ct\.?|Plaza|Broadway)\b`)

	// cityStateZipPattern matches e.g. "Brooklyn, NY 11201".
	cityStateZipPattern = regexp.MustCompile(`\b([A-Z][A-Za-z .]+),\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)\b`)
)

// genericSalutations are letter openings that address no one in particular.
var genericSalutations = map[string]bool{
	"VALUED CUSTOMER":   true,
	"VALUED CARDMEMBER": true,
	"ACCOUNT HOLDER":    true,
	"CARD MEMBER":       true,
}

