// Package document implements the per-file half of the tiger data model: the
// ExtractionResult produced for every input file together with the recognizer
// findings it carries (dates, legal entities, damage items).  All business
// rules that concern a single document live here; multi-document
// reconciliation belongs to the legalcase package and the consolidator.
package document

import (
	"path/filepath"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Document type classification
// ─────────────────────────────────────────────────────────────────────────────

// DocumentType classifies an input file by its role in the case folder.  The
// classification drives source preference during consolidation (attorney notes
// outrank everything) and the document-type agreement bonus in date scoring.
type DocumentType string

const (
	TypeAttorneyNotes DocumentType = "attorney_notes"
	TypeDenialLetter  DocumentType = "denial_letter"
	TypeAdverseAction DocumentType = "adverse_action_letter"
	TypeSummons       DocumentType = "summons"
	TypeCivilCover    DocumentType = "civil_cover"
	TypeComplaint     DocumentType = "complaint"
	TypeUnknown       DocumentType = "unknown"
)

// String returns the wire representation of the document type.
func (t DocumentType) String() string { return string(t) }

// IsValid reports whether t is one of the declared document types.
func (t DocumentType) IsValid() bool {
	switch t {
	case TypeAttorneyNotes, TypeDenialLetter, TypeAdverseAction,
		TypeSummons, TypeCivilCover, TypeComplaint, TypeUnknown:
		return true
	}
	return false
}

// filename markers checked before any content inspection
var fileNameMarkers = []struct {
	marker string
	typ    DocumentType
}{
	{"atty_notes", TypeAttorneyNotes},
	{"attorney_notes", TypeAttorneyNotes},
	{"summons", TypeSummons},
	{"civil_cover", TypeCivilCover},
	{"adverse_action", TypeAdverseAction},
	{"adverse action", TypeAdverseAction},
	{"denial", TypeDenialLetter},
	{"complaint", TypeComplaint},
}

// content markers consulted when the filename is inconclusive
var contentMarkers = []struct {
	marker string
	typ    DocumentType
}{
	{"adverse action notice", TypeAdverseAction},
	{"notice of adverse action", TypeAdverseAction},
	{"your application has been denied", TypeDenialLetter},
	{"we are unable to approve", TypeDenialLetter},
	{"unable to approve your application", TypeDenialLetter},
	{"credit denial", TypeDenialLetter},
	{"summons in a civil action", TypeSummons},
	{"you are hereby summoned", TypeSummons},
	{"civil cover sheet", TypeCivilCover},
}

// Classify derives the DocumentType for a file from its name and, when the
// name alone is inconclusive, from markers in the extracted text.  Matching is
// case-insensitive.  Files that match nothing classify as TypeUnknown.
func Classify(fileName, text string) DocumentType {
	base := strings.ToLower(filepath.Base(fileName))
	for _, m := range fileNameMarkers {
		if strings.Contains(base, m.marker) {
			return m.typ
		}
	}

	lower := strings.ToLower(text)
	for _, m := range contentMarkers {
		if strings.Contains(lower, m.marker) {
			return m.typ
		}
	}
	return TypeUnknown
}

// IsAttorneyNotes reports whether the file name marks the attorney-notes
// document, the highest-trust source for most consolidated fields.
func IsAttorneyNotes(fileName string) bool {
	base := strings.ToLower(filepath.Base(fileName))
	return strings.Contains(base, "atty_notes") || strings.Contains(base, "attorney_notes")
}

// IsSummons reports whether the file name marks a summons.  Summonses are
// excluded as a source of consolidated fields.
func IsSummons(fileName string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(fileName)), "summons")
}
