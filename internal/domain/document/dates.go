package document

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Date context classification
// ─────────────────────────────────────────────────────────────────────────────

// DateContext names the event class a date occurrence belongs to, derived from
// the sentence surrounding the match.
type DateContext string

const (
	ContextDiscovery     DateContext = "discovery"
	ContextDispute       DateContext = "dispute"
	ContextApplication   DateContext = "application"
	ContextDenial        DateContext = "denial"
	ContextAdverseAction DateContext = "adverse_action"
	ContextNotice        DateContext = "notice"
	ContextResponse      DateContext = "response"
	ContextTransaction   DateContext = "transaction"
	ContextFiling        DateContext = "filing"
	ContextDamageEvent   DateContext = "damage_event"
	ContextUnknown       DateContext = "unknown"
)

// String returns the wire representation of the context.
func (c DateContext) String() string { return string(c) }

// IsValid reports whether c is one of the declared contexts.
func (c DateContext) IsValid() bool {
	switch c {
	case ContextDiscovery, ContextDispute, ContextApplication, ContextDenial,
		ContextAdverseAction, ContextNotice, ContextResponse,
		ContextTransaction, ContextFiling, ContextDamageEvent, ContextUnknown:
		return true
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// ExtractedDate
// ─────────────────────────────────────────────────────────────────────────────

// ExtractedDate is one date occurrence with provenance.  RawText preserves the
// substring exactly as found; ParsedDate is nil when the raw text did not
// normalize to a calendar date.
type ExtractedDate struct {
	RawText         string      `json:"raw_text"`
	ParsedDate      *time.Time  `json:"parsed_date,omitempty"`
	Context         DateContext `json:"context"`
	Confidence      float64     `json:"confidence"`
	SourceLine      string      `json:"source_line,omitempty"`
	LineNumber      int         `json:"line_number"`
	DocumentSection string      `json:"document_section,omitempty"`

	// SourceDocument is empty when the recognizer emits the date and is
	// filled in by the consolidator while aggregating across documents.
	SourceDocument string `json:"source_document,omitempty"`
}

// HasParsed reports whether the occurrence normalized to a calendar date.
func (d ExtractedDate) HasParsed() bool { return d.ParsedDate != nil }

// Year returns the parsed year, or 0 when the date did not parse.
func (d ExtractedDate) Year() int {
	if d.ParsedDate == nil {
		return 0
	}
	return d.ParsedDate.Year()
}
