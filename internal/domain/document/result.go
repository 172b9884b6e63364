package document

import (
	"path/filepath"

	"github.com/caselens/tiger/pkg/types/common"
)

// QualityMetrics scores how usable one document's extraction is.  Score is the
// document-structure score in [0,100]; CompressionRatio is extracted bytes per
// source byte and flags image-heavy PDFs whose text layer is thin.
type QualityMetrics struct {
	Score            float64 `json:"score"`
	TextLength       int     `json:"text_length"`
	CompressionRatio float64 `json:"compression_ratio"`
	LegalIndicators  int     `json:"legal_indicators"`
}

// ExtractionResult is one input file's processing output.  The document
// processor creates it, after which it is immutable; the consolidator reads
// it and never mutates it.
type ExtractionResult struct {
	FilePath      string          `json:"file_path"`
	FileName      string          `json:"file_name"`
	ExtractedText string          `json:"extracted_text"`
	Success       bool            `json:"success"`
	Error         string          `json:"error,omitempty"`
	Metadata      common.Metadata `json:"metadata,omitempty"`

	QualityMetrics QualityMetrics  `json:"quality_metrics"`
	ExtractedDates []ExtractedDate `json:"extracted_dates,omitempty"`
	DocumentType   DocumentType    `json:"document_type"`

	ProcessingTimeMS int64  `json:"processing_time_ms"`
	EngineName       string `json:"engine_name,omitempty"`
}

// NewFailedResult builds the result recorded when a file cannot be decoded.
// The error text is preserved so the consolidator can surface it as a warning.
func NewFailedResult(path string, err error) ExtractionResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return ExtractionResult{
		FilePath:     path,
		FileName:     filepath.Base(path),
		Success:      false,
		Error:        msg,
		DocumentType: TypeUnknown,
	}
}

// Base returns the file name without its extension, the stem used for every
// artifact the output manager writes for this document.
func (r ExtractionResult) Base() string {
	name := filepath.Base(r.FileName)
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}

// IsAttorneyNotes reports whether this result is the attorney-notes document.
func (r ExtractionResult) IsAttorneyNotes() bool {
	return IsAttorneyNotes(r.FileName)
}

// IsSummons reports whether this result is a summons.
func (r ExtractionResult) IsSummons() bool {
	return IsSummons(r.FileName)
}
