package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
	"github.com/caselens/tiger/pkg/types/common"
)

// Policy decides what happens when an output file already exists.
type Policy string

const (
	// PolicyVersion writes alongside the existing file as <name>_vN<ext>
	// with the smallest unused N.
	PolicyVersion Policy = "version"
	// PolicyOverwrite replaces the existing file.
	PolicyOverwrite Policy = "overwrite"
	// PolicyError refuses to touch the existing file.
	PolicyError Policy = "error"
)

func (p Policy) valid() bool {
	switch p {
	case PolicyVersion, PolicyOverwrite, PolicyError:
		return true
	}
	return false
}

const (
	casesDir     = "cases"
	processedDir = "processed"
	rawTextDir   = "raw_text"
	metadataDir  = "metadata"

	caseInfoFile    = "case_info.json"
	complaintFile   = "complaint.json"
	caseSummaryFile = "case_summary.md"
)

// ResultArtifacts lists the paths written for one extraction result.
type ResultArtifacts struct {
	Text     string
	JSON     string
	Markdown string
	RawText  string
	Metadata string
}

// Manager writes the per-case artifact tree under <root>/cases/<case_name>/.
type Manager interface {
	// CaseDir returns the case directory path without creating it.
	CaseDir(caseName string) string

	// PrepareCase creates the case directory and its processed, raw_text,
	// and metadata subdirectories, returning the case directory path.
	PrepareCase(caseName string) (string, error)

	// WriteResult writes the five per-document artifacts for one successful
	// extraction result.
	WriteResult(caseName string, result document.ExtractionResult) (ResultArtifacts, error)

	// WriteCaseInfo writes the consolidated record as case_info.json.
	WriteCaseInfo(caseName string, record *legalcase.ConsolidatedCase) (string, error)

	// WriteComplaint writes the hydrated complaint document as complaint.json.
	WriteComplaint(caseName string, complaint interface{}) (string, error)

	// WriteCaseSummary renders the record as Markdown into case_summary.md.
	WriteCaseSummary(caseName string, record *legalcase.ConsolidatedCase) (string, error)
}

type manager struct {
	root   string
	policy Policy
	logger logging.Logger
}

// Option adjusts manager construction.
type Option func(*manager)

// WithPolicy selects the overwrite policy. The default is PolicyVersion.
func WithPolicy(p Policy) Option {
	return func(m *manager) { m.policy = p }
}

// WithLogger injects the logger.
func WithLogger(logger logging.Logger) Option {
	return func(m *manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager returns a Manager rooted at the given output directory.
func NewManager(root string, opts ...Option) (Manager, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.InvalidParam("output root is required")
	}
	m := &manager{
		root:   root,
		policy: PolicyVersion,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.policy.valid() {
		return nil, errors.New(errors.ErrCodeOutputLayout,
			fmt.Sprintf("unknown overwrite policy %q", m.policy))
	}
	m.logger = m.logger.Named("output")
	return m, nil
}

func (m *manager) CaseDir(caseName string) string {
	return filepath.Join(m.root, casesDir, caseName)
}

func (m *manager) PrepareCase(caseName string) (string, error) {
	if strings.TrimSpace(caseName) == "" {
		return "", errors.InvalidParam("case name is required")
	}
	caseDir := m.CaseDir(caseName)
	for _, sub := range []string{processedDir, rawTextDir, metadataDir} {
		if err := os.MkdirAll(filepath.Join(caseDir, sub), 0o755); err != nil {
			return "", errors.Wrap(err, errors.ErrCodeOutputLayout, "creating case directories")
		}
	}
	m.logger.Debug("case directory prepared", logging.String("dir", caseDir))
	return caseDir, nil
}

func (m *manager) WriteResult(caseName string, result document.ExtractionResult) (ResultArtifacts, error) {
	var artifacts ResultArtifacts
	if !result.Success {
		return artifacts, errors.InvalidParam("failed extraction results are not written")
	}
	base := result.Base()
	caseDir := m.CaseDir(caseName)

	var err error
	if artifacts.Text, err = m.writeFile(
		filepath.Join(caseDir, processedDir, base+".txt"), []byte(formattedText(result))); err != nil {
		return artifacts, err
	}
	if artifacts.JSON, err = m.writeJSON(
		filepath.Join(caseDir, processedDir, base+".json"), result); err != nil {
		return artifacts, err
	}
	if artifacts.Markdown, err = m.writeFile(
		filepath.Join(caseDir, processedDir, base+".md"), []byte(documentMarkdown(result))); err != nil {
		return artifacts, err
	}
	if artifacts.RawText, err = m.writeFile(
		filepath.Join(caseDir, rawTextDir, base+"_raw.txt"), []byte(result.ExtractedText)); err != nil {
		return artifacts, err
	}
	if artifacts.Metadata, err = m.writeJSON(
		filepath.Join(caseDir, metadataDir, base+"_metadata.json"), newResultMetadata(result)); err != nil {
		return artifacts, err
	}

	m.logger.Debug("document artifacts written",
		logging.String("case", caseName),
		logging.String("document", result.FileName))
	return artifacts, nil
}

func (m *manager) WriteCaseInfo(caseName string, record *legalcase.ConsolidatedCase) (string, error) {
	if record == nil {
		return "", errors.InvalidParam("case record is required")
	}
	return m.writeJSON(filepath.Join(m.CaseDir(caseName), caseInfoFile), record)
}

func (m *manager) WriteComplaint(caseName string, complaint interface{}) (string, error) {
	if complaint == nil {
		return "", errors.InvalidParam("complaint document is required")
	}
	return m.writeJSON(filepath.Join(m.CaseDir(caseName), complaintFile), complaint)
}

func (m *manager) WriteCaseSummary(caseName string, record *legalcase.ConsolidatedCase) (string, error) {
	if record == nil {
		return "", errors.InvalidParam("case record is required")
	}
	return m.writeFile(filepath.Join(m.CaseDir(caseName), caseSummaryFile), []byte(CaseSummary(record)))
}

// writeFile creates the parent directory, applies the overwrite policy, and
// writes the data, returning the path actually written.
func (m *manager) writeFile(path string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeOutputLayout, "creating output directory")
	}
	target, err := m.resolvePath(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeOutputWrite, "writing output file")
	}
	return target, nil
}

func (m *manager) writeJSON(path string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "serializing output JSON")
	}
	return m.writeFile(path, append(data, '\n'))
}

func (m *manager) resolvePath(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", errors.Wrap(err, errors.ErrCodeIO, "probing output target")
	}
	switch m.policy {
	case PolicyOverwrite:
		return path, nil
	case PolicyError:
		return "", errors.New(errors.ErrCodeOutputExists,
			fmt.Sprintf("output file already exists: %s", path))
	default:
		return m.versionedPath(path)
	}
}

// versionedPath returns <stem>_vN<ext> with the smallest N not yet on disk.
func (m *manager) versionedPath(path string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_v%d%s", stem, n, ext)
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				return candidate, nil
			}
			return "", errors.Wrap(err, errors.ErrCodeIO, "probing output target")
		}
	}
}

// formattedText renders the processed text artifact: a short provenance
// header above the extracted text.
func formattedText(result document.ExtractionResult) string {
	var b strings.Builder
	rule := strings.Repeat("=", 78)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "TIGER EXTRACTION: %s\n", result.FileName)
	fmt.Fprintf(&b, "Document type: %s | Engine: %s | Quality: %.1f/100\n",
		result.DocumentType, result.EngineName, result.QualityMetrics.Score)
	b.WriteString(rule + "\n\n")
	b.WriteString(result.ExtractedText)
	if !strings.HasSuffix(result.ExtractedText, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// documentMarkdown renders the per-document Markdown summary artifact.
func documentMarkdown(result document.ExtractionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Extraction Summary: %s\n\n", result.FileName)
	fmt.Fprintf(&b, "- **Document type:** %s\n", result.DocumentType)
	if result.EngineName != "" {
		fmt.Fprintf(&b, "- **Engine:** %s\n", result.EngineName)
	}
	fmt.Fprintf(&b, "- **Quality score:** %.1f/100\n", result.QualityMetrics.Score)
	fmt.Fprintf(&b, "- **Text length:** %d characters\n", result.QualityMetrics.TextLength)
	fmt.Fprintf(&b, "- **Legal indicators:** %d\n", result.QualityMetrics.LegalIndicators)
	fmt.Fprintf(&b, "- **Processing time:** %d ms\n", result.ProcessingTimeMS)

	b.WriteString("\n## Extracted Dates\n\n")
	if len(result.ExtractedDates) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}
	for _, d := range result.ExtractedDates {
		fmt.Fprintf(&b, "- %s (%s, confidence %.2f)\n", d.RawText, d.Context, d.Confidence)
	}
	return b.String()
}

// resultMetadata is the shape of the per-document metadata artifact. The
// original file name keeps its extension so the source identity survives the
// stem-based artifact naming.
type resultMetadata struct {
	FileName         string                  `json:"file_name"`
	FilePath         string                  `json:"file_path"`
	DocumentType     document.DocumentType   `json:"document_type"`
	EngineName       string                  `json:"engine_name,omitempty"`
	ProcessingTimeMS int64                   `json:"processing_time_ms"`
	QualityMetrics   document.QualityMetrics `json:"quality_metrics"`
	ExtractedDates   int                     `json:"extracted_dates"`
	DecoderMetadata  common.Metadata         `json:"decoder_metadata,omitempty"`
}

func newResultMetadata(result document.ExtractionResult) resultMetadata {
	return resultMetadata{
		FileName:         result.FileName,
		FilePath:         result.FilePath,
		DocumentType:     result.DocumentType,
		EngineName:       result.EngineName,
		ProcessingTimeMS: result.ProcessingTimeMS,
		QualityMetrics:   result.QualityMetrics,
		ExtractedDates:   len(result.ExtractedDates),
		DecoderMetadata:  result.Metadata,
	}
}
