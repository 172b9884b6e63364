package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

const testCase = "Youssef_Eman_20250405"

func newTestManager(t *testing.T, opts ...Option) (Manager, string) {
	t.Helper()
	root := t.TempDir()
	opts = append([]Option{WithLogger(logging.NewNopLogger())}, opts...)
	m, err := NewManager(root, opts...)
	require.NoError(t, err)
	return m, root
}

func successfulResult() document.ExtractionResult {
	return document.ExtractionResult{
		FilePath:         "/intake/youssef/atty_notes.txt",
		FileName:         "atty_notes.txt",
		ExtractedText:    "NAME: Eman Youssef\nDEFENDANTS:\n- TD Bank\n",
		Success:          true,
		DocumentType:     document.TypeAttorneyNotes,
		EngineName:       "text",
		ProcessingTimeMS: 8,
		QualityMetrics: document.QualityMetrics{
			Score:            88,
			TextLength:       42,
			CompressionRatio: 1,
			LegalIndicators:  3,
		},
		ExtractedDates: []document.ExtractedDate{{
			RawText:    "December 9, 2024",
			Context:    document.ContextDispute,
			Confidence: 0.9,
		}},
	}
}

func TestNewManager_RequiresRootAndKnownPolicy(t *testing.T) {
	t.Parallel()

	_, err := NewManager("  ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = NewManager(t.TempDir(), WithPolicy(Policy("purge")))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeOutputLayout))
}

func TestManager_PrepareCase_CreatesTheTree(t *testing.T) {
	t.Parallel()

	m, root := newTestManager(t)

	caseDir, err := m.PrepareCase(testCase)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cases", testCase), caseDir)

	for _, sub := range []string{"processed", "raw_text", "metadata"} {
		info, err := os.Stat(filepath.Join(caseDir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir(), sub)
	}
}

func TestManager_PrepareCase_RequiresCaseName(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	_, err := m.PrepareCase("  ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestManager_WriteResult_WritesFiveArtifacts(t *testing.T) {
	t.Parallel()

	m, root := newTestManager(t)
	result := successfulResult()

	artifacts, err := m.WriteResult(testCase, result)
	require.NoError(t, err)

	caseDir := filepath.Join(root, "cases", testCase)
	assert.Equal(t, filepath.Join(caseDir, "processed", "atty_notes.txt"), artifacts.Text)
	assert.Equal(t, filepath.Join(caseDir, "processed", "atty_notes.json"), artifacts.JSON)
	assert.Equal(t, filepath.Join(caseDir, "processed", "atty_notes.md"), artifacts.Markdown)
	assert.Equal(t, filepath.Join(caseDir, "raw_text", "atty_notes_raw.txt"), artifacts.RawText)
	assert.Equal(t, filepath.Join(caseDir, "metadata", "atty_notes_metadata.json"), artifacts.Metadata)

	raw, err := os.ReadFile(artifacts.RawText)
	require.NoError(t, err)
	assert.Equal(t, result.ExtractedText, string(raw))

	formatted, err := os.ReadFile(artifacts.Text)
	require.NoError(t, err)
	assert.Contains(t, string(formatted), "TIGER EXTRACTION: atty_notes.txt")
	assert.Contains(t, string(formatted), result.ExtractedText)

	var roundTripped document.ExtractionResult
	encoded, err := os.ReadFile(artifacts.JSON)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(encoded, &roundTripped))
	assert.Equal(t, result, roundTripped)

	md, err := os.ReadFile(artifacts.Markdown)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Extraction Summary: atty_notes.txt")
	assert.Contains(t, string(md), "December 9, 2024 (dispute, confidence 0.90)")

	meta, err := os.ReadFile(artifacts.Metadata)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(meta, &decoded))
	assert.Equal(t, "atty_notes.txt", decoded["file_name"])
	assert.Equal(t, float64(1), decoded["extracted_dates"])
}

func TestManager_WriteResult_RejectsFailedResults(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	failed := document.NewFailedResult("/intake/broken.pdf", assert.AnError)

	_, err := m.WriteResult(testCase, failed)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestManager_WriteCaseInfo_RoundTrips(t *testing.T) {
	t.Parallel()

	m, root := newTestManager(t)
	record := legalcase.NewConsolidatedCase(testCase)
	record.CaseInformation.CaseNumber = "1:25-cv-01987"

	path, err := m.WriteCaseInfo(testCase, record)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cases", testCase, "case_info.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded legalcase.ConsolidatedCase
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, testCase, decoded.CaseID)
	assert.Equal(t, "1:25-cv-01987", decoded.CaseInformation.CaseNumber)
}

func TestManager_WriteComplaint(t *testing.T) {
	t.Parallel()

	m, root := newTestManager(t)

	path, err := m.WriteComplaint(testCase, map[string]interface{}{"jury_demand": true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cases", testCase, "complaint.json"), path)

	_, err = m.WriteComplaint(testCase, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestManager_WriteCaseSummary(t *testing.T) {
	t.Parallel()

	m, root := newTestManager(t)
	record := legalcase.NewConsolidatedCase(testCase)

	path, err := m.WriteCaseSummary(testCase, record)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cases", testCase, "case_summary.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Case Summary: "+testCase))
}

func TestManager_VersionPolicy_PicksSmallestUnusedSuffix(t *testing.T) {
	t.Parallel()

	m, root := newTestManager(t, WithPolicy(PolicyVersion))
	record := legalcase.NewConsolidatedCase(testCase)

	first, err := m.WriteCaseInfo(testCase, record)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cases", testCase, "case_info.json"), first)

	second, err := m.WriteCaseInfo(testCase, record)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cases", testCase, "case_info_v1.json"), second)

	third, err := m.WriteCaseInfo(testCase, record)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cases", testCase, "case_info_v2.json"), third)

	// The original write is never touched.
	_, err = os.Stat(first)
	require.NoError(t, err)
}

func TestManager_OverwritePolicy_ReplacesInPlace(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, WithPolicy(PolicyOverwrite))
	record := legalcase.NewConsolidatedCase(testCase)

	first, err := m.WriteCaseInfo(testCase, record)
	require.NoError(t, err)

	record.AddWarning("second pass")
	second, err := m.WriteCaseInfo(testCase, record)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second pass")
}

func TestManager_ErrorPolicy_RefusesExistingTargets(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, WithPolicy(PolicyError))
	record := legalcase.NewConsolidatedCase(testCase)

	_, err := m.WriteCaseInfo(testCase, record)
	require.NoError(t, err)

	_, err = m.WriteCaseInfo(testCase, record)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeOutputExists))
}
