package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/internal/testutil"
	"github.com/caselens/tiger/pkg/errors"
)

func TestScanCaseFolder_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	folder := testutil.WriteCaseFolder(t, "Mixed_Case", map[string]string{
		"zeta_notes.txt":   "notes",
		"Alpha_Denial.PDF": "%PDF-1.4",
		"complaint.docx":   "zip",
		".hidden.txt":      "dot",
		"intake.json":      "{}",
		"README":           "no extension",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(folder, "exhibits"), 0o755))

	files, err := ScanCaseFolder(folder, logging.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(folder, "Alpha_Denial.PDF"),
		filepath.Join(folder, "complaint.docx"),
		filepath.Join(folder, "zeta_notes.txt"),
	}, files, "supported extensions only, in name order, any case")
}

func TestScanCaseFolder_EmptyFolder(t *testing.T) {
	t.Parallel()

	files, err := ScanCaseFolder(t.TempDir(), logging.NewNopLogger())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanCaseFolder_MissingFolder(t *testing.T) {
	t.Parallel()

	_, err := ScanCaseFolder(filepath.Join(t.TempDir(), "absent"), logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIO))
}

func TestFileDigest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("credit denial notice"), 0o644))

	got, err := fileDigest(path)
	require.NoError(t, err)

	want := sha256.Sum256([]byte("credit denial notice"))
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestFileDigest_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := fileDigest(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIO))
}
