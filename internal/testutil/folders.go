package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteCaseFolder lays files out as a case folder named caseID under a fresh
// temp directory and returns the folder path. The folder is cleaned up with
// the test.
func WriteCaseFolder(t *testing.T, caseID string, files map[string]string) string {
	t.Helper()
	folder := filepath.Join(t.TempDir(), caseID)
	require.NoError(t, os.MkdirAll(folder, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte(content), 0o644))
	}
	return folder
}

// ReadFile returns the file contents, failing the test on any error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
