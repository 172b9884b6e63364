package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

// caseExtensions are the file types picked up from a case folder.
var caseExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".txt":  {},
}

// ScanCaseFolder lists the processable files directly inside folder.
// Subdirectories, dotfiles, and unsupported extensions are skipped.
// os.ReadDir sorts by name, so processing order is deterministic.
func ScanCaseFolder(folder string, log logging.Logger) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIO,
			"reading case folder "+folder)
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := caseExtensions[ext]; !ok {
			log.Debug("file skipped, unsupported type",
				logging.String("file", name))
			continue
		}
		files = append(files, filepath.Join(folder, name))
	}
	return files, nil
}

// fileDigest streams the file through SHA-256 and returns the hex digest
// used as the extraction cache key. Streaming keeps memory flat for files
// near the size ceiling.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeIO, "opening file for digest")
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeIO, "digesting file "+path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
