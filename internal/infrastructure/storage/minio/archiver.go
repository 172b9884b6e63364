package minio

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

// CaseArchiver uploads every artifact of a finished case directory to the
// archive bucket, keyed as <prefix>/<case_name>/<relative path>. Uploads for
// the same key overwrite, so re-running a case refreshes its mirror.
type CaseArchiver struct {
	client *Client
	logger logging.Logger
	prefix string
}

// ArchivedObject describes one mirrored artifact.
type ArchivedObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ArchiverOption adjusts how case trees are mirrored.
type ArchiverOption func(*CaseArchiver)

// WithObjectPrefix overrides the top-level key prefix, default "cases".
func WithObjectPrefix(prefix string) ArchiverOption {
	return func(a *CaseArchiver) {
		a.prefix = strings.Trim(prefix, "/")
	}
}

// NewCaseArchiver builds an archiver over an established client.
func NewCaseArchiver(client *Client, log logging.Logger, opts ...ArchiverOption) *CaseArchiver {
	if log == nil {
		log = logging.Default()
	}
	archiver := &CaseArchiver{
		client: client,
		logger: log.Named("case-archive"),
		prefix: "cases",
	}
	for _, opt := range opts {
		opt(archiver)
	}
	return archiver
}

// ArchiveCase walks caseDir and uploads each regular file, preserving the
// directory layout under the case name. Dotfiles are skipped, matching the
// pipeline's folder scan. It stops at the first failed upload so a partial
// mirror is never mistaken for a complete one, and returns the number of
// objects uploaded.
func (a *CaseArchiver) ArchiveCase(ctx context.Context, caseDir string) (int, error) {
	if caseDir == "" {
		return 0, errors.InvalidParam("case directory is required")
	}
	if err := a.client.guard(); err != nil {
		return 0, err
	}

	info, err := os.Stat(caseDir)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeArchiveError, "case directory is not readable")
	}
	if !info.IsDir() {
		return 0, errors.InvalidParam("case path is not a directory")
	}

	caseName := filepath.Base(caseDir)
	start := time.Now()
	uploaded := 0
	var totalBytes int64

	walkErr := filepath.WalkDir(caseDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(caseDir, path)
		if err != nil {
			return err
		}
		key := a.prefix + "/" + caseName + "/" + filepath.ToSlash(rel)

		size, err := a.upload(ctx, key, path, caseName)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeArchiveError, fmt.Sprintf("failed to archive %s", key))
		}
		uploaded++
		totalBytes += size
		return nil
	})
	if walkErr != nil {
		if errors.GetCode(walkErr) != errors.CodeUnknown {
			return uploaded, walkErr
		}
		return uploaded, errors.Wrap(walkErr, errors.ErrCodeArchiveError, "case directory walk failed")
	}

	a.logger.Info("Case archived",
		logging.String("case", caseName),
		logging.Int("objects", uploaded),
		logging.Int64("bytes", totalBytes),
		logging.Duration("elapsed", time.Since(start)),
	)
	return uploaded, nil
}

// ListCase returns the mirrored artifacts of one case.
func (a *CaseArchiver) ListCase(ctx context.Context, caseName string) ([]ArchivedObject, error) {
	if caseName == "" {
		return nil, errors.InvalidParam("case name is required")
	}
	if err := a.client.guard(); err != nil {
		return nil, err
	}

	opts := minio.ListObjectsOptions{
		Prefix:    a.prefix + "/" + caseName + "/",
		Recursive: true,
	}

	var objects []ArchivedObject
	for info := range a.client.api.ListObjects(ctx, a.client.config.Bucket, opts) {
		if info.Err != nil {
			return nil, errors.Wrap(info.Err, errors.ErrCodeArchiveError, "failed to list archived case")
		}
		objects = append(objects, ArchivedObject{
			Key:          info.Key,
			Size:         info.Size,
			LastModified: info.LastModified,
		})
	}
	return objects, nil
}

func (a *CaseArchiver) upload(ctx context.Context, key, path, caseName string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return 0, err
	}

	opts := minio.PutObjectOptions{
		ContentType:  contentTypeFor(path),
		UserMetadata: map[string]string{"case": caseName},
	}
	info, err := a.client.api.PutObject(ctx, a.client.config.Bucket, key, file, stat.Size(), opts)
	if err != nil {
		return 0, err
	}

	a.logger.Debug("Archived object",
		logging.String("key", key),
		logging.Int64("bytes", info.Size),
	)
	return info.Size, nil
}

// contentTypeFor maps the artifact extensions the output manager writes.
// Anything else in the tree is stored as an opaque blob.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
