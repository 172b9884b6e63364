// Package decoder provides per-format text extraction from case files.
// Each decoder handles one format; the Registry dispatches on file
// extension.  Decoders are stateless and safe for concurrent use.
package decoder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/caselens/tiger/pkg/errors"
	"github.com/caselens/tiger/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Decoder interface
// ---------------------------------------------------------------------------

// Decoder extracts plain text and format metadata from one file format.
type Decoder interface {
	// Decode extracts the text of the file at path.  Implementations must
	// reject oversized files, preserve paragraph breaks, and flatten table
	// rows into " | "-joined cells.
	Decode(ctx context.Context, path string) (string, common.Metadata, error)
	// SupportedExtensions lists the lowercase extensions this decoder
	// accepts, with the leading dot.
	SupportedExtensions() []string
	// Name identifies the decoder in results and logs.
	Name() string
}

// MaxFileSize is the upper bound on decodable input files.
const MaxFileSize = 100 << 20 // 100 MiB

// minNonWhitespace is the least number of non-whitespace characters an
// extraction must yield before it counts as text at all.
const minNonWhitespace = 10

// checkFile rejects missing and oversized files before any decoding work.
func checkFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIO, fmt.Sprintf("stat %s", path))
	}
	if info.Size() > MaxFileSize {
		return nil, errors.FileTooLarge(path)
	}
	return info, nil
}

// countNonWhitespace counts the characters of s that are not white space.
func countNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// ensureUsableText enforces the minimum extraction yield.
func ensureUsableText(path, text string) (string, error) {
	if countNonWhitespace(text) < minNonWhitespace {
		return "", errors.EmptyExtraction(path)
	}
	return text, nil
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Registry routes files to the decoder registered for their extension.
type Registry struct {
	byExtension map[string]Decoder
}

// NewRegistry builds a registry over the given decoders.  Later decoders win
// extension conflicts.
func NewRegistry(decoders ...Decoder) *Registry {
	r := &Registry{byExtension: make(map[string]Decoder)}
	for _, d := range decoders {
		r.Register(d)
	}
	return r
}

// Register adds a decoder for all of its supported extensions.
func (r *Registry) Register(d Decoder) {
	if d == nil {
		return
	}
	for _, ext := range d.SupportedExtensions() {
		r.byExtension[strings.ToLower(ext)] = d
	}
}

// ForPath returns the decoder for the file's extension, or an
// UnsupportedFormat error when no decoder claims it.
func (r *Registry) ForPath(path string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if d, ok := r.byExtension[ext]; ok {
		return d, nil
	}
	return nil, errors.UnsupportedFormat(ext)
}

// Extensions returns every registered extension, for diagnostics.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	return exts
}

// Decode routes the file to its decoder and runs it.
func (r *Registry) Decode(ctx context.Context, path string) (string, common.Metadata, error) {
	d, err := r.ForPath(path)
	if err != nil {
		return "", nil, err
	}
	return d.Decode(ctx, path)
}
