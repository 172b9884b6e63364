package decoder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/caselens/tiger/pkg/errors"
	"github.com/caselens/tiger/pkg/types/common"
)

// TextDecoder reads plain-text case files as-is, normalizing line endings.
type TextDecoder struct{}

// NewTextDecoder returns the plain-text decoder.
func NewTextDecoder() *TextDecoder { return &TextDecoder{} }

// Name implements Decoder.
func (d *TextDecoder) Name() string { return "text" }

// SupportedExtensions implements Decoder.
func (d *TextDecoder) SupportedExtensions() []string {
	return []string{".txt"}
}

// Decode implements Decoder.
func (d *TextDecoder) Decode(_ context.Context, path string) (string, common.Metadata, error) {
	info, err := checkFile(path)
	if err != nil {
		return "", nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrCodeIO, fmt.Sprintf("read %s", path))
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text, err = ensureUsableText(path, text)
	if err != nil {
		return "", nil, err
	}

	meta := common.Metadata{
		"file_size":  info.Size(),
		"line_count": strings.Count(text, "\n") + 1,
	}
	return text, meta, nil
}
