package decoder

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/caselens/tiger/pkg/errors"
)

// ---------------------------------------------------------------------------
// OCR fallback
// ---------------------------------------------------------------------------

// OCRRunner converts an image-only document into text via an external tool.
type OCRRunner interface {
	// Run performs OCR over the file at path and returns the extracted text.
	Run(ctx context.Context, path string) (string, error)
	// Available reports whether the runner can be used in this environment.
	Available() bool
}

// defaultOCRTimeout bounds one OCR invocation.
const defaultOCRTimeout = 2 * time.Minute

// CommandOCR shells out to a configured binary that takes the input path as
// its final argument and writes text to stdout, e.g. "pdftotext -layout - -"
// wrappers or a tesseract script.
type CommandOCR struct {
	binary  string
	args    []string
	timeout time.Duration
}

// NewCommandOCR builds a subprocess-backed OCR runner.  A zero timeout
// selects the default.
func NewCommandOCR(binary string, args []string, timeout time.Duration) *CommandOCR {
	if timeout <= 0 {
		timeout = defaultOCRTimeout
	}
	return &CommandOCR{binary: binary, args: args, timeout: timeout}
}

// Available implements OCRRunner.  It reports whether the binary resolves on
// PATH (or as an absolute path).
func (o *CommandOCR) Available() bool {
	if o == nil || o.binary == "" {
		return false
	}
	_, err := exec.LookPath(o.binary)
	return err == nil
}

// Run implements OCRRunner.
func (o *CommandOCR) Run(ctx context.Context, path string) (string, error) {
	if !o.Available() {
		return "", errors.New(errors.ErrCodeOCRUnavailable, "ocr binary not on PATH").WithDetail(o.binary)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	args := append(append([]string{}, o.args...), path)
	cmd := exec.CommandContext(ctx, o.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		return "", errors.Wrap(err, errors.ErrCodeDecodeFailed, "ocr subprocess failed").WithDetail(detail)
	}
	return stdout.String(), nil
}
