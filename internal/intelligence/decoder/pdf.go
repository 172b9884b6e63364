package decoder

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/caselens/tiger/pkg/errors"
	"github.com/caselens/tiger/pkg/types/common"
)

// PDFDecoder extracts text from PDF files, page by page.  When the native
// text layer is too thin (scanned documents) and an OCR runner is
// configured, it falls back to OCR.
type PDFDecoder struct {
	ocr OCRRunner
}

// PDFOption is a functional option for PDFDecoder construction.
type PDFOption func(*PDFDecoder)

// WithOCR attaches an OCR fallback for image-only PDFs.
func WithOCR(runner OCRRunner) PDFOption {
	return func(d *PDFDecoder) { d.ocr = runner }
}

// NewPDFDecoder returns the PDF decoder.
func NewPDFDecoder(opts ...PDFOption) *PDFDecoder {
	d := &PDFDecoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements Decoder.
func (d *PDFDecoder) Name() string { return "pdf_ocr" }

// SupportedExtensions implements Decoder.
func (d *PDFDecoder) SupportedExtensions() []string { return []string{".pdf"} }

// Decode implements Decoder.
func (d *PDFDecoder) Decode(ctx context.Context, path string) (string, common.Metadata, error) {
	info, err := checkFile(path)
	if err != nil {
		return "", nil, err
	}

	text, pageCount, nativeErr := extractNativeText(path)
	method := "native"

	if countNonWhitespace(text) < minNonWhitespace && d.ocr != nil && d.ocr.Available() {
		ocrText, ocrErr := d.ocr.Run(ctx, path)
		if ocrErr == nil && countNonWhitespace(ocrText) >= countNonWhitespace(text) {
			text = ocrText
			method = "ocr"
		}
	}

	if countNonWhitespace(text) < minNonWhitespace {
		if nativeErr != nil {
			return "", nil, errors.Wrap(nativeErr, errors.ErrCodeDecodeFailed, fmt.Sprintf("decode %s", path))
		}
		return "", nil, errors.EmptyExtraction(path)
	}

	meta := common.Metadata{
		"file_size":         info.Size(),
		"page_count":        pageCount,
		"extraction_method": method,
	}
	return text, meta, nil
}

// extractNativeText reads the PDF's text layer.  The underlying parser
// panics on malformed cross-reference tables, so the panic is contained and
// reported as a decode error.
func extractNativeText(path string) (text string, pageCount int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	pageCount = reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimRight(pageText, "\n"))
	}
	return sb.String(), pageCount, nil
}
