package decoder

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/caselens/tiger/pkg/errors"
	"github.com/caselens/tiger/pkg/types/common"
)

// DOCXDecoder extracts text from Office Open XML word documents.  It reads
// word/document.xml directly: paragraphs become lines, table rows become
// " | "-joined cells, and document properties feed the metadata.
type DOCXDecoder struct{}

// NewDOCXDecoder returns the DOCX decoder.
func NewDOCXDecoder() *DOCXDecoder { return &DOCXDecoder{} }

// Name implements Decoder.
func (d *DOCXDecoder) Name() string { return "docx" }

// SupportedExtensions implements Decoder.
func (d *DOCXDecoder) SupportedExtensions() []string { return []string{".docx"} }

// Decode implements Decoder.
func (d *DOCXDecoder) Decode(_ context.Context, path string) (string, common.Metadata, error) {
	info, err := checkFile(path)
	if err != nil {
		return "", nil, err
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrCodeDecodeFailed, fmt.Sprintf("open docx %s", path))
	}
	defer archive.Close()

	var text string
	found := false
	for _, f := range archive.File {
		if f.Name != "word/document.xml" {
			continue
		}
		found = true
		rc, openErr := f.Open()
		if openErr != nil {
			return "", nil, errors.Wrap(openErr, errors.ErrCodeDecodeFailed, "open word/document.xml")
		}
		text, err = extractDocumentXML(rc)
		rc.Close()
		if err != nil {
			return "", nil, errors.Wrap(err, errors.ErrCodeDecodeFailed, fmt.Sprintf("parse %s", path))
		}
		break
	}
	if !found {
		return "", nil, errors.New(errors.ErrCodeDecodeFailed, "not a docx archive: word/document.xml missing").WithDetail(path)
	}

	text, err = ensureUsableText(path, text)
	if err != nil {
		return "", nil, err
	}

	meta := common.Metadata{"file_size": info.Size()}
	addDocProps(&archive.Reader, meta)
	return text, meta, nil
}

// docxExtractor is the state machine walking the document.xml token stream.
type docxExtractor struct {
	out        strings.Builder
	para       strings.Builder
	cell       strings.Builder
	rowCells   []string
	tableDepth int
	inText     bool
}

func extractDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var e docxExtractor

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				e.tableDepth++
			case "tr":
				if e.tableDepth == 1 {
					e.rowCells = e.rowCells[:0]
				}
			case "tc":
				if e.tableDepth == 1 {
					e.cell.Reset()
				}
			case "t":
				e.inText = true
			case "tab":
				e.write("\t")
			case "br", "cr":
				e.write("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				e.inText = false
			case "p":
				e.endParagraph()
			case "tc":
				if e.tableDepth == 1 {
					e.rowCells = append(e.rowCells, strings.TrimSpace(e.cell.String()))
				}
			case "tr":
				if e.tableDepth == 1 {
					e.out.WriteString(strings.Join(e.rowCells, " | "))
					e.out.WriteString("\n")
				}
			case "tbl":
				e.tableDepth--
				if e.tableDepth == 0 {
					e.out.WriteString("\n")
				}
			}
		case xml.CharData:
			if e.inText {
				e.write(string(t))
			}
		}
	}
	return strings.TrimRight(e.out.String(), "\n") + "\n", nil
}

func (e *docxExtractor) write(s string) {
	if e.tableDepth > 0 {
		e.cell.WriteString(s)
	} else {
		e.para.WriteString(s)
	}
}

func (e *docxExtractor) endParagraph() {
	if e.tableDepth > 0 {
		// paragraphs inside one cell collapse to spaces
		e.cell.WriteString(" ")
		return
	}
	e.out.WriteString(strings.TrimRight(e.para.String(), " "))
	e.out.WriteString("\n")
	e.para.Reset()
}

// docx document properties consulted for metadata
type appProperties struct {
	Pages int `xml:"Pages"`
	Words int `xml:"Words"`
}

type coreProperties struct {
	Creator string `xml:"creator"`
	Title   string `xml:"title"`
}

// addDocProps fills page count, word count, author, and title from the
// docProps parts when present.  Property failures never fail the decode.
func addDocProps(archive *zip.Reader, meta common.Metadata) {
	for _, f := range archive.File {
		switch f.Name {
		case "docProps/app.xml":
			var props appProperties
			if readXMLPart(f, &props) == nil {
				if props.Pages > 0 {
					meta["page_count"] = props.Pages
				}
				if props.Words > 0 {
					meta["word_count"] = props.Words
				}
			}
		case "docProps/core.xml":
			var props coreProperties
			if readXMLPart(f, &props) == nil {
				if props.Creator != "" {
					meta["author"] = props.Creator
				}
				if props.Title != "" {
					meta["title"] = props.Title
				}
			}
		}
	}
}

func readXMLPart(f *zip.File, v interface{}) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}
