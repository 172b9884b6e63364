package decoder

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/tiger/pkg/errors"
)

// buildDocx assembles a minimal OOXML archive from raw part contents.
func buildDocx(t *testing.T, parts map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "fixture.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

const docxHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docxFooter = `</w:body></w:document>`

func TestDOCXDecoder_ParagraphsBecomeLines(t *testing.T) {
	t.Parallel()

	path := buildDocx(t, map[string]string{
		"word/document.xml": docxHeader +
			`<w:p><w:r><w:t>ATTORNEY NOTES</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>CASE_NUMBER: </w:t></w:r><w:r><w:t>1:25-cv-01987</w:t></w:r></w:p>` +
			`<w:p/>` +
			`<w:p><w:r><w:t>BACKGROUND:</w:t></w:r></w:p>` +
			docxFooter,
	})

	text, _, err := NewDOCXDecoder().Decode(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "ATTORNEY NOTES\n")
	assert.Contains(t, text, "CASE_NUMBER: 1:25-cv-01987\n",
		"adjacent runs of one paragraph join without separators")
	assert.Contains(t, text, "\n\nBACKGROUND:",
		"empty paragraphs preserve the blank line")
}

func TestDOCXDecoder_TableRowsFlattenWithPipes(t *testing.T) {
	t.Parallel()

	path := buildDocx(t, map[string]string{
		"word/document.xml": docxHeader +
			`<w:tbl>` +
			`<w:tr><w:tc><w:p><w:r><w:t>Date</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Event</w:t></w:r></w:p></w:tc></w:tr>` +
			`<w:tr><w:tc><w:p><w:r><w:t>04/09/2025</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Dispute sent</w:t></w:r></w:p></w:tc></w:tr>` +
			`</w:tbl>` +
			docxFooter,
	})

	text, _, err := NewDOCXDecoder().Decode(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Date | Event\n")
	assert.Contains(t, text, "04/09/2025 | Dispute sent\n")
}

func TestDOCXDecoder_TabsAndBreaks(t *testing.T) {
	t.Parallel()

	path := buildDocx(t, map[string]string{
		"word/document.xml": docxHeader +
			`<w:p><w:r><w:t>NAME:</w:t><w:tab/><w:t>Eman Youssef</w:t></w:r></w:p>` +
			docxFooter,
	})

	text, _, err := NewDOCXDecoder().Decode(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "NAME:\tEman Youssef")
}

func TestDOCXDecoder_DocPropsMetadata(t *testing.T) {
	t.Parallel()

	path := buildDocx(t, map[string]string{
		"word/document.xml": docxHeader +
			`<w:p><w:r><w:t>Enough text to clear the minimum extraction threshold.</w:t></w:r></w:p>` +
			docxFooter,
		"docProps/app.xml": `<?xml version="1.0"?>` +
			`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
			`<Pages>2</Pages><Words>58</Words></Properties>`,
		"docProps/core.xml": `<?xml version="1.0"?>` +
			`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
			`xmlns:dc="http://purl.org/dc/elements/1.1/">` +
			`<dc:creator>K. Accardi</dc:creator><dc:title>Attorney Notes</dc:title></cp:coreProperties>`,
	})

	_, meta, err := NewDOCXDecoder().Decode(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, meta["page_count"])
	assert.Equal(t, 58, meta["word_count"])
	assert.Equal(t, "K. Accardi", meta["author"])
	assert.Equal(t, "Attorney Notes", meta["title"])
}

func TestDOCXDecoder_MissingDocumentXML(t *testing.T) {
	t.Parallel()

	path := buildDocx(t, map[string]string{"other.xml": "<x/>"})

	_, _, err := NewDOCXDecoder().Decode(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDecodeFailed))
}

func TestDOCXDecoder_NotAZip(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "fake.docx", "this is not a zip archive at all")

	_, _, err := NewDOCXDecoder().Decode(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsDecodeError(err))
}
