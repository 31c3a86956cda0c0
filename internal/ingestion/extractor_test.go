package ingestion

import (
	"archive/zip"
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_EmptyBuffer(t *testing.T) {
	for _, name := range []string{"resume.pdf", "resume.docx", "resume.txt", "resume"} {
		t.Run(name, func(t *testing.T) {
			result := ExtractText(nil, name)

			assert.Equal(t, SentinelText, result.Text)
			assert.Equal(t, FidelityNone, result.Fidelity)
			assert.False(t, result.Readable())
			assert.NotEmpty(t, result.Warnings)
		})
	}
}

func TestExtractText_PlainText(t *testing.T) {
	result := ExtractText([]byte("John Doe\r\njohn@x.com\r\n\r\n\r\nSkills:   Go"), "cv.txt")

	assert.Equal(t, FormatText, result.Format)
	assert.Equal(t, FidelityFull, result.Fidelity)
	assert.Equal(t, "John Doe\njohn@x.com\n\nSkills: Go", result.Text)
	assert.True(t, result.Readable())
}

func TestExtractText_Windows1252Fallback(t *testing.T) {
	// "Café" encoded as Windows-1252 is not valid UTF-8
	result := ExtractText([]byte("Caf\xe9 Manager"), "cv.txt")

	assert.Equal(t, "Café Manager", result.Text)
}

func TestExtractText_StripsUTF8BOM(t *testing.T) {
	result := ExtractText([]byte("\xef\xbb\xbfJane Roe"), "cv.txt")
	assert.Equal(t, "Jane Roe", result.Text)
}

func TestExtractText_UnknownTextIsDecoded(t *testing.T) {
	result := ExtractText([]byte("Jane Roe\njane@example.com"), "upload")

	assert.Equal(t, FormatUnknown, result.Format)
	assert.Equal(t, FidelityFull, result.Fidelity)
	assert.Contains(t, result.Text, "jane@example.com")
}

func TestExtractText_UnreadableBinary(t *testing.T) {
	data := bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03}, 200)
	result := ExtractText(data, "blob.bin")

	assert.Equal(t, SentinelText, result.Text)
	assert.Equal(t, FidelityNone, result.Fidelity)
}

func TestExtractText_PDFStreamFallback(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Length 60 >>\nstream\nBT /F1 12 Tf (John Doe) Tj ET\nBT (john@x.com) Tj ET\nendstream\nendobj\n%%EOF")
	result := ExtractText(pdf, "resume.pdf")

	assert.Equal(t, FormatPDF, result.Format)
	assert.Equal(t, FidelityDegraded, result.Fidelity)
	assert.Contains(t, result.Text, "John Doe")
	assert.Contains(t, result.Text, "john@x.com")
	assert.NotEmpty(t, result.Warnings)
}

func TestExtractText_PDFCompressedStream(t *testing.T) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write([]byte("BT (Senior Developer at Acme) Tj ET\nBT (2019 \\(remote\\)) Tj ET"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var pdf bytes.Buffer
	pdf.WriteString("%PDF-1.5\n2 0 obj\n<< /Filter /FlateDecode >>\nstream\n")
	pdf.Write(compressed.Bytes())
	pdf.WriteString("\nendstream\nendobj\n")

	result := ExtractText(pdf.Bytes(), "resume.pdf")

	assert.Contains(t, result.Text, "Senior Developer at Acme")
	assert.Contains(t, result.Text, "2019 (remote)")
}

func TestExtractText_DOCX(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0" encoding="UTF-8"?>`+
		`<w:document><w:body>`+
		`<w:p><w:r><w:t>Jane Roe</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t xml:space="preserve">Skills: Go, </w:t></w:r><w:r><w:t>R&amp;D</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	result := ExtractText(data, "resume.docx")

	assert.Equal(t, FormatDOCX, result.Format)
	assert.Equal(t, FidelityFull, result.Fidelity)
	assert.Equal(t, "Jane Roe\nSkills: Go, R&D", result.Text)
}

func TestExtractText_BrokenDOCXDegrades(t *testing.T) {
	data := []byte("PK\x03\x04garbage<w:p><w:r><w:t>Jane Roe</w:t></w:r></w:p>")
	result := ExtractText(data, "resume.docx")

	assert.Equal(t, FidelityDegraded, result.Fidelity)
	assert.Equal(t, "Jane Roe", result.Text)
	assert.NotEmpty(t, result.Warnings)
}

func TestExtractText_HTML(t *testing.T) {
	page := `<!doctype html>
<html><head><title>CV</title><style>body { color: red }</style></head>
<body>
  <h1>Jane Roe</h1>
  <p>jane@example.com</p>
  <script>track()</script>
  <ul><li>Go</li><li>SQL</li></ul>
</body></html>`
	result := ExtractText([]byte(page), "cv.html")

	assert.Equal(t, FormatHTML, result.Format)
	assert.Equal(t, FidelityFull, result.Fidelity)
	assert.Contains(t, result.Text, "Jane Roe\n")
	assert.Contains(t, result.Text, "jane@example.com")
	assert.Contains(t, result.Text, "Go\nSQL")
	assert.NotContains(t, result.Text, "track()")
	assert.NotContains(t, result.Text, "color")
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		want     Format
	}{
		{"pdf by extension", nil, "CV.PDF", FormatPDF},
		{"docx by extension", nil, "cv.docx", FormatDOCX},
		{"doc by extension", nil, "cv.doc", FormatDOC},
		{"text by extension", nil, "cv.md", FormatText},
		{"pdf by magic", []byte("%PDF-1.7"), "upload", FormatPDF},
		{"zip by magic", []byte("PK\x03\x04rest"), "upload", FormatDOCX},
		{"ole by magic", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1}, "upload", FormatDOC},
		{"html by extension", nil, "cv.htm", FormatHTML},
		{"html by doctype", []byte("  <!DOCTYPE html><html></html>"), "upload", FormatHTML},
		{"unknown", []byte("hello"), "upload", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.data, tt.filename))
		})
	}
}

func TestIsBinaryData(t *testing.T) {
	assert.False(t, IsBinaryData(nil))
	assert.False(t, IsBinaryData([]byte("plain text\nwith lines")))
	assert.True(t, IsBinaryData([]byte("%PDF-1.4")))
	assert.True(t, IsBinaryData(bytes.Repeat([]byte{0x01}, 10)))
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships></Relationships>`,
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types></Types>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
