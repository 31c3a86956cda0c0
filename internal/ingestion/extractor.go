package ingestion

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Format is the document format inferred from the filename or content
type Format string

// Supported formats
const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatDOC     Format = "doc"
	FormatHTML    Format = "html"
	FormatText    Format = "text"
	FormatUnknown Format = "unknown"
)

// Fidelity describes how trustworthy the extracted text is
type Fidelity string

// Fidelity levels
const (
	FidelityFull     Fidelity = "full"
	FidelityDegraded Fidelity = "degraded"
	FidelityNone     Fidelity = "none"
)

// SentinelText is returned in place of text when nothing readable was found.
const SentinelText = "[text extraction unavailable: document content could not be read]"

const (
	// MinExtractedTextLength is the shortest library output accepted before falling back to heuristics
	MinExtractedTextLength = 20
	// BinarySampleSize is the number of bytes to sample for binary detection
	BinarySampleSize = 1000
	// BinaryThreshold is the proportion of non-printable characters that indicates binary data
	BinaryThreshold = 0.3
	// minPrintableRun is the shortest printable byte run kept by the raw fallback
	minPrintableRun = 4
)

// Extraction is the result of ExtractText
type Extraction struct {
	Text     string   `json:"text"`
	Format   Format   `json:"format"`
	Fidelity Fidelity `json:"fidelity"`
	Warnings []string `json:"warnings,omitempty"`
}

// Readable reports whether any real text was extracted
func (e Extraction) Readable() bool {
	return e.Fidelity != FidelityNone && e.Text != "" && e.Text != SentinelText
}

// ExtractText converts a raw CV buffer into best-effort UTF-8 text. It never fails:
// unreadable input degrades to SentinelText with a warning.
func ExtractText(data []byte, filename string) Extraction {
	format := DetectFormat(data, filename)
	result := Extraction{Format: format}

	if len(bytes.TrimSpace(data)) == 0 {
		return sentinel(result, "empty document")
	}

	var text string
	switch format {
	case FormatPDF:
		text, result.Fidelity, result.Warnings = extractPDF(data)
	case FormatDOCX:
		text, result.Fidelity, result.Warnings = extractDOCX(data)
	case FormatDOC:
		text = printableRuns(data, minPrintableRun)
		result.Fidelity = FidelityDegraded
		result.Warnings = append(result.Warnings, "legacy .doc read as raw printable text")
	case FormatHTML:
		text, result.Fidelity, result.Warnings = extractHTML(data)
	case FormatText:
		text = decodePlainText(data)
		result.Fidelity = FidelityFull
	default:
		if IsBinaryData(data) {
			text = printableRuns(data, minPrintableRun)
			result.Fidelity = FidelityDegraded
			result.Warnings = append(result.Warnings, "unrecognized binary format read as raw printable text")
		} else {
			text = decodePlainText(data)
			result.Fidelity = FidelityFull
		}
	}

	result.Text = CleanText(text)
	if result.Text == "" {
		return sentinel(result, "no readable text found")
	}
	return result
}

func sentinel(result Extraction, warning string) Extraction {
	result.Text = SentinelText
	result.Fidelity = FidelityNone
	result.Warnings = append(result.Warnings, warning)
	return result
}

// DetectFormat infers the format from the filename extension, falling back to magic bytes
func DetectFormat(data []byte, filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".doc":
		return FormatDOC
	case ".html", ".htm":
		return FormatHTML
	case ".txt", ".text", ".md":
		return FormatText
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return FormatPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return FormatDOCX
	case bytes.HasPrefix(data, []byte{0xD0, 0xCF, 0x11, 0xE0}):
		return FormatDOC
	case looksLikeHTML(data):
		return FormatHTML
	}
	return FormatUnknown
}

// IsBinaryData checks if content appears to be binary (PDF/ZIP markers or control bytes)
func IsBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.HasPrefix(data, []byte("%PDF-")) || bytes.HasPrefix(data, []byte("PK")) {
		return true
	}

	sampleSize := min(BinarySampleSize, len(data))
	nonPrintable := 0
	for i := 0; i < sampleSize; i++ {
		ch := data[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(sampleSize) > BinaryThreshold
}

// decodePlainText decodes UTF-8, falling back to Windows-1252 for legacy exports
func decodePlainText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(decoded)
}
