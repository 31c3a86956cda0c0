package ingestion

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxStreamSize bounds how much a single inflated PDF stream may expand to
const maxStreamSize = 8 << 20

var (
	pdfStreamRe  = regexp.MustCompile(`(?s)stream\r?\n(.*?)\r?\n?endstream`)
	pdfLiteralRe = regexp.MustCompile(`\((?:\\.|[^\\)])*\)`)
	pdfEscapes   = strings.NewReplacer(`\n`, " ", `\r`, " ", `\t`, " ", `\(`, "(", `\)`, ")", `\\`, `\`)
)

// extractPDF reads text with the pdf library, falling back to the stream heuristic
func extractPDF(data []byte) (string, Fidelity, []string) {
	text, err := readPDFText(data)
	if err == nil && len(strings.TrimSpace(text)) >= MinExtractedTextLength {
		return text, FidelityFull, nil
	}

	warnings := []string{}
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("pdf reader failed: %v", err))
	} else {
		warnings = append(warnings, "pdf reader returned almost no text")
	}
	warnings = append(warnings, "pdf text approximated from content streams")
	return extractPDFStreams(data), FidelityDegraded, warnings
}

// readPDFText uses ledongthuc/pdf. The library panics on some malformed files,
// so the panic is turned into an error.
func readPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(plain, maxStreamSize)); err != nil {
		return "", fmt.Errorf("failed to copy pdf text: %w", err)
	}
	return buf.String(), nil
}

// extractPDFStreams approximates PDF text from the content between stream and
// endstream markers. Flate-compressed streams are inflated when possible. Text
// show operands (literal strings) are preferred; otherwise printable bytes are kept.
// This is lossy by nature: only keywords, dates and emails matter downstream.
func extractPDFStreams(data []byte) string {
	var out strings.Builder
	for _, m := range pdfStreamRe.FindAllSubmatch(data, -1) {
		content := inflate(m[1])
		if text := pdfLiterals(content); text != "" {
			out.WriteString(text)
			out.WriteByte('\n')
			continue
		}
		out.WriteString(printableRuns(content, minPrintableRun))
	}
	return out.String()
}

// inflate returns the zlib-decoded stream, or the raw bytes when it is not compressed
func inflate(raw []byte) []byte {
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return raw
	}
	defer func() { _ = zr.Close() }()
	decoded, err := io.ReadAll(io.LimitReader(zr, maxStreamSize))
	if err != nil && len(decoded) == 0 {
		return raw
	}
	return decoded
}

// pdfLiterals collects literal string operands line by line, one output line per
// content line that carried text
func pdfLiterals(content []byte) string {
	var lines []string
	for _, line := range bytes.Split(content, []byte("\n")) {
		matches := pdfLiteralRe.FindAll(line, -1)
		if len(matches) == 0 {
			continue
		}
		var sb strings.Builder
		for _, lit := range matches {
			sb.WriteString(pdfEscapes.Replace(string(lit[1 : len(lit)-1])))
		}
		if s := collapseWhitespace(sb.String()); hasLetters(s) || strings.ContainsAny(s, "@0123456789") {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
