package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	docxParagraphEndRe = regexp.MustCompile(`</w:p>|<w:br\s*/>`)
	docxTabRe          = regexp.MustCompile(`<w:tab\s*/>`)
	docxTextRunRe      = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)
)

// extractDOCX reads document.xml through the docx library and keeps the text runs.
// When the archive cannot be opened, the raw bytes are scanned instead.
func extractDOCX(data []byte) (string, Fidelity, []string) {
	xml, err := readDocxXML(data)
	if err == nil {
		if text := docxTextRuns(xml); len(strings.TrimSpace(text)) > 0 {
			return text, FidelityFull, nil
		}
	}

	warnings := []string{}
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("docx reader failed: %v", err))
	}

	// Uncompressed or partially readable archives may still expose text runs.
	if text := docxTextRuns(string(data)); strings.TrimSpace(text) != "" {
		return text, FidelityDegraded, append(warnings, "docx text taken from raw text-run markers")
	}
	return printableRuns(data, minPrintableRun), FidelityDegraded,
		append(warnings, "docx read as raw printable text")
}

func readDocxXML(data []byte) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("docx reader panic: %v", r)
		}
	}()

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return doc.Editable().GetContent(), nil
}

// docxTextRuns turns WordprocessingML into text: one line per paragraph
func docxTextRuns(xml string) string {
	xml = strings.NewReplacer("\r", "", "\n", "").Replace(xml)
	xml = docxTabRe.ReplaceAllString(xml, "<w:t> </w:t>")
	xml = docxParagraphEndRe.ReplaceAllString(xml, "$0\n")
	var out strings.Builder
	for _, para := range strings.Split(xml, "\n") {
		runs := docxTextRunRe.FindAllStringSubmatch(para, -1)
		if len(runs) == 0 {
			continue
		}
		for _, run := range runs {
			out.WriteString(html.UnescapeString(run[1]))
		}
		out.WriteByte('\n')
	}
	return out.String()
}
