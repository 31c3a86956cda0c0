package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// htmlBlockElements end a line in the extracted text
	htmlBlockElements = map[string]bool{
		"p": true, "div": true, "br": true, "li": true, "tr": true, "section": true,
		"article": true, "header": true, "footer": true, "dt": true, "dd": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	}
	// htmlSkippedElements never contribute text
	htmlSkippedElements = map[string]bool{
		"script": true, "style": true, "noscript": true, "template": true, "svg": true, "head": true,
	}
)

// extractHTML keeps the visible body text of an HTML CV, one block per line.
// Markup that does not parse is read as plain text.
func extractHTML(data []byte) (string, Fidelity, []string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return decodePlainText(data), FidelityDegraded,
			[]string{fmt.Sprintf("html reader failed: %v", err), "html read as plain text"}
	}

	var out strings.Builder
	writeHTMLText(doc.Selection, &out)
	return out.String(), FidelityFull, nil
}

func writeHTMLText(sel *goquery.Selection, out *strings.Builder) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == "#text":
			out.WriteString(child.Text())
		case name == "#comment" || htmlSkippedElements[name]:
		default:
			writeHTMLText(child, out)
			if htmlBlockElements[name] {
				out.WriteByte('\n')
			}
		}
	})
}

// looksLikeHTML sniffs the leading bytes for an HTML document
func looksLikeHTML(data []byte) bool {
	head := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	head = bytes.TrimSpace(head[:min(len(head), 512)])
	lower := strings.ToLower(string(head))
	return strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html")
}
