// Package ingestion converts raw CV documents into best-effort plain text.
package ingestion

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	multiSpaceRe   = regexp.MustCompile(`[ \t\f\v]+`)
	blankLinesRe   = regexp.MustCompile(`\n\n\n+`)
	bulletGlyphsRe = regexp.MustCompile(`^[•·▪◦●■►‣∙]\s*`)
)

// CleanText cleans and normalizes extracted text while preserving line structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Drop control and zero-width characters, map NBSP to space
	content = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\u00a0':
			return ' '
		case r == '\u200b' || r == '\u200c' || r == '\u200d' || r == '\ufeff':
			return -1
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, content)

	// 3. Process each line
	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	// 4. Join lines and remove excessive blank lines (max 1 empty line)
	result := strings.Join(cleanedLines, "\n")
	result = blankLinesRe.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine trims a line, collapses inner whitespace and normalizes bullet glyphs to "- "
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	if bulletGlyphsRe.MatchString(trimmed) {
		trimmed = "- " + bulletGlyphsRe.ReplaceAllString(trimmed, "")
	}
	return multiSpaceRe.ReplaceAllString(trimmed, " ")
}

// collapseWhitespace folds every whitespace run (newlines included) into one space
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// printableRuns returns the runs of at least minRun printable ASCII bytes,
// one run per line. It is the last-resort reader for binary formats.
func printableRuns(data []byte, minRun int) string {
	var out strings.Builder
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minRun {
			run := strings.TrimSpace(string(data[start:end]))
			if hasLetters(run) {
				out.WriteString(run)
				out.WriteByte('\n')
			}
		}
		start = -1
	}
	for i, b := range data {
		if b >= 0x20 && b < 0x7f || b == '\t' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(data))
	return out.String()
}

// hasLetters reports whether s contains at least three letters
func hasLetters(s string) bool {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
			if n >= 3 {
				return true
			}
		}
	}
	return false
}
