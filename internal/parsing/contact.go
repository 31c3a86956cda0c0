package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe     = regexp.MustCompile(`\+?\(?\d[\d \t().\-]{6,}\d`)
	yearTokenRe = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	longDigitRe = regexp.MustCompile(`\d{5,}`)
	nameLabelRe = regexp.MustCompile(`(?i)^(?:full\s+)?name\s*:\s*`)
	urlRe       = regexp.MustCompile(`(?i)https?://|www\.|linkedin|github\.com`)
)

// nameSkipLines are document titles that sit where a name usually is
var nameSkipLines = map[string]bool{
	"curriculum vitae": true,
	"resume":           true,
	"résumé":           true,
	"cv":               true,
}

const (
	maxNameLength   = 60
	maxNameLineScan = 5
	minPhoneDigits  = 9
	maxPhoneDigits  = 15
	maxNameDigits   = 4
)

// findEmail returns the first email-shaped token
func findEmail(text string) string {
	return emailRe.FindString(text)
}

// findPhone returns the first phone-shaped token with 9 to 15 digits. Unprefixed
// candidates that carry two year-like numbers are date ranges, not phones.
func findPhone(text string) string {
	for _, candidate := range phoneRe.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		digits := countDigits(candidate)
		if digits < minPhoneDigits || digits > maxPhoneDigits {
			continue
		}
		if !strings.HasPrefix(candidate, "+") && len(yearTokenRe.FindAllString(candidate, -1)) >= 2 {
			continue
		}
		return candidate
	}
	return ""
}

// findName takes the first non-empty line among the first few that has no "@",
// no long digit run and is not a section header or a document title.
func findName(lines []string) string {
	scanned := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		scanned++
		if scanned > maxNameLineScan {
			break
		}

		line = strings.TrimSpace(nameLabelRe.ReplaceAllString(line, ""))
		switch {
		case line == "",
			strings.Contains(line, "@"),
			longDigitRe.MatchString(line),
			countDigits(line) > maxNameDigits,
			len(line) > maxNameLength,
			urlRe.MatchString(line),
			nameSkipLines[strings.ToLower(line)]:
			continue
		}
		if _, _, isHeader := ClassifyHeader(line); isHeader {
			continue
		}
		return line
	}
	return ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
