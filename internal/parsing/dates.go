package parsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const minYear = 1950

const monthPattern = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

// dateTokenRe alternatives, by submatch group:
// 1,2 month name + year; 3,4 MM/YYYY; 5,6 YYYY-MM; 7 bare year; 8 open-ended marker
var dateTokenRe = regexp.MustCompile(`(?i)\b(?:(` + monthPattern + `)\.?\s*,?\s*((?:19|20)\d{2})` +
	`|(0?[1-9]|1[0-2])\s*[/.]\s*((?:19|20)\d{2})` +
	`|((?:19|20)\d{2})[/.-](0[1-9]|1[0-2])` +
	`|((?:19|20)\d{2})` +
	`|(present|current|now|to date|ongoing))\b`)

var dateFillerRe = regexp.MustCompile(`(?i)\b(?:to|until|till|since|from)\b|[-–—/,|().:\s]`)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// dateToken is one date mention in a line. Open marks "present"/"current".
type dateToken struct {
	Value string
	Open  bool
}

// findDates returns the date tokens of a line in order. Years outside
// [1950, maxYear] are ignored.
func findDates(line string, maxYear int) []dateToken {
	var tokens []dateToken
	for _, m := range dateTokenRe.FindAllStringSubmatch(line, -1) {
		switch {
		case m[1] != "":
			if v, ok := formatDate(m[2], monthNumbers[strings.ToLower(m[1])[:3]], maxYear); ok {
				tokens = append(tokens, dateToken{Value: v})
			}
		case m[3] != "":
			month, _ := strconv.Atoi(m[3])
			if v, ok := formatDate(m[4], month, maxYear); ok {
				tokens = append(tokens, dateToken{Value: v})
			}
		case m[5] != "":
			month, _ := strconv.Atoi(m[6])
			if v, ok := formatDate(m[5], month, maxYear); ok {
				tokens = append(tokens, dateToken{Value: v})
			}
		case m[7] != "":
			if v, ok := formatDate(m[7], 1, maxYear); ok {
				tokens = append(tokens, dateToken{Value: v})
			}
		case m[8] != "":
			tokens = append(tokens, dateToken{Open: true})
		}
	}
	return tokens
}

// formatDate renders "YYYY-MM"; bare years are pinned to January
func formatDate(yearText string, month, maxYear int) (string, bool) {
	year, err := strconv.Atoi(yearText)
	if err != nil || year < minYear || year > maxYear || month < 1 || month > 12 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d", year, month), true
}

// hasDate reports whether the line carries at least one usable date token
func hasDate(line string, maxYear int) bool {
	for _, tok := range findDates(line, maxYear) {
		if !tok.Open {
			return true
		}
	}
	return false
}

// stripDates removes date tokens and the connectors between them
func stripDates(line string) string {
	stripped := dateTokenRe.ReplaceAllString(line, " ")
	stripped = strings.Join(strings.Fields(stripped), " ")
	return trimPart(stripped)
}

// isDateShaped reports whether the line is only dates and connectors,
// such as "Jan 2020 - Present" or "(2018 – 2021)"
func isDateShaped(line string, maxYear int) bool {
	if len(findDates(line, maxYear)) == 0 {
		return false
	}
	rest := dateTokenRe.ReplaceAllString(line, " ")
	return strings.TrimSpace(dateFillerRe.ReplaceAllString(rest, "")) == ""
}

// yearsIn returns the valid four-digit years of a line
func yearsIn(line string, maxYear int) []int {
	var years []int
	for _, y := range yearTokenRe.FindAllString(line, -1) {
		year, err := strconv.Atoi(y)
		if err == nil && year >= minYear && year <= maxYear {
			years = append(years, year)
		}
	}
	return years
}

// trimPart trims whitespace and the punctuation left around split fragments
func trimPart(s string) string {
	return strings.Trim(strings.TrimSpace(s), " \t,;|:-–—()[]")
}
