package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/career-matcher/internal/types"
)

var (
	degreeRe      = regexp.MustCompile(`(?i)\b(?:bachelor'?s?|master'?s?|ph\.?\s?d|doctorate|diploma|certificate|b\.?sc|m\.?sc|b\.?eng|m\.?eng|b\.?tech|m\.?tech|mba|high school|a-level|advanced level)\b`)
	institutionRe = regexp.MustCompile(`(?i)\b(?:university|college|institute|school|academy|polytechnic|université|universidad)\b`)
	// entrySplitRe separates the fragments of an education line
	entrySplitRe = regexp.MustCompile(`[,;|]|\s+at\s+`)
	fieldInRe    = regexp.MustCompile(`(?i)\s+in\s+([^,;|()]+)`)
	fieldOfRe    = regexp.MustCompile(`(?i)\bof\s+([^,;|()]+)`)
)

// parseEducation groups section lines into entries and extracts each one. A blank
// line, or a second degree or institution mention, starts a new entry. With
// keywordOnly set, lines without a degree or institution keyword are skipped; the
// whole-document fallback uses it to avoid treating stray years as education.
func parseEducation(lines []string, maxYear int, keywordOnly bool) []types.Education {
	entries := []types.Education{}
	var block []string
	var blockDegree, blockInstitution bool

	flush := func() {
		if len(block) > 0 {
			if edu, ok := parseEducationEntry(block, maxYear); ok {
				entries = append(entries, edu)
			}
		}
		block, blockDegree, blockInstitution = nil, false, false
	}

	for _, line := range lines {
		line = stripBullet(line)
		if line == "" {
			flush()
			continue
		}
		deg, inst := degreeRe.MatchString(line), institutionRe.MatchString(line)
		if keywordOnly && !deg && !inst {
			flush()
			continue
		}
		if (deg && blockDegree) || (inst && blockInstitution) {
			flush()
		}
		block = append(block, line)
		blockDegree = blockDegree || deg
		blockInstitution = blockInstitution || inst
	}
	flush()
	return entries
}

// parseEducationEntry extracts degree, field, institution and graduation year.
// The entry counts only if a degree, an institution or a year was found.
func parseEducationEntry(block []string, maxYear int) (types.Education, bool) {
	var edu types.Education
	for _, line := range block {
		for _, part := range entrySplitRe.Split(line, -1) {
			part = trimPart(part)
			if part == "" {
				continue
			}
			switch {
			case edu.Degree == "" && degreeRe.MatchString(part):
				edu.Degree, edu.Field = splitDegree(part)
			case edu.Institution == "" && institutionRe.MatchString(part):
				edu.Institution = trimPart(collapseSpaces(yearTokenRe.ReplaceAllString(part, "")))
			}
		}
		for _, year := range yearsIn(line, maxYear) {
			if year > edu.GraduationYear {
				edu.GraduationYear = year
			}
		}
	}
	return edu, edu.Degree != "" || edu.Institution != "" || edu.GraduationYear != 0
}

// splitDegree separates the field of study from a degree fragment. "in <Field>" is
// preferred and removed from the degree; "of <Field>" is kept in the degree name.
func splitDegree(part string) (degree, field string) {
	part = trimPart(collapseSpaces(yearTokenRe.ReplaceAllString(part, "")))
	if loc := fieldInRe.FindStringSubmatchIndex(part); loc != nil {
		return trimPart(part[:loc[0]]), trimPart(part[loc[2]:loc[3]])
	}
	if m := fieldOfRe.FindStringSubmatch(part); m != nil {
		return part, trimPart(m[1])
	}
	return part, ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripBullet removes a leading list marker
func stripBullet(line string) string {
	line = strings.TrimSpace(line)
	for _, marker := range []string{"- ", "* ", "• ", "· ", "– "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):])
		}
	}
	return line
}

func isBullet(line string) bool {
	return stripBullet(line) != strings.TrimSpace(line)
}
