package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/career-matcher/internal/types"
)

var (
	positionRe = regexp.MustCompile(`(?i)\b(?:developer|engineer|manager|director|analyst|consultant|designer|intern|assistant|coordinator|officer|specialist|administrator|architect|lead|head|supervisor|technician|accountant|teacher|lecturer|programmer|scientist|researcher|associate|executive|representative|agent|cashier|nurse|founder|co-founder|ceo|cto|cfo)s?\b`)
	// titleSepRe splits "Position at Company" or "Company - Position"
	titleSepRe = regexp.MustCompile(`(?i)\s+(?:at|@)\s+|\s+[-–—|]\s+|,\s+`)
)

const (
	maxHeadLength       = 100
	maxKeywordHeadWords = 8
	maxDescriptionLines = 3
)

// experienceParser carries the options of one experience scan
type experienceParser struct {
	maxYear int
	// strict requires both a date and a position keyword, and no education keyword.
	// The whole-document fallback uses it.
	strict bool
}

// isHead reports whether a line opens a work-experience entry
func (p experienceParser) isHead(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || isBullet(line) || len(line) > maxHeadLength {
		return false
	}
	dated := hasDate(line, p.maxYear)
	titled := positionRe.MatchString(line) && len(strings.Fields(line)) <= maxKeywordHeadWords
	if p.strict {
		return dated && positionRe.MatchString(line) && !isEducationLine(line)
	}
	return dated || titled
}

// parse walks the lines and emits one entry per head line. Dates may sit on the
// head line or on the line right after it; a date-only head takes its title from
// the following line. Up to three following lines that are not date-shaped form
// the description.
func (p experienceParser) parse(lines []string) []types.WorkExperience {
	entries := []types.WorkExperience{}
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !p.isHead(line) {
			continue
		}

		dates := findDates(line, p.maxYear)
		title := stripDates(line)
		next := i + 1

		if len(dates) == 0 && next < len(lines) && isDateShaped(lines[next], p.maxYear) {
			dates = findDates(lines[next], p.maxYear)
			next++
		}
		if title == "" && next < len(lines) {
			candidate := strings.TrimSpace(lines[next])
			if candidate != "" && !isBullet(candidate) && !p.isHead(candidate) {
				title = trimPart(candidate)
				next++
			}
		}

		var entry types.WorkExperience
		entry.Position, entry.Company = splitTitle(title)
		applyDates(&entry, dates)

		var desc []string
		for next < len(lines) && len(desc) < maxDescriptionLines {
			candidate := strings.TrimSpace(lines[next])
			if p.isHead(candidate) || (p.strict && isEducationLine(candidate)) {
				break
			}
			if candidate != "" && !isDateShaped(candidate, p.maxYear) {
				desc = append(desc, stripBullet(candidate))
			}
			next++
		}
		entry.Description = strings.Join(desc, " ")
		i = next - 1

		if entry.Position == "" && entry.Company == "" && entry.StartDate == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func isEducationLine(line string) bool {
	return degreeRe.MatchString(line) || institutionRe.MatchString(line)
}

// splitTitle splits on the first " at ", " - ", " | " or ", ". The side carrying a
// position keyword is the position; otherwise the left side is.
func splitTitle(title string) (position, company string) {
	title = trimPart(title)
	if title == "" {
		return "", ""
	}
	loc := titleSepRe.FindStringIndex(title)
	if loc == nil {
		if positionRe.MatchString(title) {
			return title, ""
		}
		return "", title
	}

	left, right := trimPart(title[:loc[0]]), trimPart(title[loc[1]:])
	if positionRe.MatchString(right) && !positionRe.MatchString(left) {
		return right, left
	}
	return left, right
}

// applyDates sets start/end from the ordered tokens. An open-ended marker sets Current.
func applyDates(entry *types.WorkExperience, dates []dateToken) {
	for _, tok := range dates {
		switch {
		case tok.Open:
			entry.Current = true
			entry.EndDate = ""
			return
		case entry.StartDate == "":
			entry.StartDate = tok.Value
		case entry.EndDate == "":
			entry.EndDate = tok.Value
			return
		}
	}
}
