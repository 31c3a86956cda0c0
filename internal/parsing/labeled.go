package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-matcher/internal/types"
)

var (
	listSplitRe       = regexp.MustCompile(`[,;]|\s+and\s+`)
	issuerSepRe       = regexp.MustCompile(`(?i)\s+(?:-|–|—|by|from)\s+|\s*\(`)
	proficiencyWordRe = regexp.MustCompile(`(?i)\b(?:native|mother tongue|fluent|fluency|bilingual|first language|advanced|proficient|professional working|beginner|basic|elementary|intermediate|conversational|working knowledge|[abc][12])\b`)
	languageNameRe    = regexp.MustCompile(`^[\pL][\pL\s'-]{1,30}$`)

	nativeRe   = regexp.MustCompile(`(?i)\b(?:native|mother tongue|fluent|bilingual|first language)\b`)
	advancedRe = regexp.MustCompile(`(?i)\b(?:advanced|proficient|professional working|c[12])\b`)
	beginnerRe = regexp.MustCompile(`(?i)\b(?:beginner|basic|elementary|a[12])\b`)
)

const (
	maxCertificationLength = 120
	maxLanguageWords       = 3
	minSummaryLength       = 50
	maxSummaryLength       = 500
)

// InferProficiency maps a trailing proficiency keyword: native/fluent → native,
// advanced → advanced, beginner → beginner, anything else → intermediate.
func InferProficiency(text string) types.Proficiency {
	switch {
	case nativeRe.MatchString(text):
		return types.ProficiencyNative
	case advancedRe.MatchString(text):
		return types.ProficiencyAdvanced
	case beginnerRe.MatchString(text):
		return types.ProficiencyBeginner
	default:
		return types.ProficiencyIntermediate
	}
}

// listItems splits a labeled block on newlines, commas and semicolons
func listItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		line = stripBullet(line)
		for _, item := range listSplitRe.Split(line, -1) {
			if item = trimPart(item); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// parseCertifications reads a "Certifications" block. "Name - Issuer",
// "Name by Issuer" and "Name (Issuer)" shapes carry an issuer.
func parseCertifications(lines []string) []types.Certification {
	certs := []types.Certification{}
	seen := make(map[string]bool)
	for _, line := range lines {
		line = stripBullet(line)
		for _, item := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ';' }) {
			item = trimPart(collapseSpaces(yearTokenRe.ReplaceAllString(item, "")))
			if item == "" || len(item) > maxCertificationLength {
				continue
			}
			cert := types.Certification{Name: item}
			if loc := issuerSepRe.FindStringIndex(item); loc != nil && loc[0] > 0 {
				cert.Name = trimPart(item[:loc[0]])
				cert.Issuer = trimPart(item[loc[1]:])
			}
			key := strings.ToLower(cert.Name)
			if cert.Name == "" || seen[key] {
				continue
			}
			seen[key] = true
			certs = append(certs, cert)
		}
	}
	return certs
}

// parseLanguages reads a "Languages" block such as
// "English (Native), French - fluent, Swahili".
func parseLanguages(lines []string) []types.Language {
	langs := []types.Language{}
	seen := make(map[string]bool)
	for _, item := range listItems(lines) {
		proficiency := InferProficiency(item)

		name := item
		if idx := strings.IndexAny(name, "(:-–"); idx > 0 {
			name = name[:idx]
		}
		name = trimPart(collapseSpaces(proficiencyWordRe.ReplaceAllString(name, "")))
		if !languageNameRe.MatchString(name) || len(strings.Fields(name)) > maxLanguageWords {
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		langs = append(langs, types.Language{Language: TitleCase(name), Proficiency: proficiency})
	}
	return langs
}

// parseSummary returns the first text run of at least 50 characters, cut to 500
// on a word boundary. Runs are separated by blank lines.
func parseSummary(lines []string) string {
	var run []string
	flush := func() string {
		text := collapseSpaces(strings.Join(run, " "))
		run = nil
		if len(text) < minSummaryLength {
			return ""
		}
		if len(text) > maxSummaryLength {
			cut := strings.LastIndex(text[:maxSummaryLength], " ")
			if cut < minSummaryLength {
				for cut = maxSummaryLength; !utf8.RuneStart(text[cut]); cut-- {
				}
			}
			text = strings.TrimSpace(text[:cut])
		}
		return text
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if s := flush(); s != "" {
				return s
			}
			continue
		}
		run = append(run, strings.TrimSpace(line))
	}
	return flush()
}
