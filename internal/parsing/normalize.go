package parsing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// skillAliases maps common skill name variants to a canonical key
var skillAliases = map[string]string{
	"golang":           "go",
	"go lang":          "go",
	"js":               "javascript",
	"ts":               "typescript",
	"k8s":              "kubernetes",
	"react.js":         "react",
	"reactjs":          "react",
	"vue.js":           "vue",
	"vuejs":            "vue",
	"nodejs":           "node.js",
	"node":             "node.js",
	"postgres":         "postgresql",
	"mongo":            "mongodb",
	"py":               "python",
	"cpp":              "c++",
	"c sharp":          "c#",
	"ml":               "machine learning",
	"ai":               "artificial intelligence",
	"ms excel":         "excel",
	"microsoft excel":  "excel",
	"team work":        "teamwork",
	"team player":      "teamwork",
	"problem-solving":  "problem solving",
	"pm":               "project management",
	"customer support": "customer service",
}

// pluralExceptions are words ending in "s" that are not plurals
var pluralExceptions = map[string]bool{
	"kubernetes": true,
	"devops":     true,
	"sales":      true,
	"pandas":     true,
	"redis":      true,
	"windows":    true,
	"express":    true,
	"jenkins":    true,
	"rails":      true,
	"ios":        true,
	"aws":        true,
	"news":       true,
}

// NormalizeSkillName folds a skill name to the key used for comparisons: lowercased,
// punctuation stripped, aliases resolved and a trailing plural folded to the singular.
func NormalizeSkillName(skillName string) string {
	normalized := strings.ToLower(strings.TrimSpace(skillName))
	if normalized == "" {
		return ""
	}
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}

	normalized = CleanSkillName(normalized)
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}

	normalized = foldPlural(normalized)
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// CleanSkillName lowercases a skill name, strips punctuation other than "+", "#"
// and inner dots, and folds separators to single spaces. Aliases are not resolved.
func CleanSkillName(skillName string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '+', r == '#', r == '.':
			return r
		case unicode.IsSpace(r), r == '-', r == '_', r == '/':
			return ' '
		}
		return -1
	}, strings.ToLower(skillName))
	return strings.Trim(strings.Join(strings.Fields(cleaned), " "), ".")
}

// foldPlural singularizes the last word of a normalized name
func foldPlural(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	last := words[len(words)-1]
	switch {
	case len(last) <= 3, pluralExceptions[last], strings.Contains(last, "."):
		return s
	case strings.HasSuffix(last, "ss"), strings.HasSuffix(last, "us"),
		strings.HasSuffix(last, "is"), strings.HasSuffix(last, "ics"):
		return s
	case strings.HasSuffix(last, "ies") && len(last) > 4:
		last = last[:len(last)-3] + "y"
	case strings.HasSuffix(last, "s"):
		last = last[:len(last)-1]
	default:
		return s
	}
	words[len(words)-1] = last
	return strings.Join(words, " ")
}

// SameSkill reports whether two skill names normalize to the same key
func SameSkill(a, b string) bool {
	ka := NormalizeSkillName(a)
	return ka != "" && ka == NormalizeSkillName(b)
}

// DedupSkills removes empty names and names that normalize to an already seen key.
// The first spelling wins and order is preserved.
func DedupSkills(skills []string) []string {
	if len(skills) == 0 {
		return []string{}
	}

	deduped := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		key := NormalizeSkillName(skill)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, strings.TrimSpace(skill))
	}
	return deduped
}

// TitleCase title-cases a name for display ("javascript" → "Javascript")
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}
