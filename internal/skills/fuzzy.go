package skills

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-matcher/internal/parsing"
)

// minContainmentLength is the shortest cleaned name that takes part in a
// substring match; shorter names only match by equality
const minContainmentLength = 3

// FuzzyMatch reports whether two skill names match. Names whose normalized keys
// are equal match ("JS" and "JavaScript" through the alias table). Otherwise the
// cleaned names, before alias folding, must contain one another ("react" and
// "react native"), and both must be at least minContainmentLength long.
func FuzzyMatch(a, b string) bool {
	if parsing.SameSkill(a, b) {
		return true
	}
	ca, cb := parsing.CleanSkillName(a), parsing.CleanSkillName(b)
	if utf8.RuneCountInString(ca) < minContainmentLength || utf8.RuneCountInString(cb) < minContainmentLength {
		return false
	}
	return strings.Contains(ca, cb) || strings.Contains(cb, ca)
}

// HasSkill reports whether any of skills fuzzy-matches skill
func HasSkill(skills []string, skill string) bool {
	for _, s := range skills {
		if FuzzyMatch(s, skill) {
			return true
		}
	}
	return false
}

// Matching returns the entries of required that some profile skill fuzzy-matches,
// in the order of required
func Matching(profileSkills, required []string) []string {
	matched := []string{}
	for _, req := range required {
		if HasSkill(profileSkills, req) {
			matched = append(matched, req)
		}
	}
	return matched
}

// Missing returns the entries of required that no profile skill fuzzy-matches,
// in the order of required
func Missing(profileSkills, required []string) []string {
	missing := []string{}
	for _, req := range required {
		if !HasSkill(profileSkills, req) {
			missing = append(missing, req)
		}
	}
	return missing
}
