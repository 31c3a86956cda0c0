// Package profile merges CV-derived fields into stored profiles.
package profile

import (
	"strings"

	"github.com/jonathan/career-matcher/internal/parsing"
	"github.com/jonathan/career-matcher/internal/types"
)

// Merge folds a parsed CV into an existing profile. Populated fields are never
// overwritten and nothing is removed: empty scalar fields are filled and list
// entries are appended only when no entry with the same normalized identity
// exists. Merging the same parsed profile twice changes nothing the second time.
// existing is not modified.
func Merge(existing types.Profile, parsed *types.ParsedProfile) (types.Profile, types.MergeSummary) {
	merged := clone(existing)
	summary := types.MergeSummary{FilledFields: []string{}, AddedSkills: []string{}}
	if parsed == nil {
		return merged, summary
	}

	fill := func(field string, dst *string, value string) {
		if strings.TrimSpace(*dst) == "" && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
			summary.FilledFields = append(summary.FilledFields, field)
		}
	}
	fill("name", &merged.Name, parsed.Name)
	fill("email", &merged.Email, parsed.Email)
	fill("phone", &merged.Phone, parsed.Phone)
	fill("summary", &merged.Summary, parsed.Summary)

	for _, skill := range parsed.Skills {
		if strings.TrimSpace(skill) == "" || hasSameSkill(merged.Skills, skill) {
			continue
		}
		merged.Skills = append(merged.Skills, skill)
		summary.AddedSkills = append(summary.AddedSkills, skill)
	}

	merged.Education, summary.AddedEducation = appendNew(merged.Education, parsed.Education, educationKey)
	merged.WorkExperience, summary.AddedExperience = appendNew(merged.WorkExperience, parsed.WorkExperience, experienceKey)
	merged.Certifications, summary.AddedCertifications = appendNew(merged.Certifications, parsed.Certifications, certificationKey)
	merged.Languages, summary.AddedLanguages = appendNew(merged.Languages, parsed.Languages, languageKey)

	return merged, summary
}

// appendNew appends the entries of incoming whose key is not yet present.
// Entries with an empty key carry no identity and are skipped.
func appendNew[T any](current, incoming []T, key func(T) string) ([]T, int) {
	seen := make(map[string]bool, len(current)+len(incoming))
	for _, item := range current {
		seen[key(item)] = true
	}
	added := 0
	for _, item := range incoming {
		k := key(item)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		current = append(current, item)
		added++
	}
	return current, added
}

func hasSameSkill(skills []string, skill string) bool {
	for _, s := range skills {
		if parsing.SameSkill(s, skill) {
			return true
		}
	}
	return false
}

func educationKey(e types.Education) string {
	if normalize(e.Institution) == "" && normalize(e.Degree) == "" && normalize(e.Field) == "" {
		return ""
	}
	return normalize(e.Institution) + "|" + normalize(e.Degree) + "|" + normalize(e.Field)
}

func experienceKey(w types.WorkExperience) string {
	if normalize(w.Company) == "" && normalize(w.Position) == "" {
		return ""
	}
	return normalize(w.Company) + "|" + normalize(w.Position) + "|" + normalize(w.StartDate)
}

func certificationKey(c types.Certification) string {
	return normalize(c.Name)
}

func languageKey(l types.Language) string {
	return normalize(l.Language)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// clone copies the list fields so appends never alias the caller's slices.
// Nil lists come back empty.
func clone(p types.Profile) types.Profile {
	p.Skills = append([]string{}, p.Skills...)
	p.Education = append([]types.Education{}, p.Education...)
	p.WorkExperience = append([]types.WorkExperience{}, p.WorkExperience...)
	p.Certifications = append([]types.Certification{}, p.Certifications...)
	p.Languages = append([]types.Language{}, p.Languages...)
	return p
}
