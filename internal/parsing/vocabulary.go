package parsing

import (
	"regexp"
	"slices"
	"strings"
	"sync"
)

// VocabularyVersion identifies the curated skill list. Bump it whenever terms change
// so stored extractions can be traced back to the list that produced them.
const VocabularyVersion = "2024.2"

// SkillGroup is a vocabulary grouping
type SkillGroup string

// Vocabulary groups
const (
	GroupLanguagesFrameworks  SkillGroup = "languages_frameworks"
	GroupSoftSkills           SkillGroup = "soft_skills"
	GroupTechnicalDisciplines SkillGroup = "technical_disciplines"
	GroupBusinessSkills       SkillGroup = "business_skills"
)

// groupOrder fixes the output order of matches
var groupOrder = []SkillGroup{
	GroupLanguagesFrameworks,
	GroupSoftSkills,
	GroupTechnicalDisciplines,
	GroupBusinessSkills,
}

var defaultTerms = map[SkillGroup][]string{
	GroupLanguagesFrameworks: {
		"javascript", "typescript", "python", "java", "golang", "rust", "c++", "c#", "php",
		"ruby", "kotlin", "swift", "scala", "sql", "html", "css", "react", "angular", "vue",
		"node.js", "express", "django", "flask", "spring", "laravel", ".net", "flutter",
		"react native", "docker", "kubernetes", "aws", "azure", "git", "linux", "postgresql",
		"mysql", "mongodb", "redis", "graphql", "tensorflow", "pandas", "excel",
	},
	GroupSoftSkills: {
		"communication", "leadership", "teamwork", "problem solving", "critical thinking",
		"time management", "adaptability", "creativity", "collaboration", "negotiation",
		"public speaking", "conflict resolution", "emotional intelligence", "mentoring",
	},
	GroupTechnicalDisciplines: {
		"machine learning", "data analysis", "data science", "artificial intelligence",
		"cybersecurity", "networking", "cloud computing", "devops", "web development",
		"mobile development", "software engineering", "database administration",
		"graphic design", "ui design", "ux design", "system administration",
		"quality assurance", "embedded systems",
	},
	GroupBusinessSkills: {
		"project management", "product management", "marketing", "digital marketing",
		"sales", "accounting", "finance", "customer service", "business analysis", "agile",
		"scrum", "entrepreneurship", "supply chain", "human resources", "bookkeeping",
		"data entry",
	},
}

type vocabTerm struct {
	term  string
	group SkillGroup
	re    *regexp.Regexp
}

// Vocabulary is a fixed, grouped skill dictionary matched by whole words
type Vocabulary struct {
	Version string
	terms   []vocabTerm
}

var (
	defaultVocabOnce sync.Once
	defaultVocab     *Vocabulary
)

// DefaultVocabulary returns the curated vocabulary shipped with the parser
func DefaultVocabulary() *Vocabulary {
	defaultVocabOnce.Do(func() {
		defaultVocab = NewVocabulary(VocabularyVersion, defaultTerms)
	})
	return defaultVocab
}

// NewVocabulary compiles a vocabulary. Groups outside the known set are appended
// after the known ones in lexical order.
func NewVocabulary(version string, groups map[SkillGroup][]string) *Vocabulary {
	v := &Vocabulary{Version: version}

	order := append([]SkillGroup{}, groupOrder...)
	var extra []SkillGroup
	for g := range groups {
		if !slices.Contains(groupOrder, g) {
			extra = append(extra, g)
		}
	}
	slices.Sort(extra)
	order = append(order, extra...)

	for _, g := range order {
		for _, term := range groups[g] {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			v.terms = append(v.terms, vocabTerm{term: term, group: g, re: termPattern(term, g)})
		}
	}
	return v
}

// termPattern builds a case-insensitive whole-word matcher. Symbols that belong to
// skill names (+, #, .) count as word characters so "java" never matches
// "javascript" and "c" never matches "c++". Outside the languages group a plural
// "s" is tolerated.
func termPattern(term string, group SkillGroup) *regexp.Regexp {
	quoted := regexp.QuoteMeta(term)
	quoted = strings.ReplaceAll(quoted, " ", `\s+`)
	plural := ""
	if group != GroupLanguagesFrameworks {
		plural = "s?"
	}
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN+#.])` + quoted + plural + `(?:$|[^\pL\pN+#])`)
}

// Match returns the title-cased vocabulary terms found in text, deduplicated
// case-insensitively, in vocabulary order.
func (v *Vocabulary) Match(text string) []string {
	matched := []string{}
	if strings.TrimSpace(text) == "" {
		return matched
	}

	seen := make(map[string]bool)
	for _, t := range v.terms {
		key := NormalizeSkillName(t.term)
		if seen[key] || !t.re.MatchString(text) {
			continue
		}
		seen[key] = true
		matched = append(matched, TitleCase(t.term))
	}
	return matched
}

// Terms returns every term in vocabulary order
func (v *Vocabulary) Terms() []string {
	out := make([]string, 0, len(v.terms))
	for _, t := range v.terms {
		out = append(out, t.term)
	}
	return out
}

// Group returns the group a term belongs to
func (v *Vocabulary) Group(term string) (SkillGroup, bool) {
	key := NormalizeSkillName(term)
	for _, t := range v.terms {
		if NormalizeSkillName(t.term) == key {
			return t.group, true
		}
	}
	return "", false
}

// MatchVocabulary matches text against the default vocabulary
func MatchVocabulary(text string) []string {
	return DefaultVocabulary().Match(text)
}
