package parsing

import (
	"regexp"
	"strings"
)

// SectionState is the state of the CV line classifier
type SectionState int

// Section states. StateOutside is the initial state; every other state is entered
// on a header line and left on the next header line.
const (
	StateOutside SectionState = iota
	StateSummary
	StateEducation
	StateExperience
	StateSkills
	StateCertifications
	StateLanguages
	StateOther
)

var stateNames = map[SectionState]string{
	StateOutside:        "outside",
	StateSummary:        "summary",
	StateEducation:      "education",
	StateExperience:     "experience",
	StateSkills:         "skills",
	StateCertifications: "certifications",
	StateLanguages:      "languages",
	StateOther:          "other",
}

func (s SectionState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// sectionKeywords maps header phrases to the section they open
var sectionKeywords = map[string]SectionState{
	"summary":               StateSummary,
	"objective":             StateSummary,
	"profile":               StateSummary,
	"about me":              StateSummary,
	"about":                 StateSummary,
	"education":             StateEducation,
	"academic":              StateEducation,
	"qualifications":        StateEducation,
	"experience":            StateExperience,
	"employment":            StateExperience,
	"work history":          StateExperience,
	"career history":        StateExperience,
	"internships":           StateExperience,
	"skills":                StateSkills,
	"competencies":          StateSkills,
	"technologies":          StateSkills,
	"programming languages": StateSkills,
	"tools":                 StateSkills,
	"expertise":             StateSkills,
	"certification":         StateCertifications,
	"certifications":        StateCertifications,
	"certificates":          StateCertifications,
	"licenses":              StateCertifications,
	"licences":              StateCertifications,
	"courses":               StateCertifications,
	"training":              StateCertifications,
	"languages":             StateLanguages,
	"language":              StateLanguages,
	"projects":              StateOther,
	"references":            StateOther,
	"interests":             StateOther,
	"hobbies":               StateOther,
	"awards":                StateOther,
	"achievements":          StateOther,
	"publications":          StateOther,
	"volunteering":          StateOther,
	"activities":            StateOther,
	"contact":               StateOther,
	"personal details":      StateOther,
	"personal information":  StateOther,
}

// headerFillers may appear next to a section keyword in a header line
var headerFillers = []string{
	"professional", "work", "technical", "key", "core", "relevant", "and", "personal",
	"career", "history", "background", "my", "other", "additional", "spoken", "soft",
	"hard", "computer", "it", "of", "me", "details", "information", "areas", "selected",
	"specialized", "industry", "volunteer", "honors", "honours", "research", "programming",
	"employment", "academic", "education", "summary", "skills", "experience",
}

const maxHeaderLength = 40

var (
	headerWords        = buildHeaderWords()
	headerSeparatorsRe = regexp.MustCompile(`[/&,|+]`)
	keywordPatterns    = buildKeywordPatterns()
)

func buildHeaderWords() map[string]bool {
	words := make(map[string]bool)
	for phrase := range sectionKeywords {
		for _, w := range strings.Fields(phrase) {
			words[w] = true
		}
	}
	for _, w := range headerFillers {
		words[w] = true
	}
	return words
}

type keywordPattern struct {
	phrase string
	state  SectionState
	re     *regexp.Regexp
}

func buildKeywordPatterns() []keywordPattern {
	patterns := make([]keywordPattern, 0, len(sectionKeywords))
	for phrase, state := range sectionKeywords {
		patterns = append(patterns, keywordPattern{
			phrase: phrase,
			state:  state,
			re:     regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`),
		})
	}
	return patterns
}

// ClassifyHeader decides whether a line is a section header. Two shapes are
// recognised: a short standalone header ("Work Experience") and an inline label
// ("Skills: Go, SQL"), for which rest holds the text after the colon.
func ClassifyHeader(line string) (state SectionState, rest string, ok bool) {
	trimmed := strings.Trim(strings.TrimSpace(line), "#*=_ ")
	if trimmed == "" {
		return StateOutside, "", false
	}

	if label, after, found := strings.Cut(trimmed, ":"); found {
		if state, ok := headerState(label); ok {
			return state, strings.TrimSpace(after), true
		}
		return StateOutside, "", false
	}

	if len(trimmed) > maxHeaderLength {
		return StateOutside, "", false
	}
	if state, ok := headerState(trimmed); ok {
		return state, "", true
	}
	return StateOutside, "", false
}

// headerState resolves a candidate header label. Every word must be a header word
// and the earliest keyword wins; on a tie the longer phrase wins.
func headerState(label string) (SectionState, bool) {
	lower := strings.ToLower(headerSeparatorsRe.ReplaceAllString(label, " "))
	words := strings.Fields(lower)
	if len(words) == 0 || len(words) > 4 {
		return StateOutside, false
	}
	for _, w := range words {
		if !headerWords[w] {
			return StateOutside, false
		}
	}

	normalized := strings.Join(words, " ")
	best, bestPos, bestLen := StateOutside, -1, 0
	for _, kp := range keywordPatterns {
		loc := kp.re.FindStringIndex(normalized)
		if loc == nil {
			continue
		}
		if bestPos < 0 || loc[0] < bestPos || (loc[0] == bestPos && len(kp.phrase) > bestLen) {
			best, bestPos, bestLen = kp.state, loc[0], len(kp.phrase)
		}
	}
	return best, bestPos >= 0
}

// Line is one classified CV line
type Line struct {
	State  SectionState
	Text   string
	Header bool
}

// SectionMachine is a line classifier over the CV text. Header lines move it to
// the section they name; every other line belongs to the current section. An
// inline label with content ("Tools: Python") inside a section is a one-line
// block of its own section and leaves the current state unchanged.
type SectionMachine struct {
	state SectionState
	seen  map[SectionState]bool
}

// NewSectionMachine returns a machine in StateOutside
func NewSectionMachine() *SectionMachine {
	return &SectionMachine{state: StateOutside, seen: make(map[SectionState]bool)}
}

// State returns the current state
func (m *SectionMachine) State() SectionState {
	return m.state
}

// Step consumes one line and returns its classification
func (m *SectionMachine) Step(line string) Line {
	if state, rest, ok := ClassifyHeader(line); ok {
		m.seen[state] = true
		if rest == "" || m.state == StateOutside {
			m.state = state
		}
		return Line{State: state, Text: rest, Header: true}
	}
	return Line{State: m.state, Text: strings.TrimSpace(line)}
}

// Saw reports whether a header for the given section has been consumed
func (m *SectionMachine) Saw(state SectionState) bool {
	return m.seen[state]
}
