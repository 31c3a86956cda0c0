// Package parsing converts extracted CV text into a structured ParsedProfile using a
// fixed skill vocabulary and a line-oriented section state machine.
package parsing

import (
	"strings"
	"time"

	"github.com/jonathan/career-matcher/internal/types"
)

// maxYearAhead bounds graduation and employment years relative to the current year
const maxYearAhead = 5

// CVParser extracts profile fields from plain CV text. It holds no mutable state
// and is safe for concurrent use.
type CVParser struct {
	vocab *Vocabulary
	now   func() time.Time
}

// Option configures a CVParser
type Option func(*CVParser)

// WithVocabulary replaces the default skill vocabulary
func WithVocabulary(v *Vocabulary) Option {
	return func(p *CVParser) {
		if v != nil {
			p.vocab = v
		}
	}
}

// WithClock sets the clock used to bound plausible years
func WithClock(now func() time.Time) Option {
	return func(p *CVParser) {
		if now != nil {
			p.now = now
		}
	}
}

// NewCVParser creates a parser with the default vocabulary and the system clock
func NewCVParser(opts ...Option) *CVParser {
	p := &CVParser{vocab: DefaultVocabulary(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Vocabulary returns the vocabulary the parser matches skills against
func (p *CVParser) Vocabulary() *Vocabulary {
	return p.vocab
}

// Parse extracts a ParsedProfile. It never fails: text with nothing recognisable
// yields a profile whose list fields are empty.
func (p *CVParser) Parse(text string) *types.ParsedProfile {
	profile := types.NewParsedProfile()
	if strings.TrimSpace(text) == "" {
		return profile
	}

	maxYear := p.now().Year() + maxYearAhead
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	machine := NewSectionMachine()
	sections := make(map[SectionState][]string)
	for _, raw := range lines {
		line := machine.Step(raw)
		if line.Header && line.Text == "" {
			continue
		}
		sections[line.State] = append(sections[line.State], line.Text)
	}

	profile.Name = findName(lines)
	profile.Email = findEmail(text)
	profile.Phone = findPhone(text)
	profile.Skills = p.vocab.Match(text)
	profile.Summary = parseSummary(sections[StateSummary])

	profile.Education = parseEducation(sections[StateEducation], maxYear, false)
	if !machine.Saw(StateEducation) {
		profile.Education = append(profile.Education,
			parseEducation(sections[StateOutside], maxYear, true)...)
	}

	profile.WorkExperience = experienceParser{maxYear: maxYear}.parse(sections[StateExperience])
	if !machine.Saw(StateExperience) {
		profile.WorkExperience = append(profile.WorkExperience,
			experienceParser{maxYear: maxYear, strict: true}.parse(sections[StateOutside])...)
	}

	profile.Certifications = parseCertifications(sections[StateCertifications])
	profile.Languages = parseLanguages(sections[StateLanguages])
	return profile
}

// ParseCV parses text with a default parser
func ParseCV(text string) *types.ParsedProfile {
	return NewCVParser().Parse(text)
}
