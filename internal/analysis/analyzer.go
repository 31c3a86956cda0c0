// Package analysis derives normalized scoring features from a stored profile.
package analysis

import (
	"math"
	"strings"
	"time"

	"github.com/jonathan/career-matcher/internal/types"
)

// CareerStage is the coarse seniority bucket of a profile
type CareerStage string

// Career stages
const (
	StageEntry  CareerStage = "entry"
	StageMid    CareerStage = "mid"
	StageSenior CareerStage = "senior"
)

// Education levels, as returned by DegreeLevel
const (
	EducationNone     = 1
	EducationDiploma  = 2
	EducationBachelor = 3
	EducationMaster   = 4
	EducationPhD      = 5
)

const (
	minSkillLevel = 1.0
	maxSkillLevel = 4.0

	midCareerYears    = 2.0
	seniorCareerYears = 5.0
)

// Strengths and weaknesses. They only feed reason text, never a score.
const (
	StrengthBroadSkills     = "broad skill set"
	StrengthExperience      = "substantial work experience"
	StrengthDegree          = "university degree"
	StrengthCertified       = "professional certifications"
	StrengthMultilingual    = "multilingual"
	StrengthCompleteProfile = "complete profile"

	WeaknessFewSkills      = "few listed skills"
	WeaknessLittleExp      = "little work experience"
	WeaknessNoEducation    = "no education listed"
	WeaknessNoSummary      = "missing profile summary"
	WeaknessNoCertificates = "no certifications"
)

// Locale describes the local market a profile is matched against
type Locale struct {
	// Languages relevant to the market, lowercase ("english", "french", "kinyarwanda")
	Languages []string
	// MarketKeywords identify local-market employers or places in work history
	MarketKeywords []string
}

// Features are the normalized inputs the scorers read
type Features struct {
	SkillLevel      float64     `json:"skill_level"`
	ExperienceYears float64     `json:"experience_years"`
	EducationLevel  int         `json:"education_level"`
	CareerStage     CareerStage `json:"career_stage"`
	Strengths       []string    `json:"strengths"`
	Weaknesses      []string    `json:"weaknesses"`
	// LanguageSkills are languages with better than beginner proficiency, lowercase
	LanguageSkills      []string `json:"language_skills"`
	HasRelevantLanguage bool     `json:"has_relevant_language"`
	HasLocalExperience  bool     `json:"has_local_experience"`
	// TechnicalBackground is set when a degree field or skill set is technical
	TechnicalBackground bool `json:"technical_background"`
}

// technicalFields mark a technical education background
var technicalFields = []string{
	"computer", "software", "information technology", "engineering", "mathematics",
	"statistics", "physics", "data", "electronics", "informatics", "science",
}

// Analyze computes the features of a profile. It is a pure function of its inputs.
func Analyze(profile *types.Profile, locale Locale, now time.Time) Features {
	f := Features{
		Strengths:      []string{},
		Weaknesses:     []string{},
		LanguageSkills: []string{},
		EducationLevel: EducationNone,
	}
	if profile == nil {
		f.SkillLevel = minSkillLevel
		f.CareerStage = StageEntry
		return f
	}

	f.ExperienceYears = ExperienceYears(profile.WorkExperience, now)
	f.EducationLevel = EducationLevel(profile.Education)
	f.CareerStage = Stage(f.ExperienceYears)
	f.SkillLevel = SkillLevel(f.ExperienceYears, f.EducationLevel, len(profile.Certifications))

	for _, lang := range profile.Languages {
		name := strings.ToLower(strings.TrimSpace(lang.Language))
		if name == "" || lang.Proficiency.Rank() <= types.ProficiencyBeginner.Rank() {
			continue
		}
		f.LanguageSkills = append(f.LanguageSkills, name)
		if len(locale.Languages) == 0 || containsFold(locale.Languages, name) {
			f.HasRelevantLanguage = true
		}
	}

	f.HasLocalExperience = hasLocalExperience(profile.WorkExperience, locale.MarketKeywords)
	f.TechnicalBackground = hasTechnicalBackground(profile.Education)

	f.Strengths, f.Weaknesses = assess(profile, f)
	return f
}

// SkillLevel starts at 1, adds 1 at 3 years of experience and 1 more at 7,
// 0.5 for a bachelor degree or higher and 0.3 for any certification, capped at 4
func SkillLevel(experienceYears float64, educationLevel, certifications int) float64 {
	level := minSkillLevel
	if experienceYears >= 3 {
		level++
	}
	if experienceYears >= 7 {
		level++
	}
	if educationLevel >= EducationBachelor {
		level += 0.5
	}
	if certifications > 0 {
		level += 0.3
	}
	return math.Min(level, maxSkillLevel)
}

// Stage buckets experience years at 2 and 5
func Stage(experienceYears float64) CareerStage {
	switch {
	case experienceYears >= seniorCareerYears:
		return StageSenior
	case experienceYears >= midCareerYears:
		return StageMid
	default:
		return StageEntry
	}
}

// EducationLevel is the highest DegreeLevel across entries, 1 without entries
func EducationLevel(education []types.Education) int {
	level := EducationNone
	for _, edu := range education {
		if l := DegreeLevel(edu.Degree); l > level {
			level = l
		}
	}
	return level
}

// DegreeLevel maps a degree name: phd 5, master 4, bachelor 3, diploma or
// certificate 2, anything else 1
func DegreeLevel(degree string) int {
	d := " " + strings.ToLower(strings.ReplaceAll(degree, ".", "")) + " "
	switch {
	case containsAny(d, "phd", "doctor"):
		return EducationPhD
	case containsAny(d, "master", "msc", "mba", "meng", "mtech", " ma ", " ms "):
		return EducationMaster
	case containsAny(d, "bachelor", "bsc", "beng", "btech", " ba ", " bs ", "licence", "degree"):
		return EducationBachelor
	case containsAny(d, "diploma", "certificate", "associate", "a-level", "advanced level"):
		return EducationDiploma
	default:
		return EducationNone
	}
}

func hasLocalExperience(experience []types.WorkExperience, keywords []string) bool {
	for _, exp := range experience {
		text := strings.ToLower(exp.Company + " " + exp.Description)
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}

func hasTechnicalBackground(education []types.Education) bool {
	for _, edu := range education {
		text := strings.ToLower(edu.Field + " " + edu.Degree)
		for _, field := range technicalFields {
			if strings.Contains(text, field) {
				return true
			}
		}
	}
	return false
}

func assess(profile *types.Profile, f Features) (strengths, weaknesses []string) {
	strengths, weaknesses = []string{}, []string{}

	switch {
	case len(profile.Skills) >= 5:
		strengths = append(strengths, StrengthBroadSkills)
	case len(profile.Skills) < 3:
		weaknesses = append(weaknesses, WeaknessFewSkills)
	}
	switch {
	case f.ExperienceYears >= seniorCareerYears:
		strengths = append(strengths, StrengthExperience)
	case f.ExperienceYears < 1:
		weaknesses = append(weaknesses, WeaknessLittleExp)
	}
	switch {
	case f.EducationLevel >= EducationBachelor:
		strengths = append(strengths, StrengthDegree)
	case len(profile.Education) == 0:
		weaknesses = append(weaknesses, WeaknessNoEducation)
	}
	if len(profile.Certifications) > 0 {
		strengths = append(strengths, StrengthCertified)
	} else {
		weaknesses = append(weaknesses, WeaknessNoCertificates)
	}
	if len(f.LanguageSkills) >= 2 {
		strengths = append(strengths, StrengthMultilingual)
	}
	switch {
	case strings.TrimSpace(profile.Summary) == "":
		weaknesses = append(weaknesses, WeaknessNoSummary)
	case profile.LocationHint != "" && len(profile.Skills) > 0:
		strengths = append(strengths, StrengthCompleteProfile)
	}
	return strengths, weaknesses
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), s) {
			return true
		}
	}
	return false
}
