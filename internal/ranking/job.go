package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-matcher/internal/analysis"
	"github.com/jonathan/career-matcher/internal/skills"
	"github.com/jonathan/career-matcher/internal/types"
)

// Job factor weights
const (
	skillsWeight     = 0.35
	experienceWeight = 0.25
	educationWeight  = 0.20
	localeWeight     = 0.10
	locationWeight   = 0.10
)

// Job factor names, as they appear in ScoredJob.Breakdown
const (
	FactorSkills     = "skills"
	FactorExperience = "experience"
	FactorEducation  = "education"
	FactorLocale     = "locale"
	FactorLocation   = "location"
)

// DefaultJobCutoff is the minimum score a job needs to be recommended
const DefaultJobCutoff = 0.25

// Overall match thresholds used by reasons
const (
	excellentMatchThreshold = 0.75
	goodMatchThreshold      = 0.5
)

// maxListedSkills caps skill lists quoted in reasons
const maxListedSkills = 5

// ScoreJob scores one job posting against a profile and its features. The
// score depends only on its inputs.
func ScoreJob(features analysis.Features, profile *types.Profile, job types.JobPosting) types.ScoredJob {
	if profile == nil {
		profile = &types.Profile{}
	}

	required := nonEmpty(job.RequiredSkills)
	matched := skills.Matching(profile.Skills, required)
	missing := skills.Missing(profile.Skills, required)

	skillOverlap, skillsOK := computeSkillOverlapScore(matched, required)
	experienceFit, experienceOK := computeExperienceFit(features.ExperienceYears, job.ExperienceLevel)
	educationFit, educationOK := computeEducationFit(profile.Education, features.EducationLevel, job.EducationRequirements)
	localeBonus := computeLocaleBonus(features)
	locationFit, locationOK := computeLocationFit(profile.LocationHint, job)

	score, breakdown, ok := combine([]factor{
		{name: FactorSkills, weight: skillsWeight, value: skillOverlap, evaluated: skillsOK},
		{name: FactorExperience, weight: experienceWeight, value: experienceFit, evaluated: experienceOK},
		{name: FactorEducation, weight: educationWeight, value: educationFit, evaluated: educationOK},
		{name: FactorLocale, weight: localeWeight, value: localeBonus, evaluated: true},
		{name: FactorLocation, weight: locationWeight, value: locationFit, evaluated: locationOK},
	})

	var reasons []string
	if ok {
		reasons = jobReasons(score, breakdown, matched, missing, features)
	} else {
		reasons = []string{"Not enough information to assess this job"}
	}

	return types.ScoredJob{
		Candidate: job,
		Score:     score,
		Reasons:   reasons,
		SkillGap:  missing,
		Breakdown: breakdown,
	}
}

// computeSkillOverlapScore is the fraction of required skills the profile has
func computeSkillOverlapScore(matched, required []string) (float64, bool) {
	if len(required) == 0 {
		return 0, false
	}
	return float64(len(matched)) / float64(len(required)), true
}

// yearsToLevelIndex places experience years on the job seniority scale
func yearsToLevelIndex(years float64) int {
	switch {
	case years < 2:
		return 0
	case years < 5:
		return 1
	case years < 8:
		return 2
	case years < 12:
		return 3
	default:
		return 4
	}
}

// computeExperienceFit gives full credit inside the job's band, partial credit one
// band away and low credit further out
func computeExperienceFit(years float64, level types.ExperienceLevel) (float64, bool) {
	want := level.Index()
	if want < 0 {
		return 0, false
	}
	distance := yearsToLevelIndex(years) - want
	if distance < 0 {
		distance = -distance
	}
	switch distance {
	case 0:
		return 1.0, true
	case 1:
		return 0.6, true
	default:
		return 0.2, true
	}
}

// computeLocaleBonus rewards a relevant language and local-market experience
func computeLocaleBonus(features analysis.Features) float64 {
	bonus := 0.0
	if features.HasRelevantLanguage {
		bonus += 0.5
	}
	if features.HasLocalExperience {
		bonus += 0.5
	}
	return bonus
}

// computeLocationFit compares the job location with the profile's location hint
func computeLocationFit(hint string, job types.JobPosting) (float64, bool) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	location := strings.ToLower(strings.TrimSpace(job.Location))
	if hint == "" || (location == "" && !job.Remote) {
		return 0, false
	}
	switch {
	case location != "" && (strings.Contains(location, hint) || strings.Contains(hint, location)):
		return 1.0, true
	case job.Remote:
		return 0.5, true
	default:
		return 0.3, true
	}
}

// jobReasons selects reason templates from the evaluated sub-scores. The overall
// label is tied to the same thresholds as the score so the two never disagree.
func jobReasons(score float64, breakdown map[string]float64, matched, missing []string, features analysis.Features) []string {
	var reasons []string

	switch {
	case score >= excellentMatchThreshold:
		reasons = append(reasons, "Excellent overall match")
	case score >= goodMatchThreshold:
		reasons = append(reasons, "Good overall match")
	default:
		reasons = append(reasons, "Partial match")
	}

	if overlap, ok := breakdown[FactorSkills]; ok {
		switch {
		case len(matched) == 0:
			reasons = append(reasons, "No matching skills")
		case overlap >= 0.7:
			reasons = append(reasons, fmt.Sprintf("Strong skill match (%s)", joinLimited(matched)))
		case overlap >= 0.4:
			reasons = append(reasons, fmt.Sprintf("Moderate skill match (%s)", joinLimited(matched)))
		default:
			reasons = append(reasons, fmt.Sprintf("Some matching skills (%s)", joinLimited(matched)))
		}
		if len(missing) > 0 {
			reasons = append(reasons, fmt.Sprintf("Missing skills: %s", joinLimited(missing)))
		}
	}

	if fit, ok := breakdown[FactorExperience]; ok {
		switch {
		case fit >= 1.0:
			reasons = append(reasons, "Experience level fits the role")
		case fit >= 0.6:
			reasons = append(reasons, "Experience level is close to the role")
		default:
			reasons = append(reasons, "Experience level differs from the role")
		}
	}

	if fit, ok := breakdown[FactorEducation]; ok {
		if fit >= 0.7 {
			reasons = append(reasons, "Education meets the requirements")
		} else if fit > 0 {
			reasons = append(reasons, "Education partially meets the requirements")
		}
	}

	if features.HasRelevantLanguage {
		reasons = append(reasons, "Speaks a relevant local language")
	}
	if features.HasLocalExperience {
		reasons = append(reasons, "Has local market experience")
	}

	if fit, ok := breakdown[FactorLocation]; ok {
		if fit >= 1.0 {
			reasons = append(reasons, "Location matches")
		} else if fit >= 0.5 {
			reasons = append(reasons, "Remote-friendly role")
		}
	}

	if len(features.Strengths) > 0 {
		reasons = append(reasons, fmt.Sprintf("Profile strengths: %s", strings.Join(features.Strengths, ", ")))
	}

	return reasons
}

func joinLimited(items []string) string {
	if len(items) > maxListedSkills {
		return strings.Join(items[:maxListedSkills], ", ") + fmt.Sprintf(" and %d more", len(items)-maxListedSkills)
	}
	return strings.Join(items, ", ")
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
