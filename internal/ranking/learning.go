package ranking

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/jonathan/career-matcher/internal/analysis"
	"github.com/jonathan/career-matcher/internal/skills"
	"github.com/jonathan/career-matcher/internal/types"
)

// Resource factor weights
const (
	coverageWeight   = 0.5
	difficultyWeight = 0.2
	categoryWeight   = 0.2
	languageWeight   = 0.1
)

// Resource factor names, as they appear in ScoredResource.Breakdown
const (
	FactorCoverage   = "coverage"
	FactorDifficulty = "difficulty"
	FactorCategory   = "category"
	FactorLanguage   = "language"
)

// DefaultLearningCutoff is the minimum score a resource needs to be recommended
const DefaultLearningCutoff = 0.2

// Gap coverage credit per resource skill
const (
	gapCredit         = 0.8
	criticalGapCredit = 1.0
)

// ScoreResource scores one learning resource by how much of the profile's market
// skill gap it covers. market may be the general snapshot or one narrowed to a
// single job with skills.ForJob.
func ScoreResource(features analysis.Features, profileSkills []string, market *skills.MarketSnapshot, resource types.LearningResource) types.ScoredResource {
	if market == nil {
		market = &skills.MarketSnapshot{}
	}

	resourceSkills := nonEmpty(resource.Skills)
	coverage, gap, critical, coverageOK := computeGapCoverage(profileSkills, market, resourceSkills)
	difficultyFit, difficultyOK := computeDifficultyFit(features.SkillLevel, resource.Difficulty)
	categoryFit, categoryOK := computeCategoryFit(features.TechnicalBackground, resource.Category)
	languageFit, languageOK := computeLanguageFit(features.LanguageSkills, resource.Language)

	score, breakdown, ok := combine([]factor{
		{name: FactorCoverage, weight: coverageWeight, value: coverage, evaluated: coverageOK},
		{name: FactorDifficulty, weight: difficultyWeight, value: difficultyFit, evaluated: difficultyOK},
		{name: FactorCategory, weight: categoryWeight, value: categoryFit, evaluated: categoryOK},
		{name: FactorLanguage, weight: languageWeight, value: languageFit, evaluated: languageOK},
	})

	var reasons []string
	if ok {
		reasons = resourceReasons(breakdown, gap, critical, strings.ToLower(strings.TrimSpace(resource.Category)), features.TechnicalBackground)
	} else {
		reasons = []string{"Not enough information to assess this resource"}
	}

	return types.ScoredResource{
		Candidate: resource,
		Score:     score,
		Reasons:   reasons,
		SkillGap:  gap,
		Breakdown: breakdown,
	}
}

// computeGapCoverage credits each resource skill that the market wants and the
// profile lacks, more when the market marks it critical, and divides by the
// number of resource skills
func computeGapCoverage(profileSkills []string, market *skills.MarketSnapshot, resourceSkills []string) (coverage float64, gap, critical []string, ok bool) {
	gap, critical = []string{}, []string{}
	if len(resourceSkills) == 0 {
		return 0, gap, critical, false
	}

	credit := 0.0
	for _, s := range resourceSkills {
		if skills.HasSkill(profileSkills, s) || !market.InDemand(s) {
			continue
		}
		gap = append(gap, s)
		if market.IsCritical(s) {
			critical = append(critical, s)
			credit += criticalGapCredit
		} else {
			credit += gapCredit
		}
	}
	return credit / float64(len(resourceSkills)), gap, critical, true
}

// computeDifficultyFit prefers resources slightly above the current skill level
func computeDifficultyFit(skillLevel float64, difficulty types.Difficulty) (float64, bool) {
	d := difficulty.Level()
	if d == 0 {
		return 0, false
	}
	target := math.Min(4, skillLevel+0.5)
	return 1 - math.Abs(d-target)/3, true
}

// computeCategoryFit rates the resource category for this profile
func computeCategoryFit(technicalBackground bool, category string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "":
		return 0, false
	case types.CategoryCareer, types.CategoryInterview, types.CategoryResume:
		return 1.0, true
	case types.CategoryTechnical:
		if technicalBackground {
			return 0.9, true
		}
		return 0.6, true
	case types.CategorySoftSkills:
		return 0.7, true
	default:
		return 0.5, true
	}
}

// computeLanguageFit checks the resource language against the profile's languages.
// With no known profile language the fit is neutral.
func computeLanguageFit(languageSkills []string, resourceLanguage string) (float64, bool) {
	want := languageName(resourceLanguage)
	if want == "" {
		return 0, false
	}
	if len(languageSkills) == 0 {
		return 0.5, true
	}
	for _, l := range languageSkills {
		if languageName(l) == want {
			return 1.0, true
		}
	}
	return 0.2, true
}

// languageName lowercases a language name and expands ISO codes ("fr" -> "french")
func languageName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 || len(s) > 3 {
		return s
	}
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return strings.ToLower(name)
	}
	return s
}

func resourceReasons(breakdown map[string]float64, gap, critical []string, category string, technicalBackground bool) []string {
	var reasons []string

	if _, ok := breakdown[FactorCoverage]; ok {
		switch {
		case len(critical) > 0:
			reasons = append(reasons, fmt.Sprintf("Covers critical market skills: %s", joinLimited(critical)))
		case len(gap) > 0:
			reasons = append(reasons, fmt.Sprintf("Teaches in-demand skills you are missing: %s", joinLimited(gap)))
		default:
			reasons = append(reasons, "Does not cover a current skill gap")
		}
	}

	if fit, ok := breakdown[FactorDifficulty]; ok {
		switch {
		case fit >= 0.8:
			reasons = append(reasons, "Difficulty matches your level")
		case fit < 0.5:
			reasons = append(reasons, "Difficulty is far from your level")
		}
	}

	if _, ok := breakdown[FactorCategory]; ok {
		switch category {
		case types.CategoryCareer, types.CategoryInterview, types.CategoryResume:
			reasons = append(reasons, "Career development resource")
		case types.CategoryTechnical:
			if technicalBackground {
				reasons = append(reasons, "Fits your technical background")
			}
		}
	}

	if fit, ok := breakdown[FactorLanguage]; ok && fit >= 1.0 {
		reasons = append(reasons, "Available in a language you speak")
	}

	return reasons
}
