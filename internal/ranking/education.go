package ranking

import (
	"regexp"
	"strings"

	"github.com/jonathan/career-matcher/internal/analysis"
	"github.com/jonathan/career-matcher/internal/types"
)

// Degree level and field weights within one education requirement
const (
	degreeMatchWeight = 0.6
	fieldMatchWeight  = 0.4
)

var requirementFieldRe = regexp.MustCompile(`(?i)\b(?:in|of)\s+([^,;()]+)`)

// relatedFields lists fields that partially satisfy one another
var relatedFields = map[string][]string{
	"computer science":        {"software engineering", "computer engineering", "information technology", "informatics"},
	"software engineering":    {"computer science", "computer engineering", "information technology"},
	"information technology":  {"computer science", "information systems", "software engineering"},
	"data science":            {"statistics", "mathematics", "computer science", "machine learning"},
	"statistics":              {"mathematics", "data science", "economics"},
	"mathematics":             {"statistics", "physics", "computer science"},
	"electrical engineering":  {"computer engineering", "electronics"},
	"business administration": {"management", "commerce", "economics", "finance"},
	"finance":                 {"accounting", "economics", "business administration"},
	"accounting":              {"finance", "commerce"},
	"nursing":                 {"public health", "medicine"},
}

// computeEducationFit scores how well the profile's education meets the job's
// requirement strings. Each requirement is scored on degree level (60%) and field
// of study (40%), renormalized over whichever of the two it mentions; the result
// is the mean over requirements that mention either. ok is false when the job
// lists no usable requirement.
func computeEducationFit(education []types.Education, educationLevel int, requirements []string) (float64, bool) {
	total, counted := 0.0, 0
	for _, req := range requirements {
		if credit, ok := requirementCredit(education, educationLevel, req); ok {
			total += credit
			counted++
		}
	}
	if counted == 0 {
		return 0, false
	}
	return total / float64(counted), true
}

func requirementCredit(education []types.Education, educationLevel int, req string) (float64, bool) {
	req = strings.TrimSpace(req)
	if req == "" {
		return 0, false
	}

	score, weights := 0.0, 0.0

	reqLevel := analysis.DegreeLevel(req)
	field := req
	if reqLevel > analysis.EducationNone {
		weights += degreeMatchWeight
		switch {
		case educationLevel >= reqLevel:
			score += degreeMatchWeight
		case educationLevel == reqLevel-1:
			score += degreeMatchWeight / 2
		}
		field = ""
		if m := requirementFieldRe.FindStringSubmatch(req); m != nil {
			field = strings.TrimSpace(m[1])
		}
	}

	if field != "" {
		weights += fieldMatchWeight
		score += fieldMatchWeight * computeFieldMatchScore(education, field)
	}

	if weights == 0 {
		return 0, false
	}
	return score / weights, true
}

// computeFieldMatchScore returns 1.0 when the requirement fuzzy-matches a degree or
// field of study, 0.7 for a related field, 0 otherwise
func computeFieldMatchScore(education []types.Education, required string) float64 {
	requiredLower := strings.ToLower(strings.TrimSpace(required))
	if requiredLower == "" {
		return 0
	}

	best := 0.0
	for _, edu := range education {
		for _, candidate := range []string{edu.Field, edu.Degree} {
			c := strings.ToLower(strings.TrimSpace(candidate))
			if c == "" {
				continue
			}
			if strings.Contains(c, requiredLower) || strings.Contains(requiredLower, c) {
				return 1.0
			}
			if isRelatedField(c, requiredLower) {
				best = 0.7
			}
		}
	}
	return best
}

func isRelatedField(have, want string) bool {
	for key, related := range relatedFields {
		if !strings.Contains(want, key) {
			continue
		}
		for _, r := range related {
			if strings.Contains(have, r) {
				return true
			}
		}
	}
	return false
}
