package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the level a learning resource targets
type Difficulty string

// Difficulty levels, easiest first
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// Level maps the difficulty onto the 1-4 skill-level scale, or 0 if unknown.
func (d Difficulty) Level() float64 {
	switch Difficulty(strings.ToLower(strings.TrimSpace(string(d)))) {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	case DifficultyExpert:
		return 4
	default:
		return 0
	}
}

// Resource categories
const (
	CategoryTechnical  = "technical"
	CategorySoftSkills = "soft_skills"
	CategoryCareer     = "career"
	CategoryInterview  = "interview"
	CategoryResume     = "resume"
)

// LearningResource is a course, video or article. It is read-only input to scoring.
type LearningResource struct {
	ID         uuid.UUID  `json:"id" validate:"required"`
	Title      string     `json:"title" validate:"required"`
	URL        string     `json:"url,omitempty" validate:"omitempty,url"`
	Provider   string     `json:"provider,omitempty"`
	Skills     []string   `json:"skills"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Category   string     `json:"category,omitempty"`
	Language   string     `json:"language,omitempty"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ResourceFilter narrows the active-resource query
type ResourceFilter struct {
	Categories   []string
	Difficulties []Difficulty
}
