package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExperienceLevel is the seniority a job posting asks for
type ExperienceLevel string

// Experience levels, most junior first
const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelLead      ExperienceLevel = "lead"
	LevelExecutive ExperienceLevel = "executive"
)

// experienceLevelIndex maps levels to their position on the seniority scale
var experienceLevelIndex = map[ExperienceLevel]int{
	LevelEntry:     0,
	LevelMid:       1,
	LevelSenior:    2,
	LevelLead:      3,
	LevelExecutive: 4,
}

// Index returns the position of the level on the seniority scale, or -1 if unknown.
// Case and surrounding space are ignored.
func (l ExperienceLevel) Index() int {
	if idx, ok := experienceLevelIndex[ExperienceLevel(strings.ToLower(strings.TrimSpace(string(l))))]; ok {
		return idx
	}
	return -1
}

// JobPosting is an active job posting. It is read-only input to scoring.
type JobPosting struct {
	ID                    uuid.UUID       `json:"id" validate:"required"`
	Title                 string          `json:"title" validate:"required"`
	Company               string          `json:"company,omitempty"`
	Description           string          `json:"description,omitempty"`
	RequiredSkills        []string        `json:"required_skills"`
	ExperienceLevel       ExperienceLevel `json:"experience_level,omitempty" validate:"omitempty,experience_level"`
	EducationRequirements []string        `json:"education_requirements"`
	Location              string          `json:"location,omitempty"`
	Remote                bool            `json:"remote"`
	IsActive              bool            `json:"is_active"`
	PostedAt              time.Time       `json:"posted_at"`
}

// JobFilter narrows the active-job query
type JobFilter struct {
	Location         string
	ExperienceLevels []ExperienceLevel
	PostedSince      *time.Time
}
