// Package types provides type definitions for structured data used throughout the career-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/google/uuid"
)

// Proficiency is a spoken-language proficiency level
type Proficiency string

// Proficiency levels, lowest first
const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyNative       Proficiency = "native"
)

// Rank orders proficiencies; unknown values rank as intermediate.
func (p Proficiency) Rank() int {
	switch Proficiency(strings.ToLower(string(p))) {
	case ProficiencyBeginner:
		return 1
	case ProficiencyAdvanced:
		return 3
	case ProficiencyNative:
		return 4
	default:
		return 2
	}
}

// Profile is the stored, structured representation of a job seeker.
type Profile struct {
	UserID         uuid.UUID        `json:"user_id"`
	Name           string           `json:"name,omitempty"`
	Email          string           `json:"email,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Summary        string           `json:"summary,omitempty"`
	LocationHint   string           `json:"location_hint,omitempty"`
	Skills         []string         `json:"skills"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Certifications []Certification  `json:"certifications"`
	Languages      []Language       `json:"languages"`
}

// Education represents an education entry
type Education struct {
	Institution    string `json:"institution,omitempty"`
	Degree         string `json:"degree,omitempty"`
	Field          string `json:"field,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`
}

// WorkExperience represents an employment history entry.
// Dates are "YYYY-MM" (or "YYYY-MM-DD"); EndDate is empty when Current is set.
type WorkExperience struct {
	Company     string `json:"company,omitempty"`
	Position    string `json:"position,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// Certification represents a professional certification
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
}

// Language represents a spoken language with proficiency
type Language struct {
	Language    string      `json:"language"`
	Proficiency Proficiency `json:"proficiency"`
}
