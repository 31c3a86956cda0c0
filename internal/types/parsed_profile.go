package types

// ParsedProfile is the transient output of the CV pipeline. It is never persisted
// directly; it is merged into a Profile under the fill-absent / append-new rule.
type ParsedProfile struct {
	Name           string           `json:"name,omitempty"`
	Email          string           `json:"email,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Summary        string           `json:"summary,omitempty"`
	Skills         []string         `json:"skills"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Certifications []Certification  `json:"certifications"`
	Languages      []Language       `json:"languages"`
	// Warnings carries extraction fidelity notes; they are informational, not errors.
	Warnings []string `json:"warnings,omitempty"`
}

// NewParsedProfile returns a ParsedProfile with all list fields empty (never nil).
func NewParsedProfile() *ParsedProfile {
	return &ParsedProfile{
		Skills:         []string{},
		Education:      []Education{},
		WorkExperience: []WorkExperience{},
		Certifications: []Certification{},
		Languages:      []Language{},
	}
}

// IsEmpty reports whether nothing at all was extracted.
func (p *ParsedProfile) IsEmpty() bool {
	return p.Name == "" && p.Email == "" && p.Phone == "" && p.Summary == "" &&
		len(p.Skills) == 0 && len(p.Education) == 0 && len(p.WorkExperience) == 0 &&
		len(p.Certifications) == 0 && len(p.Languages) == 0
}

// MergeSummary reports what a merge added to a stored profile
type MergeSummary struct {
	FilledFields        []string `json:"filled_fields"`
	AddedSkills         []string `json:"added_skills"`
	AddedEducation      int      `json:"added_education"`
	AddedExperience     int      `json:"added_experience"`
	AddedCertifications int      `json:"added_certifications"`
	AddedLanguages      int      `json:"added_languages"`
}

// Changed reports whether the merge modified anything
func (s MergeSummary) Changed() bool {
	return len(s.FilledFields) > 0 || len(s.AddedSkills) > 0 || s.AddedEducation > 0 ||
		s.AddedExperience > 0 || s.AddedCertifications > 0 || s.AddedLanguages > 0
}
