package types

// ScoredCandidate is a candidate with its match score, reasons and optional skill gap.
// Its lifetime is the request.
type ScoredCandidate[T any] struct {
	Candidate T                  `json:"candidate"`
	Score     float64            `json:"score"`
	Reasons   []string           `json:"reasons"`
	SkillGap  []string           `json:"skill_gap,omitempty"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

// ScoredJob is a scored job posting
type ScoredJob = ScoredCandidate[JobPosting]

// ScoredResource is a scored learning resource
type ScoredResource = ScoredCandidate[LearningResource]

// Exclusion records a candidate that was removed before ranking and why
type Exclusion struct {
	ID     string  `json:"id"`
	Reason string  `json:"reason"`
	Detail string  `json:"detail,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

// Exclusion reasons
const (
	ExclusionInvalid     = "invalid"
	ExclusionBelowCutoff = "below_cutoff"
	ExclusionDuplicate   = "duplicate"
)

// Recommendations is a ranked result set plus the exclusions recorded on the way
type Recommendations[T any] struct {
	Items    []ScoredCandidate[T] `json:"items"`
	Excluded []Exclusion          `json:"excluded,omitempty"`
	// Partial is set when scoring stopped early because the request ended.
	Partial bool `json:"partial,omitempty"`
}
