// Package skills aggregates in-demand skills from job postings and computes
// skill gaps against a profile.
package skills

import (
	"sort"
	"strings"
	"time"

	"github.com/jonathan/career-matcher/internal/parsing"
	"github.com/jonathan/career-matcher/internal/types"
)

// SkillFrequency is one market skill with the number of sampled jobs requiring it
type SkillFrequency struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

// MarketSnapshot is the frequency-ranked skill demand of a job sample
type MarketSnapshot struct {
	SampleSize int              `json:"sample_size"`
	Skills     []SkillFrequency `json:"skills"`
	Critical   []string         `json:"critical"`
	BuiltAt    time.Time        `json:"built_at"`
}

// BuildMarketSnapshot counts each job's required skills once per job, merges
// spellings that normalize to the same key (the first spelling seen is kept),
// sorts by count descending then name, and marks the top criticalN as critical.
func BuildMarketSnapshot(jobs []types.JobPosting, criticalN int) *MarketSnapshot {
	counts := make(map[string]*SkillFrequency)
	var order []string

	for _, job := range jobs {
		seenInJob := make(map[string]bool)
		for _, skill := range job.RequiredSkills {
			key := parsing.NormalizeSkillName(skill)
			if key == "" || seenInJob[key] {
				continue
			}
			seenInJob[key] = true
			if existing, ok := counts[key]; ok {
				existing.Count++
				continue
			}
			counts[key] = &SkillFrequency{Name: strings.TrimSpace(skill), Count: 1}
			order = append(order, key)
		}
	}

	snapshot := &MarketSnapshot{
		SampleSize: len(jobs),
		Skills:     make([]SkillFrequency, 0, len(order)),
		Critical:   []string{},
		BuiltAt:    time.Now().UTC(),
	}
	for _, key := range order {
		sf := *counts[key]
		if len(jobs) > 0 {
			sf.Frequency = float64(sf.Count) / float64(len(jobs))
		}
		snapshot.Skills = append(snapshot.Skills, sf)
	}

	sort.SliceStable(snapshot.Skills, func(i, j int) bool {
		if snapshot.Skills[i].Count != snapshot.Skills[j].Count {
			return snapshot.Skills[i].Count > snapshot.Skills[j].Count
		}
		return strings.ToLower(snapshot.Skills[i].Name) < strings.ToLower(snapshot.Skills[j].Name)
	})

	for i := 0; i < len(snapshot.Skills) && i < criticalN; i++ {
		snapshot.Critical = append(snapshot.Critical, snapshot.Skills[i].Name)
	}
	return snapshot
}

// ForJob returns the market context narrowed to one job: its required skills,
// all of them critical
func ForJob(job types.JobPosting) *MarketSnapshot {
	return BuildMarketSnapshot([]types.JobPosting{job}, len(job.RequiredSkills))
}

// Names returns the market skill names in rank order
func (m *MarketSnapshot) Names() []string {
	names := make([]string, 0, len(m.Skills))
	for _, s := range m.Skills {
		names = append(names, s.Name)
	}
	return names
}

// IsCritical reports whether skill fuzzy-matches one of the critical skills
func (m *MarketSnapshot) IsCritical(skill string) bool {
	return HasSkill(m.Critical, skill)
}

// InDemand reports whether skill fuzzy-matches any market skill
func (m *MarketSnapshot) InDemand(skill string) bool {
	return HasSkill(m.Names(), skill)
}

// MissingSkills returns the market skills that no profile skill fuzzy-matches,
// in rank order
func (m *MarketSnapshot) MissingSkills(profileSkills []string) []string {
	return Missing(profileSkills, m.Names())
}
