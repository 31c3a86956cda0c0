package ranking

import (
	"sort"

	"github.com/jonathan/career-matcher/internal/types"
)

// Rank orders scored candidates by score, highest first. The sort is stable, so
// equal scores keep their input order. Later duplicates of a candidate identity
// are dropped before the list is cut to limit; limit <= 0 keeps everything.
// The input slice is not modified.
func Rank[T any](items []types.ScoredCandidate[T], id func(T) string, limit int) (ranked []types.ScoredCandidate[T], duplicates []types.Exclusion) {
	sorted := make([]types.ScoredCandidate[T], len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	seen := make(map[string]bool, len(sorted))
	ranked = make([]types.ScoredCandidate[T], 0, len(sorted))
	for _, item := range sorted {
		key := id(item.Candidate)
		if seen[key] {
			duplicates = append(duplicates, types.Exclusion{ID: key, Reason: types.ExclusionDuplicate, Score: item.Score})
			continue
		}
		seen[key] = true
		ranked = append(ranked, item)
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, duplicates
}

// ApplyCutoff removes candidates scoring below cutoff and records them as
// exclusions. Order is preserved.
func ApplyCutoff[T any](items []types.ScoredCandidate[T], id func(T) string, cutoff float64) (kept []types.ScoredCandidate[T], excluded []types.Exclusion) {
	kept = make([]types.ScoredCandidate[T], 0, len(items))
	for _, item := range items {
		if item.Score < cutoff {
			excluded = append(excluded, types.Exclusion{ID: id(item.Candidate), Reason: types.ExclusionBelowCutoff, Score: item.Score})
			continue
		}
		kept = append(kept, item)
	}
	return kept, excluded
}

// JobID identifies a job posting for ranking
func JobID(job types.JobPosting) string { return job.ID.String() }

// ResourceID identifies a learning resource for ranking
func ResourceID(resource types.LearningResource) string { return resource.ID.String() }
