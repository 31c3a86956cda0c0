package recommend

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-matcher/internal/ranking"
	"github.com/jonathan/career-matcher/internal/types"
)

// recommend validates, scores, filters and ranks one candidate set
func recommend[C any](
	ctx context.Context,
	s *Service,
	candidates []C,
	id func(C) string,
	cutoff float64,
	limit int,
	score func(C) types.ScoredCandidate[C],
) *types.Recommendations[C] {
	valid, excluded := validCandidates(candidates, id)
	for _, ex := range excluded {
		s.logger.Debug("candidate excluded", zap.String("id", ex.ID), zap.String("detail", ex.Detail))
	}

	scored, partial := scoreAll(ctx, s.opts.Workers, valid, score)
	if partial {
		s.logger.Warn("scoring stopped before all candidates were scored",
			zap.Int("scored", len(scored)),
			zap.Int("candidates", len(valid)),
			zap.Error(context.Cause(ctx)))
	}

	kept, below := ranking.ApplyCutoff(scored, id, cutoff)
	ranked, duplicates := ranking.Rank(kept, id, limit)

	excluded = append(excluded, below...)
	excluded = append(excluded, duplicates...)
	return &types.Recommendations[C]{Items: ranked, Excluded: excluded, Partial: partial}
}

// validCandidates drops candidates that fail struct validation and records why
func validCandidates[C any](candidates []C, id func(C) string) ([]C, []types.Exclusion) {
	valid := make([]C, 0, len(candidates))
	var excluded []types.Exclusion
	for _, c := range candidates {
		if err := types.ValidateCandidate(c); err != nil {
			excluded = append(excluded, types.Exclusion{ID: id(c), Reason: types.ExclusionInvalid, Detail: err.Error()})
			continue
		}
		valid = append(valid, c)
	}
	return valid, excluded
}

// scoreAll scores candidates on a bounded worker pool. Results keep input order.
// When ctx ends, no further candidates are started and partial is set; the
// candidates already scored are still returned.
func scoreAll[C any](ctx context.Context, workers int, candidates []C, score func(C) types.ScoredCandidate[C]) (scored []types.ScoredCandidate[C], partial bool) {
	results := make([]types.ScoredCandidate[C], len(candidates))
	done := make([]bool, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range candidates {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gCtx.Err() != nil {
				return nil
			}
			results[i] = score(c)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	scored = make([]types.ScoredCandidate[C], 0, len(candidates))
	for i := range results {
		if done[i] {
			scored = append(scored, results[i])
		}
	}
	return scored, len(scored) < len(candidates)
}
