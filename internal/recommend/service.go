// Package recommend exposes the matching engine: CV parsing and import, and job
// and learning recommendations for a stored profile.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/analysis"
	"github.com/jonathan/career-matcher/internal/ingestion"
	"github.com/jonathan/career-matcher/internal/logging"
	"github.com/jonathan/career-matcher/internal/parsing"
	"github.com/jonathan/career-matcher/internal/ranking"
	"github.com/jonathan/career-matcher/internal/skills"
	"github.com/jonathan/career-matcher/internal/types"
)

// Service defaults
const (
	DefaultCandidateLimit = 200
	DefaultResultLimit    = 10
	DefaultMaxLimit       = 100
	DefaultWorkers        = 8
)

// Options tunes a Service. Zero values take the defaults.
type Options struct {
	JobCutoff      float64
	LearningCutoff float64
	// CandidateLimit bounds how many candidates one request loads
	CandidateLimit int
	DefaultLimit   int
	MaxLimit       int
	// Workers bounds concurrent scoring within one request
	Workers int
	Locale  analysis.Locale
	Parser  *parsing.CVParser
	Logger  *zap.Logger
	Now     func() time.Time
}

// Service runs the recommendation pipeline against a Store
type Service struct {
	store  Store
	market *skills.MarketAggregator
	parser *parsing.CVParser
	opts   Options
	logger *zap.Logger
}

// ImportResult is the outcome of ImportCV
type ImportResult struct {
	Parsed  *types.ParsedProfile `json:"parsed"`
	Summary types.MergeSummary   `json:"summary"`
}

// New creates a Service. A nil market aggregator builds an uncached one over the store.
func New(store Store, market *skills.MarketAggregator, opts Options) *Service {
	if opts.JobCutoff <= 0 {
		opts.JobCutoff = ranking.DefaultJobCutoff
	}
	if opts.LearningCutoff <= 0 {
		opts.LearningCutoff = ranking.DefaultLearningCutoff
	}
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = DefaultCandidateLimit
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultResultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = DefaultMaxLimit
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := logging.OrNop(opts.Logger)
	parser := opts.Parser
	if parser == nil {
		parser = parsing.NewCVParser(parsing.WithClock(opts.Now))
	}
	if market == nil {
		market = skills.NewMarketAggregator(store, nil, skills.AggregatorOptions{Logger: logger})
	}
	return &Service{store: store, market: market, parser: parser, opts: opts, logger: logger}
}

// maxLogFieldLength caps client-supplied strings in log fields
const maxLogFieldLength = 120

// ParseCV extracts and parses a CV without persisting anything. It never fails;
// unreadable documents yield an empty profile with extraction warnings.
func (s *Service) ParseCV(data []byte, filename string) *types.ParsedProfile {
	extraction := ingestion.ExtractText(data, filename)
	if len(extraction.Warnings) > 0 {
		warnings := make([]string, len(extraction.Warnings))
		for i, w := range extraction.Warnings {
			warnings[i] = logging.TruncateForLog(w, maxLogFieldLength)
		}
		s.logger.Warn("cv text extraction degraded",
			zap.String("filename", logging.TruncateForLog(filename, maxLogFieldLength)),
			zap.String("format", string(extraction.Format)),
			zap.String("fidelity", string(extraction.Fidelity)),
			zap.Strings("warnings", warnings))
	}

	text := extraction.Text
	if !extraction.Readable() {
		text = ""
	}
	parsed := s.parser.Parse(text)
	parsed.Warnings = append(parsed.Warnings, extraction.Warnings...)

	s.logger.Debug("cv parsed",
		zap.String("filename", logging.TruncateForLog(filename, maxLogFieldLength)),
		zap.Int("skills", len(parsed.Skills)),
		zap.Int("education", len(parsed.Education)),
		zap.Int("experience", len(parsed.WorkExperience)))
	return parsed
}

// ImportCV parses a CV and merges it into the user's stored profile
func (s *Service) ImportCV(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*ImportResult, error) {
	parsed := s.ParseCV(data, filename)
	result := &ImportResult{Parsed: parsed, Summary: types.MergeSummary{FilledFields: []string{}, AddedSkills: []string{}}}
	if parsed.IsEmpty() {
		s.logger.Info("cv produced no fields, profile left unchanged", zap.String("user_id", userID.String()))
		return result, nil
	}

	_, summary, err := s.store.MergeProfileFields(ctx, userID, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to merge cv into profile: %w", err)
	}
	result.Summary = summary

	s.logger.Info("cv imported",
		zap.String("user_id", userID.String()),
		zap.Strings("filled_fields", summary.FilledFields),
		zap.Int("added_skills", len(summary.AddedSkills)),
		zap.Int("added_education", summary.AddedEducation),
		zap.Int("added_experience", summary.AddedExperience))
	return result, nil
}

// GetProfile loads a stored profile. A missing profile is *ErrProfileNotFound.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, &ErrProfileNotFound{UserID: userID}
	}
	return profile, nil
}

// Analyze loads a profile and computes its scoring features
func (s *Service) Analyze(ctx context.Context, userID uuid.UUID) (*types.Profile, analysis.Features, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, analysis.Features{}, err
	}
	return profile, analysis.Analyze(profile, s.opts.Locale, s.opts.Now()), nil
}

// GetJobRecommendations ranks active jobs for a user
func (s *Service) GetJobRecommendations(ctx context.Context, userID uuid.UUID, limit int) (*types.Recommendations[types.JobPosting], error) {
	profile, features, err := s.Analyze(ctx, userID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.store.QueryActiveJobs(ctx, types.JobFilter{}, s.opts.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load job postings: %w", err)
	}

	recs := recommend(ctx, s, jobs, ranking.JobID, s.opts.JobCutoff, s.clampLimit(limit),
		func(job types.JobPosting) types.ScoredJob {
			return ranking.ScoreJob(features, profile, job)
		})
	s.logResult("job recommendations", userID, len(jobs), len(recs.Items), recs.Partial)
	return recs, nil
}

// GetLearningRecommendations ranks active learning resources by how much of the
// market skill gap they cover
func (s *Service) GetLearningRecommendations(ctx context.Context, userID uuid.UUID, limit int) (*types.Recommendations[types.LearningResource], error) {
	profile, features, err := s.Analyze(ctx, userID)
	if err != nil {
		return nil, err
	}

	market, err := s.market.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build market snapshot: %w", err)
	}

	return s.learningRecommendations(ctx, userID, profile, features, market, limit)
}

// GetJobSpecificLearningRecommendations ranks learning resources against the
// skills of one job instead of the whole market
func (s *Service) GetJobSpecificLearningRecommendations(ctx context.Context, userID, jobID uuid.UUID, limit int) (*types.Recommendations[types.LearningResource], error) {
	profile, features, err := s.Analyze(ctx, userID)
	if err != nil {
		return nil, err
	}

	job, err := s.store.GetJobPosting(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job posting: %w", err)
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: jobID}
	}

	return s.learningRecommendations(ctx, userID, profile, features, skills.ForJob(*job), limit)
}

// InvalidateMarket drops the cached market snapshot
func (s *Service) InvalidateMarket(ctx context.Context) {
	s.market.Invalidate(ctx)
}

func (s *Service) learningRecommendations(ctx context.Context, userID uuid.UUID, profile *types.Profile, features analysis.Features, market *skills.MarketSnapshot, limit int) (*types.Recommendations[types.LearningResource], error) {
	resources, err := s.store.QueryActiveLearningResources(ctx, types.ResourceFilter{}, s.opts.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load learning resources: %w", err)
	}

	recs := recommend(ctx, s, resources, ranking.ResourceID, s.opts.LearningCutoff, s.clampLimit(limit),
		func(r types.LearningResource) types.ScoredResource {
			return ranking.ScoreResource(features, profile.Skills, market, r)
		})
	s.logResult("learning recommendations", userID, len(resources), len(recs.Items), recs.Partial)
	return recs, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

func (s *Service) logResult(kind string, userID uuid.UUID, candidates, items int, partial bool) {
	s.logger.Info(kind,
		zap.String("user_id", userID.String()),
		zap.Int("candidates", candidates),
		zap.Int("results", items),
		zap.Bool("partial", partial))
}
