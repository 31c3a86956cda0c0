package recommend

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/types"
)

// Store is the persistence the service reads profiles and candidates from.
// Lookups return (nil, nil) when the row does not exist.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	// MergeProfileFields atomically merges parsed CV fields into the stored profile,
	// creating it when absent.
	MergeProfileFields(ctx context.Context, userID uuid.UUID, parsed *types.ParsedProfile) (*types.Profile, types.MergeSummary, error)
	QueryActiveJobs(ctx context.Context, filter types.JobFilter, limit int) ([]types.JobPosting, error)
	GetJobPosting(ctx context.Context, jobID uuid.UUID) (*types.JobPosting, error)
	QueryActiveLearningResources(ctx context.Context, filter types.ResourceFilter, limit int) ([]types.LearningResource, error)
}
