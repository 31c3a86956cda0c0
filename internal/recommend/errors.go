package recommend

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/types"
)

// ErrProfileNotFound indicates the user has no stored profile
type ErrProfileNotFound struct {
	UserID uuid.UUID
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("profile not found: %s", e.UserID)
}

// ErrJobNotFound indicates the job posting does not exist
type ErrJobNotFound struct {
	JobID uuid.UUID
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job posting not found: %s", e.JobID)
}

// IsNotFound reports whether err is a missing profile or job
func IsNotFound(err error) bool {
	var profileErr *ErrProfileNotFound
	var jobErr *ErrJobNotFound
	return errors.As(err, &profileErr) || errors.As(err, &jobErr)
}

// BestEffort turns a missing profile into an empty result set. Dashboard-style
// callers use it; direct profile loads keep the error.
func BestEffort[T any](recs *types.Recommendations[T], err error) (*types.Recommendations[T], error) {
	var notFound *ErrProfileNotFound
	if errors.As(err, &notFound) {
		return &types.Recommendations[T]{Items: []types.ScoredCandidate[T]{}}, nil
	}
	return recs, err
}
