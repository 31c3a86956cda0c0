package main

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/profile"
	"github.com/jonathan/career-matcher/internal/types"
)

// memoryStore serves one profile and candidate lists loaded from files.
// Every loaded candidate is treated as active.
type memoryStore struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]types.Profile
	jobs      []types.JobPosting
	resources []types.LearningResource
}

func newMemoryStore(jobs []types.JobPosting, resources []types.LearningResource) *memoryStore {
	sorted := append([]types.JobPosting(nil), jobs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PostedAt.After(sorted[j].PostedAt)
	})
	return &memoryStore{
		profiles:  make(map[uuid.UUID]types.Profile),
		jobs:      sorted,
		resources: resources,
	}
}

func (m *memoryStore) put(p types.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p
}

func (m *memoryStore) GetProfile(_ context.Context, userID uuid.UUID) (*types.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryStore) MergeProfileFields(_ context.Context, userID uuid.UUID, parsed *types.ParsedProfile) (*types.Profile, types.MergeSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.profiles[userID]
	if !ok {
		existing = types.Profile{UserID: userID}
	}
	merged, summary := profile.Merge(existing, parsed)
	m.profiles[userID] = merged
	return &merged, summary, nil
}

func (m *memoryStore) QueryActiveJobs(_ context.Context, _ types.JobFilter, limit int) ([]types.JobPosting, error) {
	return limited(m.jobs, limit), nil
}

func (m *memoryStore) GetJobPosting(_ context.Context, jobID uuid.UUID) (*types.JobPosting, error) {
	for _, job := range m.jobs {
		if job.ID == jobID {
			j := job
			return &j, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) QueryActiveLearningResources(_ context.Context, _ types.ResourceFilter, limit int) ([]types.LearningResource, error) {
	return limited(m.resources, limit), nil
}

func limited[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append([]T(nil), items...)
}
