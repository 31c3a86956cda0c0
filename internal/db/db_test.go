package db

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-matcher/internal/types"
)

func TestBuildActiveJobsQuery_NoFilter(t *testing.T) {
	query, args := buildActiveJobsQuery(types.JobFilter{}, 200)

	assert.True(t, strings.HasSuffix(query, " WHERE is_active ORDER BY posted_at DESC, id LIMIT $1"), query)
	assert.Equal(t, []any{200}, args)
}

func TestBuildActiveJobsQuery_AllFilters(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args := buildActiveJobsQuery(types.JobFilter{
		Location:         "Kigali",
		ExperienceLevels: []types.ExperienceLevel{"Mid", types.LevelSenior},
		PostedSince:      &since,
	}, 50)

	assert.Contains(t, query, "(location ILIKE $1 OR remote)")
	assert.Contains(t, query, "experience_level = ANY($2)")
	assert.Contains(t, query, "posted_at >= $3")
	assert.Contains(t, query, "LIMIT $4")
	require.Len(t, args, 4)
	assert.Equal(t, "%Kigali%", args[0])
	assert.Equal(t, []string{"mid", "senior"}, args[1])
	assert.Equal(t, since, args[2])
	assert.Equal(t, 50, args[3])
}

func TestBuildActiveResourcesQuery(t *testing.T) {
	query, args := buildActiveResourcesQuery(types.ResourceFilter{
		Categories:   []string{"Technical"},
		Difficulties: []types.Difficulty{types.DifficultyBeginner},
	}, 10)

	assert.Contains(t, query, "category = ANY($1)")
	assert.Contains(t, query, "difficulty = ANY($2)")
	assert.True(t, strings.HasSuffix(query, "ORDER BY created_at DESC, id LIMIT $3"), query)
	assert.Equal(t, []any{[]string{"technical"}, []string{"beginner"}, 10}, args)
}

func TestDecodeProfile(t *testing.T) {
	userID := mustUUID(t, "11111111-2222-3333-4444-555555555555")

	p, err := decodeProfile(userID, []byte(`{"user_id":"00000000-0000-0000-0000-000000000000","name":"Jane","skills":["Go"]}`))
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "Jane", p.Name)
	assert.Equal(t, []string{"Go"}, p.Skills)

	p, err = decodeProfile(userID, nil)
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)

	_, err = decodeProfile(userID, []byte(`{not json`))
	assert.Error(t, err)
}

func TestSchema_DefinesTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"profiles", "job_postings", "learning_resources"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
