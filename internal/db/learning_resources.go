package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Learning Resource Methods
// -----------------------------------------------------------------------------

const learningResourceColumns = `id, title, url, provider, skills, difficulty, category, language,
		is_active, created_at`

func scanLearningResource(row pgx.Row) (types.LearningResource, error) {
	var r types.LearningResource
	var difficulty string
	err := row.Scan(&r.ID, &r.Title, &r.URL, &r.Provider, &r.Skills, &difficulty,
		&r.Category, &r.Language, &r.IsActive, &r.CreatedAt)
	r.Difficulty = types.Difficulty(difficulty)
	return r, err
}

// buildActiveResourcesQuery builds the active-resource query, newest first
func buildActiveResourcesQuery(filter types.ResourceFilter, limit int) (string, []any) {
	query := `SELECT ` + learningResourceColumns + ` FROM learning_resources WHERE is_active`
	args := []any{}
	argNum := 1

	if len(filter.Categories) > 0 {
		categories := make([]string, 0, len(filter.Categories))
		for _, c := range filter.Categories {
			categories = append(categories, strings.ToLower(c))
		}
		query += fmt.Sprintf(" AND category = ANY($%d)", argNum)
		args = append(args, categories)
		argNum++
	}
	if len(filter.Difficulties) > 0 {
		difficulties := make([]string, 0, len(filter.Difficulties))
		for _, d := range filter.Difficulties {
			difficulties = append(difficulties, strings.ToLower(string(d)))
		}
		query += fmt.Sprintf(" AND difficulty = ANY($%d)", argNum)
		args = append(args, difficulties)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d", argNum)
	args = append(args, limit)
	return query, args
}

// QueryActiveLearningResources retrieves up to limit active resources, newest first
func (db *DB) QueryActiveLearningResources(ctx context.Context, filter types.ResourceFilter, limit int) ([]types.LearningResource, error) {
	query, args := buildActiveResourcesQuery(filter, limit)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning resources: %w", err)
	}
	defer rows.Close()

	resources := []types.LearningResource{}
	for rows.Next() {
		r, err := scanLearningResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan learning resource: %w", err)
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read learning resources: %w", err)
	}
	return resources, nil
}

// UpsertLearningResource creates or updates a learning resource
func (db *DB) UpsertLearningResource(ctx context.Context, r *types.LearningResource) (*types.LearningResource, error) {
	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = nowUTC()
	}

	saved, err := scanLearningResource(db.pool.QueryRow(ctx,
		`INSERT INTO learning_resources (id, title, url, provider, skills, difficulty, category,
		                                 language, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		     title = $2,
		     url = $3,
		     provider = $4,
		     skills = $5,
		     difficulty = $6,
		     category = $7,
		     language = $8,
		     is_active = $9
		 RETURNING `+learningResourceColumns,
		id, r.Title, r.URL, r.Provider, nonNil(r.Skills), strings.ToLower(string(r.Difficulty)),
		strings.ToLower(r.Category), r.Language, r.IsActive, createdAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert learning resource: %w", err)
	}
	return &saved, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
