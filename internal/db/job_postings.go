package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Job Posting Methods
// -----------------------------------------------------------------------------

const jobPostingColumns = `id, title, company, description, required_skills, experience_level,
		education_requirements, location, remote, is_active, posted_at`

func scanJobPosting(row pgx.Row) (types.JobPosting, error) {
	var p types.JobPosting
	var level string
	err := row.Scan(&p.ID, &p.Title, &p.Company, &p.Description, &p.RequiredSkills, &level,
		&p.EducationRequirements, &p.Location, &p.Remote, &p.IsActive, &p.PostedAt)
	p.ExperienceLevel = types.ExperienceLevel(level)
	return p, err
}

// GetJobPosting retrieves a job posting by ID, or nil if it does not exist
func (db *DB) GetJobPosting(ctx context.Context, id uuid.UUID) (*types.JobPosting, error) {
	p, err := scanJobPosting(db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &p, nil
}

// buildActiveJobsQuery builds the active-job query, newest first. id breaks ties
// so the candidate order is stable across runs.
func buildActiveJobsQuery(filter types.JobFilter, limit int) (string, []any) {
	query := `SELECT ` + jobPostingColumns + ` FROM job_postings WHERE is_active`
	args := []any{}
	argNum := 1

	if filter.Location != "" {
		query += fmt.Sprintf(" AND (location ILIKE $%d OR remote)", argNum)
		args = append(args, "%"+filter.Location+"%")
		argNum++
	}
	if len(filter.ExperienceLevels) > 0 {
		levels := make([]string, 0, len(filter.ExperienceLevels))
		for _, l := range filter.ExperienceLevels {
			levels = append(levels, strings.ToLower(string(l)))
		}
		query += fmt.Sprintf(" AND experience_level = ANY($%d)", argNum)
		args = append(args, levels)
		argNum++
	}
	if filter.PostedSince != nil {
		query += fmt.Sprintf(" AND posted_at >= $%d", argNum)
		args = append(args, *filter.PostedSince)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY posted_at DESC, id LIMIT $%d", argNum)
	args = append(args, limit)
	return query, args
}

// QueryActiveJobs retrieves up to limit active job postings, newest first
func (db *DB) QueryActiveJobs(ctx context.Context, filter types.JobFilter, limit int) ([]types.JobPosting, error) {
	query, args := buildActiveJobsQuery(filter, limit)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query job postings: %w", err)
	}
	defer rows.Close()

	postings := []types.JobPosting{}
	for rows.Next() {
		p, err := scanJobPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job postings: %w", err)
	}
	return postings, nil
}

// UpsertJobPosting creates or updates a job posting. A nil ID is assigned by
// the database.
func (db *DB) UpsertJobPosting(ctx context.Context, p *types.JobPosting) (*types.JobPosting, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	postedAt := p.PostedAt
	if postedAt.IsZero() {
		postedAt = nowUTC()
	}

	saved, err := scanJobPosting(db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (id, title, company, description, required_skills, experience_level,
		                           education_requirements, location, remote, is_active, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
		     title = $2,
		     company = $3,
		     description = $4,
		     required_skills = $5,
		     experience_level = $6,
		     education_requirements = $7,
		     location = $8,
		     remote = $9,
		     is_active = $10,
		     posted_at = $11
		 RETURNING `+jobPostingColumns,
		id, p.Title, p.Company, p.Description, nonNil(p.RequiredSkills), strings.ToLower(string(p.ExperienceLevel)),
		nonNil(p.EducationRequirements), p.Location, p.Remote, p.IsActive, postedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job posting: %w", err)
	}
	return &saved, nil
}

// DeactivateJobPosting marks a posting inactive so it leaves candidate queries
func (db *DB) DeactivateJobPosting(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `UPDATE job_postings SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate job posting: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job posting not found: %s", id)
	}
	return nil
}
