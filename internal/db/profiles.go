package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-matcher/internal/profile"
	"github.com/jonathan/career-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Profile Methods
// -----------------------------------------------------------------------------

// GetProfile retrieves a user's profile, or nil if the user has none
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT data FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return decodeProfile(userID, data)
}

// SaveProfile creates or replaces a user's profile
func (db *DB) SaveProfile(ctx context.Context, p *types.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, data)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET data = $2, updated_at = NOW()`,
		p.UserID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// MergeProfileFields merges parsed CV fields into the stored profile in one
// transaction. The row is created if missing and locked before it is read, so
// concurrent imports for the same user serialize instead of losing updates.
func (db *DB) MergeProfileFields(ctx context.Context, userID uuid.UUID, parsed *types.ParsedProfile) (*types.Profile, types.MergeSummary, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, types.MergeSummary{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, types.MergeSummary{}, fmt.Errorf("failed to create profile row: %w", err)
	}

	var data []byte
	err = tx.QueryRow(ctx,
		`SELECT data FROM profiles WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&data)
	if err != nil {
		return nil, types.MergeSummary{}, fmt.Errorf("failed to lock profile: %w", err)
	}

	existing, err := decodeProfile(userID, data)
	if err != nil {
		return nil, types.MergeSummary{}, err
	}

	merged, summary := profile.Merge(*existing, parsed)

	if summary.Changed() {
		out, err := json.Marshal(merged)
		if err != nil {
			return nil, types.MergeSummary{}, fmt.Errorf("failed to marshal profile: %w", err)
		}
		_, err = tx.Exec(ctx,
			`UPDATE profiles SET data = $2, updated_at = NOW() WHERE user_id = $1`,
			userID, out,
		)
		if err != nil {
			return nil, types.MergeSummary{}, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, types.MergeSummary{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &merged, summary, nil
}

// decodeProfile unmarshals the JSONB document. The row key is authoritative for
// the user ID.
func decodeProfile(userID uuid.UUID, data []byte) (*types.Profile, error) {
	var p types.Profile
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
	}
	p.UserID = userID
	return &p, nil
}
