package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-api/internal/models"
)

// UserTrackRepository persists track memberships and their mode flags.
type UserTrackRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewUserTrackRepository constructs the repository.
func NewUserTrackRepository(db *sqlx.DB) *UserTrackRepository {
	return &UserTrackRepository{db: db, now: time.Now}
}

// Find loads the membership of a user in a track. Missing rows return sql.ErrNoRows.
func (r *UserTrackRepository) Find(ctx context.Context, userID, trackID string) (*models.UserTrack, error) {
	const query = `SELECT id, user_id, track_id, independent_mode, created_at, updated_at FROM user_tracks WHERE user_id = $1 AND track_id = $2`
	var ut models.UserTrack
	if err := r.db.GetContext(ctx, &ut, query, userID, trackID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user track: %w", err)
	}
	return &ut, nil
}

// SwitchToMentoredMode clears the independent flag on the membership and on every
// uncompleted solution the user owns in that track, atomically. Completed solutions
// keep their flag. A missing membership returns an error wrapping sql.ErrNoRows.
func (r *UserTrackRepository) SwitchToMentoredMode(ctx context.Context, userID, trackID string) (*models.ModeSwitchResult, error) {
	result := &models.ModeSwitchResult{}
	err := withTx(ctx, r.db, "mentored mode", func(tx *sqlx.Tx) error {
		var current struct {
			ID              string `db:"id"`
			IndependentMode bool   `db:"independent_mode"`
		}
		const lockQuery = `SELECT id, independent_mode FROM user_tracks WHERE user_id = $1 AND track_id = $2 FOR UPDATE`
		if err := tx.GetContext(ctx, &current, lockQuery, userID, trackID); err != nil {
			return fmt.Errorf("lock user track: %w", err)
		}
		result.UserTrackID = current.ID
		result.WasIndependent = current.IndependentMode

		now := r.now().UTC()
		if current.IndependentMode {
			const updateTrack = `UPDATE user_tracks SET independent_mode = FALSE, updated_at = $2 WHERE id = $1`
			if _, err := tx.ExecContext(ctx, updateTrack, current.ID, now); err != nil {
				return fmt.Errorf("update user track mode: %w", err)
			}
		}

		const updateSolutions = `
UPDATE solutions
SET independent_mode = FALSE, updated_at = $3
WHERE user_id = $1
	AND completed_at IS NULL
	AND independent_mode = TRUE
	AND exercise_id IN (SELECT id FROM exercises WHERE track_id = $2)`
		res, err := tx.ExecContext(ctx, updateSolutions, userID, trackID, now)
		if err != nil {
			return fmt.Errorf("update solution modes: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update solution modes rows: %w", err)
		}
		result.SolutionsSwitched = affected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
