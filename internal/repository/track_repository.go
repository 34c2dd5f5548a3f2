package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-api/internal/models"
)

// TrackRepository provides access to tracks and track mentorships.
type TrackRepository struct {
	db *sqlx.DB
}

// NewTrackRepository constructs the repository.
func NewTrackRepository(db *sqlx.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

const trackColumns = `t.id, t.slug, t.title, t.repo_url, t.active, t.created_at, t.updated_at`

// ListActive returns the active track catalog ordered by title.
func (r *TrackRepository) ListActive(ctx context.Context) ([]models.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks t WHERE t.active = TRUE ORDER BY t.title ASC`
	var tracks []models.Track
	if err := r.db.SelectContext(ctx, &tracks, query); err != nil {
		return nil, fmt.Errorf("list active tracks: %w", err)
	}
	return tracks, nil
}

// ListMentoredByUser returns the tracks the user holds a mentorship for.
func (r *TrackRepository) ListMentoredByUser(ctx context.Context, userID string) ([]models.Track, error) {
	query := `SELECT ` + trackColumns + `
FROM tracks t
JOIN track_mentorships tm ON tm.track_id = t.id
WHERE tm.user_id = $1
ORDER BY t.title ASC`
	var tracks []models.Track
	if err := r.db.SelectContext(ctx, &tracks, query, userID); err != nil {
		return nil, fmt.Errorf("list mentored tracks: %w", err)
	}
	return tracks, nil
}

// MentoredTrackIDs returns the ids of tracks the user holds a mentorship for.
func (r *TrackRepository) MentoredTrackIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT track_id FROM track_mentorships WHERE user_id = $1 ORDER BY track_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list mentored track ids: %w", err)
	}
	return ids, nil
}

// IsMentor reports whether the user holds a mentorship on the track.
func (r *TrackRepository) IsMentor(ctx context.Context, userID, trackID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM track_mentorships WHERE user_id = $1 AND track_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, trackID); err != nil {
		return false, fmt.Errorf("check track mentorship: %w", err)
	}
	return exists, nil
}
