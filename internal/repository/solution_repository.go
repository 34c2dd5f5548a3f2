package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/mentor-api/internal/models"
)

// SolutionRepository reads and maintains solution rows.
type SolutionRepository struct {
	db *sqlx.DB
}

// NewSolutionRepository constructs the repository.
func NewSolutionRepository(db *sqlx.DB) *SolutionRepository {
	return &SolutionRepository{db: db}
}

// ListSuggestionCandidates returns open (not completed, not approved) solutions in
// tracks the mentor mentors, narrowed by the optional filter. Each row carries the
// iteration count and the mentor's own mentorship status so the caller can apply
// the full eligibility check.
func (r *SolutionRepository) ListSuggestionCandidates(ctx context.Context, mentorID string, filter models.SuggestionFilter) ([]models.SuggestionCandidate, error) {
	query := strings.Builder{}
	query.WriteString(`
SELECT
	s.id,
	s.user_id,
	s.exercise_id,
	s.approved_by_id,
	s.completed_at,
	s.published_at,
	s.independent_mode,
	s.num_mentors,
	s.last_updated_by_user_at,
	s.created_at,
	s.updated_at,
	e.track_id,
	e.core AS exercise_core,
	(SELECT COUNT(*) FROM iterations i WHERE i.solution_id = s.id) AS iteration_count,
	sm.status AS mentor_status
FROM solutions s
JOIN exercises e ON e.id = s.exercise_id
LEFT JOIN solution_mentorships sm
	ON sm.solution_id = s.id
	AND sm.user_id = $1
WHERE s.completed_at IS NULL
	AND s.approved_by_id IS NULL
	AND EXISTS (
		SELECT 1 FROM track_mentorships tm
		WHERE tm.track_id = e.track_id
			AND tm.user_id = $1
	)`)

	args := []interface{}{mentorID}
	if len(filter.TrackIDs) > 0 {
		args = append(args, pq.Array(filter.TrackIDs))
		fmt.Fprintf(&query, "\n\tAND e.track_id = ANY($%d)", len(args))
	}
	if len(filter.ExerciseIDs) > 0 {
		args = append(args, pq.Array(filter.ExerciseIDs))
		fmt.Fprintf(&query, "\n\tAND s.exercise_id = ANY($%d)", len(args))
	}
	query.WriteString("\nORDER BY s.created_at ASC, s.id ASC")

	var candidates []models.SuggestionCandidate
	if err := r.db.SelectContext(ctx, &candidates, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list suggestion candidates: %w", err)
	}
	return candidates, nil
}

// RecountMentors rewrites num_mentors wherever it disagrees with the number of
// active mentorship rows and returns how many solutions were corrected.
func (r *SolutionRepository) RecountMentors(ctx context.Context) (int64, error) {
	const query = `
UPDATE solutions s
SET num_mentors = c.active_count, updated_at = NOW()
FROM (
	SELECT s2.id, COUNT(sm.id) FILTER (WHERE sm.status = 'active') AS active_count
	FROM solutions s2
	LEFT JOIN solution_mentorships sm ON sm.solution_id = s2.id
	GROUP BY s2.id
) c
WHERE c.id = s.id
	AND s.num_mentors <> c.active_count`

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("recount solution mentors: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("recount solution mentors rows: %w", err)
	}
	return affected, nil
}
