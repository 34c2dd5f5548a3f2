package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-api/internal/models"
)

// MentorshipRepository manages solution mentorship rows and keeps
// solutions.num_mentors equal to the number of active rows.
type MentorshipRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewMentorshipRepository constructs the repository.
func NewMentorshipRepository(db *sqlx.DB) *MentorshipRepository {
	return &MentorshipRepository{db: db, now: time.Now}
}

// FindMentorableSolution loads the solution with its track. Missing rows return sql.ErrNoRows.
func (r *MentorshipRepository) FindMentorableSolution(ctx context.Context, solutionID string) (*models.MentorableSolution, error) {
	const query = `
SELECT s.id AS solution_id, e.track_id, s.user_id, s.completed_at
FROM solutions s
JOIN exercises e ON e.id = s.exercise_id
WHERE s.id = $1`
	var sol models.MentorableSolution
	if err := r.db.GetContext(ctx, &sol, query, solutionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find mentorable solution: %w", err)
	}
	return &sol, nil
}

// Start makes the mentor an active mentor of the solution, re-activating an
// ignored row if present. It returns the previous status (nil when new).
func (r *MentorshipRepository) Start(ctx context.Context, mentorID, solutionID string) (*models.MentorshipStatus, error) {
	var previous *models.MentorshipStatus
	err := withTx(ctx, r.db, "start mentorship", func(tx *sqlx.Tx) error {
		if err := lockSolution(ctx, tx, solutionID); err != nil {
			return err
		}
		existing, err := lockMentorship(ctx, tx, mentorID, solutionID)
		if err != nil {
			return err
		}
		now := r.now().UTC()
		switch {
		case existing == nil:
			const insert = `INSERT INTO solution_mentorships (id, user_id, solution_id, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)`
			if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), mentorID, solutionID, models.MentorshipActive, now); err != nil {
				return fmt.Errorf("insert solution mentorship: %w", err)
			}
		case existing.Status == models.MentorshipActive:
			return ErrMentorshipActive
		default:
			previous = &existing.Status
			if err := setMentorshipStatus(ctx, tx, existing.ID, models.MentorshipActive, now); err != nil {
				return err
			}
		}
		return adjustMentorCount(ctx, tx, solutionID, 1, now)
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

// Ignore records that the mentor never wants to see the solution again. Ignoring an
// actively mentored solution ends that mentorship. Repeated calls are no-ops.
func (r *MentorshipRepository) Ignore(ctx context.Context, mentorID, solutionID string) (*models.MentorshipStatus, error) {
	var previous *models.MentorshipStatus
	err := withTx(ctx, r.db, "ignore solution", func(tx *sqlx.Tx) error {
		if err := lockSolution(ctx, tx, solutionID); err != nil {
			return err
		}
		existing, err := lockMentorship(ctx, tx, mentorID, solutionID)
		if err != nil {
			return err
		}
		now := r.now().UTC()
		if existing == nil {
			const insert = `INSERT INTO solution_mentorships (id, user_id, solution_id, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)`
			if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), mentorID, solutionID, models.MentorshipIgnored, now); err != nil {
				return fmt.Errorf("insert ignored mentorship: %w", err)
			}
			return nil
		}
		previous = &existing.Status
		if existing.Status == models.MentorshipIgnored {
			return nil
		}
		if err := setMentorshipStatus(ctx, tx, existing.ID, models.MentorshipIgnored, now); err != nil {
			return err
		}
		return adjustMentorCount(ctx, tx, solutionID, -1, now)
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

// Abandon deletes the mentor's active mentorship of the solution.
func (r *MentorshipRepository) Abandon(ctx context.Context, mentorID, solutionID string) error {
	return withTx(ctx, r.db, "abandon mentorship", func(tx *sqlx.Tx) error {
		if err := lockSolution(ctx, tx, solutionID); err != nil {
			return err
		}
		const del = `DELETE FROM solution_mentorships WHERE user_id = $1 AND solution_id = $2 AND status = $3`
		res, err := tx.ExecContext(ctx, del, mentorID, solutionID, models.MentorshipActive)
		if err != nil {
			return fmt.Errorf("delete solution mentorship: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete solution mentorship rows: %w", err)
		}
		if affected == 0 {
			return ErrMentorshipMissing
		}
		return adjustMentorCount(ctx, tx, solutionID, -1, r.now().UTC())
	})
}

func lockSolution(ctx context.Context, tx *sqlx.Tx, solutionID string) error {
	var id string
	if err := tx.GetContext(ctx, &id, `SELECT id FROM solutions WHERE id = $1 FOR UPDATE`, solutionID); err != nil {
		return fmt.Errorf("lock solution: %w", err)
	}
	return nil
}

func lockMentorship(ctx context.Context, tx *sqlx.Tx, mentorID, solutionID string) (*models.SolutionMentorship, error) {
	const query = `SELECT id, user_id, solution_id, status, created_at, updated_at FROM solution_mentorships WHERE user_id = $1 AND solution_id = $2 FOR UPDATE`
	var m models.SolutionMentorship
	if err := tx.GetContext(ctx, &m, query, mentorID, solutionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock solution mentorship: %w", err)
	}
	return &m, nil
}

func setMentorshipStatus(ctx context.Context, tx *sqlx.Tx, id string, status models.MentorshipStatus, now time.Time) error {
	const update = `UPDATE solution_mentorships SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, id, status, now); err != nil {
		return fmt.Errorf("update solution mentorship status: %w", err)
	}
	return nil
}

func adjustMentorCount(ctx context.Context, tx *sqlx.Tx, solutionID string, delta int, now time.Time) error {
	const update = `UPDATE solutions SET num_mentors = GREATEST(num_mentors + $2, 0), updated_at = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, solutionID, delta, now); err != nil {
		return fmt.Errorf("adjust solution mentor count: %w", err)
	}
	return nil
}
