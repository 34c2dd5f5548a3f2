package models

import "time"

// Solution is a mentee's work on one exercise.
type Solution struct {
	ID                  string     `db:"id" json:"id"`
	UserID              string     `db:"user_id" json:"user_id"`
	ExerciseID          string     `db:"exercise_id" json:"exercise_id"`
	ApprovedByID        *string    `db:"approved_by_id" json:"approved_by_id,omitempty"`
	CompletedAt         *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	PublishedAt         *time.Time `db:"published_at" json:"published_at,omitempty"`
	IndependentMode     bool       `db:"independent_mode" json:"independent_mode"`
	NumMentors          int        `db:"num_mentors" json:"num_mentors"`
	LastUpdatedByUserAt time.Time  `db:"last_updated_by_user_at" json:"last_updated_by_user_at"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Completed reports whether the mentee finished the exercise.
func (s Solution) Completed() bool {
	return s.CompletedAt != nil
}

// Approved reports whether a mentor signed off on the solution.
func (s Solution) Approved() bool {
	return s.ApprovedByID != nil
}

// Legacy reports whether the solution predates the migration cutover.
func (s Solution) Legacy(cutover time.Time) bool {
	return s.CreatedAt.Before(cutover)
}

// ActiveSince reports whether the mentee touched the solution strictly after t.
func (s Solution) ActiveSince(t time.Time) bool {
	return s.LastUpdatedByUserAt.After(t)
}
