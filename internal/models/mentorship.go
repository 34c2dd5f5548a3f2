package models

import "time"

// MentorshipStatus distinguishes an ongoing mentoring relationship from a dismissal.
type MentorshipStatus string

const (
	MentorshipActive  MentorshipStatus = "active"
	MentorshipIgnored MentorshipStatus = "ignored"
)

// Valid reports whether the status is one of the known values.
func (s MentorshipStatus) Valid() bool {
	return s == MentorshipActive || s == MentorshipIgnored
}

// SolutionMentorship links a mentor to a specific solution. An ignored row means
// the mentor never wants to see that solution again.
type SolutionMentorship struct {
	ID         string           `db:"id" json:"id"`
	UserID     string           `db:"user_id" json:"user_id"`
	SolutionID string           `db:"solution_id" json:"solution_id"`
	Status     MentorshipStatus `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// MentorableSolution is the slice of a solution needed to start or end mentoring it.
type MentorableSolution struct {
	SolutionID  string     `db:"solution_id"`
	TrackID     string     `db:"track_id"`
	UserID      string     `db:"user_id"`
	CompletedAt *time.Time `db:"completed_at"`
}
