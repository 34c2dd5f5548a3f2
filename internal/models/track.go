package models

import "time"

// Track is a subject area (usually a programming language).
type Track struct {
	ID        string    `db:"id" json:"id"`
	Slug      string    `db:"slug" json:"slug"`
	Title     string    `db:"title" json:"title"`
	RepoURL   string    `db:"repo_url" json:"repo_url"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserTrack is a user's membership in a track. IndependentMode records whether
// the user opted out of mentor review for that track.
type UserTrack struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	TrackID         string    `db:"track_id" json:"track_id"`
	IndependentMode bool      `db:"independent_mode" json:"independent_mode"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ModeSwitchResult summarises a track mode transition.
type ModeSwitchResult struct {
	UserTrackID       string `json:"user_track_id"`
	WasIndependent    bool   `json:"was_independent"`
	SolutionsSwitched int64  `json:"solutions_switched"`
}
