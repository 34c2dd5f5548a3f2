package dto

import "github.com/noah-isme/mentor-api/internal/models"

// SuggestionQuery captures GET /mentor/suggestions query parameters. Both
// values are comma separated id lists.
type SuggestionQuery struct {
	TrackIDs    string `form:"track_ids"`
	ExerciseIDs string `form:"exercise_ids"`
}

// SuggestionListResponse wraps the ranked suggestions.
type SuggestionListResponse struct {
	Solutions []models.SuggestedSolution `json:"solutions"`
	Count     int                        `json:"count"`
}

// SwitchTrackModeRequest identifies the membership to move to mentored mode.
type SwitchTrackModeRequest struct {
	UserID  string `validate:"required"`
	TrackID string `validate:"required,uuid"`
}

// TrackModeResponse reports the membership state after a switch.
type TrackModeResponse struct {
	TrackID         string `json:"track_id"`
	IndependentMode bool   `json:"independent_mode"`
}

// MentorshipRequest identifies a mentor acting on a solution.
type MentorshipRequest struct {
	MentorID   string `validate:"required"`
	SolutionID string `validate:"required,uuid"`
}

// MentorshipResponse reports the mentor's relation to a solution after a change.
type MentorshipResponse struct {
	SolutionID string                  `json:"solution_id"`
	Status     models.MentorshipStatus `json:"status"`
}

// ReconcileJobResponse is returned after a reconciliation job is queued.
type ReconcileJobResponse struct {
	JobID string `json:"job_id"`
	Type  string `json:"type"`
}
