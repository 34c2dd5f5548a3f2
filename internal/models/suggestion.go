package models

import (
	"fmt"
	"time"
)

// SuggestionFilter narrows the suggestion set. Empty slices mean "no restriction".
type SuggestionFilter struct {
	TrackIDs    []string
	ExerciseIDs []string
}

// SuggestionCandidate is an open solution snapshot joined with the data the
// eligibility check and ranking need. MentorStatus is the requesting mentor's
// relation to the solution, nil when there is none.
type SuggestionCandidate struct {
	Solution
	TrackID        string            `db:"track_id"`
	ExerciseCore   bool              `db:"exercise_core"`
	IterationCount int               `db:"iteration_count"`
	MentorStatus   *MentorshipStatus `db:"mentor_status"`
}

// InProgress reports whether the mentee has submitted at least one iteration.
func (c SuggestionCandidate) InProgress() bool {
	return c.IterationCount > 0
}

// SuggestionTier is the priority band a suggested solution falls into. Lower tiers come first.
type SuggestionTier int

const (
	TierFresh SuggestionTier = iota + 1
	TierLegacyAlive
	TierIndependent
	TierLegacyDead
)

var tierNames = map[SuggestionTier]string{
	TierFresh:       "fresh",
	TierLegacyAlive: "legacy_alive",
	TierIndependent: "independent",
	TierLegacyDead:  "legacy_dead",
}

// String returns the wire name of the tier.
func (t SuggestionTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// MarshalText renders the tier by name in JSON payloads.
func (t SuggestionTier) MarshalText() ([]byte, error) {
	if _, ok := tierNames[t]; !ok {
		return nil, fmt.Errorf("unknown suggestion tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// SuggestedSolution is one ranked entry returned to a mentor.
type SuggestedSolution struct {
	SolutionID          string         `json:"solution_id"`
	UserID              string         `json:"user_id"`
	ExerciseID          string         `json:"exercise_id"`
	TrackID             string         `json:"track_id"`
	Core                bool           `json:"core"`
	IndependentMode     bool           `json:"independent_mode"`
	NumMentors          int            `json:"num_mentors"`
	LastUpdatedByUserAt time.Time      `json:"last_updated_by_user_at"`
	CreatedAt           time.Time      `json:"created_at"`
	Tier                SuggestionTier `json:"tier"`
}
