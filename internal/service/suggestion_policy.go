package service

import (
	"time"

	"github.com/noah-isme/mentor-api/internal/models"
	"github.com/noah-isme/mentor-api/pkg/config"
)

// SuggestionPolicy holds the two constants the engine depends on. It is built
// once from configuration and shared read-only between requests.
type SuggestionPolicy struct {
	// MentorLoadThreshold is the exclusive upper bound on num_mentors for a
	// solution to still be suggested.
	MentorLoadThreshold int
	// MigrationCutoverAt splits legacy solutions from fresh ones.
	MigrationCutoverAt time.Time
}

// NewSuggestionPolicy builds the policy from configuration.
func NewSuggestionPolicy(cfg config.SuggestionsConfig) SuggestionPolicy {
	threshold := cfg.MentorLoadThreshold
	if threshold < 1 {
		threshold = 1
	}
	return SuggestionPolicy{MentorLoadThreshold: threshold, MigrationCutoverAt: cfg.MigrationCutoverAt.UTC()}
}

// suggestionScope is the normalised view of what a mentor may be shown.
// A nil filter set means no restriction.
type suggestionScope struct {
	mentoredTracks map[string]struct{}
	trackFilter    map[string]struct{}
	exerciseFilter map[string]struct{}
}

func newSuggestionScope(mentoredTrackIDs []string, filter models.SuggestionFilter) suggestionScope {
	scope := suggestionScope{mentoredTracks: toSet(mentoredTrackIDs)}
	if len(filter.TrackIDs) > 0 {
		scope.trackFilter = toSet(filter.TrackIDs)
	}
	if len(filter.ExerciseIDs) > 0 {
		scope.exerciseFilter = toSet(filter.ExerciseIDs)
	}
	return scope
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (s suggestionScope) allows(trackID, exerciseID string) bool {
	if _, ok := s.mentoredTracks[trackID]; !ok {
		return false
	}
	if s.trackFilter != nil {
		if _, ok := s.trackFilter[trackID]; !ok {
			return false
		}
	}
	if s.exerciseFilter != nil {
		if _, ok := s.exerciseFilter[exerciseID]; !ok {
			return false
		}
	}
	return true
}

// Eligible evaluates the full candidate predicate for one snapshot.
func (p SuggestionPolicy) Eligible(c models.SuggestionCandidate, scope suggestionScope) bool {
	switch {
	case !scope.allows(c.TrackID, c.ExerciseID):
		return false
	case !c.InProgress():
		return false
	case c.Completed(), c.Approved():
		return false
	case c.NumMentors >= p.MentorLoadThreshold:
		return false
	case c.MentorStatus != nil:
		// active or ignored, the mentor has already dealt with this one
		return false
	}
	return true
}

// Classify places an eligible candidate in its priority tier. Independent mode
// is checked before dead legacy so an independent legacy solution is tier 3.
func (p SuggestionPolicy) Classify(c models.SuggestionCandidate) models.SuggestionTier {
	legacy := c.Legacy(p.MigrationCutoverAt)
	switch {
	case !c.IndependentMode && !legacy:
		return models.TierFresh
	case !c.IndependentMode && c.ActiveSince(p.MigrationCutoverAt):
		return models.TierLegacyAlive
	case c.IndependentMode:
		return models.TierIndependent
	default:
		return models.TierLegacyDead
	}
}
