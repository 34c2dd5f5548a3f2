package service

import (
	"sort"

	"github.com/noah-isme/mentor-api/internal/models"
)

type rankedCandidate struct {
	candidate models.SuggestionCandidate
	tier      models.SuggestionTier
}

// rankSuggestions orders eligible candidates by tier, then by the tier's
// secondary key, then by solution id. The result is a total order.
func rankSuggestions(policy SuggestionPolicy, candidates []models.SuggestionCandidate) []models.SuggestedSolution {
	ranked := make([]rankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, rankedCandidate{candidate: c, tier: policy.Classify(c)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankedLess(ranked[i], ranked[j])
	})

	out := make([]models.SuggestedSolution, 0, len(ranked))
	for _, r := range ranked {
		c := r.candidate
		out = append(out, models.SuggestedSolution{
			SolutionID:          c.ID,
			UserID:              c.UserID,
			ExerciseID:          c.ExerciseID,
			TrackID:             c.TrackID,
			Core:                c.ExerciseCore,
			IndependentMode:     c.IndependentMode,
			NumMentors:          c.NumMentors,
			LastUpdatedByUserAt: c.LastUpdatedByUserAt,
			CreatedAt:           c.CreatedAt,
			Tier:                r.tier,
		})
	}
	return out
}

func rankedLess(a, b rankedCandidate) bool {
	if a.tier != b.tier {
		return a.tier < b.tier
	}
	ca, cb := a.candidate, b.candidate
	switch a.tier {
	case models.TierFresh:
		if !ca.LastUpdatedByUserAt.Equal(cb.LastUpdatedByUserAt) {
			return ca.LastUpdatedByUserAt.Before(cb.LastUpdatedByUserAt)
		}
		if ca.ExerciseCore != cb.ExerciseCore {
			return ca.ExerciseCore
		}
	case models.TierLegacyAlive:
		if !ca.LastUpdatedByUserAt.Equal(cb.LastUpdatedByUserAt) {
			return ca.LastUpdatedByUserAt.Before(cb.LastUpdatedByUserAt)
		}
	default:
		if !ca.CreatedAt.Equal(cb.CreatedAt) {
			return ca.CreatedAt.Before(cb.CreatedAt)
		}
	}
	return ca.ID < cb.ID
}
