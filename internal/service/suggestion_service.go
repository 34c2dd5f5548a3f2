package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-api/internal/models"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
)

type mentoredTrackReader interface {
	MentoredTrackIDs(ctx context.Context, userID string) ([]string, error)
}

type suggestionCandidateReader interface {
	ListSuggestionCandidates(ctx context.Context, mentorID string, filter models.SuggestionFilter) ([]models.SuggestionCandidate, error)
}

// SuggestionService computes the ranked list of solutions a mentor could pick up next.
// Results are recomputed on every call and nothing is written.
type SuggestionService struct {
	tracks     mentoredTrackReader
	candidates suggestionCandidateReader
	policy     SuggestionPolicy
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewSuggestionService constructs the suggestion engine.
func NewSuggestionService(tracks mentoredTrackReader, candidates suggestionCandidateReader, policy SuggestionPolicy, metrics *MetricsService, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.MentorLoadThreshold < 1 {
		policy.MentorLoadThreshold = 1
	}
	return &SuggestionService{tracks: tracks, candidates: candidates, policy: policy, metrics: metrics, logger: logger}
}

// Select returns the eligible solutions for the mentor in priority order.
func (s *SuggestionService) Select(ctx context.Context, mentorID string, filter models.SuggestionFilter) ([]models.SuggestedSolution, error) {
	if strings.TrimSpace(mentorID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mentor id is required")
	}
	start := time.Now()

	filter, satisfiable := normalizeSuggestionFilter(filter)
	if !satisfiable {
		return []models.SuggestedSolution{}, nil
	}

	trackIDs, err := s.tracks.MentoredTrackIDs(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentored tracks")
	}
	if len(trackIDs) == 0 {
		return []models.SuggestedSolution{}, nil
	}

	queryStart := time.Now()
	candidates, err := s.candidates.ListSuggestionCandidates(ctx, mentorID, filter)
	s.metrics.ObserveDBQuery("list_suggestion_candidates", time.Since(queryStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load suggestion candidates")
	}

	scope := newSuggestionScope(trackIDs, filter)
	eligible := make([]models.SuggestionCandidate, 0, len(candidates))
	for _, c := range candidates {
		if s.policy.Eligible(c, scope) {
			eligible = append(eligible, c)
		}
	}

	suggestions := rankSuggestions(s.policy, eligible)
	s.metrics.ObserveSuggestions(time.Since(start), suggestions)
	s.logger.Debug("suggestions computed",
		zap.String("mentor_id", mentorID),
		zap.Int("candidates", len(candidates)),
		zap.Int("eligible", len(suggestions)),
	)
	return suggestions, nil
}

// normalizeSuggestionFilter canonicalises filter ids and drops malformed ones, since
// they can never match a stored row. It reports false when a restriction was
// requested but no id in it survived, meaning nothing can match.
func normalizeSuggestionFilter(filter models.SuggestionFilter) (models.SuggestionFilter, bool) {
	tracks, tracksOK := normalizeIDs(filter.TrackIDs)
	exercises, exercisesOK := normalizeIDs(filter.ExerciseIDs)
	return models.SuggestionFilter{TrackIDs: tracks, ExerciseIDs: exercises}, tracksOK && exercisesOK
}

func normalizeIDs(ids []string) ([]string, bool) {
	if len(ids) == 0 {
		return nil, true
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		parsed, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		id := parsed.String()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, len(out) > 0
}
