package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-api/internal/models"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
)

const (
	mentorID = "mentor-1"
	trackT1  = "11111111-1111-4111-8111-111111111111"
	trackT2  = "22222222-2222-4222-8222-222222222222"
	trackT3  = "33333333-3333-4333-8333-333333333333"
	exA      = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	exB      = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

var testCutover = time.Date(2018, 7, 13, 0, 0, 0, 0, time.UTC)

type mentoredTracksStub struct {
	ids   []string
	err   error
	calls int
}

func (s *mentoredTracksStub) MentoredTrackIDs(ctx context.Context, userID string) ([]string, error) {
	s.calls++
	return s.ids, s.err
}

type candidatesStub struct {
	rows       []models.SuggestionCandidate
	err        error
	calls      int
	lastFilter models.SuggestionFilter
}

func (s *candidatesStub) ListSuggestionCandidates(ctx context.Context, mentorID string, filter models.SuggestionFilter) ([]models.SuggestionCandidate, error) {
	s.calls++
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.SuggestionCandidate, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// candidate builds an open, in-progress, fresh, mentored-mode solution; opts tweak it.
func candidate(id, trackID string, opts ...func(*models.SuggestionCandidate)) models.SuggestionCandidate {
	c := models.SuggestionCandidate{
		Solution: models.Solution{
			ID:                  id,
			UserID:              "mentee-1",
			ExerciseID:          exA,
			CreatedAt:           testCutover.Add(24 * time.Hour),
			LastUpdatedByUserAt: testCutover.Add(48 * time.Hour),
		},
		TrackID:        trackID,
		IterationCount: 1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func newSuggestionServiceForTest(tracks *mentoredTracksStub, rows *candidatesStub, threshold int) *SuggestionService {
	policy := SuggestionPolicy{MentorLoadThreshold: threshold, MigrationCutoverAt: testCutover}
	return NewSuggestionService(tracks, rows, policy, NewMetricsService(), zap.NewNop())
}

func solutionIDs(suggestions []models.SuggestedSolution) []string {
	ids := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.SolutionID)
	}
	return ids
}

func TestSuggestionServiceNoTrackMentorships(t *testing.T) {
	tracks := &mentoredTracksStub{}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{candidate("s1", trackT1)}}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	got, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, rows.calls)
}

func TestSuggestionServiceOnlyMentoredTracks(t *testing.T) {
	tracks := &mentoredTracksStub{ids: []string{trackT1, trackT2}}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{
		candidate("s1", trackT1),
		candidate("s2", trackT2),
		candidate("s3", trackT3),
	}}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	got, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2"}, solutionIDs(got))
}

func TestSuggestionServiceEligibilityPredicate(t *testing.T) {
	now := time.Now()
	approver := "mentor-9"
	active := models.MentorshipActive
	ignored := models.MentorshipIgnored

	tracks := &mentoredTracksStub{ids: []string{trackT1}}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{
		candidate("ok", trackT1),
		candidate("no-iterations", trackT1, func(c *models.SuggestionCandidate) { c.IterationCount = 0 }),
		candidate("completed", trackT1, func(c *models.SuggestionCandidate) { c.CompletedAt = &now }),
		candidate("approved", trackT1, func(c *models.SuggestionCandidate) { c.ApprovedByID = &approver }),
		candidate("busy", trackT1, func(c *models.SuggestionCandidate) { c.NumMentors = 1 }),
		candidate("mentoring", trackT1, func(c *models.SuggestionCandidate) { c.MentorStatus = &active }),
		candidate("ignored", trackT1, func(c *models.SuggestionCandidate) { c.MentorStatus = &ignored }),
	}}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	got, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, solutionIDs(got))
}

func TestSuggestionServiceThresholdBoundary(t *testing.T) {
	tracks := &mentoredTracksStub{ids: []string{trackT1}}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{
		candidate("zero", trackT1),
		candidate("one", trackT1, func(c *models.SuggestionCandidate) { c.NumMentors = 1 }),
		candidate("two", trackT1, func(c *models.SuggestionCandidate) { c.NumMentors = 2 }),
	}}

	got, err := newSuggestionServiceForTest(tracks, rows, 1).Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"zero"}, solutionIDs(got))

	got, err = newSuggestionServiceForTest(tracks, rows, 3).Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"zero", "one", "two"}, solutionIDs(got))
}

func TestSuggestionServiceCoreBreaksTies(t *testing.T) {
	tracks := &mentoredTracksStub{ids: []string{trackT1}}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{
		candidate("a-side", trackT1),
		candidate("b-core", trackT1, func(c *models.SuggestionCandidate) { c.ExerciseCore = true }),
	}}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	got, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b-core", "a-side"}, solutionIDs(got))
	assert.True(t, got[0].Core)
}

func TestSuggestionServiceTierOrder(t *testing.T) {
	legacyCreated := testCutover.Add(-30 * 24 * time.Hour)
	tracks := &mentoredTracksStub{ids: []string{trackT1}}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{
		candidate("dead", trackT1, func(c *models.SuggestionCandidate) {
			c.CreatedAt = legacyCreated
			c.LastUpdatedByUserAt = testCutover
		}),
		candidate("independent", trackT1, func(c *models.SuggestionCandidate) { c.IndependentMode = true }),
		candidate("alive", trackT1, func(c *models.SuggestionCandidate) {
			c.CreatedAt = legacyCreated
			c.LastUpdatedByUserAt = testCutover.Add(time.Second)
		}),
		candidate("fresh", trackT1, func(c *models.SuggestionCandidate) {
			c.LastUpdatedByUserAt = testCutover.Add(90 * 24 * time.Hour)
		}),
	}}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	got, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh", "alive", "independent", "dead"}, solutionIDs(got))
	assert.Equal(t, models.TierFresh, got[0].Tier)
	assert.Equal(t, models.TierLegacyAlive, got[1].Tier)
	assert.Equal(t, models.TierIndependent, got[2].Tier)
	assert.Equal(t, models.TierLegacyDead, got[3].Tier)
}

func TestSuggestionServiceOldestActivityFirst(t *testing.T) {
	tracks := &mentoredTracksStub{ids: []string{trackT1}}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{
		candidate("recent", trackT1, func(c *models.SuggestionCandidate) { c.LastUpdatedByUserAt = testCutover.Add(72 * time.Hour) }),
		candidate("stale", trackT1, func(c *models.SuggestionCandidate) { c.LastUpdatedByUserAt = testCutover.Add(25 * time.Hour) }),
		candidate("middle", trackT1, func(c *models.SuggestionCandidate) { c.LastUpdatedByUserAt = testCutover.Add(48 * time.Hour) }),
	}}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	got, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"stale", "middle", "recent"}, solutionIDs(got))
}

func TestSuggestionServiceIsDeterministic(t *testing.T) {
	tracks := &mentoredTracksStub{ids: []string{trackT1}}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{
		candidate("c", trackT1, func(c *models.SuggestionCandidate) { c.IndependentMode = true }),
		candidate("a", trackT1, func(c *models.SuggestionCandidate) { c.IndependentMode = true }),
		candidate("b", trackT1),
		candidate("d", trackT1),
	}}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	first, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	second, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"b", "d", "a", "c"}, solutionIDs(first))
}

func TestSuggestionServiceFilters(t *testing.T) {
	tracks := &mentoredTracksStub{ids: []string{trackT1, trackT2}}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{
		candidate("t1-a", trackT1),
		candidate("t1-b", trackT1, func(c *models.SuggestionCandidate) { c.ExerciseID = exB }),
		candidate("t2-a", trackT2),
	}}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	got, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{
		TrackIDs:    []string{trackT1, "not-a-uuid"},
		ExerciseIDs: []string{" " + exB + " ", exB},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1-b"}, solutionIDs(got))
	assert.Equal(t, []string{trackT1}, rows.lastFilter.TrackIDs)
	assert.Equal(t, []string{exB}, rows.lastFilter.ExerciseIDs)
}

func TestSuggestionServiceUnmatchableFilter(t *testing.T) {
	tracks := &mentoredTracksStub{ids: []string{trackT1}}
	rows := &candidatesStub{rows: []models.SuggestionCandidate{candidate("s1", trackT1)}}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	got, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{TrackIDs: []string{"bogus"}})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, tracks.calls)
	assert.Zero(t, rows.calls)

	got, err = svc.Select(context.Background(), mentorID, models.SuggestionFilter{TrackIDs: []string{trackT3}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggestionServiceCollaboratorFailure(t *testing.T) {
	tracks := &mentoredTracksStub{ids: []string{trackT1}}
	rows := &candidatesStub{err: errors.New("connection refused")}
	svc := newSuggestionServiceForTest(tracks, rows, 1)

	got, err := svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, appErrors.ErrInternal)

	tracks.err = errors.New("timeout")
	_, err = svc.Select(context.Background(), mentorID, models.SuggestionFilter{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestSuggestionServiceRequiresMentor(t *testing.T) {
	svc := newSuggestionServiceForTest(&mentoredTracksStub{}, &candidatesStub{}, 1)
	_, err := svc.Select(context.Background(), " ", models.SuggestionFilter{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
