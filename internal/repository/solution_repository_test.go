package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlxDB.Close()
	}
	return sqlxDB, mock, cleanup
}

var candidateColumns = []string{
	"id", "user_id", "exercise_id", "approved_by_id", "completed_at", "published_at",
	"independent_mode", "num_mentors", "last_updated_by_user_at", "created_at", "updated_at",
	"track_id", "exercise_core", "iteration_count", "mentor_status",
}

func TestSolutionRepositoryListSuggestionCandidates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolutionRepository(db)

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(candidateColumns).
		AddRow("sol-1", "mentee-1", "ex-1", nil, nil, nil, false, 0, now, now, now, "track-1", true, 2, nil).
		AddRow("sol-2", "mentee-2", "ex-2", nil, nil, nil, true, 0, now, now, now, "track-1", false, 1, "ignored")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM solutions s
JOIN exercises e ON e.id = s.exercise_id`)).
		WithArgs("mentor-1").
		WillReturnRows(rows)

	candidates, err := repo.ListSuggestionCandidates(context.Background(), "mentor-1", models.SuggestionFilter{})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "sol-1", candidates[0].ID)
	assert.Equal(t, "track-1", candidates[0].TrackID)
	assert.True(t, candidates[0].ExerciseCore)
	assert.Equal(t, 2, candidates[0].IterationCount)
	assert.Nil(t, candidates[0].MentorStatus)
	assert.Nil(t, candidates[0].CompletedAt)

	require.NotNil(t, candidates[1].MentorStatus)
	assert.Equal(t, models.MentorshipIgnored, *candidates[1].MentorStatus)
	assert.True(t, candidates[1].IndependentMode)
}

func TestSolutionRepositoryListSuggestionCandidatesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolutionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AND e.track_id = ANY($2)\n\tAND s.exercise_id = ANY($3)\nORDER BY s.created_at ASC, s.id ASC")).
		WithArgs("mentor-1", pq.Array([]string{"track-1"}), pq.Array([]string{"ex-1", "ex-2"})).
		WillReturnRows(sqlmock.NewRows(candidateColumns))

	candidates, err := repo.ListSuggestionCandidates(context.Background(), "mentor-1", models.SuggestionFilter{
		TrackIDs:    []string{"track-1"},
		ExerciseIDs: []string{"ex-1", "ex-2"},
	})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSolutionRepositoryListSuggestionCandidatesError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolutionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("mentor-1").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListSuggestionCandidates(context.Background(), "mentor-1", models.SuggestionFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list suggestion candidates")
}

func TestSolutionRepositoryRecountMentors(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolutionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE solutions s\nSET num_mentors = c.active_count")).
		WillReturnResult(sqlmock.NewResult(0, 4))

	affected, err := repo.RecountMentors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), affected)
}
