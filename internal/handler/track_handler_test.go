package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-api/internal/models"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
)

type trackServiceMock struct {
	tracks   []models.Track
	cacheHit bool
	err      error
	lastUser string
}

func (m *trackServiceMock) List(ctx context.Context) ([]models.Track, bool, error) {
	return m.tracks, m.cacheHit, m.err
}

func (m *trackServiceMock) ListMentored(ctx context.Context, userID string) ([]models.Track, error) {
	m.lastUser = userID
	return m.tracks, m.err
}

func TestTrackHandlerList(t *testing.T) {
	handler := NewTrackHandler(&trackServiceMock{tracks: []models.Track{{ID: "t1", Slug: "go"}}, cacheHit: true})

	c, w := newTestContext(http.MethodGet, "/tracks", mentorClaims())
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), `"cache_hit":true`)
}

func TestTrackHandlerListMentored(t *testing.T) {
	mockSvc := &trackServiceMock{tracks: []models.Track{}}
	handler := NewTrackHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/mentor/tracks", mentorClaims())
	handler.ListMentored(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mentor-1", mockSvc.lastUser)
}

func TestTrackHandlerListError(t *testing.T) {
	handler := NewTrackHandler(&trackServiceMock{err: appErrors.Clone(appErrors.ErrInternal, "failed to list tracks")})

	c, w := newTestContext(http.MethodGet, "/tracks", mentorClaims())
	handler.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
