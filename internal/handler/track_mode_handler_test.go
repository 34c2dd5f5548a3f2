package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-api/internal/models"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
)

type trackModeServiceMock struct {
	switchErr  error
	membership *models.UserTrack
	lastUser   string
	lastTrack  string
}

func (m *trackModeServiceMock) SwitchToMentoredMode(ctx context.Context, userID, trackID string) error {
	m.lastUser = userID
	m.lastTrack = trackID
	return m.switchErr
}

func (m *trackModeServiceMock) Get(ctx context.Context, userID, trackID string) (*models.UserTrack, error) {
	return m.membership, nil
}

func TestTrackModeHandlerSwitch(t *testing.T) {
	mockSvc := &trackModeServiceMock{membership: &models.UserTrack{TrackID: "track-1", IndependentMode: false}}
	handler := NewTrackModeHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/tracks/track-1/mentored-mode", mentorClaims())
	c.Params = gin.Params{{Key: "trackId", Value: "track-1"}}
	handler.SwitchToMentored(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mentor-1", mockSvc.lastUser)
	assert.Equal(t, "track-1", mockSvc.lastTrack)
	assert.Contains(t, w.Body.String(), `"independent_mode":false`)
}

func TestTrackModeHandlerErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", appErrors.Clone(appErrors.ErrNotFound, "track membership not found"), http.StatusNotFound},
		{"transaction", appErrors.Clone(appErrors.ErrTransactionFailed, ""), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewTrackModeHandler(&trackModeServiceMock{switchErr: tc.err})
			c, w := newTestContext(http.MethodPost, "/tracks/track-1/mentored-mode", mentorClaims())
			c.Params = gin.Params{{Key: "trackId", Value: "track-1"}}
			handler.SwitchToMentored(c)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
