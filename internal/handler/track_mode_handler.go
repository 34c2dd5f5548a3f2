package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-api/internal/dto"
	"github.com/noah-isme/mentor-api/internal/models"
	"github.com/noah-isme/mentor-api/pkg/response"
)

type trackModeService interface {
	SwitchToMentoredMode(ctx context.Context, userID, trackID string) error
	Get(ctx context.Context, userID, trackID string) (*models.UserTrack, error)
}

// TrackModeHandler exposes the track mode transition.
type TrackModeHandler struct {
	service trackModeService
}

// NewTrackModeHandler builds a new handler.
func NewTrackModeHandler(service trackModeService) *TrackModeHandler {
	return &TrackModeHandler{service: service}
}

// SwitchToMentored godoc
// @Summary Switch the caller's track to mentored mode
// @Description Clears independent mode on the membership and on every uncompleted solution in the track. Idempotent.
// @Tags Tracks
// @Produce json
// @Security BearerAuth
// @Param trackId path string true "Track ID"
// @Success 200 {object} response.Envelope{data=dto.TrackModeResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /tracks/{trackId}/mentored-mode [post]
func (h *TrackModeHandler) SwitchToMentored(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	trackID := c.Param("trackId")
	if err := h.service.SwitchToMentoredMode(c.Request.Context(), claims.UserID, trackID); err != nil {
		response.Error(c, err)
		return
	}
	membership, err := h.service.Get(c.Request.Context(), claims.UserID, trackID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.TrackModeResponse{TrackID: membership.TrackID, IndependentMode: membership.IndependentMode})
}
