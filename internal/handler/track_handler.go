package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-api/internal/middleware"
	"github.com/noah-isme/mentor-api/internal/models"
	"github.com/noah-isme/mentor-api/pkg/response"
)

type trackService interface {
	List(ctx context.Context) ([]models.Track, bool, error)
	ListMentored(ctx context.Context, userID string) ([]models.Track, error)
}

// TrackHandler exposes track catalog endpoints.
type TrackHandler struct {
	service trackService
}

// NewTrackHandler builds a new handler.
func NewTrackHandler(service trackService) *TrackHandler {
	return &TrackHandler{service: service}
}

// List godoc
// @Summary List active tracks
// @Tags Tracks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.Track}
// @Router /tracks [get]
func (h *TrackHandler) List(c *gin.Context) {
	tracks, cacheHit, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["total"] = len(tracks)
	response.JSON(c, http.StatusOK, tracks, meta)
}

// ListMentored godoc
// @Summary List tracks the caller mentors
// @Tags Mentoring
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.Track}
// @Router /mentor/tracks [get]
func (h *TrackHandler) ListMentored(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	tracks, err := h.service.ListMentored(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tracks, map[string]interface{}{"total": len(tracks)})
}
