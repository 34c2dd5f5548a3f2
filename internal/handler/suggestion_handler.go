package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-api/internal/dto"
	"github.com/noah-isme/mentor-api/internal/models"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
	"github.com/noah-isme/mentor-api/pkg/response"
)

type suggestionService interface {
	Select(ctx context.Context, mentorID string, filter models.SuggestionFilter) ([]models.SuggestedSolution, error)
}

// SuggestionHandler exposes the mentor suggestion queue.
type SuggestionHandler struct {
	service suggestionService
}

// NewSuggestionHandler builds a new handler.
func NewSuggestionHandler(service suggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// List godoc
// @Summary List solutions the caller could mentor next
// @Description Ranked by tier: fresh, legacy still active, independent mode, legacy untouched since migration.
// @Tags Mentoring
// @Produce json
// @Security BearerAuth
// @Param track_ids query string false "Comma separated track ids"
// @Param exercise_ids query string false "Comma separated exercise ids"
// @Success 200 {object} response.Envelope{data=dto.SuggestionListResponse}
// @Failure 401 {object} response.Envelope
// @Router /mentor/suggestions [get]
func (h *SuggestionHandler) List(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var query dto.SuggestionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid suggestion query"))
		return
	}
	filter := models.SuggestionFilter{
		TrackIDs:    splitIDs(query.TrackIDs),
		ExerciseIDs: splitIDs(query.ExerciseIDs),
	}
	solutions, err := h.service.Select(c.Request.Context(), claims.UserID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SuggestionListResponse{Solutions: solutions, Count: len(solutions)})
}
