package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-api/internal/dto"
	"github.com/noah-isme/mentor-api/internal/models"
	"github.com/noah-isme/mentor-api/pkg/response"
)

type mentorshipService interface {
	Mentor(ctx context.Context, mentorID, solutionID string) error
	Ignore(ctx context.Context, mentorID, solutionID string) error
	Abandon(ctx context.Context, mentorID, solutionID string) error
}

// MentorshipHandler exposes a mentor's actions on individual solutions.
type MentorshipHandler struct {
	service mentorshipService
}

// NewMentorshipHandler builds a new handler.
func NewMentorshipHandler(service mentorshipService) *MentorshipHandler {
	return &MentorshipHandler{service: service}
}

// Mentor godoc
// @Summary Start mentoring a solution
// @Tags Mentoring
// @Produce json
// @Security BearerAuth
// @Param solutionId path string true "Solution ID"
// @Success 201 {object} response.Envelope{data=dto.MentorshipResponse}
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /solutions/{solutionId}/mentorships [post]
func (h *MentorshipHandler) Mentor(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	solutionID := c.Param("solutionId")
	if err := h.service.Mentor(c.Request.Context(), claims.UserID, solutionID); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.MentorshipResponse{SolutionID: solutionID, Status: models.MentorshipActive})
}

// Ignore godoc
// @Summary Never suggest this solution to the caller again
// @Tags Mentoring
// @Produce json
// @Security BearerAuth
// @Param solutionId path string true "Solution ID"
// @Success 200 {object} response.Envelope{data=dto.MentorshipResponse}
// @Router /solutions/{solutionId}/ignore [post]
func (h *MentorshipHandler) Ignore(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	solutionID := c.Param("solutionId")
	if err := h.service.Ignore(c.Request.Context(), claims.UserID, solutionID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MentorshipResponse{SolutionID: solutionID, Status: models.MentorshipIgnored})
}

// Abandon godoc
// @Summary Stop mentoring a solution
// @Tags Mentoring
// @Security BearerAuth
// @Param solutionId path string true "Solution ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /solutions/{solutionId}/mentorships [delete]
func (h *MentorshipHandler) Abandon(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.service.Abandon(c.Request.Context(), claims.UserID, c.Param("solutionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
