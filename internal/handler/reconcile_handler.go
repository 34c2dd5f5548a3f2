package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-api/internal/dto"
	"github.com/noah-isme/mentor-api/internal/service"
	"github.com/noah-isme/mentor-api/pkg/response"
)

type reconcileService interface {
	Enqueue(trigger string) (string, error)
}

// ReconcileHandler exposes administrative maintenance triggers.
type ReconcileHandler struct {
	service reconcileService
}

// NewReconcileHandler builds a new handler.
func NewReconcileHandler(service reconcileService) *ReconcileHandler {
	return &ReconcileHandler{service: service}
}

// Trigger godoc
// @Summary Queue a solution mentor-count recount
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope{data=dto.ReconcileJobResponse}
// @Failure 409 {object} response.Envelope
// @Router /admin/reconcile/mentors [post]
func (h *ReconcileHandler) Trigger(c *gin.Context) {
	id, err := h.service.Enqueue("api")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, dto.ReconcileJobResponse{JobID: id, Type: service.JobTypeMentorRecount})
}
