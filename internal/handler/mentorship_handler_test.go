package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
)

type mentorshipServiceMock struct {
	err       error
	calls     []string
	lastSolID string
}

func (m *mentorshipServiceMock) Mentor(ctx context.Context, mentorID, solutionID string) error {
	m.calls = append(m.calls, "mentor")
	m.lastSolID = solutionID
	return m.err
}

func (m *mentorshipServiceMock) Ignore(ctx context.Context, mentorID, solutionID string) error {
	m.calls = append(m.calls, "ignore")
	m.lastSolID = solutionID
	return m.err
}

func (m *mentorshipServiceMock) Abandon(ctx context.Context, mentorID, solutionID string) error {
	m.calls = append(m.calls, "abandon")
	m.lastSolID = solutionID
	return m.err
}

func TestMentorshipHandlerActions(t *testing.T) {
	mockSvc := &mentorshipServiceMock{}
	handler := NewMentorshipHandler(mockSvc)
	params := gin.Params{{Key: "solutionId", Value: "sol-1"}}

	c, w := newTestContext(http.MethodPost, "/solutions/sol-1/mentorships", mentorClaims())
	c.Params = params
	handler.Mentor(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)

	c, w = newTestContext(http.MethodPost, "/solutions/sol-1/ignore", mentorClaims())
	c.Params = params
	handler.Ignore(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ignored"`)

	c, _ = newTestContext(http.MethodDelete, "/solutions/sol-1/mentorships", mentorClaims())
	c.Params = params
	handler.Abandon(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())

	assert.Equal(t, []string{"mentor", "ignore", "abandon"}, mockSvc.calls)
	assert.Equal(t, "sol-1", mockSvc.lastSolID)
}

func TestMentorshipHandlerErrors(t *testing.T) {
	handler := NewMentorshipHandler(&mentorshipServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "already mentoring this solution")})

	c, w := newTestContext(http.MethodPost, "/solutions/sol-1/mentorships", mentorClaims())
	c.Params = gin.Params{{Key: "solutionId", Value: "sol-1"}}
	handler.Mentor(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	mockSvc := &mentorshipServiceMock{}
	handler = NewMentorshipHandler(mockSvc)
	c, w = newTestContext(http.MethodPost, "/solutions/sol-1/mentorships", nil)
	handler.Mentor(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, mockSvc.calls)
}
