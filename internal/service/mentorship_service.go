package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-api/internal/dto"
	"github.com/noah-isme/mentor-api/internal/models"
	"github.com/noah-isme/mentor-api/internal/repository"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
)

type solutionMentorshipStore interface {
	FindMentorableSolution(ctx context.Context, solutionID string) (*models.MentorableSolution, error)
	Start(ctx context.Context, mentorID, solutionID string) (*models.MentorshipStatus, error)
	Ignore(ctx context.Context, mentorID, solutionID string) (*models.MentorshipStatus, error)
	Abandon(ctx context.Context, mentorID, solutionID string) error
}

type trackMentorChecker interface {
	IsMentor(ctx context.Context, userID, trackID string) (bool, error)
}

// MentorshipService manages a mentor's relation to individual solutions.
type MentorshipService struct {
	repo      solutionMentorshipStore
	tracks    trackMentorChecker
	audit     auditWriter
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewMentorshipService constructs the service.
func NewMentorshipService(repo solutionMentorshipStore, tracks trackMentorChecker, audit auditWriter, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *MentorshipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MentorshipService{repo: repo, tracks: tracks, audit: audit, validator: validate, metrics: metrics, logger: logger}
}

// Mentor starts an active mentorship. An ignored solution is re-activated.
func (s *MentorshipService) Mentor(ctx context.Context, mentorID, solutionID string) error {
	if _, err := s.authorize(ctx, mentorID, solutionID); err != nil {
		return err
	}
	previous, err := s.repo.Start(ctx, mentorID, solutionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMentorshipActive):
			return appErrors.Clone(appErrors.ErrConflict, "already mentoring this solution")
		case errors.Is(err, sql.ErrNoRows):
			return appErrors.Clone(appErrors.ErrNotFound, "solution not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start mentorship")
	}
	s.metrics.RecordMentorshipChange("start")
	s.emitAudit(ctx, models.AuditActionMentorshipStart, mentorID, solutionID, previous, models.MentorshipActive)
	return nil
}

// Ignore hides the solution from the mentor for good, ending an active mentorship if there is one.
func (s *MentorshipService) Ignore(ctx context.Context, mentorID, solutionID string) error {
	if _, err := s.authorize(ctx, mentorID, solutionID); err != nil {
		return err
	}
	previous, err := s.repo.Ignore(ctx, mentorID, solutionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "solution not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to ignore solution")
	}
	if previous != nil && *previous == models.MentorshipIgnored {
		return nil
	}
	s.metrics.RecordMentorshipChange("ignore")
	s.emitAudit(ctx, models.AuditActionMentorshipIgnore, mentorID, solutionID, previous, models.MentorshipIgnored)
	return nil
}

// Abandon ends the mentor's active mentorship of the solution.
func (s *MentorshipService) Abandon(ctx context.Context, mentorID, solutionID string) error {
	if err := s.validate(mentorID, solutionID); err != nil {
		return err
	}
	if err := s.repo.Abandon(ctx, mentorID, solutionID); err != nil {
		switch {
		case errors.Is(err, repository.ErrMentorshipMissing):
			return appErrors.Clone(appErrors.ErrNotFound, "no active mentorship for this solution")
		case errors.Is(err, sql.ErrNoRows):
			return appErrors.Clone(appErrors.ErrNotFound, "solution not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to abandon mentorship")
	}
	active := models.MentorshipActive
	s.metrics.RecordMentorshipChange("abandon")
	s.emitAudit(ctx, models.AuditActionMentorshipAbandon, mentorID, solutionID, &active, "")
	return nil
}

func (s *MentorshipService) validate(mentorID, solutionID string) error {
	if err := s.validator.Struct(dto.MentorshipRequest{MentorID: mentorID, SolutionID: solutionID}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentorship request")
	}
	return nil
}

// authorize checks the solution exists, belongs to a track the mentor mentors and
// is not the mentor's own work.
func (s *MentorshipService) authorize(ctx context.Context, mentorID, solutionID string) (*models.MentorableSolution, error) {
	if err := s.validate(mentorID, solutionID); err != nil {
		return nil, err
	}
	sol, err := s.repo.FindMentorableSolution(ctx, solutionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "solution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solution")
	}
	if sol.UserID == mentorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot mentor your own solution")
	}
	ok, err := s.tracks.IsMentor(ctx, mentorID, sol.TrackID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify track mentorship")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not a mentor of this track")
	}
	return sol, nil
}

func (s *MentorshipService) emitAudit(ctx context.Context, action, mentorID, solutionID string, previous *models.MentorshipStatus, next models.MentorshipStatus) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:     &mentorID,
		Action:     action,
		Resource:   "solution",
		ResourceID: &solutionID,
	}
	if previous != nil {
		entry.OldValues = []byte(fmt.Sprintf(`{"status":%q}`, *previous))
	}
	if next != "" {
		entry.NewValues = []byte(fmt.Sprintf(`{"status":%q}`, next))
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to record mentorship audit log", zap.String("action", action), zap.Error(err))
	}
}
