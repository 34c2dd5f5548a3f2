package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-api/internal/dto"
	"github.com/noah-isme/mentor-api/internal/models"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
)

type userTrackModeRepository interface {
	Find(ctx context.Context, userID, trackID string) (*models.UserTrack, error)
	SwitchToMentoredMode(ctx context.Context, userID, trackID string) (*models.ModeSwitchResult, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// TrackModeService moves a mentee's track membership back to mentored mode.
type TrackModeService struct {
	repo      userTrackModeRepository
	audit     auditWriter
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewTrackModeService constructs the service.
func NewTrackModeService(repo userTrackModeRepository, audit auditWriter, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *TrackModeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TrackModeService{repo: repo, audit: audit, validator: validate, metrics: metrics, logger: logger}
}

// SwitchToMentoredMode clears independent mode on the membership and on every
// uncompleted solution in the track, in one transaction. Calling it on a
// membership already in mentored mode succeeds without changes.
func (s *TrackModeService) SwitchToMentoredMode(ctx context.Context, userID, trackID string) error {
	req := dto.SwitchTrackModeRequest{UserID: userID, TrackID: trackID}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid track mode request")
	}

	result, err := s.repo.SwitchToMentoredMode(ctx, userID, trackID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordModeSwitch("not_found")
			return appErrors.Clone(appErrors.ErrNotFound, "track membership not found")
		}
		s.metrics.RecordModeSwitch("failed")
		s.logger.Error("track mode switch failed", zap.String("user_id", userID), zap.String("track_id", trackID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrTransactionFailed.Code, appErrors.ErrTransactionFailed.Status, "failed to switch track to mentored mode")
	}

	if !result.WasIndependent && result.SolutionsSwitched == 0 {
		s.metrics.RecordModeSwitch("unchanged")
		return nil
	}
	s.metrics.RecordModeSwitch("switched")
	s.emitAudit(ctx, userID, result)
	return nil
}

// Get returns the caller's membership in the track.
func (s *TrackModeService) Get(ctx context.Context, userID, trackID string) (*models.UserTrack, error) {
	ut, err := s.repo.Find(ctx, userID, trackID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "track membership not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load track membership")
	}
	return ut, nil
}

func (s *TrackModeService) emitAudit(ctx context.Context, userID string, result *models.ModeSwitchResult) {
	if s.audit == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to marshal mode switch audit payload", zap.Error(err))
		return
	}
	previous, _ := json.Marshal(map[string]bool{"independent_mode": result.WasIndependent})
	resourceID := result.UserTrackID
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionTrackMentoredMode,
		Resource:   "user_track",
		ResourceID: &resourceID,
		OldValues:  previous,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record track mode audit log", zap.Error(err))
	}
}
