package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/mentor-api/internal/models"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
	"github.com/noah-isme/mentor-api/pkg/jobs"
)

// JobTypeMentorRecount identifies num_mentors reconciliation jobs.
const JobTypeMentorRecount = "mentor_recount"

type mentorCountStore interface {
	RecountMentors(ctx context.Context) (int64, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) (string, error)
}

// ReconcileService repairs solutions.num_mentors drift against the active mentorship rows.
type ReconcileService struct {
	repo    mentorCountStore
	audit   auditWriter
	queue   jobDispatcher
	metrics *MetricsService
	logger  *zap.Logger
}

// NewReconcileService constructs the service. The queue may be attached later with SetQueue.
func NewReconcileService(repo mentorCountStore, audit auditWriter, queue jobDispatcher, metrics *MetricsService, logger *zap.Logger) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{repo: repo, audit: audit, queue: queue, metrics: metrics, logger: logger}
}

// SetQueue attaches the dispatcher used by Enqueue.
func (s *ReconcileService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// Enqueue schedules a recount on the worker queue. Only one recount may be pending at a time.
func (s *ReconcileService) Enqueue(trigger string) (string, error) {
	if s.queue == nil {
		return "", appErrors.Clone(appErrors.ErrUnavailable, "reconciliation queue not running")
	}
	id, err := s.queue.Enqueue(jobs.Job{Type: JobTypeMentorRecount, Key: JobTypeMentorRecount, Payload: trigger})
	if err != nil {
		if errors.Is(err, jobs.ErrDuplicate) {
			return "", appErrors.Clone(appErrors.ErrConflict, "a mentor recount is already queued")
		}
		return "", appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to queue mentor recount")
	}
	s.logger.Info("mentor recount queued", zap.String("job_id", id), zap.String("trigger", trigger))
	return id, nil
}

// RecountMentors runs the recount synchronously and returns the number of corrected solutions.
func (s *ReconcileService) RecountMentors(ctx context.Context) (int64, error) {
	corrected, err := s.repo.RecountMentors(ctx)
	if err != nil {
		return 0, err
	}
	s.metrics.RecordMentorCountCorrections(corrected)
	if corrected == 0 {
		s.logger.Debug("mentor counts consistent")
		return 0, nil
	}
	s.logger.Warn("mentor counts corrected", zap.Int64("solutions", corrected))
	if s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			Action:    models.AuditActionMentorRecount,
			Resource:  "solution",
			NewValues: []byte(fmt.Sprintf(`{"corrected":%d}`, corrected)),
		}); err != nil {
			s.logger.Warn("failed to record recount audit log", zap.Error(err))
		}
	}
	return corrected, nil
}

// Handle processes reconciliation jobs from the queue.
func (s *ReconcileService) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeMentorRecount {
		s.logger.Warn("unknown reconcile job type", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	_, err := s.RecountMentors(ctx)
	return err
}
