package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-api/internal/models"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
	"github.com/noah-isme/mentor-api/pkg/jobs"
)

type mentorCountStub struct {
	corrected int64
	err       error
	calls     chan struct{}
}

func (s *mentorCountStub) RecountMentors(ctx context.Context) (int64, error) {
	if s.calls != nil {
		s.calls <- struct{}{}
	}
	return s.corrected, s.err
}

type dispatcherStub struct {
	jobs []jobs.Job
	err  error
}

func (d *dispatcherStub) Enqueue(job jobs.Job) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.jobs = append(d.jobs, job)
	return "job-1", nil
}

func TestReconcileServiceRecountMentors(t *testing.T) {
	audit := &auditStub{}
	svc := NewReconcileService(&mentorCountStub{corrected: 3}, audit, nil, NewMetricsService(), zap.NewNop())

	corrected, err := svc.RecountMentors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), corrected)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionMentorRecount, audit.entries[0].Action)
	assert.JSONEq(t, `{"corrected":3}`, string(audit.entries[0].NewValues))
}

func TestReconcileServiceNoDrift(t *testing.T) {
	audit := &auditStub{}
	svc := NewReconcileService(&mentorCountStub{}, audit, nil, nil, nil)

	corrected, err := svc.RecountMentors(context.Background())
	require.NoError(t, err)
	assert.Zero(t, corrected)
	assert.Empty(t, audit.entries)
}

func TestReconcileServiceEnqueue(t *testing.T) {
	queue := &dispatcherStub{}
	svc := NewReconcileService(&mentorCountStub{}, nil, queue, nil, nil)

	id, err := svc.Enqueue("manual")
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeMentorRecount, queue.jobs[0].Type)
	assert.Equal(t, JobTypeMentorRecount, queue.jobs[0].Key)

	queue.err = jobs.ErrDuplicate
	_, err = svc.Enqueue("cron")
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	queue.err = errors.New("queue stopped")
	_, err = svc.Enqueue("cron")
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
}

func TestReconcileServiceWithoutQueue(t *testing.T) {
	svc := NewReconcileService(&mentorCountStub{}, nil, nil, nil, nil)
	_, err := svc.Enqueue("manual")
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
}

func TestReconcileServiceRunsThroughQueue(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &mentorCountStub{corrected: 1, calls: make(chan struct{}, 1)}
	svc := NewReconcileService(store, nil, nil, nil, nil)
	queue := jobs.NewQueue("reconcile", svc.Handle, jobs.QueueConfig{Workers: 1, RetryDelay: 10 * time.Millisecond})
	svc.SetQueue(queue)

	queue.Start(context.Background())
	defer queue.Stop()

	_, err := svc.Enqueue("test")
	require.NoError(t, err)

	select {
	case <-store.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("recount job was not processed")
	}
}

func TestReconcileServiceHandleIgnoresUnknownJobs(t *testing.T) {
	store := &mentorCountStub{err: errors.New("should not run")}
	svc := NewReconcileService(store, nil, nil, nil, nil)
	assert.NoError(t, svc.Handle(context.Background(), jobs.Job{ID: "x", Type: "other"}))
	assert.Error(t, svc.Handle(context.Background(), jobs.Job{ID: "y", Type: JobTypeMentorRecount}))
}
