package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is a unit of periodic work. It receives a context bounded by the task timeout.
type Task func(ctx context.Context) error

// Scheduler runs named tasks on cron specs.
type Scheduler struct {
	engine  *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
}

// New builds a scheduler evaluating specs in UTC. Standard 5-field specs and
// descriptors such as "@every 1h" are accepted.
func New(logger *zap.Logger, timeout time.Duration) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		engine:  cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(cron.DiscardLogger))),
		logger:  logger,
		timeout: timeout,
	}
}

// Register adds a task run on the given cron expression.
func (s *Scheduler) Register(name, spec string, task Task) error {
	_, err := s.engine.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		start := time.Now()
		if err := task(ctx); err != nil {
			s.logger.Warn("scheduled task failed", zap.String("task", name), zap.Error(err))
			return
		}
		s.logger.Debug("scheduled task finished", zap.String("task", name), zap.Duration("duration", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("register task %s (%q): %w", name, spec, err)
	}
	s.logger.Info("scheduled task registered", zap.String("task", name), zap.String("spec", spec))
	return nil
}

// Start runs the cron engine in its own goroutine.
func (s *Scheduler) Start() {
	s.engine.Start()
}

// Stop halts scheduling and waits for running tasks or ctx expiry.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.engine.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out", zap.Error(ctx.Err()))
	}
}
