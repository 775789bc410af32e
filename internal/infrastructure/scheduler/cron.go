// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultJobTimeout = 5 * time.Minute

// Job is one scheduled task.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler wraps cron. A job still running when its next tick fires is
// skipped for that tick.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.Recover(cronLogger))),
		logger: logger,
	}
}

// Add registers job. Invalid specs are reported immediately.
func (s *Scheduler) Add(job Job) error {
	if _, err := s.cron.AddFunc(job.Spec, s.wrap(job)); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", job.Name, job.Spec, err)
	}
	s.logger.Info("job scheduled", "job", job.Name, "spec", job.Spec)
	return nil
}

func (s *Scheduler) wrap(job Job) func() {
	var running int32
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return func() {
		if !atomic.CompareAndSwapInt32(&running, 0, 1) {
			s.logger.Warn("job still running, tick skipped", "job", job.Name)
			return
		}
		defer atomic.StoreInt32(&running, 0)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error("job failed", "job", job.Name, "error", err)
			return
		}
		s.logger.Debug("job finished", "job", job.Name, "took", time.Since(start))
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs, up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stopped before jobs finished")
	}
}
