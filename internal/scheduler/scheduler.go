// Package scheduler runs named background jobs on cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fd1az/smart-pricing/internal/logger"
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler manages cron jobs. Expressions include a seconds field.
type Scheduler struct {
	cron *cron.Cron
	log  logger.LoggerInterface
	ctx  context.Context
}

// New creates a Scheduler whose jobs run with ctx.
func New(ctx context.Context, log logger.LoggerInterface) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log,
		ctx:  ctx,
	}
}

// Register adds a job. An empty spec disables the job.
func (s *Scheduler) Register(name, spec string, job Job) error {
	if spec == "" {
		s.log.Debug(s.ctx, "scheduled job disabled", "job", name)
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("register %s job: %w", name, err)
	}
	s.log.Info(s.ctx, "scheduled job registered", "job", name, "spec", spec)
	return nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info(s.ctx, "scheduler started", "jobs", s.Len())
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info(s.ctx, "scheduler stopped")
}

func (s *Scheduler) run(name string, job Job) {
	start := time.Now()
	if err := job(s.ctx); err != nil {
		s.log.Error(s.ctx, "scheduled job failed", "job", name, "error", err)
		return
	}
	s.log.Info(s.ctx, "scheduled job done", "job", name, "duration", time.Since(start))
}
