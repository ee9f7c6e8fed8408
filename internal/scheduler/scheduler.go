package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"tmyreport/internal/logger"
)

// Job is one scheduled unit of work
type Job func(ctx context.Context) error

// Scheduler periodically regenerates the report
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       Job
	interval  time.Duration
	timeout   time.Duration
	log       *logger.Logger
}

// New creates a new Scheduler. Each run gets its own context bounded by timeout;
// a timeout of zero leaves runs unbounded.
func New(interval, timeout time.Duration, job Job) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		job:       job,
		interval:  interval,
		timeout:   timeout,
		log:       logger.GetGlobalLogger().WithComponent("scheduler"),
	}
}

// Start schedules the job and starts the underlying scheduler. The first run
// happens immediately; runs never overlap.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}
	if s.job == nil {
		return fmt.Errorf("no job to schedule")
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule report job: %w", err)
	}

	s.scheduler.StartAsync()
	s.log.Info("Scheduler started", map[string]interface{}{"interval": s.interval.String()})
	return nil
}

func (s *Scheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.log.Info("Running scheduled report generation")
	if err := s.job(ctx); err != nil {
		s.log.Error("Scheduled report generation failed", err)
		return
	}
	s.log.Info("Scheduled report generation completed")
}

// Stop stops the scheduler and cancels any future runs
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
