package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"assetdesk-backend/internal/jobs"
	"assetdesk-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner. An
// invalid cron expression is a configuration error and fails construction.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	for _, job := range s.jobs.Jobs() {
		if _, err := s.cron.AddFunc(job.Schedule, job.Run); err != nil {
			logger.Error("Failed to register job", "job", job.Name, "schedule", job.Schedule, "error", err)
			return fmt.Errorf("register job %s: %w", job.Name, err)
		}
		logger.Info("Registered job", "job", job.Name, "schedule", job.Schedule)
	}

	logger.Info("All cron jobs registered successfully")
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
