package jobs

import (
	"context"
	"fmt"
	"time"

	"assetdesk-backend/internal/config"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/service"
)

// Job names accepted by the cronjob CLI
const (
	JobReconcilePayments    = "reconcile-payments"
	JobReportOverdueReturns = "report-overdue-returns"
)

// jobTimeout bounds a single run
const jobTimeout = 5 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Payments service.PaymentReconciler
	Requests service.RequestWorkflow
}

// Job is a named unit of work with its cron schedule
type Job struct {
	Name     string
	Schedule string
	Run      func()
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// Jobs lists every schedulable job
func (jr *JobRunner) Jobs() []Job {
	cfg := jr.config.Scheduler
	return []Job{
		{Name: JobReconcilePayments, Schedule: cfg.ReconcilePayments, Run: jr.ReconcilePayments},
		{Name: JobReportOverdueReturns, Schedule: cfg.ReportOverdueReturns, Run: jr.ReportOverdueReturns},
	}
}

// RunByName runs a single job once
func (jr *JobRunner) RunByName(name string) error {
	for _, job := range jr.Jobs() {
		if job.Name == name {
			job.Run()
			return nil
		}
	}
	return fmt.Errorf("unknown job %q", name)
}

// RunAll runs every job once, in registration order
func (jr *JobRunner) RunAll() {
	for _, job := range jr.Jobs() {
		job.Run()
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
}
