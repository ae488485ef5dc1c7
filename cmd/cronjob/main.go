package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"assetdesk-backend/internal/app"
	"assetdesk-backend/internal/config"
	"assetdesk-backend/internal/jobs"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/scheduler"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          "cronjob",
		Short:        "AssetDesk scheduled jobs",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")

	rootCmd.AddCommand(daemonCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the cron scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			jobRunner, closeFn, err := openRunner(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			cronScheduler, err := scheduler.NewScheduler(jobRunner)
			if err != nil {
				return err
			}

			cronScheduler.Start()
			logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")
			<-ctx.Done()

			// Graceful shutdown
			logger.Info("Shutting down cronjob scheduler...")
			cronScheduler.Stop()
			logger.Info("Cronjob scheduler stopped. Goodbye!")
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <job|all>",
		Short: "Run a single job once and exit",
		Long: `Run a single job once and exit.

Examples:
  cronjob run reconcile-payments
  cronjob run all --config config/config.prod.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobRunner, closeFn, err := openRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			logger.Info("Running job once", "job", args[0])
			if args[0] == "all" {
				jobRunner.RunAll()
				return nil
			}
			return jobRunner.RunByName(args[0])
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available jobs and their schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			for _, job := range jobs.NewJobRunner(&jobs.Services{}, cfg).Jobs() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", job.Name, job.Schedule)
			}
			return nil
		},
	}
}

func openRunner(ctx context.Context) (*jobs.JobRunner, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting AssetDesk cronjob runner...", "log_level", cfg.Log.Level)

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	jobRunner := jobs.NewJobRunner(&jobs.Services{
		Payments: a.Payments,
		Requests: a.Requests,
	}, cfg)
	return jobRunner, func() { _ = a.Close() }, nil
}
