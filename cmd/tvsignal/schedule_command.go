package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tvsignal/internal/app"
	"tvsignal/internal/config"
	"tvsignal/internal/logging"
	"tvsignal/pkg/logger"
)

func newScheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline daily at the configured time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			slogger := logging.New(cfg.Logging.Level)
			progress := logger.New("scheduler")

			progress.Printf("daily run scheduled for %02d:%02d %s",
				cfg.Scheduler.Hour, cfg.Scheduler.Minute, cfg.Scheduler.Location())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application := app.New(cfg, slogger)
			defer application.Close()

			err := application.RunScheduled(ctx)
			progress.Printf("scheduler stopped")
			return err
		},
	}
}
