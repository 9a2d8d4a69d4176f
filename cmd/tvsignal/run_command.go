package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tvsignal/internal/app"
	"tvsignal/internal/config"
	"tvsignal/internal/domain"
	"tvsignal/internal/logging"
)

// Exit codes: 0 success/partial, 1 fatal pipeline failure (fallback artifact
// produced), 2 unhandled failure in the orchestration layer itself.
func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one pipeline run and exit",
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(runOnce(cmd.Context()))
		},
	}
}

func runOnce(ctx context.Context) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "unhandled failure: %v\n", r)
			code = 2
		}
	}()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)
	defer application.Close()

	metrics, err := application.RunOnce(ctx)
	if err != nil {
		logger.Error("run aborted", "error", err)
		return 1
	}
	if metrics.Status == domain.StatusFailed {
		return 1
	}
	return 0
}
