package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tvsignal/internal/app"
	"tvsignal/internal/config"
	"tvsignal/internal/logging"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent run metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New("error")

			application := app.New(cfg, logger)
			defer application.Close()

			runs, err := application.History(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("no runs recorded yet")
				return nil
			}

			for _, run := range runs {
				degraded := ""
				if run.Degraded {
					degraded = " (degraded)"
				}
				fmt.Printf("%s | %d posts | %.2fs | %s%s\n",
					run.Date.Format("2006-01-02 15:04"),
					run.PostsInDigest, run.Runtime, run.Status, degraded)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 30, "maximum number of runs to show")
	return cmd
}
