package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "tvsignal",
		Short:         "Daily discussion digest for a subreddit feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// config.Load reads the path from the environment.
			if configPath != "" {
				os.Setenv("TVSIGNAL_CONFIG", configPath)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newScheduleCommand())
	cmd.AddCommand(newHistoryCommand())
	return cmd
}
