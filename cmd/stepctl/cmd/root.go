package cmd

import (
	"github.com/spf13/cobra"

	"github.com/templui/stepboard/internal/app"
	"github.com/templui/stepboard/internal/config"
	"github.com/templui/stepboard/internal/logger"
)

// RootCmd builds the stepctl command tree. Stores are picked from the same
// environment the server reads.
func RootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "stepctl",
		Short:         "Inspect and administer the step leaderboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitWriter(cmd.ErrOrStderr(), verbose, "")
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(leaderboardCmd())
	root.AddCommand(profileCmd())
	root.AddCommand(submitCmd())
	root.AddCommand(goalCmd())
	root.AddCommand(hashPasswordCmd())
	return root
}

func loadApp() (*app.App, error) {
	return app.New(config.Load())
}
