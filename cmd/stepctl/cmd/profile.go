package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <name>",
		Short: "Print every submission of one person, newest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			profile, err := a.LeaderboardService.Profile(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s (goal %d)\n", profile.Name, profile.Goal)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "SUBMITTED\tSTEPS\tCOMPLETED\tPROOF")
			for _, entry := range profile.Entries {
				submitted := "unknown"
				if !entry.Timestamp.IsZero() {
					submitted = entry.Timestamp.Format("2006-01-02 15:04:05")
				}
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", submitted, entry.Steps, yesNo(entry.Completed), entry.Proof)
			}
			return tw.Flush()
		},
	}
}
