package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/templui/stepboard/internal/model"
)

func leaderboardCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the ranked leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := model.ParseView(view)
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			board, err := a.LeaderboardService.Leaderboard(context.Background(), v)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s leaderboard (goal %d)\n", board.View.Label(), board.Goal)
			if len(board.Rows) == 0 {
				_, _ = fmt.Fprintln(out, "no submissions")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			if v.ShowsCompletion() {
				_, _ = fmt.Fprintln(tw, "RANK\tNAME\tSTEPS\tCOMPLETED")
			} else {
				_, _ = fmt.Fprintln(tw, "RANK\tNAME\tSTEPS")
			}
			for _, row := range board.Rows {
				if row.Completed != nil {
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", row.Rank, row.Name, row.Steps, yesNo(*row.Completed))
					continue
				}
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\n", row.Rank, row.Name, row.Steps)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&view, "view", string(model.ViewDaily), "daily|weekly|monthly|all")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
