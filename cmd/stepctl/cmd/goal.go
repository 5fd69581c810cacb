package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func goalCmd() *cobra.Command {
	goal := &cobra.Command{Use: "goal", Short: "Read or change the daily step goal"}

	goal.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			value, err := a.GoalService.Goal(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	})

	var username, password string
	set := &cobra.Command{
		Use:   "set <steps>",
		Short: "Set the daily goal (admin credentials required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("goal must be a whole number: %w", err)
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if password == "" && username != "" {
				password, err = readPassword(cmd)
				if err != nil {
					return err
				}
			}

			isAdmin := a.AuthService.Authorize(username, password)
			err = a.GoalService.SetGoal(context.Background(), isAdmin, value)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "daily goal set to %d\n", value)
			return nil
		},
	}
	set.Flags().StringVar(&username, "username", "", "admin username")
	set.Flags().StringVar(&password, "password", "", "admin password (prompted for when omitted; avoid, it ends up in shell history)")

	goal.AddCommand(set)
	return goal
}
