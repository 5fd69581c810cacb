package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/templui/stepboard/internal/service"
	"github.com/templui/stepboard/internal/validation"
)

func submitCmd() *cobra.Command {
	var proofPath string

	cmd := &cobra.Command{
		Use:   "submit <name> <steps>",
		Short: "Append a step submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := validation.ParseSteps(args[1])
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			input := service.SubmitInput{Name: args[0], Steps: steps}
			if proofPath != "" {
				f, err := os.Open(proofPath)
				if err != nil {
					return fmt.Errorf("failed to open proof: %w", err)
				}
				defer func() { _ = f.Close() }()
				input.Proof = &service.ProofUpload{Filename: filepath.Base(proofPath), Content: f}
			}

			record, err := a.SubmissionService.Submit(context.Background(), input)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("name is required")
			}

			status := "not completed"
			if record.Completed {
				status = "completed"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %d steps for %s (goal %d, %s)\n",
				record.Steps, record.Name, record.StepGoalAtSubmission, status)
			return nil
		},
	}
	cmd.Flags().StringVar(&proofPath, "proof", "", "screenshot to store unchanged as proof")
	return cmd
}
