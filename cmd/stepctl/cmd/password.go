package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/templui/stepboard/internal/service"
)

func hashPasswordCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print an ADMIN_CREDENTIALS entry; prompts for the password when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				var err error
				password, err = readPassword(cmd)
				if err != nil {
					return err
				}
			}
			if password == "" {
				return fmt.Errorf("password is required")
			}

			hash, err := service.HashPassword(password)
			if err != nil {
				return err
			}

			if username != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", username, hash)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "prefix the hash with user: for ADMIN_CREDENTIALS")
	return cmd
}

// readPassword reads without echo from a terminal, otherwise one line of input
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
