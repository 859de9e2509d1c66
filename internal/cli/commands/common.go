package commands

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/usman766/directus-crud/internal/cli/guard"
)

// requireAuth marks cmd as needing a stored token. The root command
// enforces it before running.
func requireAuth(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[guard.Annotation] = guard.Auth
	return cmd
}

// isInteractive reports whether stdin is a terminal (not piped)
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func addOutputFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", "table", "Output format: table, json or yaml")
}
