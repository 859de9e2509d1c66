package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usman766/directus-crud/internal/cli/app"
)

var errSessionExpired = errors.New("session expired or token rejected. Please run 'directus-crud login' again")

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(a *app.App) *cobra.Command {
	return requireAuth(&cobra.Command{
		Use:   "whoami",
		Short: "Validate the stored token and show the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), a)
		},
	})
}

func runWhoami(ctx context.Context, a *app.App) error {
	if !a.Session.CheckAuth(ctx) {
		return errSessionExpired
	}

	st := a.Session.State()
	user := st.User
	fmt.Fprintf(a.Out, "ID:    %s\n", user.ID)
	fmt.Fprintf(a.Out, "Name:  %s\n", user.DisplayName())
	fmt.Fprintf(a.Out, "Email: %s\n", user.Email)
	fmt.Fprintf(a.Out, "Role:  %s\n", orDash(user.Role.String()))
	fmt.Fprintf(a.Out, "Admin: %s\n", yesNo(a.Session.IsAdmin()))
	return nil
}
