package commands

import (
	"github.com/spf13/cobra"

	"github.com/usman766/directus-crud/internal/cli/app"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and cached user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(a)
		},
	}
}

func runLogout(a *app.App) error {
	if err := a.Session.Logout(); err != nil {
		return err
	}
	a.Msg.Success("Logged out")
	return nil
}
