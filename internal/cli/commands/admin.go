package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usman766/directus-crud/internal/cli/app"
)

// NewAdminCmd creates the admin command
func NewAdminCmd(a *app.App) *cobra.Command {
	return requireAuth(&cobra.Command{
		Use:   "admin",
		Short: "Report whether the current user is an administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), a)
		},
	})
}

func runAdmin(ctx context.Context, a *app.App) error {
	check := a.API.CheckAdmin(ctx)
	if check.Failed() {
		a.Msg.Warning("Could not determine role: %v", check.Err)
	}
	fmt.Fprintf(a.Out, "Administrator: %s\n", yesNo(check.Admin))
	return nil
}
