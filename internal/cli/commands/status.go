package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/usman766/directus-crud/internal/cli/app"
	"github.com/usman766/directus-crud/internal/cli/auth"
)

// NewStatusCmd creates the status command
func NewStatusCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local session state without contacting Directus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(a, time.Now())
		},
	}
}

func runStatus(a *app.App, now time.Time) error {
	fmt.Fprintf(a.Out, "Directus: %s\n", a.API.BaseURL())
	fmt.Fprintf(a.Out, "Project:  %s\n", a.Config.Directus.ProjectID)

	token, err := a.Tokens.GetToken()
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(a.Out, "Token:    none")
	} else {
		fmt.Fprintln(a.Out, "Token:    stored")
		// Informational only: expiry is never enforced locally
		if claims, err := auth.Inspect(token); err == nil {
			if exp := claims.ExpiresAt(); !exp.IsZero() {
				state := "valid"
				if now.After(exp) {
					state = "expired"
				}
				fmt.Fprintf(a.Out, "Expires:  %s (%s)\n", exp.Local().Format(time.RFC3339), state)
			}
		}
	}

	st := a.Session.State()
	if st.User == nil {
		fmt.Fprintln(a.Out, "User:     anonymous")
		return nil
	}
	fmt.Fprintf(a.Out, "User:     %s (%s)\n", st.User.DisplayName(), st.User.Email)
	if !st.Validated {
		a.Msg.Warning("Cached user, not verified. Run 'directus-crud whoami' to check the token")
	}
	return nil
}
