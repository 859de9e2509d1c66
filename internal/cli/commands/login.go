package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/usman766/directus-crud/internal/cli/app"
	"github.com/usman766/directus-crud/internal/cli/client"
	"github.com/usman766/directus-crud/internal/cli/guard"
)

type loginOptions struct {
	email    string
	password string
	force    bool
}

// NewLoginCmd creates the login command
func NewLoginCmd(a *app.App) *cobra.Command {
	var opts loginOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with Directus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "Email address (or set DIRECTUS_EMAIL)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password (or set DIRECTUS_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Log in again even if a token is already stored")

	return cmd
}

func runLogin(ctx context.Context, a *app.App, opts loginOptions) error {
	if !opts.force {
		if err := guard.RequireGuest(a.API); err != nil {
			return err
		}
	}

	// Check for environment variables (useful for CI/CD)
	if opts.email == "" {
		opts.email = os.Getenv("DIRECTUS_EMAIL")
	}
	if opts.password == "" {
		opts.password = os.Getenv("DIRECTUS_PASSWORD")
	}

	if opts.email == "" {
		return fmt.Errorf("email is required (use --email flag or DIRECTUS_EMAIL env var)")
	}

	// Prompt for password if not provided via flag or env var
	if opts.password == "" {
		if !isInteractive() {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or DIRECTUS_PASSWORD env var)")
		}
		fmt.Fprint(a.Out, "Password: ")
		bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(a.Out) // New line after password input
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		opts.password = string(bytePassword)
	}

	fmt.Fprintf(a.Out, "Logging in to %s...\n", a.API.BaseURL())

	user, err := a.Session.Login(ctx, client.Credentials{Email: opts.email, Password: opts.password})
	if err != nil {
		return err
	}

	a.Msg.Success("Login successful!")
	fmt.Fprintf(a.Out, "  User: %s (%s)\n", user.DisplayName(), user.Email)
	if a.Session.IsAdmin() {
		fmt.Fprintln(a.Out, "  Role: Admin")
	} else if user.Role != nil {
		fmt.Fprintf(a.Out, "  Role: %s\n", user.Role)
	}

	return nil
}
