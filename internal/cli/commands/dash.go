package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/usman766/directus-crud/internal/cli/app"
)

// NewDashCmd creates the dash command
func NewDashCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the Directus admin app in browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(a, openBrowser)
		},
	}

	return cmd
}

func runDash(a *app.App, open func(string) error) error {
	dashboardURL := a.API.BaseURL() + "/admin"

	fmt.Fprintf(a.Out, "Opening Directus admin for project %s...\n", a.Config.Directus.ProjectID)
	fmt.Fprintf(a.Out, "URL: %s\n", dashboardURL)

	if err := open(dashboardURL); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, dashboardURL)
	}

	return nil
}

// openBrowser opens the URL in the default browser
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
