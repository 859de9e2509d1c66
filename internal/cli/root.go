package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/usman766/directus-crud/internal/cli/app"
	"github.com/usman766/directus-crud/internal/cli/commands"
	"github.com/usman766/directus-crud/internal/cli/guard"
	"github.com/usman766/directus-crud/internal/cli/message"
	"github.com/usman766/directus-crud/internal/config"
	"github.com/usman766/directus-crud/internal/logger"
)

var version = "dev" // Will be set during build

// globalFlags override the environment configuration
type globalFlags struct {
	url     string
	project string
	noColor bool
}

// NewRootCmd builds the command tree. The App is wired in
// PersistentPreRunE, once flags are parsed, and released afterwards.
func NewRootCmd(opts ...app.Option) *cobra.Command {
	application := &app.App{}
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "directus-crud",
		Short: "directus-crud - profiles and files on a Directus backend",
		Long: `directus-crud - manage a Directus project from the command line.

Log in once, the access token is kept in the OS keychain, then list,
create, update and delete profiles or upload files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if flags.url != "" {
				cfg.Directus.URL = flags.url
			}
			if flags.project != "" {
				cfg.Directus.ProjectID = flags.project
			}
			if flags.noColor {
				cfg.NoColor = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
			built, err := app.New(cfg, append([]app.Option{app.WithLogger(log), app.WithOutput(cmd.OutOrStdout())}, opts...)...)
			if err != nil {
				return err
			}
			*application = *built

			return guard.Check(cmd.Annotations[guard.Annotation], application.API)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			application.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.url, "url", "", "Directus base URL (overrides DIRECTUS_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.project, "project", "", "Project id (overrides DIRECTUS_PROJECT_ID)")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "directus-crud version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd(application))
	rootCmd.AddCommand(commands.NewLogoutCmd(application))
	rootCmd.AddCommand(commands.NewWhoamiCmd(application))
	rootCmd.AddCommand(commands.NewStatusCmd(application))
	rootCmd.AddCommand(commands.NewAdminCmd(application))
	rootCmd.AddCommand(commands.NewProfilesCmd(application))
	rootCmd.AddCommand(commands.NewUploadCmd(application))
	rootCmd.AddCommand(commands.NewDashCmd(application))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		reportError(os.Stderr, os.Getenv("NO_COLOR") != "", err)
		return err
	}
	return nil
}

// reportError prints a failed command's error. It runs after the App is
// released, so it reads NO_COLOR itself.
func reportError(w io.Writer, noColor bool, err error) {
	message.New(w, noColor).Error("Error: %v", err)
}
