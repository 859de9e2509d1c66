package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/usman766/directus-crud/internal/cli/app"
	"github.com/usman766/directus-crud/internal/cli/client"
	"github.com/usman766/directus-crud/internal/cli/output"
)

// maxConcurrentFetches bounds `profiles get` with several ids
const maxConcurrentFetches = 4

// NewProfilesCmd creates the profiles command group
func NewProfilesCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "Manage records of the profiles collection",
	}

	cmd.AddCommand(newProfilesListCmd(a))
	cmd.AddCommand(newProfilesGetCmd(a))
	cmd.AddCommand(newProfilesCreateCmd(a))
	cmd.AddCommand(newProfilesUpdateCmd(a))
	cmd.AddCommand(newProfilesDeleteCmd(a))

	return cmd
}

func newProfilesListCmd(a *app.App) *cobra.Command {
	var (
		opts   client.ListOptions
		format string
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesList(cmd.Context(), a, opts, format)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of profiles (Directus default when 0)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort field, prefix with - for descending")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Full-text search")
	addOutputFlag(cmd, &format)

	return requireAuth(cmd)
}

func runProfilesList(ctx context.Context, a *app.App, opts client.ListOptions, format string) error {
	if err := output.Validate(format); err != nil {
		return err
	}

	opts.WithTotal = format == output.Table
	resp, err := a.API.GetProfiles(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if format == output.Table && len(resp.Data) == 0 {
		fmt.Fprintln(a.Out, "No profiles found.")
		fmt.Fprintln(a.Out, "\nCreate one with: directus-crud profiles create --name <name> --email <email>")
		return nil
	}

	if err := output.Render(a.Out, format, resp.Data, profileTable(resp.Data)); err != nil {
		return err
	}

	if format == output.Table && resp.Meta != nil && resp.Meta.TotalCount != nil && *resp.Meta.TotalCount > len(resp.Data) {
		fmt.Fprintf(a.Out, "\nShowing %d of %d profiles\n", len(resp.Data), *resp.Meta.TotalCount)
	}
	return nil
}

func profileTable(profiles []client.Profile) func(w io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tUPDATED AT")
		fmt.Fprintln(w, "──\t────\t─────\t─────\t──────────")
		for _, p := range profiles {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				p.ID,
				p.Name,
				p.Email,
				orDash(p.Phone),
				orDash(p.UpdatedAt),
			)
		}
	}
}

func newProfilesGetCmd(a *app.App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <id>...",
		Short: "Show one or more profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesGet(cmd.Context(), a, args, format)
		},
	}
	addOutputFlag(cmd, &format)

	return requireAuth(cmd)
}

func runProfilesGet(ctx context.Context, a *app.App, ids []string, format string) error {
	if err := output.Validate(format); err != nil {
		return err
	}

	profiles := make([]client.Profile, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			resp, err := a.API.GetProfile(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get profile %s: %w", id, err)
			}
			profiles[i] = resp.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var v any = profiles
	if len(profiles) == 1 {
		v = profiles[0]
	}
	return output.Render(a.Out, format, v, profileTable(profiles))
}

// profileFlags are the editable profile fields shared by create and update
type profileFlags struct {
	name       string
	email      string
	phone      string
	bio        string
	avatar     string
	avatarFile string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Display name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.bio, "bio", "", "Short biography")
	cmd.Flags().StringVar(&f.avatar, "avatar", "", "Avatar file id")
	cmd.Flags().StringVar(&f.avatarFile, "avatar-file", "", "Upload this image and use it as avatar")
	cmd.MarkFlagsMutuallyExclusive("avatar", "avatar-file")
}

// resolveAvatar uploads --avatar-file, if given, and returns the avatar id to store
func (f *profileFlags) resolveAvatar(ctx context.Context, a *app.App) (string, error) {
	if f.avatarFile == "" {
		return f.avatar, nil
	}
	file, err := uploadPath(ctx, a, f.avatarFile)
	if err != nil {
		return "", err
	}
	a.Msg.Info("Uploaded %s as file %s", file.FilenameDownload, file.ID)
	return file.ID, nil
}

func newProfilesCreateCmd(a *app.App) *cobra.Command {
	var (
		flags  profileFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesCreate(cmd.Context(), a, flags, format)
		},
	}
	flags.register(cmd)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	addOutputFlag(cmd, &format)

	return requireAuth(cmd)
}

func runProfilesCreate(ctx context.Context, a *app.App, flags profileFlags, format string) error {
	if err := output.Validate(format); err != nil {
		return err
	}

	avatar, err := flags.resolveAvatar(ctx, a)
	if err != nil {
		return err
	}

	resp, err := a.API.CreateProfile(ctx, client.NewProfile{
		Name:   flags.name,
		Email:  flags.email,
		Phone:  flags.phone,
		Bio:    flags.bio,
		Avatar: avatar,
	})
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	if format == output.Table {
		a.Msg.Success("Profile %s created", resp.Data.ID)
		return nil
	}
	return output.Render(a.Out, format, resp.Data, nil)
}

func newProfilesUpdateCmd(a *app.App) *cobra.Command {
	var (
		flags  profileFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := client.ProfilePatch{}
			set := func(name string, v *string) *string {
				if cmd.Flags().Changed(name) {
					return v
				}
				return nil
			}
			patch.Name = set("name", &flags.name)
			patch.Email = set("email", &flags.email)
			patch.Phone = set("phone", &flags.phone)
			patch.Bio = set("bio", &flags.bio)
			patch.Avatar = set("avatar", &flags.avatar)
			return runProfilesUpdate(cmd.Context(), a, args[0], patch, flags, format)
		},
	}
	flags.register(cmd)
	addOutputFlag(cmd, &format)

	return requireAuth(cmd)
}

func runProfilesUpdate(ctx context.Context, a *app.App, id string, patch client.ProfilePatch, flags profileFlags, format string) error {
	if err := output.Validate(format); err != nil {
		return err
	}

	if flags.avatarFile != "" {
		avatar, err := flags.resolveAvatar(ctx, a)
		if err != nil {
			return err
		}
		patch.Avatar = &avatar
	}

	if patch.IsEmpty() {
		return errors.New("nothing to update (use --name, --email, --phone, --bio, --avatar or --avatar-file)")
	}

	resp, err := a.API.UpdateProfile(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if format == output.Table {
		a.Msg.Success("Profile %s updated", resp.Data.ID)
		return nil
	}
	return output.Render(a.Out, format, resp.Data, nil)
}

func newProfilesDeleteCmd(a *app.App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if err := confirmDelete(args[0]); err != nil {
					return err
				}
			}
			return runProfilesDelete(cmd.Context(), a, args[0])
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return requireAuth(cmd)
}

func confirmDelete(id string) error {
	if !isInteractive() {
		return fmt.Errorf("refusing to delete without confirmation in non-interactive mode (use --yes)")
	}
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Delete profile %s", id),
		IsConfirm: true,
		Stdout:    os.Stderr,
	}
	if _, err := prompt.Run(); err != nil {
		return fmt.Errorf("delete cancelled")
	}
	return nil
}

func runProfilesDelete(ctx context.Context, a *app.App, id string) error {
	if err := a.API.DeleteProfile(ctx, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	a.Msg.Success("Profile %s deleted", id)
	return nil
}
