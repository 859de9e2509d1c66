package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/usman766/directus-crud/internal/cli/app"
	"github.com/usman766/directus-crud/internal/cli/client"
	"github.com/usman766/directus-crud/internal/cli/output"
)

// NewUploadCmd creates the upload command
func NewUploadCmd(a *app.App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file to Directus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.Context(), a, args[0], format)
		},
	}
	addOutputFlag(cmd, &format)

	return requireAuth(cmd)
}

func runUpload(ctx context.Context, a *app.App, path, format string) error {
	if err := output.Validate(format); err != nil {
		return err
	}

	file, err := uploadPath(ctx, a, path)
	if err != nil {
		return err
	}

	if format != output.Table {
		return output.Render(a.Out, format, file, nil)
	}
	a.Msg.Success("Uploaded %s", file.FilenameDownload)
	fmt.Fprintf(a.Out, "  ID:   %s\n", file.ID)
	fmt.Fprintf(a.Out, "  Type: %s\n", orDash(file.Type))
	fmt.Fprintf(a.Out, "  Size: %d bytes\n", file.Filesize)
	fmt.Fprintf(a.Out, "  URL:  %s/assets/%s\n", a.API.BaseURL(), file.ID)
	return nil
}

func uploadPath(ctx context.Context, a *app.App, path string) (*client.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	resp, err := a.API.UploadFile(ctx, path, f)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
