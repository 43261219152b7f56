package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"filefusion/internal/domain"
	fferrors "filefusion/internal/errors"
	"filefusion/internal/services"
)

func (app *App) applyCommand() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "apply PATH",
		Short: "Write the customization marker into a folder",
		Long: `Write a desktop.ini marker into PATH holding the note as its InfoTip.
On Windows the marker is flagged hidden and system.

Running apply again rewrites the same marker.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := absPath(args[0])
			if err != nil {
				return err
			}
			custom := domain.Customization{Note: note}
			result, err := services.NewFSCustomizer(app.logger).Apply(cmd.Context(), services.ApplyRequest{
				Folder: folder,
				Note:   custom.MarkerNote(),
			})
			if err != nil {
				return err
			}
			app.rememberRecent(folder)
			if !app.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Customization applied to %s\n", result.Folder)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&note, "note", "n", domain.DefaultNote, "InfoTip text")
	return cmd
}

func (app *App) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset PATH",
		Short: "Remove the customization marker from a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := absPath(args[0])
			if err != nil {
				return err
			}
			result, err := services.NewFSCustomizer(app.logger).Reset(cmd.Context(), folder)
			if err != nil {
				return err
			}
			if app.quiet {
				return nil
			}
			if result.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Customization removed from %s\n", result.Folder)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not customized\n", result.Folder)
			}
			return nil
		},
	}
}

func (app *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status PATH",
		Short: "Show whether a folder carries a customization marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := absPath(args[0])
			if err != nil {
				return err
			}
			status, err := services.NewFSCustomizer(app.logger).Status(folder)
			if err != nil {
				return err
			}
			if status.Applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied: %s\n", status.Note)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Not Applied")
			}
			return nil
		},
	}
}

// rememberRecent records folder in the recent list. A config failure is
// logged; the customization itself already succeeded.
func (app *App) rememberRecent(folder string) {
	store, err := app.configStore()
	if err == nil {
		err = store.AddRecent(folder)
	}
	if err != nil {
		app.logger.Warn("recent folders not saved", "path", folder, "error", err)
	}
}

func absPath(path string) (string, error) {
	if path == "" {
		return "", fferrors.Newf(fferrors.ErrInvalidPath, "path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fferrors.Wrapf(err, fferrors.ErrInvalidPath, "resolving %s", path)
	}
	return abs, nil
}
