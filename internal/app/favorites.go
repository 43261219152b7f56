package app

import (
	"fmt"
	"io"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"filefusion/internal/domain"
	fferrors "filefusion/internal/errors"
	"filefusion/internal/services"
	"filefusion/internal/state"
)

func (app *App) favoriteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favorites"},
		Short:   "Manage favorite folders",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add PATH",
			Short: "Add a folder to the favorites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				folder, err := absPath(args[0])
				if err != nil {
					return err
				}
				store, err := app.configStore()
				if err != nil {
					return err
				}
				if err := store.AddFavorite(folder); err != nil {
					return err
				}
				if !app.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Added to favorites: %s\n", folder)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm PATH",
			Aliases: []string{"remove"},
			Short:   "Remove a folder from the favorites",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				folder, err := absPath(args[0])
				if err != nil {
					return err
				}
				store, err := app.configStore()
				if err != nil {
					return err
				}
				if err := store.RemoveFavorite(folder); err != nil {
					return err
				}
				if !app.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed from favorites: %s\n", folder)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List the favorite folders",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := app.configStore()
				if err != nil {
					return err
				}
				writePaths(cmd.OutOrStdout(), store.Config().Favorites, "No favorites.")
				return nil
			},
		},
	)
	return cmd
}

func (app *App) recentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently selected folders, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.configStore()
			if err != nil {
				return err
			}
			writePaths(cmd.OutOrStdout(), store.Config().RecentFolders, "No recent folders.")
			return nil
		},
	}
}

func (app *App) pickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Fuzzy-find a favorite or recent folder and print it",
		Long: `Pick a folder from the favorites and the recent list with a fuzzy
finder. The chosen path is printed and moved to the front of the recent
list, so it composes with the shell:

  cd "$(filefusion pick)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.configStore()
			if err != nil {
				return err
			}
			bookmarks := state.NewState(store.Config(), domain.ThemeDark).Bookmarks()
			if len(bookmarks) == 0 {
				if !app.quiet {
					fmt.Fprintln(cmd.ErrOrStderr(), "No favorites or recent folders.")
				}
				return nil
			}
			paths := make([]string, len(bookmarks))
			for index, bookmark := range bookmarks {
				paths[index] = bookmark.Path
			}

			index, err := app.find(paths)
			if err != nil {
				if fferrors.Is(err, fuzzyfinder.ErrAbort) {
					return nil
				}
				return fferrors.Wrapf(err, fferrors.ErrIO, "fuzzy finder failed")
			}
			chosen := paths[index]
			if err := store.AddRecent(chosen); err != nil {
				app.logger.Warn("recent folders not saved", "path", chosen, "error", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), chosen)
			return nil
		},
	}
}

// findPath shows paths in a fuzzy finder with the marker status of the
// highlighted folder in the preview window.
func findPath(paths []string) (int, error) {
	customizer := services.NewFSCustomizer(nil)
	return fuzzyfinder.Find(
		paths,
		func(i int) string { return paths[i] },
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			status, err := customizer.Status(paths[i])
			switch {
			case err != nil:
				return fmt.Sprintf("%s\n\n%v", paths[i], err)
			case status.Applied:
				return fmt.Sprintf("%s\n\nCustomization: Applied\nNote: %s", paths[i], status.Note)
			default:
				return fmt.Sprintf("%s\n\nCustomization: Not Applied", paths[i])
			}
		}),
	)
}

func writePaths(w io.Writer, paths []string, empty string) {
	if len(paths) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, path := range paths {
		fmt.Fprintln(w, path)
	}
}
