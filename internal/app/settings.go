package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"filefusion/internal/domain"
	fferrors "filefusion/internal/errors"
)

func (app *App) themeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the saved theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ThemeDark), string(domain.ThemeLight), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.configStore()
			if err != nil {
				return err
			}
			current := store.Config().Theme
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), current)
				return nil
			}
			next := domain.Theme(strings.ToLower(args[0]))
			if args[0] == "toggle" {
				next = current.Toggle()
			}
			if !next.Valid() {
				return fferrors.NewUserError(
					fferrors.Newf(fferrors.ErrParse, "unknown theme %q", args[0]), "Use dark, light or toggle")
			}
			if err := store.SetTheme(next); err != nil {
				return err
			}
			if !app.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", next)
			}
			return nil
		},
	}
}

func (app *App) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change saved settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := app.configStore()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), store.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := app.configStore()
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(store.Config(), "", "  ")
				if err != nil {
					return fferrors.Wrapf(err, fferrors.ErrIO, "encoding config")
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:       "set KEY VALUE",
			Short:     "Change icon-size, default-color or backup",
			Args:      cobra.ExactArgs(2),
			ValidArgs: []string{"icon-size", "default-color", "backup"},
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := app.configStore()
				if err != nil {
					return err
				}
				key, value := args[0], args[1]
				switch key {
				case "icon-size":
					err = store.SetIconSize(domain.IconSize(strings.ToLower(value)))
				case "default-color":
					err = store.SetDefaultColor(value)
				case "backup":
					enabled, parseErr := strconv.ParseBool(value)
					if parseErr != nil {
						return fferrors.Wrapf(parseErr, fferrors.ErrParse, "backup wants true or false")
					}
					err = store.SetBackupEnabled(enabled)
				default:
					return fferrors.NewUserError(
						fferrors.Newf(fferrors.ErrParse, "unknown setting %q", key),
						"Use icon-size, default-color or backup")
				}
				if err != nil {
					return err
				}
				if !app.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", key, value)
				}
				return nil
			},
		},
	)
	return cmd
}

func (app *App) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the settings to FILE (YAML for .yaml/.yml, JSON otherwise)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.configStore()
			if err != nil {
				return err
			}
			if err := store.Export(args[0]); err != nil {
				return err
			}
			if !app.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Settings exported to %s\n", args[0])
			}
			return nil
		},
	}
}

func (app *App) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the settings with the contents of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.configStore()
			if err != nil {
				return err
			}
			if err := store.Import(args[0]); err != nil {
				return err
			}
			if !app.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Settings imported from %s\n", args[0])
			}
			return nil
		},
	}
}

func (app *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "filefusion version %s\n", Version)
		},
	}
}
