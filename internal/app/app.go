package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"filefusion/internal/config"
	fferrors "filefusion/internal/errors"
	"filefusion/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

const defaultJobs = 4

// App carries the flag values and shared dependencies of one invocation.
type App struct {
	flags     config.Flags
	verbosity int
	quiet     bool
	logFormat string

	level  slog.Level
	logger *slog.Logger
	store  *config.Store

	runProgram func(tea.Model) (tea.Model, error)
	find       func(paths []string) (int, error)
}

func New() *App {
	return &App{
		logger:     logging.NewDiscard(),
		runProgram: runProgram,
		find:       findPath,
	}
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return New().Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func (app *App) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := app.Command()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return fferrors.ExitSuccess
	}
	exitErr := fferrors.Classify(err)
	fmt.Fprintf(stderr, "Error: %v\n", exitErr)
	if exitErr.Suggestion != "" {
		fmt.Fprintf(stderr, "Hint: %s\n", exitErr.Suggestion)
	}
	return exitErr.Code
}

func (app *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "filefusion",
		Short: "Browse folders and customize how they look",
		Long: `filefusion lets you browse a folder tree, inspect folder statistics
and tag folders with a desktop.ini marker carrying a short note.

Run without a subcommand to open the terminal UI.`,
		Example: `  # Open the terminal UI in a folder
  filefusion --path ~/Pictures

  # Print statistics for several folders
  filefusion inspect ~/Music ~/Videos

  # Tag a folder
  filefusion apply ~/Projects --note "Work in progress"`,
		Args:              cobra.NoArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
		RunE:              app.runTUI,
	}
	root.Version = Version
	root.SetVersionTemplate("filefusion version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.CountVarP(&app.verbosity, "verbose", "v", "increase verbosity level (e.g., -v, -vv)")
	flags.BoolVarP(&app.quiet, "quiet", "q", false, "suppress non-error output")
	flags.StringVar(&app.logFormat, "log-format", "text", "log format: text, json")
	config.BindFlags(flags, &app.flags)

	root.AddCommand(
		app.inspectCommand(),
		app.applyCommand(),
		app.resetCommand(),
		app.statusCommand(),
		app.colorCommand(),
		app.favoriteCommand(),
		app.recentCommand(),
		app.pickCommand(),
		app.themeCommand(),
		app.configCommand(),
		app.exportCommand(),
		app.importCommand(),
		app.versionCommand(),
	)
	return root
}

// setup configures logging from the verbosity flags. The config store is
// opened lazily so the TUI can first move logging off the terminal.
func (app *App) setup(cmd *cobra.Command, _ []string) error {
	if app.quiet && app.verbosity > 0 {
		return fferrors.NewUserError(
			fferrors.Newf(fferrors.ErrParse, "--quiet and --verbose cannot be combined"), "")
	}
	format, ok := logging.ParseFormat(app.logFormat)
	if !ok {
		return fferrors.NewUserError(
			fferrors.Newf(fferrors.ErrParse, "unknown log format %q", app.logFormat), "Use text or json")
	}
	app.level = logging.LevelFor(app.verbosity, app.quiet)
	app.logger = logging.New(logging.Config{
		Level:  app.level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	app.store = nil
	return nil
}

func (app *App) configStore() (*config.Store, error) {
	if app.store != nil {
		return app.store, nil
	}
	path, err := app.flags.ResolveConfigPath()
	if err != nil {
		return nil, err
	}
	app.store = config.NewStore(path, app.logger)
	app.store.Load()
	return app.store, nil
}

func runProgram(model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model, tea.WithAltScreen()).Run()
}
