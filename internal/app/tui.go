package app

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	fferrors "filefusion/internal/errors"
	"filefusion/internal/logging"
	"filefusion/internal/services"
	"filefusion/internal/state"
	"filefusion/internal/ui"
)

const logFileName = "filefusion.log"

func (app *App) runTUI(_ *cobra.Command, _ []string) error {
	closeLog := app.useFileLogger()
	defer closeLog()

	store, err := app.configStore()
	if err != nil {
		return err
	}
	cfg := store.Config()
	appState := state.NewState(cfg, app.flags.SessionTheme(cfg.Theme))

	start := app.flags.Path
	if start == "" {
		if cwd, err := os.Getwd(); err == nil {
			start = cwd
		}
	}
	status := ""
	if err := appState.LoadListing(start); err != nil {
		app.logger.Warn("start folder not listed", "path", start, "error", err)
		status = "Open error: " + err.Error()
	}

	model := ui.NewModel(appState, store,
		services.NewFSInspector(app.logger),
		services.NewFSCustomizer(app.logger)).
		WithLogger(app.logger).
		WithStatus(status)
	if app.flags.Path != "" {
		model = model.WithFolder(app.flags.Path)
	}

	watcher, err := services.NewFolderWatcher(app.logger)
	if err != nil {
		app.logger.Warn("folder changes will not be tracked", "error", err)
	} else {
		defer watcher.Close()
		model = model.WithNotifier(watcher)
	}

	app.logger.Info("tui starting", "path", start, "config", store.Path())
	if _, err := app.runProgram(model); err != nil {
		return fferrors.NewSystemError(err, "The terminal could not be initialized")
	}
	return nil
}

// useFileLogger points the logger at the state log file, since the
// terminal belongs to the UI while it runs.
func (app *App) useFileLogger() func() {
	path, err := xdg.StateFile(filepath.Join("filefusion", logFileName))
	if err != nil {
		app.logger = logging.NewDiscard()
		return func() {}
	}
	logger, closer, err := logging.OpenFile(path, app.level)
	if err != nil {
		app.logger = logging.NewDiscard()
		return func() {}
	}
	app.logger = logger
	return func() { _ = closer.Close() }
}
