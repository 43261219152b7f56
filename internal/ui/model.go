package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"filefusion/internal/config"
	"filefusion/internal/domain"
	"filefusion/internal/services"
	"filefusion/internal/state"
)

// ConfigStore is the part of config.Store the UI mutates.
type ConfigStore interface {
	Config() config.Config
	AddRecent(path string) error
	AddFavorite(path string) error
	RemoveFavorite(path string) error
	SetTheme(theme domain.Theme) error
}

type inputMode string

const (
	inputNone inputMode = ""
	inputNote inputMode = "note"
	inputName inputMode = "name"
	inputHex  inputMode = "hex"
	inputPath inputMode = "path"
)

type Model struct {
	state      *state.State
	store      ConfigStore
	inspector  services.Inspector
	customizer services.Customizer
	notifier   services.ChangeNotifier
	copyText   func(string) error
	logger     *slog.Logger
	keys       KeyMap
	showHelp   bool
	status     string
	inspecting bool
	applying   bool
	cancel     context.CancelFunc
	inspectGen int
	spinner    spinner.Model
	input      textinput.Model
	mode       inputMode
	initial    string
	width      int
	height     int
	viewTop    int
}

func NewModel(appState *state.State, store ConfigStore, inspector services.Inspector, customizer services.Customizer) Model {
	input := textinput.New()
	input.CharLimit = 260
	return Model{
		state:      appState,
		store:      store,
		inspector:  inspector,
		customizer: customizer,
		copyText:   clipboard.WriteAll,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		keys:       DefaultKeyMap(),
		status:     "Ready - press s to select a folder",
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:      input,
		width:      100,
		height:     30,
	}
}

func (model Model) WithStatus(message string) Model {
	if message != "" {
		model.status = message
	}
	return model
}

func (model Model) WithLogger(logger *slog.Logger) Model {
	if logger != nil {
		model.logger = logger.With("component", "ui")
	}
	return model
}

// WithNotifier re-inspects the selected folder when it changes on disk.
func (model Model) WithNotifier(notifier services.ChangeNotifier) Model {
	model.notifier = notifier
	return model
}

func (model Model) WithClipboard(copyText func(string) error) Model {
	if copyText != nil {
		model.copyText = copyText
	}
	return model
}

// WithFolder opens path as the selected folder once the program starts.
func (model Model) WithFolder(path string) Model {
	model.initial = path
	return model
}

func (model Model) Init() tea.Cmd {
	cmds := []tea.Cmd{model.waitForChangeCmd()}
	if model.initial != "" {
		path := model.initial
		cmds = append(cmds, func() tea.Msg { return openFolderMsg{path: path} })
	}
	return tea.Batch(cmds...)
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if model.mode != inputNone {
			return model.handleInput(typed)
		}
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.ensureCursorVisible()
		return model, nil
	case openFolderMsg:
		return model.openFolder(typed.path)
	case inspectResultMsg:
		// Only the most recently started inspect may publish.
		if typed.gen != model.inspectGen || typed.path != model.state.Target {
			return model, nil
		}
		model.inspecting = false
		model.cancel = nil
		if typed.err != nil {
			if errors.Is(typed.err, context.Canceled) {
				model.status = "Inspect cancelled"
				return model, nil
			}
			model.status = fmt.Sprintf("Inspect error: %v", typed.err)
			return model, nil
		}
		model.state.SetStats(typed.stats)
		model.status = fmt.Sprintf("Inspected %s: %d folders, %d files, %s",
			filepath.Base(typed.path), typed.stats.FolderCount, typed.stats.FileCount, services.FormatSize(typed.stats.TotalSizeBytes))
		return model, nil
	case markerStatusMsg:
		if typed.path != model.state.Target {
			return model, nil
		}
		if typed.err != nil {
			model.logger.Warn("marker status unreadable", "path", typed.path, "error", typed.err)
			return model, nil
		}
		model.state.MarkerApplied = typed.status.Applied
		if typed.status.Applied && typed.status.Note != "" {
			model.state.Custom.Note = typed.status.Note
		}
		return model, nil
	case applyResultMsg:
		model.applying = false
		if typed.err != nil {
			model.status = fmt.Sprintf("Customization error: %v", typed.err)
			return model, nil
		}
		if typed.result.Folder == model.state.Target {
			model.state.MarkerApplied = !typed.reset
		}
		model.status = fmt.Sprintf("%s: %s", typed.result.Message, typed.result.Folder)
		return model, nil
	case folderChangedMsg:
		cmds := []tea.Cmd{model.waitForChangeCmd()}
		if typed.path == model.state.Target && model.state.Target != "" {
			if model.state.Path == model.state.Target {
				cursor := model.state.Cursor
				_ = model.state.LoadListing(model.state.Path)
				model.state.Cursor = cursor
				model.ensureCursorVisible()
			}
			var inspect tea.Cmd
			model, inspect = model.beginInspect()
			cmds = append(cmds, inspect)
		}
		return model, tea.Batch(cmds...)
	case copyResultMsg:
		if typed.err != nil {
			model.status = fmt.Sprintf("Clipboard error: %v", typed.err)
			return model, nil
		}
		model.status = fmt.Sprintf("Copied %s", typed.path)
		return model, nil
	case spinner.TickMsg:
		if !model.inspecting {
			return model, nil
		}
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(typed)
		return model, cmd
	default:
		if model.mode != inputNone {
			var cmd tea.Cmd
			model.input, cmd = model.input.Update(msg)
			return model, cmd
		}
		return model, nil
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		model = model.cancelInspect("")
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.showHelp = !model.showHelp
		return model, nil
	case key.Matches(msg, model.keys.NextTab):
		model.state.NextTab(1)
		return model, nil
	case key.Matches(msg, model.keys.PrevTab):
		model.state.NextTab(-1)
		return model, nil
	case key.Matches(msg, model.keys.Up):
		model.state.MoveCursor(-1)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Down):
		model.state.MoveCursor(1)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Theme):
		return model.toggleTheme(), nil
	case key.Matches(msg, model.keys.Goto):
		return model.beginInput(inputPath, model.state.Path)
	case key.Matches(msg, model.keys.Copy):
		return model, model.copyCmd()
	case key.Matches(msg, model.keys.Refresh):
		if model.state.Target == "" {
			model.status = "No folder selected"
			return model, nil
		}
		return model.beginInspect()
	case key.Matches(msg, model.keys.Apply):
		return model.beginApply(false)
	case key.Matches(msg, model.keys.Reset):
		return model.beginApply(true)
	case key.Matches(msg, model.keys.Favorite):
		return model.toggleFavorite(model.state.Target), nil
	}

	switch model.state.Tab {
	case state.TabBrowse:
		return model.handleBrowseKey(msg)
	case state.TabCustomize:
		return model.handleCustomizeKey(msg)
	case state.TabColors:
		return model.handleColorsKey(msg)
	case state.TabFavorites:
		return model.handleFavoritesKey(msg)
	}
	return model, nil
}

func (model Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Enter), key.Matches(msg, model.keys.Right):
		if model.state.EnterDir() {
			model.viewTop = 0
			model.status = model.state.Path
		}
		return model, nil
	case key.Matches(msg, model.keys.Back), key.Matches(msg, model.keys.Left):
		if model.state.LeaveDir() {
			model.ensureCursorVisible()
			model.status = model.state.Path
		}
		return model, nil
	case key.Matches(msg, model.keys.Hidden):
		if model.state.ToggleShowHidden() {
			model.status = "Hidden entries shown"
		} else {
			model.status = "Hidden entries hidden"
		}
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Select):
		path := model.state.Path
		if node := model.state.CurrentNode(); node != nil && node.Type == domain.NodeDir {
			path = node.Path
		}
		if path == "" {
			model.status = "Nothing to select"
			return model, nil
		}
		return model.openFolder(path)
	}
	return model, nil
}

func (model Model) handleCustomizeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Icon), key.Matches(msg, model.keys.Right):
		model.status = fmt.Sprintf("Icon: %s", model.state.CycleIcon(1))
	case key.Matches(msg, model.keys.Left):
		model.status = fmt.Sprintf("Icon: %s", model.state.CycleIcon(-1))
	case key.Matches(msg, model.keys.Effect):
		model.status = fmt.Sprintf("Effect: %s", model.state.CycleEffect(1))
	case key.Matches(msg, model.keys.Note):
		return model.beginInput(inputNote, model.state.Custom.Note)
	case key.Matches(msg, model.keys.Rename):
		return model.beginInput(inputName, model.state.Custom.Name)
	}
	return model, nil
}

func (model Model) handleColorsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Right):
		preset := model.state.CyclePreset(1)
		model.status = fmt.Sprintf("Color: %s %s", preset.Name, preset.Hex)
	case key.Matches(msg, model.keys.Left):
		preset := model.state.CyclePreset(-1)
		model.status = fmt.Sprintf("Color: %s %s", preset.Name, preset.Hex)
	case key.Matches(msg, model.keys.Hex):
		return model.beginInput(inputHex, model.state.Custom.Color)
	}
	return model, nil
}

func (model Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bookmark, ok := model.state.CurrentBookmark()
	if !ok {
		return model, nil
	}
	switch {
	case key.Matches(msg, model.keys.Enter), key.Matches(msg, model.keys.Select):
		return model.openFolder(bookmark.Path)
	case key.Matches(msg, model.keys.Delete):
		if !bookmark.Favorite {
			model.status = "Not a favorite"
			return model, nil
		}
		return model.toggleFavorite(bookmark.Path), nil
	}
	return model, nil
}

func (model Model) beginInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	model.mode = mode
	model.input.Prompt = inputLabel(mode) + ": "
	model.input.SetValue(value)
	model.status = fmt.Sprintf("Editing %s - enter to confirm, esc to cancel", strings.ToLower(inputLabel(mode)))
	return model, model.input.Focus()
}

func (model Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		model.mode = inputNone
		model.input.Blur()
		model.status = "Edit cancelled"
		return model, nil
	case tea.KeyEnter:
		mode := model.mode
		value := strings.TrimSpace(model.input.Value())
		model.mode = inputNone
		model.input.Blur()
		return model.commitInput(mode, value)
	}
	var cmd tea.Cmd
	model.input, cmd = model.input.Update(msg)
	return model, cmd
}

func (model Model) commitInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	switch mode {
	case inputNote:
		model.state.SetNote(value)
		model.status = fmt.Sprintf("Note: %s", model.state.Custom.Note)
	case inputName:
		model.state.SetName(value)
		model.status = fmt.Sprintf("Name: %s", model.state.Custom.Name)
	case inputHex:
		if err := model.state.SetColor(value); err != nil {
			model.status = fmt.Sprintf("Color error: %v", err)
			return model, nil
		}
		model.status = fmt.Sprintf("Color: %s", model.state.Custom.Color)
	case inputPath:
		if value == "" {
			model.status = "No path given"
			return model, nil
		}
		return model.openFolder(expandHome(value))
	}
	return model, nil
}

// openFolder lists path, makes it the selected folder, records it as
// recent and starts inspecting it.
func (model Model) openFolder(path string) (Model, tea.Cmd) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := model.state.LoadListing(path); err != nil {
		model.status = fmt.Sprintf("Open error: %v", err)
		return model, nil
	}
	model.viewTop = 0
	model.state.SetTarget(path)
	if err := model.store.AddRecent(path); err != nil {
		model.logger.Warn("recent folders not saved", "path", path, "error", err)
		model.status = fmt.Sprintf("Config error: %v", err)
	}
	model.state.SyncConfig(model.store.Config())
	if model.notifier != nil {
		if err := model.notifier.Watch(path); err != nil {
			model.logger.Warn("folder not watched", "path", path, "error", err)
		}
	}
	model, inspect := model.beginInspect()
	return model, tea.Batch(inspect, model.markerStatusCmd(path))
}

// beginInspect supersedes any running inspect. The replaced walk is
// cancelled and its result is dropped by generation.
func (model Model) beginInspect() (Model, tea.Cmd) {
	model = model.stopInspect()
	model.inspectGen++
	ctx, cancel := context.WithCancel(context.Background())
	model.cancel = cancel
	model.inspecting = true
	model.status = fmt.Sprintf("Inspecting %s", model.state.Target)
	return model, tea.Batch(model.inspectCmd(ctx, model.inspectGen, model.state.Target), model.spinner.Tick)
}

func (model Model) inspectCmd(ctx context.Context, gen int, path string) tea.Cmd {
	request := services.InspectRequest{Path: path}
	return func() tea.Msg {
		stats, err := model.inspector.Inspect(ctx, request)
		return inspectResultMsg{gen: gen, path: path, stats: stats, err: err}
	}
}

func (model Model) stopInspect() Model {
	if model.cancel != nil {
		model.cancel()
		model.cancel = nil
	}
	return model
}

func (model Model) cancelInspect(message string) Model {
	model = model.stopInspect()
	if message != "" {
		model.status = message
	}
	model.inspecting = false
	return model
}

func (model Model) markerStatusCmd(path string) tea.Cmd {
	return func() tea.Msg {
		status, err := model.customizer.Status(path)
		return markerStatusMsg{path: path, status: status, err: err}
	}
}

func (model Model) beginApply(reset bool) (tea.Model, tea.Cmd) {
	folder := model.state.Target
	if folder == "" {
		model.status = "No folder selected"
		return model, nil
	}
	if model.applying {
		return model, nil
	}
	model.applying = true
	if reset {
		model.status = fmt.Sprintf("Resetting %s", folder)
	} else {
		model.status = fmt.Sprintf("Applying to %s", folder)
	}
	request := services.ApplyRequest{Folder: folder, Note: model.state.Custom.MarkerNote()}
	customizer := model.customizer
	return model, func() tea.Msg {
		var (
			result services.ApplyResult
			err    error
		)
		if reset {
			result, err = customizer.Reset(context.Background(), folder)
		} else {
			result, err = customizer.Apply(context.Background(), request)
		}
		return applyResultMsg{result: result, reset: reset, err: err}
	}
}

func (model Model) toggleFavorite(path string) Model {
	if path == "" {
		model.status = "No folder selected"
		return model
	}
	var err error
	if model.state.IsFavorite(path) {
		err = model.store.RemoveFavorite(path)
		model.status = fmt.Sprintf("Removed favorite %s", path)
	} else {
		err = model.store.AddFavorite(path)
		model.status = fmt.Sprintf("Added favorite %s", path)
	}
	if err != nil {
		model.logger.Warn("favorites not saved", "path", path, "error", err)
		model.status = fmt.Sprintf("Config error: %v", err)
	}
	model.state.SyncConfig(model.store.Config())
	return model
}

func (model Model) toggleTheme() Model {
	theme := model.state.Prefs.Theme.Toggle()
	model.state.Prefs.Theme = theme
	model.status = fmt.Sprintf("Theme: %s", theme)
	if err := model.store.SetTheme(theme); err != nil {
		model.logger.Warn("theme not saved", "theme", theme, "error", err)
		model.status = fmt.Sprintf("Config error: %v", err)
	}
	return model
}

func (model Model) copyCmd() tea.Cmd {
	path := model.state.Target
	if path == "" {
		path = model.state.Path
	}
	if path == "" {
		return nil
	}
	copyText := model.copyText
	return func() tea.Msg {
		return copyResultMsg{path: path, err: copyText(path)}
	}
}

func (model Model) waitForChangeCmd() tea.Cmd {
	if model.notifier == nil {
		return nil
	}
	changes := model.notifier.Changes()
	return func() tea.Msg {
		path, ok := <-changes
		if !ok {
			return nil
		}
		return folderChangedMsg{path: path}
	}
}

func (model *Model) ensureCursorVisible() {
	entries := model.state.Listing.Entries
	if len(entries) == 0 {
		model.state.Cursor = 0
		model.viewTop = 0
		return
	}
	listHeight := model.listHeight()
	if listHeight <= 0 {
		return
	}
	if model.state.Cursor < model.viewTop {
		model.viewTop = model.state.Cursor
	}
	if model.state.Cursor >= model.viewTop+listHeight {
		model.viewTop = model.state.Cursor - listHeight + 1
	}
	maxTop := len(entries) - listHeight
	if maxTop < 0 {
		maxTop = 0
	}
	if model.viewTop > maxTop {
		model.viewTop = maxTop
	}
}

func (model *Model) listHeight() int {
	return model.height - 8
}

func inputLabel(mode inputMode) string {
	switch mode {
	case inputNote:
		return "Note"
	case inputName:
		return "Name"
	case inputHex:
		return "Hex"
	case inputPath:
		return "Path"
	default:
		return "Input"
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	if xdg.Home == "" {
		return path
	}
	return filepath.Join(xdg.Home, strings.TrimPrefix(path, "~"))
}
