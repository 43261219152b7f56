package state

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"filefusion/internal/config"
	"filefusion/internal/domain"
	fferrors "filefusion/internal/errors"
	"filefusion/internal/palette"
)

type Tab int

const (
	TabBrowse Tab = iota
	TabCustomize
	TabColors
	TabStats
	TabFavorites
)

var Tabs = []Tab{TabBrowse, TabCustomize, TabColors, TabStats, TabFavorites}

func (tab Tab) String() string {
	switch tab {
	case TabBrowse:
		return "Browse"
	case TabCustomize:
		return "Customize"
	case TabColors:
		return "Colors"
	case TabStats:
		return "Stats"
	case TabFavorites:
		return "Favorites"
	default:
		return "?"
	}
}

type Preferences struct {
	ShowHidden bool
	Theme      domain.Theme
	IconSize   domain.IconSize
}

// Bookmark is one row of the favorites tab.
type Bookmark struct {
	Path     string
	Favorite bool
}

// State is the session state of the terminal UI. Persisted values are
// copies; the config store stays the owner of the file.
type State struct {
	Path    string
	Target  string
	Listing domain.Listing
	Cursor  int
	Tab     Tab
	Prefs   Preferences

	Custom      domain.Customization
	IconIndex   int
	EffectIndex int
	PresetIndex int

	Stats         *domain.FolderStats
	MarkerApplied bool

	Favorites      []string
	Recent         []string
	BookmarkCursor int
}

func NewState(cfg config.Config, theme domain.Theme) *State {
	appState := &State{
		Prefs: Preferences{
			Theme:    theme,
			IconSize: cfg.IconSize,
		},
		Custom: domain.Customization{
			Color:  cfg.DefaultColor,
			Icon:   domain.Icons[0],
			Effect: domain.Effects[0],
			Note:   domain.DefaultNote,
		},
	}
	if index := presetIndex(cfg.DefaultColor); index >= 0 {
		appState.PresetIndex = index
	}
	appState.SyncConfig(cfg)
	return appState
}

// SyncConfig refreshes the favorites and recent mirrors after the store
// has changed.
func (appState *State) SyncConfig(cfg config.Config) {
	appState.Favorites = append([]string{}, cfg.Favorites...)
	appState.Recent = append([]string{}, cfg.RecentFolders...)
	appState.BookmarkCursor = clamp(appState.BookmarkCursor, 0, len(appState.Bookmarks())-1)
}

func (appState *State) LoadListing(path string) error {
	appState.Path = path
	appState.Cursor = 0
	appState.Listing = domain.Listing{Path: path}
	if path == "" {
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fferrors.Wrapf(err, fferrors.ErrNotFound, "listing %s", path)
	}
	nodes := make([]domain.Node, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		hidden := isHiddenName(name)
		if hidden && !appState.Prefs.ShowHidden {
			continue
		}
		child := domain.Node{
			Name:   name,
			Path:   filepath.Join(path, name),
			Type:   domain.NodeFile,
			Hidden: hidden,
		}
		if info, infoErr := entry.Info(); infoErr == nil {
			child.ModTime = info.ModTime()
			if info.IsDir() {
				child.Type = domain.NodeDir
			} else {
				child.Size = info.Size()
			}
		}
		nodes = append(nodes, child)
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Type != nodes[j].Type {
			return nodes[i].Type == domain.NodeDir
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	appState.Listing.Entries = nodes
	return nil
}

func (appState *State) CurrentNode() *domain.Node {
	entries := appState.Listing.Entries
	if appState.Cursor < 0 || appState.Cursor >= len(entries) {
		return nil
	}
	return &entries[appState.Cursor]
}

func (appState *State) EnterDir() bool {
	node := appState.CurrentNode()
	if node == nil || node.Type != domain.NodeDir {
		return false
	}
	return appState.LoadListing(node.Path) == nil
}

// LeaveDir lists the parent folder and puts the cursor on the folder just
// left.
func (appState *State) LeaveDir() bool {
	if appState.Path == "" {
		return false
	}
	parent := filepath.Dir(appState.Path)
	if parent == appState.Path {
		return false
	}
	left := appState.Path
	if err := appState.LoadListing(parent); err != nil {
		return false
	}
	for index, entry := range appState.Listing.Entries {
		if entry.Path == left {
			appState.Cursor = index
			break
		}
	}
	return true
}

func (appState *State) MoveCursor(delta int) {
	switch appState.Tab {
	case TabFavorites:
		appState.BookmarkCursor = clamp(appState.BookmarkCursor+delta, 0, len(appState.Bookmarks())-1)
	default:
		appState.Cursor = clamp(appState.Cursor+delta, 0, len(appState.Listing.Entries)-1)
	}
}

func (appState *State) ToggleShowHidden() bool {
	appState.Prefs.ShowHidden = !appState.Prefs.ShowHidden
	cursor := appState.Cursor
	_ = appState.LoadListing(appState.Path)
	appState.Cursor = clamp(cursor, 0, len(appState.Listing.Entries)-1)
	return appState.Prefs.ShowHidden
}

func (appState *State) NextTab(delta int) Tab {
	index := (int(appState.Tab) + delta) % len(Tabs)
	if index < 0 {
		index += len(Tabs)
	}
	appState.Tab = Tabs[index]
	return appState.Tab
}

// SetTarget makes path the folder that customization and stats act on.
// Stats from a previous target are dropped.
func (appState *State) SetTarget(path string) {
	if path != appState.Target {
		appState.Stats = nil
		appState.MarkerApplied = false
	}
	appState.Target = path
	if path != "" {
		appState.Custom.Name = filepath.Base(path)
	}
}

// SetStats stores stats only when they belong to the current target, so a
// late result from an earlier folder is dropped.
func (appState *State) SetStats(stats domain.FolderStats) bool {
	if stats.Path != appState.Target {
		return false
	}
	appState.Stats = &stats
	return true
}

func (appState *State) CycleIcon(delta int) string {
	appState.IconIndex = wrap(appState.IconIndex+delta, len(domain.Icons))
	appState.Custom.Icon = domain.Icons[appState.IconIndex]
	return appState.Custom.Icon
}

func (appState *State) CycleEffect(delta int) domain.Effect {
	appState.EffectIndex = wrap(appState.EffectIndex+delta, len(domain.Effects))
	appState.Custom.Effect = domain.Effects[appState.EffectIndex]
	return appState.Custom.Effect
}

func (appState *State) CyclePreset(delta int) palette.Preset {
	appState.PresetIndex = wrap(appState.PresetIndex+delta, len(palette.Presets))
	preset := palette.Presets[appState.PresetIndex]
	appState.Custom.Color = preset.Hex
	return preset
}

func (appState *State) SetColor(hex string) error {
	if !palette.IsValidHex(hex) {
		return fferrors.Newf(fferrors.ErrInvalidFormat, "invalid hex color %q", hex)
	}
	normalized, err := palette.Normalize(hex)
	if err != nil {
		return err
	}
	appState.Custom.Color = normalized
	if index := presetIndex(normalized); index >= 0 {
		appState.PresetIndex = index
	}
	return nil
}

// HoverColor is the color shown for the focused swatch.
func (appState *State) HoverColor() string {
	return palette.AdjustBrightness(appState.Custom.Color, palette.HoverDelta)
}

func (appState *State) SetNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		note = domain.DefaultNote
	}
	appState.Custom.Note = note
}

func (appState *State) SetName(name string) {
	if name = strings.TrimSpace(name); name != "" {
		appState.Custom.Name = name
	}
}

// Bookmarks lists favorites first, then recent folders not already shown.
func (appState *State) Bookmarks() []Bookmark {
	bookmarks := make([]Bookmark, 0, len(appState.Favorites)+len(appState.Recent))
	seen := make(map[string]struct{}, len(appState.Favorites))
	for _, path := range appState.Favorites {
		seen[path] = struct{}{}
		bookmarks = append(bookmarks, Bookmark{Path: path, Favorite: true})
	}
	for _, path := range appState.Recent {
		if _, ok := seen[path]; ok {
			continue
		}
		bookmarks = append(bookmarks, Bookmark{Path: path})
	}
	return bookmarks
}

func (appState *State) CurrentBookmark() (Bookmark, bool) {
	bookmarks := appState.Bookmarks()
	if appState.BookmarkCursor < 0 || appState.BookmarkCursor >= len(bookmarks) {
		return Bookmark{}, false
	}
	return bookmarks[appState.BookmarkCursor], true
}

func (appState *State) IsFavorite(path string) bool {
	for _, favorite := range appState.Favorites {
		if favorite == path {
			return true
		}
	}
	return false
}

// presetIndex is -1 when hex is not one of the presets.
func presetIndex(hex string) int {
	normalized, err := palette.Normalize(hex)
	if err != nil {
		return -1
	}
	for index, preset := range palette.Presets {
		if preset.Hex == normalized {
			return index
		}
	}
	return -1
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

func clamp(value, min, max int) int {
	if max < min {
		return min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func wrap(value, size int) int {
	if size == 0 {
		return 0
	}
	value %= size
	if value < 0 {
		value += size
	}
	return value
}
