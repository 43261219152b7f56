package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filefusion/internal/config"
	"filefusion/internal/domain"
	fferrors "filefusion/internal/errors"
	"filefusion/internal/palette"
)

func newFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "Beta"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "alpha"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".secret"), []byte("x"), 0o644))
	return root
}

func TestLoadListingSortsFoldersFirstAndHidesDotfiles(t *testing.T) {
	root := newFixture(t)
	appState := NewState(config.DefaultConfig(), domain.ThemeDark)

	require.NoError(t, appState.LoadListing(root))

	names := make([]string, 0, len(appState.Listing.Entries))
	for _, entry := range appState.Listing.Entries {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"alpha", "Beta", "notes.txt"}, names)
	assert.Equal(t, int64(5), appState.Listing.Entries[2].Size)
	assert.Len(t, appState.Listing.Dirs(), 2)

	assert.True(t, appState.ToggleShowHidden())
	assert.Len(t, appState.Listing.Entries, 4)
}

func TestLoadListingMissingFolder(t *testing.T) {
	appState := NewState(config.DefaultConfig(), domain.ThemeDark)
	err := appState.LoadListing(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, fferrors.Is(err, fferrors.ErrNotFound))
}

func TestEnterAndLeaveDir(t *testing.T) {
	root := newFixture(t)
	appState := NewState(config.DefaultConfig(), domain.ThemeDark)
	require.NoError(t, appState.LoadListing(root))
	appState.MoveCursor(1)

	require.True(t, appState.EnterDir())
	assert.Equal(t, filepath.Join(root, "Beta"), appState.Path)
	assert.Nil(t, appState.CurrentNode())
	assert.False(t, appState.EnterDir())

	require.True(t, appState.LeaveDir())
	assert.Equal(t, root, appState.Path)
	assert.Equal(t, 1, appState.Cursor, "cursor returns to the folder left")
}

func TestCursorClamps(t *testing.T) {
	root := newFixture(t)
	appState := NewState(config.DefaultConfig(), domain.ThemeDark)
	require.NoError(t, appState.LoadListing(root))

	appState.MoveCursor(-5)
	assert.Equal(t, 0, appState.Cursor)
	appState.MoveCursor(50)
	assert.Equal(t, 2, appState.Cursor)
}

func TestTabsWrap(t *testing.T) {
	appState := NewState(config.DefaultConfig(), domain.ThemeDark)
	assert.Equal(t, TabFavorites, appState.NextTab(-1))
	assert.Equal(t, TabBrowse, appState.NextTab(1))
	assert.Equal(t, "Customize", appState.NextTab(1).String())
}

func TestTargetAndStats(t *testing.T) {
	appState := NewState(config.DefaultConfig(), domain.ThemeDark)
	appState.SetTarget("/music/jazz")
	assert.Equal(t, "jazz", appState.Custom.Name)

	assert.False(t, appState.SetStats(domain.FolderStats{Path: "/other"}))
	assert.Nil(t, appState.Stats)
	assert.True(t, appState.SetStats(domain.FolderStats{Path: "/music/jazz", FileCount: 3}))
	require.NotNil(t, appState.Stats)

	appState.SetTarget("/music/rock")
	assert.Nil(t, appState.Stats)
}

func TestCustomizationCycling(t *testing.T) {
	appState := NewState(config.DefaultConfig(), domain.ThemeDark)

	assert.Equal(t, domain.Icons[len(domain.Icons)-1], appState.CycleIcon(-1))
	assert.Equal(t, domain.EffectGlow, appState.CycleEffect(1))

	assert.Equal(t, palette.Presets[0].Hex, appState.Custom.Color)
	preset := appState.CyclePreset(1)
	assert.Equal(t, palette.Presets[1], preset)
	assert.Equal(t, preset.Hex, appState.Custom.Color)
	assert.Equal(t, palette.AdjustBrightness(preset.Hex, -20), appState.HoverColor())
}

func TestSetColor(t *testing.T) {
	appState := NewState(config.DefaultConfig(), domain.ThemeDark)

	require.NoError(t, appState.SetColor("#ABC"))
	assert.Equal(t, "#aabbcc", appState.Custom.Color)

	err := appState.SetColor("123456")
	assert.True(t, fferrors.Is(err, fferrors.ErrInvalidFormat))
	assert.Equal(t, "#aabbcc", appState.Custom.Color)

	require.NoError(t, appState.SetColor(palette.Presets[3].Hex))
	assert.Equal(t, 3, appState.PresetIndex)
}

func TestNoteAndName(t *testing.T) {
	appState := NewState(config.DefaultConfig(), domain.ThemeDark)
	appState.SetNote("  Tax papers ")
	assert.Equal(t, "Tax papers", appState.Custom.Note)
	appState.SetNote("")
	assert.Equal(t, domain.DefaultNote, appState.Custom.Note)

	appState.SetName("Archive")
	appState.SetName("   ")
	assert.Equal(t, "Archive", appState.Custom.Name)
}

func TestBookmarks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Favorites = []string{"/a", "/b"}
	cfg.RecentFolders = []string{"/b", "/c"}
	appState := NewState(cfg, domain.ThemeLight)

	assert.Equal(t, []Bookmark{
		{Path: "/a", Favorite: true},
		{Path: "/b", Favorite: true},
		{Path: "/c"},
	}, appState.Bookmarks())
	assert.True(t, appState.IsFavorite("/a"))
	assert.False(t, appState.IsFavorite("/c"))

	appState.Tab = TabFavorites
	appState.MoveCursor(10)
	bookmark, ok := appState.CurrentBookmark()
	require.True(t, ok)
	assert.Equal(t, "/c", bookmark.Path)

	cfg.Favorites = nil
	cfg.RecentFolders = nil
	appState.SyncConfig(cfg)
	_, ok = appState.CurrentBookmark()
	assert.False(t, ok)
	assert.Equal(t, 0, appState.BookmarkCursor)
}
