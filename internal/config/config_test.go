package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filefusion/internal/domain"
	fferrors "filefusion/internal/errors"
	"filefusion/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "filefusion", "config.json"), logging.ForTest(t))
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := newTestStore(t)

	assert.Equal(t, DefaultConfig(), store.Load())
	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestLoadCorruptFileReturnsDefaults(t *testing.T) {
	tests := map[string]string{
		"garbage":   "{not json",
		"array":     `["theme"]`,
		"null":      "null",
		"truncated": `{"theme": "light"`,
		"empty":     "",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
			require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o600))

			assert.Equal(t, DefaultConfig(), store.Load())
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	want := Config{
		Theme:         domain.ThemeLight,
		RecentFolders: []string{"/b", "/a"},
		Favorites:     []string{"/z", "/y"},
		IconSize:      domain.IconLarge,
		DefaultColor:  "#e74c3c",
		BackupEnabled: false,
	}

	require.NoError(t, store.Save(want))

	reloaded := NewStore(store.Path(), logging.ForTest(t))
	assert.Equal(t, want, reloaded.Load())
}

func TestSaveRejectsValuesLoadWouldDrop(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Config)
		want   error
	}{
		"theme":     {mutate: func(c *Config) { c.Theme = "blue" }, want: fferrors.ErrParse},
		"icon size": {mutate: func(c *Config) { c.IconSize = "huge" }, want: fferrors.ErrParse},
		"color":     {mutate: func(c *Config) { c.DefaultColor = "3498db" }, want: fferrors.ErrInvalidFormat},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t)
			bad := DefaultConfig()
			tt.mutate(&bad)

			err := store.Save(bad)

			require.Error(t, err)
			assert.True(t, fferrors.Is(err, tt.want))
			assert.Equal(t, DefaultConfig(), store.Config(), "current config kept")
			assert.NoFileExists(t, store.Path())
		})
	}
}

func TestSaveNormalizesPaths(t *testing.T) {
	store := newTestStore(t)
	config := DefaultConfig()
	config.RecentFolders = []string{"/a/", "", "/a", "/b"}
	config.Favorites = []string{"/z/../y", "/y"}

	require.NoError(t, store.Save(config))

	want := store.Config()
	assert.Equal(t, []string{"/a", "/b"}, want.RecentFolders)
	assert.Equal(t, []string{"/y"}, want.Favorites)
	reloaded := NewStore(store.Path(), logging.ForTest(t))
	assert.Equal(t, want, reloaded.Load())
}

func TestLoadFillsMissingKeysFromDefaults(t *testing.T) {
	store := newTestStore(t)
	writeRaw(t, store.Path(), `{"theme": "light", "favorites": ["/x"]}`)

	got := store.Load()

	want := DefaultConfig()
	want.Theme = domain.ThemeLight
	want.Favorites = []string{"/x"}
	assert.Equal(t, want, got)
}

func TestLoadKeepsDefaultsForBadValues(t *testing.T) {
	store := newTestStore(t)
	writeRaw(t, store.Path(), `{"theme": "blue", "icon_size": 4, "default_color": "teal", "backup_enabled": "yes", "recent_folders": ["/a"]}`)

	got := store.Load()

	want := DefaultConfig()
	want.RecentFolders = []string{"/a"}
	assert.Equal(t, want, got)
}

func TestUnknownKeysSurviveSave(t *testing.T) {
	store := newTestStore(t)
	writeRaw(t, store.Path(), `{"theme": "dark", "window": {"width": 1200, "height": 800}, "plugins": ["a"]}`)
	store.Load()

	require.NoError(t, store.AddFavorite("/music"))

	document := readRaw(t, store.Path())
	assert.JSONEq(t, `{"width": 1200, "height": 800}`, string(document["window"]))
	assert.JSONEq(t, `["a"]`, string(document["plugins"]))
	assert.JSONEq(t, `["/music"]`, string(document["favorites"]))
	for _, key := range []string{"theme", "recent_folders", "favorites", "icon_size", "default_color", "backup_enabled"} {
		assert.Contains(t, document, key)
	}
}

func TestSaveIsPrettyPrinted(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(DefaultConfig()))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"theme\": \"dark\"")
	assert.Contains(t, string(data), "\"recent_folders\": []")
}

func TestLoadNormalizesLists(t *testing.T) {
	store := newTestStore(t)
	recent := make([]string, 0, 14)
	for i := 0; i < 12; i++ {
		recent = append(recent, fmt.Sprintf("/r%d", i))
	}
	recent = append(recent, "/r0", "")
	payload, err := json.Marshal(map[string]interface{}{
		"recent_folders": recent,
		"favorites":      []string{"/f/", "/f", "/g"},
	})
	require.NoError(t, err)
	writeRaw(t, store.Path(), string(payload))

	got := store.Load()

	assert.Len(t, got.RecentFolders, MaxRecent)
	assert.Equal(t, "/r0", got.RecentFolders[0])
	assert.Equal(t, []string{"/f", "/g"}, got.Favorites)
}

func TestAddRecent(t *testing.T) {
	store := newTestStore(t)
	for i := 1; i <= 10; i++ {
		require.NoError(t, store.AddRecent(fmt.Sprintf("/p%d", i)))
	}
	require.Len(t, store.Config().RecentFolders, 10)

	require.NoError(t, store.AddRecent("/p5"))
	recent := store.Config().RecentFolders
	assert.Equal(t, "/p5", recent[0])
	assert.Len(t, recent, 10)
	assert.Equal(t, 1, count(recent, "/p5"))

	require.NoError(t, store.AddRecent("/p11"))
	recent = store.Config().RecentFolders
	assert.Equal(t, "/p11", recent[0])
	assert.Len(t, recent, 10)
	assert.NotContains(t, recent, "/p1", "oldest entry drops off")

	reloaded := NewStore(store.Path(), nil)
	assert.Equal(t, recent, reloaded.Load().RecentFolders, "every mutation is persisted")
}

func TestFavoritesAreIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddFavorite("/a"))
	require.NoError(t, store.AddFavorite("/b"))
	require.NoError(t, store.AddFavorite("/a"))
	assert.Equal(t, []string{"/a", "/b"}, store.Config().Favorites)

	require.NoError(t, store.RemoveFavorite("/a"))
	require.NoError(t, store.RemoveFavorite("/a"))
	require.NoError(t, store.RemoveFavorite("/missing"))
	assert.Equal(t, []string{"/b"}, store.Config().Favorites)

	reloaded := NewStore(store.Path(), nil)
	assert.Equal(t, []string{"/b"}, reloaded.Load().Favorites)
}

func TestEmptyPathRejected(t *testing.T) {
	store := newTestStore(t)

	err := store.AddRecent("")
	require.Error(t, err)
	assert.True(t, fferrors.Is(err, fferrors.ErrInvalidPath))
	assert.True(t, fferrors.Is(store.AddFavorite(""), fferrors.ErrInvalidPath))
}

func TestSaveFailsWhenDirectoryUnwritable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })
	store := NewStore(filepath.Join(dir, "config.json"), nil)

	err := store.Save(DefaultConfig())

	require.Error(t, err)
	assert.True(t, fferrors.Is(err, fferrors.ErrIO))
}

func TestSaveFailsWhenParentIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	store := NewStore(filepath.Join(blocker, "config.json"), nil)

	err := store.SetTheme(domain.ThemeLight)

	require.Error(t, err)
	assert.True(t, fferrors.Is(err, fferrors.ErrIO))
	assert.Equal(t, domain.ThemeLight, store.Config().Theme, "in-memory mutation is kept")
}

func TestSetters(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetTheme(domain.ThemeLight))
	require.NoError(t, store.SetIconSize(domain.IconSmall))
	require.NoError(t, store.SetDefaultColor("#abc"))
	require.NoError(t, store.SetBackupEnabled(false))

	assert.True(t, fferrors.Is(store.SetTheme("sepia"), fferrors.ErrParse))
	assert.True(t, fferrors.Is(store.SetIconSize("huge"), fferrors.ErrParse))
	assert.True(t, fferrors.Is(store.SetDefaultColor("abc"), fferrors.ErrInvalidFormat))

	got := NewStore(store.Path(), nil).Load()
	assert.Equal(t, domain.ThemeLight, got.Theme)
	assert.Equal(t, domain.IconSmall, got.IconSize)
	assert.Equal(t, "#abc", got.DefaultColor)
	assert.False(t, got.BackupEnabled)
}

func TestConfigReturnsCopy(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddFavorite("/a"))

	snapshot := store.Config()
	snapshot.Favorites[0] = "/mutated"

	assert.Equal(t, []string{"/a"}, store.Config().Favorites)
}

func TestExportImportJSONAndYAML(t *testing.T) {
	for _, name := range []string{"settings.json", "settings.yaml", "settings.yml"} {
		t.Run(name, func(t *testing.T) {
			source := newTestStore(t)
			require.NoError(t, source.AddFavorite("/fav"))
			require.NoError(t, source.AddRecent("/recent"))
			require.NoError(t, source.SetTheme(domain.ThemeLight))
			exportPath := filepath.Join(t.TempDir(), name)

			require.NoError(t, source.Export(exportPath))

			target := newTestStore(t)
			require.NoError(t, target.Import(exportPath))
			assert.Equal(t, source.Config(), target.Config())
			assert.Equal(t, source.Config(), NewStore(target.Path(), nil).Load())
		})
	}
}

func TestImportMalformedIsAnError(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddFavorite("/keep"))
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- just\n- a list\n"), 0o600))

	err := store.Import(bad)

	require.Error(t, err)
	assert.True(t, fferrors.Is(err, fferrors.ErrParse))
	assert.Equal(t, []string{"/keep"}, store.Config().Favorites)
}

func TestImportMissingFile(t *testing.T) {
	store := newTestStore(t)
	err := store.Import(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, fferrors.Is(err, fferrors.ErrIO))
}

func TestFlags(t *testing.T) {
	var flags Flags
	set := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(set, &flags)
	require.NoError(t, set.Parse([]string{"--config", "/tmp/c.json", "--theme", "light", "--path", "/srv"}))

	path, err := flags.ResolveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/c.json", path)
	assert.Equal(t, "/srv", flags.Path)
	assert.Equal(t, domain.ThemeLight, flags.SessionTheme(domain.ThemeDark))
	assert.Equal(t, domain.ThemeDark, Flags{Theme: "neon"}.SessionTheme(domain.ThemeDark))
}

func writeRaw(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readRaw(t *testing.T, path string) map[string]json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var document map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &document))
	return document
}

func count(values []string, target string) int {
	n := 0
	for _, value := range values {
		if value == target {
			n++
		}
	}
	return n
}
