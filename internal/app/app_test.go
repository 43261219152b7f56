package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fferrors "filefusion/internal/errors"
	"filefusion/internal/ui"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runApp(t *testing.T, app *App, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := app.Run(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// cli runs one invocation against a config file private to the test.
type cli struct {
	t      *testing.T
	config string
}

func newCLI(t *testing.T) *cli {
	return &cli{t: t, config: filepath.Join(t.TempDir(), "config.json")}
}

func (c *cli) run(args ...string) result {
	return c.runWith(New(), args...)
}

func (c *cli) runWith(app *App, args ...string) result {
	return runApp(c.t, app, append([]string{"--config", c.config}, args...)...)
}

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "one.txt"), []byte("12345"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "two.jpg"), []byte("1234567890"), 0o644))
	return root
}

func TestInspectText(t *testing.T) {
	root := makeTree(t)
	res := newCLI(t).run("inspect", root)

	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, root)
	assert.Contains(t, res.stdout, "Total Folders:     2")
	assert.Contains(t, res.stdout, "Total Files:       2")
	assert.Contains(t, res.stdout, "Total Size:        15.00 B")
	assert.Contains(t, res.stdout, "Largest file type: .jpg (10.00 B)")
	assert.Contains(t, res.stdout, "Customization:     Not Applied")
}

func TestInspectJSONSeveralPaths(t *testing.T) {
	first, second := makeTree(t), t.TempDir()
	res := newCLI(t).run("inspect", "--json", "-j", "2", first, second)
	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)

	var reports []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, first, reports[0]["path"])
	assert.EqualValues(t, 2, reports[0]["file_count"])
	assert.EqualValues(t, 15, reports[0]["total_size_bytes"])
	assert.Equal(t, second, reports[1]["path"])
	assert.EqualValues(t, 0, reports[1]["file_count"])
}

func TestInspectMissingFolder(t *testing.T) {
	root := makeTree(t)
	missing := filepath.Join(root, "missing")
	res := newCLI(t).run("inspect", root, missing)

	assert.Equal(t, fferrors.ExitUser, res.code)
	assert.Contains(t, res.stdout, "Total Files:", "the readable folder is still reported")
	assert.Contains(t, res.stderr, missing)
	assert.Contains(t, res.stderr, "Hint:")
}

func TestApplyStatusReset(t *testing.T) {
	c := newCLI(t)
	folder := t.TempDir()

	res := c.run("status", folder)
	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Not Applied\n", res.stdout)

	res = c.run("apply", folder, "--note", "Holiday photos")
	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Customization applied to "+folder)
	assert.FileExists(t, filepath.Join(folder, "desktop.ini"))

	res = c.run("status", folder)
	assert.Equal(t, "Applied: Holiday photos\n", res.stdout)

	res = c.run("recent")
	assert.Equal(t, folder+"\n", res.stdout, "apply records the folder")

	res = c.run("reset", folder)
	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Customization removed")
	assert.NoFileExists(t, filepath.Join(folder, "desktop.ini"))

	res = c.run("reset", folder)
	assert.Contains(t, res.stdout, "is not customized")
}

func TestApplyMissingFolderIsSystemError(t *testing.T) {
	res := newCLI(t).run("apply", filepath.Join(t.TempDir(), "gone"))
	assert.Equal(t, fferrors.ExitSystem, res.code)
	assert.Contains(t, res.stderr, "Error:")
}

func TestApplyDefaultNote(t *testing.T) {
	c := newCLI(t)
	folder := t.TempDir()
	require.Equal(t, fferrors.ExitSuccess, c.run("-q", "apply", folder).code)

	res := c.run("status", folder)
	assert.Equal(t, "Applied: Customized with FileFusion Pro\n", res.stdout)
}

func TestColor(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
		code int
	}{
		{name: "hex", args: []string{"color", "#3498db"}, want: []string{"RGB:   52,152,219", "Hover: #2084c7"}},
		{name: "short hex", args: []string{"color", "#abc"}, want: []string{"Hex:   #aabbcc"}},
		{name: "triple", args: []string{"color", "52,152,219"}, want: []string{"Hex:   #3498db"}},
		{name: "preset", args: []string{"color", "blue"}, want: []string{"Hex:   #3498db"}},
		{name: "adjust clamps", args: []string{"color", "#fafafa", "--adjust", "40"}, want: []string{"Hex:   #ffffff"}},
		{name: "presets", args: []string{"color", "--presets"}, want: []string{"Pomegranate  #c0392b"}},
		{name: "invalid", args: []string{"color", "nope"}, code: fferrors.ExitUser},
		{name: "channel range", args: []string{"color", "300,0,0"}, code: fferrors.ExitUser},
		{name: "missing value", args: []string{"color"}, code: fferrors.ExitUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newCLI(t).run(tt.args...)
			require.Equal(t, tt.code, res.code, res.stderr)
			for _, want := range tt.want {
				assert.Contains(t, res.stdout, want)
			}
		})
	}
}

func TestFavorites(t *testing.T) {
	c := newCLI(t)
	folder := t.TempDir()

	assert.Equal(t, "No favorites.\n", c.run("fav", "list").stdout)

	require.Equal(t, fferrors.ExitSuccess, c.run("fav", "add", folder).code)
	require.Equal(t, fferrors.ExitSuccess, c.run("fav", "add", folder).code)
	assert.Equal(t, folder+"\n", c.run("fav", "list").stdout)

	require.Equal(t, fferrors.ExitSuccess, c.run("fav", "rm", folder).code)
	assert.Equal(t, "No favorites.\n", c.run("fav", "list").stdout)
}

func TestRecentEmpty(t *testing.T) {
	assert.Equal(t, "No recent folders.\n", newCLI(t).run("recent").stdout)
}

func TestPick(t *testing.T) {
	c := newCLI(t)
	favorite, recent := t.TempDir(), t.TempDir()
	require.Equal(t, fferrors.ExitSuccess, c.run("fav", "add", favorite).code)
	require.Equal(t, fferrors.ExitSuccess, c.run("-q", "apply", recent).code)

	var offered []string
	app := New()
	app.find = func(paths []string) (int, error) {
		offered = paths
		return 1, nil
	}
	res := c.runWith(app, "pick")

	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)
	assert.Equal(t, []string{favorite, recent}, offered)
	assert.Equal(t, recent+"\n", res.stdout)
}

func TestPickAbortAndEmpty(t *testing.T) {
	c := newCLI(t)
	res := c.run("pick")
	assert.Equal(t, fferrors.ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "No favorites or recent folders.")

	require.Equal(t, fferrors.ExitSuccess, c.run("fav", "add", t.TempDir()).code)
	app := New()
	app.find = func([]string) (int, error) { return 0, fuzzyfinder.ErrAbort }
	res = c.runWith(app, "pick")
	assert.Equal(t, fferrors.ExitSuccess, res.code)
	assert.Empty(t, res.stdout)
}

func TestTheme(t *testing.T) {
	c := newCLI(t)
	assert.Equal(t, "dark\n", c.run("theme").stdout)

	res := c.run("theme", "toggle")
	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Theme set to light\n", res.stdout)
	assert.Equal(t, "light\n", c.run("theme").stdout)

	assert.Equal(t, fferrors.ExitUser, c.run("theme", "blue").code)
}

func TestConfigSet(t *testing.T) {
	c := newCLI(t)
	require.Equal(t, fferrors.ExitSuccess, c.run("config", "set", "icon-size", "large").code)
	require.Equal(t, fferrors.ExitSuccess, c.run("config", "set", "default-color", "#123456").code)
	require.Equal(t, fferrors.ExitSuccess, c.run("config", "set", "backup", "false").code)

	var document map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(c.run("config", "show").stdout), &document))
	assert.Equal(t, "large", document["icon_size"])
	assert.Equal(t, "#123456", document["default_color"])
	assert.Equal(t, false, document["backup_enabled"])

	assert.Equal(t, c.config+"\n", c.run("config", "path").stdout)
	assert.Equal(t, fferrors.ExitUser, c.run("config", "set", "default-color", "123456").code)
	assert.Equal(t, fferrors.ExitUser, c.run("config", "set", "colour", "x").code)
}

func TestExportImport(t *testing.T) {
	source := newCLI(t)
	require.Equal(t, fferrors.ExitSuccess, source.run("theme", "light").code)
	exported := filepath.Join(t.TempDir(), "settings.yaml")
	res := source.run("export", exported)
	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)

	target := newCLI(t)
	res = target.run("import", exported)
	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "light\n", target.run("theme").stdout)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	assert.Equal(t, fferrors.ExitUser, target.run("import", bad).code)
	assert.Equal(t, "light\n", target.run("theme").stdout)
}

func TestQuietAndVerboseConflict(t *testing.T) {
	res := newCLI(t).run("-q", "-v", "recent")
	assert.Equal(t, fferrors.ExitUser, res.code)
	assert.Contains(t, res.stderr, "cannot be combined")
}

func TestUnknownLogFormat(t *testing.T) {
	res := newCLI(t).run("--log-format", "xml", "recent")
	assert.Equal(t, fferrors.ExitUser, res.code)
	assert.Contains(t, res.stderr, "Use text or json")
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "filefusion version dev\n", newCLI(t).run("version").stdout)
	assert.Equal(t, "filefusion version dev\n", newCLI(t).run("--version").stdout)
}

func useStateDir(t *testing.T) {
	t.Helper()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
}

func TestTUIStartsProgram(t *testing.T) {
	useStateDir(t)
	folder := makeTree(t)

	var started tea.Model
	app := New()
	app.runProgram = func(model tea.Model) (tea.Model, error) {
		started = model
		return model, nil
	}
	res := newCLI(t).runWith(app, "--path", folder, "--theme", "light")

	require.Equal(t, fferrors.ExitSuccess, res.code, res.stderr)
	require.IsType(t, ui.Model{}, started)
	assert.Contains(t, started.View(), "FileFusion")
	assert.FileExists(t, filepath.Join(xdg.StateHome, "filefusion", logFileName))
}

func TestTUIProgramFailure(t *testing.T) {
	useStateDir(t)
	app := New()
	app.runProgram = func(model tea.Model) (tea.Model, error) {
		return model, errors.New("no tty")
	}
	res := newCLI(t).runWith(app, "--path", t.TempDir())

	assert.Equal(t, fferrors.ExitSystem, res.code)
	assert.Contains(t, res.stderr, "no tty")
}
