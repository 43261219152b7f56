package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"filefusion/internal/domain"
	fferrors "filefusion/internal/errors"
	"filefusion/internal/palette"
)

const (
	configDirName  = "filefusion"
	configFileName = "config.json"
)

func ConfigPath() (string, error) {
	if xdg.ConfigHome == "" {
		return "", fferrors.Newf(fferrors.ErrIO, "no per-user config directory")
	}
	return filepath.Join(xdg.ConfigHome, configDirName, configFileName), nil
}

// Store owns the loaded configuration and is the only writer of its file.
type Store struct {
	path   string
	logger *slog.Logger
	config Config
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		path:   path,
		logger: logger.With("component", "config"),
		config: DefaultConfig(),
	}
}

func (store *Store) Path() string {
	return store.path
}

// Config returns a copy of the in-memory configuration.
func (store *Store) Config() Config {
	return store.config.Clone()
}

// Load reads the config file. A missing, unreadable or malformed file
// yields the defaults; the failure is logged, not returned.
func (store *Store) Load() Config {
	store.config = DefaultConfig()
	data, err := os.ReadFile(store.path)
	if err != nil {
		if !os.IsNotExist(err) {
			store.logger.Warn("config unreadable, using defaults", "path", store.path, "error", err)
		}
		return store.Config()
	}
	loaded, err := decodeConfig(data, store.logger)
	if err != nil {
		store.logger.Warn("config malformed, using defaults", "path", store.path, "error", err)
		return store.Config()
	}
	store.config = loaded
	store.logger.Debug("config loaded", "path", store.path)
	return store.Config()
}

// Save replaces the in-memory configuration and rewrites the file. A
// config Load would not read back unchanged is rejected and the current
// configuration is kept.
func (store *Store) Save(config Config) error {
	if err := validateConfig(config); err != nil {
		return err
	}
	clone := config.Clone()
	clone.RecentFolders = normalizePaths(clone.RecentFolders, MaxRecent)
	clone.Favorites = normalizePaths(clone.Favorites, 0)
	store.config = clone
	return store.write()
}

func (store *Store) AddRecent(path string) error {
	if err := requirePath(path); err != nil {
		return err
	}
	store.config.AddRecent(path)
	return store.write()
}

func (store *Store) AddFavorite(path string) error {
	if err := requirePath(path); err != nil {
		return err
	}
	store.config.AddFavorite(path)
	return store.write()
}

func (store *Store) RemoveFavorite(path string) error {
	if err := requirePath(path); err != nil {
		return err
	}
	store.config.RemoveFavorite(path)
	return store.write()
}

func (store *Store) SetTheme(theme domain.Theme) error {
	if !theme.Valid() {
		return fferrors.Newf(fferrors.ErrParse, "unknown theme %q", theme)
	}
	store.config.Theme = theme
	return store.write()
}

func (store *Store) SetIconSize(size domain.IconSize) error {
	if !size.Valid() {
		return fferrors.Newf(fferrors.ErrParse, "unknown icon size %q", size)
	}
	store.config.IconSize = size
	return store.write()
}

func (store *Store) SetDefaultColor(hex string) error {
	if !palette.IsValidHex(hex) {
		return fferrors.Newf(fferrors.ErrInvalidFormat, "invalid hex color %q", hex)
	}
	store.config.DefaultColor = hex
	return store.write()
}

func (store *Store) SetBackupEnabled(enabled bool) error {
	store.config.BackupEnabled = enabled
	return store.write()
}

func (store *Store) write() error {
	if store.path == "" {
		return fferrors.Newf(fferrors.ErrIO, "config path not set")
	}
	data, err := json.MarshalIndent(store.config, "", "  ")
	if err != nil {
		return fferrors.Wrapf(err, fferrors.ErrIO, "encoding config")
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fferrors.Wrapf(err, fferrors.ErrIO, "creating config directory")
	}
	if err := writeFileAtomic(store.path, data, 0o600); err != nil {
		return fferrors.Wrapf(err, fferrors.ErrIO, "writing %s", store.path)
	}
	store.logger.Debug("config saved", "path", store.path)
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames
// it over path, so an interrupted save leaves the old file intact.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".filefusion-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// decodeConfig merges a stored document over the defaults one key at a
// time. A recognized key with the wrong type or an invalid value keeps
// its default; unrecognized keys land in Extra.
func decodeConfig(data []byte, logger *slog.Logger) (Config, error) {
	var document map[string]json.RawMessage
	if err := json.Unmarshal(data, &document); err != nil {
		return Config{}, fferrors.Wrapf(err, fferrors.ErrParse, "decoding config")
	}
	if document == nil {
		return Config{}, fferrors.Newf(fferrors.ErrParse, "config is not an object")
	}

	merged := DefaultConfig()
	for key, raw := range document {
		var err error
		switch key {
		case keyTheme:
			var theme domain.Theme
			if err = json.Unmarshal(raw, &theme); err == nil {
				if theme.Valid() {
					merged.Theme = theme
				} else {
					err = fferrors.Newf(fferrors.ErrParse, "unknown theme %q", theme)
				}
			}
		case keyRecentFolders:
			var recent []string
			if err = json.Unmarshal(raw, &recent); err == nil {
				merged.RecentFolders = normalizePaths(recent, MaxRecent)
			}
		case keyFavorites:
			var favorites []string
			if err = json.Unmarshal(raw, &favorites); err == nil {
				merged.Favorites = normalizePaths(favorites, 0)
			}
		case keyIconSize:
			var size domain.IconSize
			if err = json.Unmarshal(raw, &size); err == nil {
				if size.Valid() {
					merged.IconSize = size
				} else {
					err = fferrors.Newf(fferrors.ErrParse, "unknown icon size %q", size)
				}
			}
		case keyDefaultColor:
			var color string
			if err = json.Unmarshal(raw, &color); err == nil {
				if palette.IsValidHex(color) {
					merged.DefaultColor = color
				} else {
					err = fferrors.Newf(fferrors.ErrInvalidFormat, "invalid hex color %q", color)
				}
			}
		case keyBackupEnabled:
			var enabled bool
			if err = json.Unmarshal(raw, &enabled); err == nil {
				merged.BackupEnabled = enabled
			}
		default:
			if merged.Extra == nil {
				merged.Extra = make(map[string]json.RawMessage)
			}
			merged.Extra[key] = raw
		}
		if err != nil {
			logger.Warn("config key ignored, using default", "key", key, "error", err)
		}
	}
	return merged, nil
}

// normalizePaths cleans paths, drops empties and duplicates, and keeps at
// most limit entries when limit > 0.
func normalizePaths(paths []string, limit int) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		result = append(result, clean)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result
}

func validateConfig(config Config) error {
	if !config.Theme.Valid() {
		return fferrors.Newf(fferrors.ErrParse, "unknown theme %q", config.Theme)
	}
	if !config.IconSize.Valid() {
		return fferrors.Newf(fferrors.ErrParse, "unknown icon size %q", config.IconSize)
	}
	if !palette.IsValidHex(config.DefaultColor) {
		return fferrors.Newf(fferrors.ErrInvalidFormat, "invalid hex color %q", config.DefaultColor)
	}
	return nil
}

func requirePath(path string) error {
	if path == "" {
		return fferrors.Newf(fferrors.ErrInvalidPath, "path is empty")
	}
	return nil
}
