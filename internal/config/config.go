package config

import (
	"encoding/json"
	"path/filepath"

	"filefusion/internal/domain"
)

const MaxRecent = 10

const (
	keyTheme         = "theme"
	keyRecentFolders = "recent_folders"
	keyFavorites     = "favorites"
	keyIconSize      = "icon_size"
	keyDefaultColor  = "default_color"
	keyBackupEnabled = "backup_enabled"
)

// Config is the persisted user configuration. Keys this version does not
// know about are carried in Extra and written back untouched.
type Config struct {
	Theme         domain.Theme
	RecentFolders []string
	Favorites     []string
	IconSize      domain.IconSize
	DefaultColor  string
	BackupEnabled bool
	Extra         map[string]json.RawMessage
}

func DefaultConfig() Config {
	return Config{
		Theme:         domain.ThemeDark,
		RecentFolders: []string{},
		Favorites:     []string{},
		IconSize:      domain.IconMedium,
		DefaultColor:  "#3498db",
		BackupEnabled: true,
	}
}

func (config Config) Clone() Config {
	clone := config
	clone.RecentFolders = append([]string{}, config.RecentFolders...)
	clone.Favorites = append([]string{}, config.Favorites...)
	if config.Extra != nil {
		clone.Extra = make(map[string]json.RawMessage, len(config.Extra))
		for key, value := range config.Extra {
			clone.Extra[key] = append(json.RawMessage{}, value...)
		}
	}
	return clone
}

func (config Config) MarshalJSON() ([]byte, error) {
	document := make(map[string]interface{}, len(config.Extra)+6)
	for key, value := range config.Extra {
		document[key] = value
	}
	document[keyTheme] = config.Theme
	document[keyRecentFolders] = nonNil(config.RecentFolders)
	document[keyFavorites] = nonNil(config.Favorites)
	document[keyIconSize] = config.IconSize
	document[keyDefaultColor] = config.DefaultColor
	document[keyBackupEnabled] = config.BackupEnabled
	return json.Marshal(document)
}

// AddRecent moves path to the front of the recent list and trims the list
// to MaxRecent entries.
func (config *Config) AddRecent(path string) {
	path = filepath.Clean(path)
	recent := make([]string, 0, MaxRecent)
	recent = append(recent, path)
	for _, existing := range config.RecentFolders {
		if existing == path {
			continue
		}
		recent = append(recent, existing)
	}
	if len(recent) > MaxRecent {
		recent = recent[:MaxRecent]
	}
	config.RecentFolders = recent
}

// AddFavorite appends path unless it is already a favorite and reports
// whether the set changed.
func (config *Config) AddFavorite(path string) bool {
	path = filepath.Clean(path)
	if config.IsFavorite(path) {
		return false
	}
	config.Favorites = append(config.Favorites, path)
	return true
}

// RemoveFavorite drops path and reports whether the set changed.
func (config *Config) RemoveFavorite(path string) bool {
	path = filepath.Clean(path)
	kept := make([]string, 0, len(config.Favorites))
	for _, existing := range config.Favorites {
		if existing != path {
			kept = append(kept, existing)
		}
	}
	changed := len(kept) != len(config.Favorites)
	config.Favorites = kept
	return changed
}

func (config Config) IsFavorite(path string) bool {
	path = filepath.Clean(path)
	for _, existing := range config.Favorites {
		if existing == path {
			return true
		}
	}
	return false
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
