package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	fferrors "filefusion/internal/errors"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Export writes the current configuration to path, as YAML when the
// extension asks for it and as indented JSON otherwise.
func (store *Store) Export(path string) error {
	if err := requirePath(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store.config, "", "  ")
	if err != nil {
		return fferrors.Wrapf(err, fferrors.ErrIO, "encoding config")
	}
	if isYAML(path) {
		var document map[string]interface{}
		if err := json.Unmarshal(data, &document); err != nil {
			return fferrors.Wrapf(err, fferrors.ErrIO, "encoding config")
		}
		if data, err = yaml.Marshal(document); err != nil {
			return fferrors.Wrapf(err, fferrors.ErrIO, "encoding yaml")
		}
	} else {
		data = append(data, '\n')
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fferrors.Wrapf(err, fferrors.ErrIO, "exporting to %s", path)
	}
	store.logger.Info("config exported", "path", path)
	return nil
}

// Import replaces the configuration with the document at path, merged
// over the defaults, and saves it. Unlike Load, a malformed document is
// an error and the current configuration is left unchanged.
func (store *Store) Import(path string) error {
	if err := requirePath(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fferrors.Wrapf(err, fferrors.ErrIO, "reading %s", path)
	}
	if isYAML(path) {
		var document map[string]interface{}
		if err := yaml.Unmarshal(data, &document); err != nil {
			return fferrors.Wrapf(err, fferrors.ErrParse, "decoding %s", path)
		}
		if data, err = json.Marshal(document); err != nil {
			return fferrors.Wrapf(err, fferrors.ErrParse, "decoding %s", path)
		}
	}
	imported, err := decodeConfig(data, store.logger)
	if err != nil {
		return fferrors.Wrapf(err, fferrors.ErrParse, "decoding %s", path)
	}
	store.logger.Info("config imported", "path", path)
	return store.Save(imported)
}
