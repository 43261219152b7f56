package config

import (
	"github.com/spf13/pflag"

	"filefusion/internal/domain"
)

// Flags are per-invocation overrides. Only ConfigPath affects where the
// configuration lives; Theme is applied to the session and never saved.
type Flags struct {
	ConfigPath string
	Path       string
	Theme      string
}

func BindFlags(flags *pflag.FlagSet, target *Flags) {
	flags.StringVar(&target.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/filefusion/config.json)")
	flags.StringVar(&target.Path, "path", "", "folder to open")
	flags.StringVar(&target.Theme, "theme", "", "session theme override: dark, light")
}

func (flags Flags) ResolveConfigPath() (string, error) {
	if flags.ConfigPath != "" {
		return flags.ConfigPath, nil
	}
	return ConfigPath()
}

// SessionTheme returns the --theme override when it is valid and the
// configured theme otherwise.
func (flags Flags) SessionTheme(base domain.Theme) domain.Theme {
	if theme := domain.Theme(flags.Theme); theme.Valid() {
		return theme
	}
	return base
}
