// Package config holds the pypeek runtime configuration.
//
// Configuration is optional: the compiled-in defaults are a complete,
// working setup. A TOML file may override the picker package list and the
// registry endpoint, e.g.:
//
//	packages = ["requests", "pendulum", "httpx"]
//	registry = "https://pypi.org/pypi"
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/pypeek/pypeek/pkg/registry/pypi"
)

// Config is the resolved application configuration.
type Config struct {
	// Packages is the fixed list of names offered by the picker. The picker
	// is not user-editable at runtime; this list is its only source.
	Packages []string `toml:"packages"`

	// Registry is the package-metadata endpoint prefix. The request URL is
	// {Registry}/{name}/json.
	Registry string `toml:"registry"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Packages: []string{"requests", "pendulum", "numpy"},
		Registry: pypi.DefaultBaseURL,
	}
}

// Load reads a TOML config file and merges it over the defaults.
// Fields absent from the file keep their default values. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(cfg.Packages) == 0 {
		return Config{}, fmt.Errorf("%s: packages list must not be empty", path)
	}
	if cfg.Registry == "" {
		return Config{}, fmt.Errorf("%s: registry must not be empty", path)
	}
	return cfg, nil
}
