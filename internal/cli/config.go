package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds CLI defaults loaded from placemat.toml. Zero values mean
// "use the built-in default"; flags always override config values.
type Config struct {
	// Margin overrides the region interior deflation margin.
	Margin float64 `toml:"margin"`

	// Targets is the default list of render targets for the render command.
	Targets []string `toml:"targets"`

	// CacheDir overrides the artifact cache directory.
	CacheDir string `toml:"cache_dir"`

	// Listen is the default address for the serve command.
	Listen string `toml:"listen"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the optional redis render-artifact cache.
type RedisConfig struct {
	Addr string `toml:"addr"`
}

// MongoConfig configures the optional mongo board store for serve.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// configFileName is the config file looked up in the working directory and
// in the user config directory.
const configFileName = "placemat.toml"

// LoadConfig reads the config file at path. With an empty path it searches
// ./placemat.toml, then $XDG_CONFIG_HOME/placemat/placemat.toml (falling
// back to ~/.config). A missing file is not an error: the zero Config is
// returned and flags keep their built-in defaults.
func LoadConfig(path string) Config {
	var cfg Config
	if path == "" {
		var ok bool
		path, ok = findConfig()
		if !ok {
			return cfg
		}
	}
	// Decode errors are ignored deliberately: a broken config file must not
	// make every command unusable. The render/serve commands surface bad
	// values through normal flag validation instead.
	_, _ = toml.DecodeFile(path, &cfg)
	return cfg
}

func findConfig() (string, bool) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, true
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		dir = filepath.Join(home, ".config")
	}
	path := filepath.Join(dir, appName, configFileName)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}
