// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// appName names the config and data directories under the XDG bases.
const appName = "snapgrab"

// Config holds all application configuration.
type Config struct {
	Base        string `toml:"base"`         // Resolver host
	DownloadDir string `toml:"download_dir"` // Where media files are saved
	Quality     string `toml:"quality"`      // Preferred video quality
	History     bool   `toml:"history"`      // Record downloads in the history store
	Debug       bool   `toml:"debug"`        // Verbose logging to stderr
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Base:        "snapsave.app",
		DownloadDir: "~/Downloads/snapgrab",
		Quality:     "best",
		History:     true,
		Debug:       false,
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// DataDir returns the directory for persistent state (the history store).
func DataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", ConfigPath(), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validQualities := map[string]bool{
		"best": true, "1080": true, "720": true, "480": true, "360": true,
	}
	if !validQualities[c.Quality] {
		return fmt.Errorf("unsupported quality %q (valid: best, 1080, 720, 480, 360)", c.Quality)
	}

	if c.Base == "" {
		return fmt.Errorf("resolver base cannot be empty")
	}
	if strings.Contains(c.Base, "/") {
		return fmt.Errorf("resolver base %q must be a bare host", c.Base)
	}

	if c.DownloadDir == "" {
		return fmt.Errorf("download directory cannot be empty")
	}

	return nil
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}
