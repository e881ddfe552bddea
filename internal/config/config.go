// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/podarr/podarr/internal/library"
)

// Config is the root configuration structure.
type Config struct {
	BaseDir string        `toml:"base_dir"`
	Series  []string      `toml:"series"`
	Workers WorkersConfig `toml:"workers"`
	Events  EventsConfig  `toml:"events"`
}

// WorkersConfig bounds the per-stage worker pools.
type WorkersConfig struct {
	Resolve     int `toml:"resolve"`     // 0 -> number of CPUs
	Download    int `toml:"download"`    // 0 -> 8
	Fingerprint int `toml:"fingerprint"` // 0 -> 64
}

// EventsConfig controls event persistence.
type EventsConfig struct {
	Database string `toml:"database"` // "" -> <base_dir>/.data/events.db
	Disabled bool   `toml:"disabled"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{
		BaseDir: "~/Music/podarr",
	}
	for _, s := range library.AllSeries {
		cfg.Series = append(cfg.Series, s.String())
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses the configuration file. A missing file yields
// the defaults, matching first-run behavior.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "~/Music/podarr"
	}
	cfg.BaseDir = expandHome(cfg.BaseDir)
	if len(cfg.Series) == 0 {
		for _, s := range library.AllSeries {
			cfg.Series = append(cfg.Series, s.String())
		}
	}
	if cfg.Workers.Resolve == 0 {
		cfg.Workers.Resolve = runtime.NumCPU()
	}
	if cfg.Workers.Download == 0 {
		cfg.Workers.Download = 8
	}
	if cfg.Workers.Fingerprint == 0 {
		cfg.Workers.Fingerprint = 64
	}
	if cfg.Events.Database == "" {
		cfg.Events.Database = filepath.Join(cfg.DataDir(), "events.db")
	}
}

// Validate rejects unknown series codes and negative pool sizes.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base_dir must not be empty")
	}
	for _, code := range c.Series {
		if _, err := library.ParseSeries(code); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.Workers.Resolve < 0 || c.Workers.Download < 0 || c.Workers.Fingerprint < 0 {
		return fmt.Errorf("worker counts must not be negative")
	}
	return nil
}

// SelectedSeries returns the configured series as domain values.
func (c *Config) SelectedSeries() []library.Series {
	out := make([]library.Series, 0, len(c.Series))
	for _, code := range c.Series {
		s, err := library.ParseSeries(code)
		if err != nil {
			continue // Validate already rejected these
		}
		out = append(out, s)
	}
	return out
}

// DataDir returns the metadata record directory.
func (c *Config) DataDir() string { return filepath.Join(c.BaseDir, ".data") }

// TempDir returns the in-progress download directory.
func (c *Config) TempDir() string { return filepath.Join(c.BaseDir, ".temp") }

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
