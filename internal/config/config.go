// Package config holds skyalign configuration: the default observer, search
// tuning, storage paths, and named locations. Config lives in a YAML file
// under the user's home directory; a missing file yields defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"skyalign/internal/geodesy"
)

// Config is the root configuration.
type Config struct {
	Observer ObserverConfig `yaml:"observer"`
	Search   SearchConfig   `yaml:"search"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Locations are named coordinates usable as "@name" wherever a
	// location flag is accepted.
	Locations map[string]string `yaml:"locations,omitempty"`
}

// ObserverConfig is the default observer location, used when --observer is
// omitted.
type ObserverConfig struct {
	Location string `yaml:"location"` // "lat,lon,elev"
}

// SearchConfig holds default alignment-search tuning.
type SearchConfig struct {
	AzTolDeg   float64 `yaml:"az_tol_deg"`
	ElTolDeg   float64 `yaml:"el_tol_deg"`
	WindowDays int     `yaml:"window_days"`
	Step       string  `yaml:"step"`    // coarse scan step, duration string
	Refine     string  `yaml:"refine"`  // fine scan resolution
	MinSep     string  `yaml:"min_sep"` // result separation
	Workers    int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// StorageConfig configures the run-history database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Search: SearchConfig{
			AzTolDeg:   0.5,
			ElTolDeg:   0.5,
			WindowDays: 30,
			Step:       "5m",
			Refine:     "1s",
			MinSep:     "10s",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(home, ".skyalign", "skyalign.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Locations: map[string]string{},
	}
}

// DefaultPath returns the standard config file location, honoring the
// SKYALIGN_CONFIG override.
func DefaultPath() string {
	if p := os.Getenv("SKYALIGN_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".skyalign", "config.yaml")
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("SKYALIGN_DB"); p != "" {
		c.Storage.DatabasePath = p
	}
	if loc := os.Getenv("SKYALIGN_OBSERVER"); loc != "" {
		c.Observer.Location = loc
	}
}

// Validate checks the durations and every stored location.
func (c *Config) Validate() error {
	for name, val := range map[string]string{
		"search.step":    c.Search.Step,
		"search.refine":  c.Search.Refine,
		"search.min_sep": c.Search.MinSep,
	} {
		if val == "" {
			continue
		}
		if _, err := time.ParseDuration(val); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	if c.Observer.Location != "" {
		if _, err := geodesy.ParseLocation(c.Observer.Location); err != nil {
			return fmt.Errorf("invalid observer location: %w", err)
		}
	}
	for name, loc := range c.Locations {
		if _, err := geodesy.ParseLocation(loc); err != nil {
			return fmt.Errorf("invalid location %q: %w", name, err)
		}
	}
	return nil
}

// StepDuration returns the coarse step, falling back to the default on a
// missing or bad value.
func (c *Config) StepDuration() time.Duration { return duration(c.Search.Step, 5*time.Minute) }

// RefineDuration returns the fine scan resolution.
func (c *Config) RefineDuration() time.Duration { return duration(c.Search.Refine, time.Second) }

// MinSepDuration returns the minimum result separation.
func (c *Config) MinSepDuration() time.Duration { return duration(c.Search.MinSep, 10*time.Second) }

func duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// ResolveLocation parses a location argument. "@name" resolves against the
// named locations; anything else is parsed as a decimal triplet, then as a
// DMS string.
func (c *Config) ResolveLocation(arg string) (geodesy.Location, error) {
	if name, ok := strings.CutPrefix(arg, "@"); ok {
		raw, ok := c.Locations[name]
		if !ok {
			return geodesy.Location{}, fmt.Errorf("no saved location named %q", name)
		}
		return geodesy.ParseLocation(raw)
	}
	if loc, err := geodesy.ParseLocation(arg); err == nil {
		return loc, nil
	}
	return geodesy.ParseDMS(arg)
}
