// Package config loads battmon settings from a TOML file, layering the file
// over built-in defaults and validating the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	minRefreshSeconds = 1
	maxRefreshSeconds = 3600
	minRetentionDays  = 1
	maxRetentionDays  = 3650
)

// rangeLabels are the history spans the GUI can display.
var rangeLabels = []string{"15m", "1h", "3h", "6h", "24h", "7d"}

type Config struct {
	Paths   PathsConfig   `toml:"paths"`
	GUI     GUIConfig     `toml:"gui"`
	Cleanup CleanupConfig `toml:"cleanup"`
}

type PathsConfig struct {
	PowerSupplyRoot string `toml:"power_supply_root"`
	LogDir          string `toml:"log_dir"`
	DBPath          string `toml:"db_path"`
}

type GUIConfig struct {
	RefreshSeconds int    `toml:"refresh_seconds"`
	DefaultRange   string `toml:"default_range"`
}

type CleanupConfig struct {
	RetentionDays int `toml:"retention_days"`
}

func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			PowerSupplyRoot: "/sys/class/power_supply",
			LogDir:          "/var/log/battmon",
			DBPath:          defaultDBPath(),
		},
		GUI: GUIConfig{
			RefreshSeconds: 30,
			DefaultRange:   "6h",
		},
		Cleanup: CleanupConfig{
			RetentionDays: 365,
		},
	}
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "battmon", "config.toml")
	}
	return "/etc/battmon/config.toml"
}

func defaultDBPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "battmon", "history.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "battmon", "history.db")
	}
	return "/var/lib/battmon/history.db"
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return NormalizeAndValidate(cfg)
}

func NormalizeAndValidate(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	sanitized := *cfg

	var err error
	sanitized.Paths.PowerSupplyRoot, err = sanitizePath("paths.power_supply_root", sanitized.Paths.PowerSupplyRoot)
	if err != nil {
		return nil, err
	}
	sanitized.Paths.LogDir, err = sanitizePath("paths.log_dir", sanitized.Paths.LogDir)
	if err != nil {
		return nil, err
	}
	sanitized.Paths.DBPath, err = sanitizePath("paths.db_path", sanitized.Paths.DBPath)
	if err != nil {
		return nil, err
	}

	if err := validateRange("gui.refresh_seconds", sanitized.GUI.RefreshSeconds, minRefreshSeconds, maxRefreshSeconds); err != nil {
		return nil, err
	}
	if err := validateRangeLabel(sanitized.GUI.DefaultRange); err != nil {
		return nil, err
	}
	if err := validateRange("cleanup.retention_days", sanitized.Cleanup.RetentionDays, minRetentionDays, maxRetentionDays); err != nil {
		return nil, err
	}

	return &sanitized, nil
}

func sanitizePath(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	cleaned := filepath.Clean(trimmed)
	if !filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%s must be an absolute path, got %q", name, value)
	}
	return cleaned, nil
}

func validateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, min, max, value)
	}
	return nil
}

func validateRangeLabel(value string) error {
	for _, label := range rangeLabels {
		if value == label {
			return nil
		}
	}
	return fmt.Errorf("gui.default_range must be one of %s, got %q", strings.Join(rangeLabels, ", "), value)
}
