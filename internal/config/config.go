// Package config loads and saves the soiree TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/theirongolddev/soiree/internal/logger"
	"github.com/theirongolddev/soiree/internal/ticket"
)

// Config holds all soiree configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Dashboard  DashboardConfig  `toml:"dashboard"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GeneralConfig holds storage and projection settings.
type GeneralConfig struct {
	DataFile    string `toml:"data_file,omitempty" env:"SOIREE_DATA_FILE"`
	HorizonDays int    `toml:"horizon_days"        env:"SOIREE_HORIZON_DAYS"`
	// Rounding is "half_even" (default) or "half_up".
	Rounding string `toml:"rounding"`
}

// DashboardConfig toggles the optional views.
type DashboardConfig struct {
	// Threshold is the minimum acceptable ticket in euros per person.
	Threshold          float64 `toml:"threshold"`
	ShowWeeklyMedian   bool    `toml:"show_weekly_median"`
	ShowProjection     bool    `toml:"show_projection"`
	ShowFrequencyChart bool    `toml:"show_frequency_chart"`
}

// AppearanceConfig holds theme and locale settings.
type AppearanceConfig struct {
	Theme  string `toml:"theme"  env:"SOIREE_THEME"`
	Locale string `toml:"locale" env:"SOIREE_LOCALE"`
}

// LoggingConfig holds the log level.
type LoggingConfig struct {
	Level string `toml:"level" env:"SOIREE_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			HorizonDays: 90,
			Rounding:    ticket.HalfEven.String(),
		},
		Dashboard: DashboardConfig{
			Threshold:          10.0,
			ShowWeeklyMedian:   true,
			ShowProjection:     true,
			ShowFrequencyChart: true,
		},
		Appearance: AppearanceConfig{
			Theme:  "flexoki-dark",
			Locale: "fr-FR",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "soiree")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "soiree")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "soiree")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "soiree")
}

// DataFile returns the record file location, defaulting to data.csv in DataDir.
func (c Config) DataFile() string {
	if c.General.DataFile != "" {
		return c.General.DataFile
	}
	return filepath.Join(DataDir(), "data.csv")
}

// RoundingMode returns the parsed ticket rounding mode.
func (c Config) RoundingMode() ticket.Rounding {
	r, err := ticket.ParseRounding(c.General.Rounding)
	if err != nil {
		return ticket.HalfEven
	}
	return r
}

// ThresholdDecimal returns the profitability threshold as a decimal amount.
func (c Config) ThresholdDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Dashboard.Threshold).Round(ticket.Places)
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies environment overrides.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load for an explicit file path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Debug("no config at %s, using defaults", path)
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any SOIREE_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.General.HorizonDays < 1 {
		return fmt.Errorf("general.horizon_days must be at least 1, got %d", c.General.HorizonDays)
	}
	if _, err := ticket.ParseRounding(c.General.Rounding); err != nil {
		return fmt.Errorf("general.rounding: %w", err)
	}
	if !(c.Dashboard.Threshold >= 0) { // also rejects NaN
		return fmt.Errorf("dashboard.threshold must be a non-negative number, got %v", c.Dashboard.Threshold)
	}
	if c.Appearance.Locale != "" {
		if _, err := language.Parse(c.Appearance.Locale); err != nil {
			return fmt.Errorf("appearance.locale %q: %w", c.Appearance.Locale, err)
		}
	}
	if _, ok := logger.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level %q: want debug, info, warn or error", c.Logging.Level)
	}
	return nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
