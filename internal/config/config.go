// Package config loads richlife settings from the TOML config file, an
// optional .env file and RICHLIFE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all richlife configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Health     HealthConfig     `toml:"health"`
	Log        LogConfig        `toml:"log"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath           string `toml:"db_path,omitempty" env:"RICHLIFE_DB"`
	ChartRangeMonths int    `toml:"chart_range_months" env:"RICHLIFE_RANGE"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"RICHLIFE_THEME"`
}

// HealthConfig tunes the spending plan health score.
type HealthConfig struct {
	// FlagLowGuiltFree reports guilt-free spending below its band as an issue.
	FlagLowGuiltFree bool `toml:"flag_low_guilt_free"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level  string `toml:"level" env:"RICHLIFE_LOG_LEVEL"`
	Format string `toml:"format" env:"RICHLIFE_LOG_FORMAT"`
}

// DaemonConfig holds settings of the background dashboard feed.
type DaemonConfig struct {
	Addr         string `toml:"addr" env:"RICHLIFE_DAEMON_ADDR"`
	Schedule     string `toml:"schedule"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			ChartRangeMonths: 12,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			Schedule:     "@every 30s",
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "richlife")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "richlife")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database and daemon files.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "richlife")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "richlife")
}

// DBPath returns the configured database path, or the default under DataDir.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return c.General.DBPath
	}
	return filepath.Join(DataDir(), "richlife.db")
}

// Load reads the config file, then applies .env and environment overrides.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile reads only the config file, returning defaults if it doesn't exist.
// Use it when the result will be saved back.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv loads .env from the working directory when present and lets
// RICHLIFE_* variables override cfg. Variables already set win over .env.
func ApplyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
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
