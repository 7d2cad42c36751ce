// Package config loads halos settings from a TOML file under the XDG
// config directory, with .env and HALOS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all halos configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Plan       PlanConfig       `toml:"plan"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
	History    HistoryConfig    `toml:"history"`
}

// GeneralConfig holds input locations and display preferences.
type GeneralConfig struct {
	Household string `toml:"household,omitempty"`
	Ledger    string `toml:"ledger,omitempty"`
	Currency  string `toml:"currency"`
}

// PlanConfig selects how plans are computed.
type PlanConfig struct {
	Strategy string `toml:"strategy"`
	Nominal  string `toml:"nominal"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds planning API settings.
type DaemonConfig struct {
	Addr              string `toml:"addr"`
	RedisAddr         string `toml:"redis_addr,omitempty"`
	RedisPassword     string `toml:"redis_password,omitempty"`
	RedisDB           int    `toml:"redis_db,omitempty"`
	CacheTTLSeconds   int    `toml:"cache_ttl_seconds"`
	RateCapacity      int    `toml:"rate_capacity"`
	RateWindowSeconds int    `toml:"rate_window_seconds"`
}

// HistoryConfig controls the local run history.
type HistoryConfig struct {
	Enabled       bool   `toml:"enabled"`
	RetentionDays int    `toml:"retention_days"`
	PruneSchedule string `toml:"prune_schedule"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "UZS",
		},
		Plan: PlanConfig{
			Strategy: "equal",
			Nominal:  "zero",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:              "127.0.0.1:8787",
			CacheTTLSeconds:   600,
			RateCapacity:      60,
			RateWindowSeconds: 60,
		},
		History: HistoryConfig{
			Enabled:       true,
			RetentionDays: 90,
			PruneSchedule: "@daily",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "halos")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "halos")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// HouseholdPath returns the configured household file or the default one.
func HouseholdPath(cfg Config) string {
	if cfg.General.Household != "" {
		return cfg.General.Household
	}
	return filepath.Join(ConfigDir(), "household.toml")
}

// LedgerPath returns the configured ledger file or directory.
func LedgerPath(cfg Config) string {
	if cfg.General.Ledger != "" {
		return cfg.General.Ledger
	}
	return filepath.Join(ConfigDir(), "ledger")
}

// LoadEnv reads a .env file from the working directory into the process
// environment. Variables already set win; a missing file is not an error.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load reads the config file, returning defaults if it doesn't exist.
// HALOS_* environment variables override file values.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"HALOS_HOUSEHOLD":      &cfg.General.Household,
		"HALOS_LEDGER":         &cfg.General.Ledger,
		"HALOS_CURRENCY":       &cfg.General.Currency,
		"HALOS_STRATEGY":       &cfg.Plan.Strategy,
		"HALOS_NOMINAL":        &cfg.Plan.Nominal,
		"HALOS_THEME":          &cfg.Appearance.Theme,
		"HALOS_DAEMON_ADDR":    &cfg.Daemon.Addr,
		"HALOS_REDIS_ADDR":     &cfg.Daemon.RedisAddr,
		"HALOS_REDIS_PASSWORD": &cfg.Daemon.RedisPassword,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("HALOS_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing HALOS_REDIS_DB: %w", err)
		}
		cfg.Daemon.RedisDB = n
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
