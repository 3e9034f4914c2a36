// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the fosterly client.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.fosterly/config.toml
//   - ~/.fosterly/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/fosterly/fosterly-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete fosterly client configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// API configuration
	API APIConfig `toml:"api" json:"api"`

	// Session lifecycle configuration
	Session SessionConfig `toml:"session" json:"session"`

	// Cache configuration
	Cache CacheConfig `toml:"cache" json:"cache"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains remote API endpoints.
type APIConfig struct {
	// BaseURL is the base URL of the Fosterly REST API.
	BaseURL string `toml:"base_url" json:"base_url"`
	// AssetBaseURL is the base URL for hosted images.
	AssetBaseURL string `toml:"asset_base_url" json:"asset_base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is the retry count for transient failures.
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RequestsPerSec caps outbound request rate (0 = default).
	RequestsPerSec float64 `toml:"requests_per_sec" json:"requests_per_sec"`
}

// SessionConfig contains the session lifecycle timings.
//
// All values mirror the behavior of the hosted web client: the token
// validity window is assumed client-side rather than read from the
// token's claims, the refresh check is a fixed-interval poll, and the
// idle threshold is deliberately coarse.
type SessionConfig struct {
	// IdleThresholdSecs is the inactivity window before forced logout.
	// Default: 3600 (1 hour).
	IdleThresholdSecs int `toml:"idle_threshold_secs" json:"idle_threshold_secs"`
	// ValidityWindowSecs is the assumed token lifetime from issuance.
	// Default: 3600 (1 hour).
	ValidityWindowSecs int `toml:"validity_window_secs" json:"validity_window_secs"`
	// RefreshPollSecs is the refresh-check poll interval. Default: 60.
	RefreshPollSecs int `toml:"refresh_poll_secs" json:"refresh_poll_secs"`
	// RefreshLowWaterSecs is the remaining-lifetime threshold below which
	// a refresh is attempted. Default: 300 (5 minutes).
	RefreshLowWaterSecs int `toml:"refresh_low_water_secs" json:"refresh_low_water_secs"`
	// StorePath overrides the session store location (empty = default
	// ~/.fosterly/session.json).
	StorePath string `toml:"store_path" json:"store_path"`
}

// CacheConfig contains the offline listings cache configuration.
type CacheConfig struct {
	// Enabled toggles the local listings cache.
	Enabled bool `toml:"enabled" json:"enabled"`
	// DatabasePath overrides the cache database location (empty =
	// default ~/.fosterly/listings.db).
	DatabasePath string `toml:"database_path" json:"database_path"`
	// MaxAnimals caps the number of cached listings.
	MaxAnimals int `toml:"max_animals" json:"max_animals"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// ColorMode is "auto", "always" or "never".
	ColorMode string `toml:"color_mode" json:"color_mode"`
	// PageSize is the number of rows per listing page.
	PageSize int `toml:"page_size" json:"page_size"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Session timing bounds. Values outside these ranges are clamped on
// validation rather than rejected, so a hand-edited config cannot brick
// the client.
const (
	MinIdleThreshold = 5 * time.Minute
	MaxIdleThreshold = 8 * time.Hour

	MinRefreshPoll = 10 * time.Second
	MaxRefreshPoll = 10 * time.Minute
)

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:        "https://api.fosterly.example",
			AssetBaseURL:   "https://assets.fosterly.example",
			TimeoutSecs:    30,
			MaxRetries:     3,
			RequestsPerSec: 10,
		},
		Session: SessionConfig{
			IdleThresholdSecs:   3600,
			ValidityWindowSecs:  3600,
			RefreshPollSecs:     60,
			RefreshLowWaterSecs: 300,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxAnimals: 500,
		},
		UI: UIConfig{
			ColorMode: "auto",
			PageSize:  20,
		},
	}
}

// IdleThreshold returns the idle threshold as a duration.
func (c *Config) IdleThreshold() time.Duration {
	return time.Duration(c.Session.IdleThresholdSecs) * time.Second
}

// ValidityWindow returns the assumed token validity as a duration.
func (c *Config) ValidityWindow() time.Duration {
	return time.Duration(c.Session.ValidityWindowSecs) * time.Second
}

// RefreshPoll returns the refresh poll interval as a duration.
func (c *Config) RefreshPoll() time.Duration {
	return time.Duration(c.Session.RefreshPollSecs) * time.Second
}

// RefreshLowWater returns the refresh low-water-mark as a duration.
func (c *Config) RefreshLowWater() time.Duration {
	return time.Duration(c.Session.RefreshLowWaterSecs) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the fosterly configuration directory (~/.fosterly).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".fosterly"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// SessionStorePath returns the configured session store path, falling
// back to ~/.fosterly/session.json.
func (c *Config) SessionStorePath() (string, error) {
	if c.Session.StorePath != "" {
		return c.Session.StorePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// CacheDatabasePath returns the configured cache database path, falling
// back to ~/.fosterly/listings.db.
func (c *Config) CacheDatabasePath() (string, error) {
	if c.Cache.DatabasePath != "" {
		return c.Cache.DatabasePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "listings.db"), nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last, then validation clamps.
func Load() (*Config, error) {
	cfg := Default()

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finish(cfg)
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finish(cfg)
		}
	}

	return finish(cfg)
}

// LoadFromPath loads configuration from an explicit file, selecting the
// format from the extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = LoadTOML(cfg, path)
	case ".json":
		err = LoadJSON(cfg, path)
	default:
		err = fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML config file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON config file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to ~/.fosterly/config.toml.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file with 0600
// permissions (the config may eventually carry credentials).
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# fosterly client configuration\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies FOSTERLY_* environment variables over the
// loaded configuration. Environment always wins over file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FOSTERLY_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FOSTERLY_ASSET_URL"); v != "" {
		c.API.AssetBaseURL = v
	}
	if v := os.Getenv("FOSTERLY_SESSION_IDLE_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.IdleThresholdSecs = n
		}
	}
	if v := os.Getenv("FOSTERLY_SESSION_VALIDITY_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.ValidityWindowSecs = n
		}
	}
	if v := os.Getenv("FOSTERLY_SESSION_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.RefreshPollSecs = n
		}
	}
	if v := os.Getenv("FOSTERLY_SESSION_LOW_WATER_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.RefreshLowWaterSecs = n
		}
	}
	if v := os.Getenv("FOSTERLY_CACHE_DISABLED"); v == "1" || strings.EqualFold(v, "true") {
		c.Cache.Enabled = false
	}
	if v := os.Getenv("FOSTERLY_COLOR"); v != "" {
		c.UI.ColorMode = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks hard errors and clamps soft ones.
//
// URLs must parse; timings outside the supported ranges are clamped
// rather than rejected.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ValidationError{Field: "api.base_url", Message: "must not be empty"}
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" {
		return ValidationError{Field: "api.base_url", Message: fmt.Sprintf("invalid URL %q", c.API.BaseURL)}
	}
	if c.API.AssetBaseURL != "" {
		if u, err := url.Parse(c.API.AssetBaseURL); err != nil || u.Scheme == "" {
			return ValidationError{Field: "api.asset_base_url", Message: fmt.Sprintf("invalid URL %q", c.API.AssetBaseURL)}
		}
	}

	validColor := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColor[strings.ToLower(c.UI.ColorMode)] {
		return ValidationError{Field: "ui.color_mode", Message: fmt.Sprintf("invalid mode %q, must be one of: auto, always, never", c.UI.ColorMode)}
	}

	// Clamp timings.
	c.Session.IdleThresholdSecs = clampSecs(c.Session.IdleThresholdSecs, MinIdleThreshold, MaxIdleThreshold)
	c.Session.RefreshPollSecs = clampSecs(c.Session.RefreshPollSecs, MinRefreshPoll, MaxRefreshPoll)
	if c.Session.ValidityWindowSecs <= 0 {
		c.Session.ValidityWindowSecs = 3600
	}
	if c.Session.RefreshLowWaterSecs <= 0 {
		c.Session.RefreshLowWaterSecs = 300
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = 30
	}
	if c.API.MaxRetries < 0 {
		c.API.MaxRetries = 0
	}
	if c.API.RequestsPerSec <= 0 {
		c.API.RequestsPerSec = 10
	}
	if c.Cache.MaxAnimals <= 0 {
		c.Cache.MaxAnimals = 500
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = 20
	}

	return nil
}

func clampSecs(secs int, min, max time.Duration) int {
	d := time.Duration(secs) * time.Second
	if d < min {
		return int(min / time.Second)
	}
	if d > max {
		return int(max / time.Second)
	}
	return secs
}
