// Package config loads application configuration from environment
// variables. Flags may override individual fields on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds everything the dashboard needs to connect, poll, persist
// and render.
type Config struct {
	// Address is the Temporal frontend host:port.
	Address   string
	Namespace string
	// APIKey enables header-based auth (Temporal Cloud); empty for plain
	// connections.
	APIKey string
	// TLSCertPath and TLSKeyPath enable mTLS; both or neither.
	TLSCertPath string
	TLSKeyPath  string

	// PollInterval is the healthy-state auto-refresh cadence. Failures back
	// the interval off from here.
	PollInterval time.Duration
	PageSize     int

	// LogFile receives structured logs; empty disables logging (a TUI owns
	// stdout and stderr).
	LogFile  string
	LogLevel string

	// DBPath is the local SQLite file for history, presets and UI state.
	DBPath string

	// Theme is auto, dark or light.
	Theme string
}

// Load reads configuration from the environment with defaults that work
// against a local dev server.
func Load() (Config, error) {
	cfg := Config{
		Address:     envOr("TEMPORAL_ADDRESS", "localhost:7233"),
		Namespace:   envOr("TEMPORAL_NAMESPACE", "default"),
		APIKey:      os.Getenv("TEMPORAL_API_KEY"),
		TLSCertPath: os.Getenv("TEMPORAL_TLS_CERT"),
		TLSKeyPath:  os.Getenv("TEMPORAL_TLS_KEY"),
		LogFile:     os.Getenv("FLOWDECK_LOG_FILE"),
		LogLevel:    envOr("FLOWDECK_LOG_LEVEL", "info"),
		DBPath:      os.Getenv("FLOWDECK_DB"),
		Theme:       envOr("FLOWDECK_THEME", "auto"),
	}

	var err error
	if cfg.PollInterval, err = durationEnv("FLOWDECK_POLL_INTERVAL", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PageSize, err = intEnv("FLOWDECK_PAGE_SIZE", 50); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		if cfg.DBPath, err = defaultDBPath(); err != nil {
			return Config{}, fmt.Errorf("config: resolve state dir: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration. Load calls it on the
// environment baseline; the CLI calls it again after flag overrides.
func (c Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("config: TEMPORAL_ADDRESS must not be empty")
	}
	if c.Namespace == "" {
		return fmt.Errorf("config: TEMPORAL_NAMESPACE must not be empty")
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("config: FLOWDECK_POLL_INTERVAL %s too short (min 1s)", c.PollInterval)
	}
	if c.PageSize < 1 || c.PageSize > 1000 {
		return fmt.Errorf("config: FLOWDECK_PAGE_SIZE %d out of range (1..1000)", c.PageSize)
	}
	if (c.TLSCertPath == "") != (c.TLSKeyPath == "") {
		return fmt.Errorf("config: TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must be set together")
	}
	switch c.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("config: invalid FLOWDECK_THEME %q (auto|dark|light)", c.Theme)
	}
	return nil
}

func defaultDBPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "flowdeck", "flowdeck.sqlite"), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
