package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_API_KEY",
		"TEMPORAL_TLS_CERT", "TEMPORAL_TLS_KEY",
		"FLOWDECK_POLL_INTERVAL", "FLOWDECK_PAGE_SIZE",
		"FLOWDECK_LOG_FILE", "FLOWDECK_LOG_LEVEL", "FLOWDECK_DB", "FLOWDECK_THEME",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:7233", cfg.Address)
	assert.Equal(t, "default", cfg.Namespace)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.Theme)
	assert.Empty(t, cfg.APIKey)
	assert.True(t, strings.HasSuffix(cfg.DBPath, filepath.Join("flowdeck", "flowdeck.sqlite")),
		"default db path should live under the user config dir, got %q", cfg.DBPath)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEMPORAL_ADDRESS", "temporal.prod.internal:7233")
	t.Setenv("TEMPORAL_NAMESPACE", "payments")
	t.Setenv("TEMPORAL_API_KEY", "secret")
	t.Setenv("FLOWDECK_POLL_INTERVAL", "10s")
	t.Setenv("FLOWDECK_PAGE_SIZE", "100")
	t.Setenv("FLOWDECK_DB", "/tmp/fd.sqlite")
	t.Setenv("FLOWDECK_THEME", "dark")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "temporal.prod.internal:7233", cfg.Address)
	assert.Equal(t, "payments", cfg.Namespace)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, "/tmp/fd.sqlite", cfg.DBPath)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLOWDECK_POLL_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLOWDECK_POLL_INTERVAL")
}

func TestLoad_PollIntervalTooShort(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLOWDECK_POLL_INTERVAL", "100ms")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestLoad_InvalidPageSize(t *testing.T) {
	clearEnv(t)

	t.Setenv("FLOWDECK_PAGE_SIZE", "many")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("FLOWDECK_PAGE_SIZE", "0")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoad_TLSPairRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEMPORAL_TLS_CERT", "/etc/certs/client.pem")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set together")

	t.Setenv("TEMPORAL_TLS_KEY", "/etc/certs/client.key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/etc/certs/client.pem", cfg.TLSCertPath)
}

func TestLoad_InvalidTheme(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLOWDECK_THEME", "solarized")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLOWDECK_THEME")
}
