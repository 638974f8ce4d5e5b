package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/pfetl")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "sandbox", cfg.PlaidEnvironment)
	assert.Equal(t, 30*time.Second, cfg.PlaidTimeout)
	assert.Equal(t, 100, cfg.ExtractMaxPages)
	assert.Equal(t, "0.01", cfg.ReconcileTolerance.String())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.NoEgress)
	assert.False(t, cfg.HasPlaidCredentials())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PLAID_ENV", "Production")
	t.Setenv("PLAID_CLIENT_ID", "id")
	t.Setenv("PLAID_SECRET", "secret")
	t.Setenv("PLAID_ACCESS_TOKEN", "access")
	t.Setenv("PFETL_NO_EGRESS", "1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RECONCILE_TOLERANCE", "0.50")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "production", cfg.PlaidEnvironment)
	assert.True(t, cfg.NoEgress)
	assert.True(t, cfg.HasPlaidCredentials())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "0.5", cfg.ReconcileTolerance.String())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"log level":     {"LOG_LEVEL", "chatty"},
		"timeout":       {"PLAID_TIMEOUT", "soon"},
		"max pages":     {"EXTRACT_MAX_PAGES", "0"},
		"tolerance":     {"RECONCILE_TOLERANCE", "-0.01"},
		"tolerance nan": {"RECONCILE_TOLERANCE", "cents"},
		"prod secret":   {"IS_PRODUCTION", "true"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
