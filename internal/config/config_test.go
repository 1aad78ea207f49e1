package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnv clears every variable Load reads, then applies vars.
// t.Setenv restores the previous values when the test ends.
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "DB_PATH", "SECRET_KEY", "BCRYPT_COST", "TOKEN_TTL", "LOG_LEVEL", "ADMIN_USERNAME", "ADMIN_PASSWORD", "ADMIN_EMAIL"} {
		t.Setenv(k, "")
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

const testSecret = "0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"SECRET_KEY": testSecret})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "data/jobly.db", cfg.DBPath)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.UsePostgres())
	assert.False(t, cfg.Admin.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"SECRET_KEY":   testSecret,
		"PORT":         "8080",
		"DATABASE_URL": "postgres://jobly@localhost/jobly",
		"DB_PATH":      ":memory:",
		"BCRYPT_COST":  "4",
		"TOKEN_TTL":    "15m",
		"LOG_LEVEL":    "debug",

		"ADMIN_USERNAME": "root",
		"ADMIN_PASSWORD": "change-me",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.UsePostgres())
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, AdminAccount{Username: "root", Password: "change-me", Email: "admin@localhost"}, cfg.Admin)
	assert.True(t, cfg.Admin.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantMsg string
	}{
		{"missing secret", map[string]string{}, "SECRET_KEY is required"},
		{"short secret", map[string]string{"SECRET_KEY": "short"}, "SECRET_KEY must be at least 16 characters"},
		{"port not a number", map[string]string{"SECRET_KEY": testSecret, "PORT": "http"}, "PORT"},
		{"port out of range", map[string]string{"SECRET_KEY": testSecret, "PORT": "70000"}, "PORT"},
		{"cost too low", map[string]string{"SECRET_KEY": testSecret, "BCRYPT_COST": "3"}, "BCRYPT_COST"},
		{"cost too high", map[string]string{"SECRET_KEY": testSecret, "BCRYPT_COST": "32"}, "BCRYPT_COST"},
		{"ttl unparseable", map[string]string{"SECRET_KEY": testSecret, "TOKEN_TTL": "an hour"}, "TOKEN_TTL"},
		{"ttl negative", map[string]string{"SECRET_KEY": testSecret, "TOKEN_TTL": "-1h"}, "TOKEN_TTL"},
		{"unknown log level", map[string]string{"SECRET_KEY": testSecret, "LOG_LEVEL": "chatty"}, "LOG_LEVEL"},
		{"admin without password", map[string]string{"SECRET_KEY": testSecret, "ADMIN_USERNAME": "root"}, "ADMIN_PASSWORD is required"},
		{"admin password without name", map[string]string{"SECRET_KEY": testSecret, "ADMIN_PASSWORD": "pw"}, "ADMIN_USERNAME is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.vars)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
