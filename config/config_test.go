package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, 50, cfg.RegisterQuota)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("SESSION_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "file:test.db", cfg.DBDSN)
	require.Equal(t, 15*time.Minute, cfg.SessionTTL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("REGISTER_QUOTA", "lots")
	_, err := Load()
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "parse env:"))
}

func TestStringMasksSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secret-value")
	cfg, err := Load()
	require.NoError(t, err)
	require.NotContains(t, cfg.String(), "super-secret-value")
}
