package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/risk-catalog/internal/config"
)

func TestLoadRequiresSigningSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 3600, cfg.Auth.AccessTokenTTLSeconds)
	assert.False(t, cfg.Auth.AdminOnlyCatalog)
	assert.Equal(t, "8080", cfg.App.Port)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("STORE_BACKEND", "mongodb")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestLoadBackendSelection(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("AUTH_ADMIN_ONLY_CATALOG", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.True(t, cfg.Auth.AdminOnlyCatalog)
}
