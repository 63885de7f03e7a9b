package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, InsecureDefaultSecret, cfg.Session.Secret)
	assert.Equal(t, 720, cfg.Session.TTLHours)
	assert.Equal(t, ":8080", cfg.Server.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("SESSION_TTL_HOURS", "24")
	t.Setenv("SERVER_PORT", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "prod-secret", cfg.Session.Secret)
	assert.Equal(t, 24, cfg.Session.TTLHours)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoadIgnoresBadTTL(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 720, cfg.Session.TTLHours)
}
