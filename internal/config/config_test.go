package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("AUTH_REQUIRE_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "/api", cfg.App.APIPrefix)
	assert.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	assert.False(t, cfg.Auth.RequireToken)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("AUTH_REQUIRE_TOKEN", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("ACTIVITY_MAX_LEN", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Auth.RequireToken)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.EqualValues(t, 1000, cfg.Activity.MaxLen)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load()
	assert.ErrorContains(t, err, "invalid STORE_DRIVER")
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	assert.ErrorContains(t, err, "invalid REDIS_DB")
}
