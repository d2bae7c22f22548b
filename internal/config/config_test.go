package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadSQLiteDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://broker:5672/")

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "discover.db", cfg.SQLitePath)
	assert.Equal(t, "lenient", cfg.FriendRequestPolicy)
	assert.Equal(t, "amqp://broker:5672/", cfg.AMQPURL)
	assert.True(t, cfg.TicketConsumerEnabled)
	assert.Empty(t, cfg.DBUser)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "off")
	t.Setenv("CACHE_METHODS", "get, head")

	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 30*time.Second, cfg.TTL)
}
