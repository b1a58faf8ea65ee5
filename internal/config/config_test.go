package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "skyvoyage", cfg.Storage.KeyPrefix)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10000, cfg.SessionCacheSize)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, 30, cfg.Grid.Rows)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, cfg.Grid.Columns)
	assert.Equal(t, 2, cfg.Grid.AisleAfter)
	assert.False(t, cfg.MySQL.Enabled())
	assert.Empty(t, cfg.Flight.ReservedSeats)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("RESERVED_SEATS", " 1A, 2B ,,3C")
	t.Setenv("GRID_ROWS", "12")
	t.Setenv("GRID_COLUMNS", "A,B,C,D")
	t.Setenv("GRID_AISLE_AFTER", "1")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("AMQP_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("SESSION_CACHE_SIZE", "500")
	t.Setenv("SESSION_IDLE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, []string{"1A", "2B", "3C"}, cfg.Flight.ReservedSeats)
	assert.Equal(t, GridConfig{Rows: 12, Columns: []string{"A", "B", "C", "D"}, AisleAfter: 1}, cfg.Grid)
	assert.True(t, cfg.MySQL.Enabled())
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQ)
	assert.Equal(t, 500, cfg.SessionCacheSize)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTTL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad driver", map[string]string{"JWT_SECRET": "x", "STORAGE_DRIVER": "sqlite"}},
		{"postgres without url", map[string]string{"JWT_SECRET": "x", "STORAGE_DRIVER": "postgres"}},
		{"bad rows", map[string]string{"JWT_SECRET": "x", "GRID_ROWS": "many"}},
		{"negative ttl", map[string]string{"JWT_SECRET": "x", "SESSION_TTL": "-1h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 10*time.Second, rl.TTL)
	assert.Equal(t, "session_route", rl.KeyStrategy)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TLS", "1")

	rc := LoadRedisConfig()
	assert.Equal(t, RedisConfig{Addr: "cache:6380", DB: 3, TLS: true}, rc)
}
