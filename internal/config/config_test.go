package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "undercover", cfg.Game.Vocabulary)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 30*time.Second, cfg.Presence.HeartbeatTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Store.LobbyTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("VOCABULARY", "clones")
	t.Setenv("HEARTBEAT_TIMEOUT", "1m")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_KEY_PREFIX", "test:")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.GetAddr())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "clones", cfg.Game.Vocabulary)
	assert.Equal(t, time.Minute, cfg.Presence.HeartbeatTimeout)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "test:", cfg.Store.RedisKeyPrefix)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsBadStore(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("LOBBY_TTL", "forever")
		_, err := Load()
		assert.Error(t, err)
	})
}
