package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Game     GameConfig
	Presence PresenceConfig
	Store    StoreConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Env  string `env:"ENV" envDefault:"development"` // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	Vocabulary string `env:"VOCABULARY" envDefault:"undercover"` // "undercover" or "clones"
}

// PresenceConfig controls heartbeat-based pruning of idle players
type PresenceConfig struct {
	HeartbeatTimeout time.Duration `env:"HEARTBEAT_TIMEOUT" envDefault:"30s"`
	PruneInterval    time.Duration `env:"PRUNE_INTERVAL" envDefault:"10s"` // 0 disables pruning
}

// StoreConfig selects and configures the lobby backend
type StoreConfig struct {
	Backend        string        `env:"STORE_BACKEND" envDefault:"memory"` // "memory", "redis" or "postgres"
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisKeyPrefix string        `env:"REDIS_KEY_PREFIX" envDefault:"undercover:lobby:"`
	LobbyTTL       time.Duration `env:"LOBBY_TTL" envDefault:"24h"`
	DatabaseURL    string        `env:"DATABASE_URL"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	switch cfg.Store.Backend {
	case "memory", "redis":
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}

	return &cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}
