package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the server configuration, parsed from the environment.
type Config struct {
	HTTPAddr        string `env:"HTTP_ADDR" envDefault:":8080"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	DataDir         string `env:"DATA_DIR" envDefault:"data"`
	LeaderboardSize int    `env:"LEADERBOARD_SIZE" envDefault:"100"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
