// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port      int           `env:"PORT" envDefault:"8080"`
	DBPath    string        `env:"DB_PATH" envDefault:"./data/penaltybox.db"`
	UploadDir string        `env:"UPLOAD_DIR" envDefault:"./data/uploads"`
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
