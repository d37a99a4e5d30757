// Package config loads the application configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every externally supplied setting. Values are read from
// PACKET_-prefixed environment variables, falling back to the defaults below.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"8080"`

	// SlackWebhookURL receives the 100% completion notifications.
	// Empty disables notifications.
	SlackWebhookURL string `envconfig:"SLACK_WEBHOOK_URL"`

	// RunMigrations applies pending schema migrations on startup.
	RunMigrations bool `envconfig:"RUN_MIGRATIONS" default:"true"`

	// Database pool sizing.
	DBMaxConns int32 `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32 `envconfig:"DB_MIN_CONNS" default:"5"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("packet", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}
