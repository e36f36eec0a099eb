// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/stash/stash/internal/store"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppHost string `env:"APP_HOST" envDefault:"0.0.0.0"`
	AppPort int    `env:"APP_PORT" envDefault:"3000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// What a create does when the ID is already stored: "overwrite" or "reject".
	DuplicatePolicy string `env:"DUPLICATE_POLICY" envDefault:"overwrite"`

	// Record event stream (Redis). Disabled when RedisURL is empty.
	RedisURL    string `env:"REDIS_URL" envDefault:""`
	EventStream string `env:"EVENT_STREAM" envDefault:"stream:record_events"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// EventsEnabled reports whether record events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RedisURL != ""
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, strconv.Itoa(c.AppPort))
}

// Policy returns the parsed duplicate-ID policy.
func (c *Config) Policy() (store.Policy, error) {
	return store.ParsePolicy(c.DuplicatePolicy)
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if c.AppPort < 0 || c.AppPort > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.AppPort)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("invalid DUPLICATE_POLICY: %w", err)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("invalid MAX_REQUEST_BODY_SIZE %d", c.MaxRequestBodySize)
	}
	return nil
}

// Load parses environment variables and returns a Config.
// Values are not validated here so that command-line overrides can be
// applied first; callers must call Validate before use.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
