// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package config

import (
	"fmt"
	"time"

	"github.com/neighborly-labs/feedengine/internal/feed"
	"github.com/neighborly-labs/feedengine/internal/store"
	"github.com/neighborly-labs/feedengine/internal/validation"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Store   store.Config  `koanf:"store"`
	Feed    *feed.Config  `koanf:"feed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host" validate:"required"`

	// Port is the listen port.
	Port int `koanf:"port" validate:"min=1,max=65535"`

	// ReadTimeout bounds request header and body reads.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins. Empty denies all
	// cross-origin browser access.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow per client IP.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line in log output.
	Caller bool `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. These are
// layered under the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: store.DefaultConfig(),
		Feed:  feed.DefaultConfig(),
	}
}

// Validate checks the configuration for structural and semantic errors.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("config validation: %s", err.Error())
	}

	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}

	if c.Feed == nil {
		return fmt.Errorf("feed config is required")
	}
	if err := c.Feed.Validate(); err != nil {
		return fmt.Errorf("feed config: %w", err)
	}

	return nil
}
