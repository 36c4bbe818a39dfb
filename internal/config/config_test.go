// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server defaults: %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Store.Path == "" {
		t.Error("store path default missing")
	}
	if cfg.Feed == nil || cfg.Feed.Limits.DefaultPageSize != 20 {
		t.Errorf("feed defaults not layered in: %+v", cfg.Feed)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FEED_SERVER__PORT", "9191")
	t.Setenv("FEED_LOGGING__LEVEL", "debug")
	t.Setenv("FEED_STORE__IN_MEMORY", "true")
	t.Setenv("FEED_SERVER__CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Store.InMemory {
		t.Error("store.in_memory not overridden")
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != "https://a.example" {
		t.Errorf("cors origins = %v, want two entries", cfg.Server.CORSOrigins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: 9000\nlogging:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Logging.Level != "warn" {
		t.Errorf("file values not applied: port=%d level=%s", cfg.Server.Port, cfg.Logging.Level)
	}

	t.Run("env beats file", func(t *testing.T) {
		t.Setenv("FEED_SERVER__PORT", "9100")
		cfg, err := LoadWithKoanf()
		if err != nil {
			t.Fatalf("LoadWithKoanf: %v", err)
		}
		if cfg.Server.Port != 9100 {
			t.Errorf("port = %d, env should win over file", cfg.Server.Port)
		}
	})
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "FEED_SERVER__PORT", "0"},
		{"unknown log level", "FEED_LOGGING__LEVEL", "verbose"},
		{"empty store path", "FEED_STORE__PATH", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadWithKoanf(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FEED_SERVER__PORT", "server.port"},
		{"FEED_STORE__IN_MEMORY", "store.in_memory"},
		{"FEED_SERVER__RATE_LIMIT_REQUESTS", "server.rate_limit_requests"},
		{"FEED_FEED__LIMITS__MAX_PAGE_SIZE", "feed.limits.max_page_size"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
