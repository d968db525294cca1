// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

// Package config holds the application configuration, loaded via Koanf v2
// with layered sources (env > file > defaults).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the Soundrift server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	History   HistoryConfig   `koanf:"history"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Session   SessionConfig   `koanf:"session"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// Timeout applies to both read and write on the HTTP server.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`

	// CORSOrigins lists allowed CORS origins. "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the per-IP request budget per RateLimitWindow.
	// Zero disables rate limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig holds dataset loading settings.
type CatalogConfig struct {
	// Paths are candidate CSV files, tried in order. The first one that
	// loads wins; startup fails if none can be read.
	Paths []string `koanf:"paths" validate:"min=1"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// Seed seeds the jitter source. Zero selects a time-based seed;
	// tests pin it for deterministic ordering.
	Seed int64 `koanf:"seed"`

	// DefaultLimit is used when a request omits or mangles ?limit.
	DefaultLimit int `koanf:"default_limit" validate:"min=1,max=1000"`

	// FreshPoolFactor is the multiplier in the mood cascade's tier test:
	// the fresh pool is scored only when |fresh| >= FreshPoolFactor*limit.
	FreshPoolFactor int `koanf:"fresh_pool_factor" validate:"min=1"`
}

// HistoryConfig holds session history store settings.
type HistoryConfig struct {
	// EvictionEnabled turns on the idle-session janitor. Off by default:
	// history normally lives for the whole process lifetime.
	EvictionEnabled bool `koanf:"eviction_enabled"`

	// MaxIdle is how long a session may go unused before the janitor
	// drops it. Only honored when EvictionEnabled is true.
	MaxIdle time.Duration `koanf:"max_idle"`

	// SweepInterval is how often the janitor scans for idle sessions.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// ArtifactsConfig holds the feature-precompute artifact store settings.
type ArtifactsConfig struct {
	// Enabled controls whether the scaler and scaled feature matrix are
	// computed and persisted at startup.
	Enabled bool `koanf:"enabled"`

	// Dir is the BadgerDB directory for persisted artifacts.
	Dir string `koanf:"dir"`
}

// SessionConfig holds session resolver settings.
type SessionConfig struct {
	// CookieName is the cookie carrying the caller's session identifier.
	CookieName string `koanf:"cookie_name" validate:"required"`

	// CookieMaxAge is the session cookie lifetime.
	CookieMaxAge time.Duration `koanf:"cookie_max_age"`
}

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Paths: []string{"processed_music_data.csv", "dataset.csv"},
		},
		Recommend: RecommendConfig{
			Seed:            0,
			DefaultLimit:    10,
			FreshPoolFactor: 2,
		},
		History: HistoryConfig{
			EvictionEnabled: false,
			MaxIdle:         24 * time.Hour,
			SweepInterval:   10 * time.Minute,
		},
		Artifacts: ArtifactsConfig{
			Enabled: true,
			Dir:     "/data/artifacts",
		},
		Session: SessionConfig{
			CookieName:   "soundrift_session",
			CookieMaxAge: 30 * 24 * time.Hour,
		},
	}
}

// Validate checks the configuration using go-playground/validator tags
// plus cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive when rate limiting is enabled")
	}
	if c.History.EvictionEnabled {
		if c.History.MaxIdle <= 0 {
			return fmt.Errorf("history.max_idle must be positive when eviction is enabled")
		}
		if c.History.SweepInterval <= 0 {
			return fmt.Errorf("history.sweep_interval must be positive when eviction is enabled")
		}
	}
	if c.Artifacts.Enabled && c.Artifacts.Dir == "" {
		return fmt.Errorf("artifacts.dir is required when artifacts are enabled")
	}

	return nil
}
