// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the API listen address, e.g. "localhost:5000".
	Addr string `koanf:"addr"`

	// OpsAddr configures the operations listener (health, metrics, stats,
	// API docs). Empty disables it.
	OpsAddr string `koanf:"ops_addr"`

	// RandomSeed seeds the dummy data source. Zero seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`

	// Timezone is the IANA zone used for lastLogin and the daily chart.
	Timezone string `koanf:"timezone"`

	// CORSAllowedOrigins lists permitted origins; "*" allows any.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// HTTP server timeouts in milliseconds.
	ReadTimeoutMS     int `koanf:"read_timeout_ms"`
	WriteTimeoutMS    int `koanf:"write_timeout_ms"`
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               "localhost:5000",
		OpsAddr:            "localhost:9090",
		RandomSeed:         0,
		Timezone:           "Local",
		CORSAllowedOrigins: []string{"*"},
		ReadTimeoutMS:      10_000,
		WriteTimeoutMS:     10_000,
		ShutdownTimeoutMS:  30_000,
	}
}

// Location resolves Timezone. It is valid after Load succeeded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ReadTimeout returns ReadTimeoutMS as a duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns WriteTimeoutMS as a duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
