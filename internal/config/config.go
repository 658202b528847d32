// SPDX-License-Identifier: MIT

// Package config loads m3ucat configuration with ENV > file > defaults
// precedence.
package config

import (
	"fmt"
	"time"
)

// AppConfig holds the daemon configuration.
type AppConfig struct {
	// PlaylistPath is the M3U file to ingest. Required for the daemon.
	PlaylistPath string

	// DataDir is where derived artifacts are written.
	DataDir string

	// ExportPath, when non-empty, is the catalog JSON file written after
	// every refresh. Relative paths are resolved against DataDir by the
	// refresh job.
	ExportPath string

	// ListenAddr is the API listen address.
	ListenAddr string

	// MetricsEnabled exposes Prometheus metrics on MetricsAddr.
	MetricsEnabled bool
	MetricsAddr    string

	// WatchPlaylist re-runs the refresh when the playlist file changes.
	WatchPlaylist bool

	// RateLimitPerMinute is the per-IP request budget for the API.
	RateLimitPerMinute int

	LogLevel string
	Version  string
}

// ServerConfig holds HTTP server tuning knobs.
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
}

// Defaults returns the baseline configuration before file and ENV overrides.
func Defaults() AppConfig {
	return AppConfig{
		DataDir:            "data",
		ListenAddr:         ":8080",
		MetricsEnabled:     false,
		MetricsAddr:        ":9090",
		WatchPlaylist:      true,
		RateLimitPerMinute: 600,
		LogLevel:           "info",
	}
}

// DefaultServerConfig returns HTTP server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxHeaderBytes:  1 << 20,
	}
}

// Validate checks the configuration for business-level consistency.
func Validate(cfg AppConfig) error {
	if cfg.PlaylistPath == "" {
		return fmt.Errorf("playlist path is required (set M3UCAT_PLAYLIST or playlist in the config file)")
	}
	if cfg.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if cfg.MetricsEnabled && cfg.MetricsAddr == "" {
		return fmt.Errorf("metrics enabled but metrics address is empty")
	}
	if cfg.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate limit per minute must be positive, got %d", cfg.RateLimitPerMinute)
	}
	return nil
}
