// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/m3ucat/internal/log"
)

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	logger := log.WithComponent("config")
	if value, exists := os.LookupEnv(key); exists {
		if value == "" {
			logger.Debug().
				Str("key", key).
				Str("default", defaultValue).
				Str("source", "default").
				Msg("using default value (environment variable is empty)")
			return defaultValue
		}
		logger.Debug().
			Str("key", key).
			Str("value", value).
			Str("source", "environment").
			Msg("using environment variable")
		return value
	}
	return defaultValue
}

// ParseInt reads an integer from environment variable or returns default value.
// It validates the input and falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok {
		if v == "" {
			return defaultValue
		}
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
	}
	return defaultValue
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok {
		if v == "" {
			return defaultValue
		}
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Bool("default", defaultValue).
			Msg("invalid boolean in environment variable, using default")
	}
	return defaultValue
}

// ParseDuration reads a duration from environment variable in Go duration
// format (e.g. "5s"). It falls back to default on parse errors.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok {
		if v == "" {
			return defaultValue
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Dur("default", defaultValue).
			Msg("invalid duration in environment variable, using default")
	}
	return defaultValue
}

// applyEnv overlays environment variables onto cfg. ENV has the highest
// precedence.
func applyEnv(cfg AppConfig) AppConfig {
	cfg.PlaylistPath = ParseString("M3UCAT_PLAYLIST", cfg.PlaylistPath)
	cfg.DataDir = ParseString("M3UCAT_DATA", cfg.DataDir)
	cfg.ExportPath = ParseString("M3UCAT_EXPORT", cfg.ExportPath)
	cfg.ListenAddr = ParseString("M3UCAT_LISTEN", cfg.ListenAddr)
	cfg.MetricsEnabled = ParseBool("M3UCAT_METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.MetricsAddr = ParseString("M3UCAT_METRICS_ADDR", cfg.MetricsAddr)
	cfg.WatchPlaylist = ParseBool("M3UCAT_WATCH", cfg.WatchPlaylist)
	cfg.RateLimitPerMinute = ParseInt("M3UCAT_RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.LogLevel = ParseString("M3UCAT_LOG_LEVEL", cfg.LogLevel)
	return cfg
}

// ParseServerConfig reads HTTP server tuning from the environment.
func ParseServerConfig() ServerConfig {
	def := DefaultServerConfig()
	return ServerConfig{
		ReadTimeout:     ParseDuration("M3UCAT_READ_TIMEOUT", def.ReadTimeout),
		WriteTimeout:    ParseDuration("M3UCAT_WRITE_TIMEOUT", def.WriteTimeout),
		IdleTimeout:     ParseDuration("M3UCAT_IDLE_TIMEOUT", def.IdleTimeout),
		ShutdownTimeout: ParseDuration("M3UCAT_SHUTDOWN_TIMEOUT", def.ShutdownTimeout),
		MaxHeaderBytes:  ParseInt("M3UCAT_MAX_HEADER_BYTES", def.MaxHeaderBytes),
	}
}
