// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML representation of the config file. Unknown keys are
// rejected so typos fail loudly.
type fileConfig struct {
	Playlist string `yaml:"playlist"`
	DataDir  string `yaml:"dataDir"`
	Export   string `yaml:"export"`
	Listen   string `yaml:"listen"`
	Metrics  struct {
		Enabled *bool  `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`
	Watch              *bool  `yaml:"watch"`
	RateLimitPerMinute *int   `yaml:"rateLimitPerMinute"`
	LogLevel           string `yaml:"logLevel"`
}

// Loader loads configuration with ENV > file > defaults precedence.
type Loader struct {
	path    string
	version string
}

// NewLoader creates a loader for the given config file path. An empty path
// means ENV-only configuration.
func NewLoader(path, version string) *Loader {
	return &Loader{path: path, version: version}
}

// Load builds the effective configuration.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()
	cfg.Version = l.version

	if l.path != "" {
		fileCfg, err := readFile(l.path)
		if err != nil {
			return AppConfig{}, err
		}
		cfg = mergeFile(cfg, fileCfg)
	}

	cfg = applyEnv(cfg)
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fc, fmt.Errorf("config file %s does not exist: %w", path, err)
		}
		return fc, fmt.Errorf("read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func mergeFile(cfg AppConfig, fc fileConfig) AppConfig {
	if fc.Playlist != "" {
		cfg.PlaylistPath = fc.Playlist
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.Export != "" {
		cfg.ExportPath = fc.Export
	}
	if fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if fc.Metrics.Enabled != nil {
		cfg.MetricsEnabled = *fc.Metrics.Enabled
	}
	if fc.Metrics.Addr != "" {
		cfg.MetricsAddr = fc.Metrics.Addr
	}
	if fc.Watch != nil {
		cfg.WatchPlaylist = *fc.Watch
	}
	if fc.RateLimitPerMinute != nil {
		cfg.RateLimitPerMinute = *fc.RateLimitPerMinute
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	return cfg
}
