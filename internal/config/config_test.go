// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "data", cfg.DataDir)
	assert.True(t, cfg.WatchPlaylist)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 600, cfg.RateLimitPerMinute)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	valid.PlaylistPath = "list.m3u"
	require.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"missing playlist", func(c *AppConfig) { c.PlaylistPath = "" }},
		{"empty listen addr", func(c *AppConfig) { c.ListenAddr = "" }},
		{"metrics without addr", func(c *AppConfig) { c.MetricsEnabled = true; c.MetricsAddr = "" }},
		{"zero rate limit", func(c *AppConfig) { c.RateLimitPerMinute = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestParseHelpers(t *testing.T) {
	t.Setenv("M3UCAT_TEST_STRING", "hello")
	t.Setenv("M3UCAT_TEST_INT", "42")
	t.Setenv("M3UCAT_TEST_INT_BAD", "forty-two")
	t.Setenv("M3UCAT_TEST_BOOL", "yes")
	t.Setenv("M3UCAT_TEST_BOOL_BAD", "maybe")
	t.Setenv("M3UCAT_TEST_DUR", "5s")

	assert.Equal(t, "hello", ParseString("M3UCAT_TEST_STRING", "def"))
	assert.Equal(t, "def", ParseString("M3UCAT_TEST_MISSING", "def"))
	assert.Equal(t, 42, ParseInt("M3UCAT_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("M3UCAT_TEST_INT_BAD", 1))
	assert.True(t, ParseBool("M3UCAT_TEST_BOOL", false))
	assert.False(t, ParseBool("M3UCAT_TEST_BOOL_BAD", false))
	assert.Equal(t, 5*time.Second, ParseDuration("M3UCAT_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("M3UCAT_TEST_DUR_MISSING", time.Minute))
}

func TestLoaderFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `playlist: /srv/list.m3u
listen: ":9000"
metrics:
  enabled: true
logLevel: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// ENV wins over file.
	t.Setenv("M3UCAT_LISTEN", ":7000")

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/list.m3u", cfg.PlaylistPath)
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, ":9090", cfg.MetricsAddr) // default survives
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "test", cfg.Version)
}

func TestLoaderRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("playlsit: typo.m3u\n"), 0o644))

	_, err := NewLoader(path, "test").Load()
	assert.Error(t, err)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), "test").Load()
	assert.Error(t, err)
}

func TestLoaderEnvOnly(t *testing.T) {
	t.Setenv("M3UCAT_PLAYLIST", "/env/list.m3u")
	cfg, err := NewLoader("", "test").Load()
	require.NoError(t, err)
	assert.Equal(t, "/env/list.m3u", cfg.PlaylistPath)
}

func TestHolderReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("playlist: one.m3u\n"), 0o644))

	loader := NewLoader(path, "test")
	initial, err := loader.Load()
	require.NoError(t, err)

	holder := NewHolder(initial, loader, path)
	assert.Equal(t, "one.m3u", holder.Current().PlaylistPath)

	listener := make(chan AppConfig, 1)
	holder.RegisterListener(listener)

	require.NoError(t, os.WriteFile(path, []byte("playlist: two.m3u\n"), 0o644))
	require.NoError(t, holder.Reload(t.Context()))
	assert.Equal(t, "two.m3u", holder.Current().PlaylistPath)

	select {
	case got := <-listener:
		assert.Equal(t, "two.m3u", got.PlaylistPath)
	default:
		t.Fatal("listener was not notified")
	}
}

func TestHolderReloadKeepsOldConfigOnInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("playlist: one.m3u\n"), 0o644))

	loader := NewLoader(path, "test")
	initial, err := loader.Load()
	require.NoError(t, err)
	holder := NewHolder(initial, loader, path)

	// Playlist removed: fails validation, old config stays.
	require.NoError(t, os.WriteFile(path, []byte("logLevel: debug\n"), 0o644))
	assert.Error(t, holder.Reload(t.Context()))
	assert.Equal(t, "one.m3u", holder.Current().PlaylistPath)
}
