// SPDX-License-Identifier: MIT

package jobs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/classify"
	"github.com/ManuGH/m3ucat/internal/config"
)

const testPlaylist = `#EXTM3U
#EXTINF:-1 tvg-name="TR: KANAL D FHD" tvg-logo="http://logo/kanald.png" group-title="[TR] ULUSAL",TR: KANAL D FHD
http://stream.example/live/1001
#EXTINF:-1 tvg-name="Kurulus Osman S04E12 [TR]" group-title="|TR| DIZI | NETFLIX",Kurulus Osman S04E12
http://stream.example/series/2001
#EXTINF:-1 tvg-name="Kurulus Osman S04E13 [TR]" group-title="|TR| DIZI | NETFLIX",Kurulus Osman S04E13
http://stream.example/series/2002
#EXTINF:-1 tvg-name="Inception (2010) 4K" group-title="|EN| SINEMA | NETFLIX | 4K | 2024",Inception (2010) 4K
http://stream.example/movie/3001
`

func writeTestConfig(t *testing.T, playlistContent string) config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	playlistPath := filepath.Join(dir, "list.m3u")
	require.NoError(t, os.WriteFile(playlistPath, []byte(playlistContent), 0o644))

	cfg := config.Defaults()
	cfg.PlaylistPath = playlistPath
	cfg.DataDir = dir
	return cfg
}

func TestRefresh(t *testing.T) {
	cfg := writeTestConfig(t, testPlaylist)

	result, err := Refresh(t.Context(), cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Status.RunID)
	assert.False(t, result.Status.LastRun.IsZero())
	assert.Equal(t, 4, result.Status.Entries)
	assert.Len(t, result.Items, 4)

	// Two series episodes collapse into one show; live channel and movie are
	// singletons.
	assert.Equal(t, 3, result.Status.Shows)
	assert.Equal(t, 3, result.Groups.Len())

	osman := result.Items[1]
	assert.Equal(t, classify.TypeSeries, osman.Type)
	assert.Equal(t, "4", osman.Season)
	assert.Equal(t, "12", osman.Episode)
}

func TestRefreshMissingPlaylist(t *testing.T) {
	cfg := config.Defaults()
	cfg.PlaylistPath = filepath.Join(t.TempDir(), "missing.m3u")

	_, err := Refresh(t.Context(), cfg)
	assert.Error(t, err)
}

func TestRefreshInvalidPlaylist(t *testing.T) {
	cfg := writeTestConfig(t, "this is not a playlist\n")

	_, err := Refresh(t.Context(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid M3U playlist")
}

func TestRefreshEmptyButValidPlaylist(t *testing.T) {
	cfg := writeTestConfig(t, "#EXTM3U\n")

	result, err := Refresh(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Status.Entries)
	assert.Equal(t, 0, result.Status.Shows)
	assert.Empty(t, result.Items)
}

func TestRefreshExportsCatalog(t *testing.T) {
	cfg := writeTestConfig(t, testPlaylist)
	cfg.ExportPath = "catalog.json"

	result, err := Refresh(t.Context(), cfg)
	require.NoError(t, err)

	exported := filepath.Join(cfg.DataDir, "catalog.json")
	data, err := os.ReadFile(exported)
	require.NoError(t, err)

	var items []catalog.ContentItem
	require.NoError(t, json.Unmarshal(data, &items))
	assert.Len(t, items, len(result.Items))
	assert.Equal(t, result.Items[0].URL, items[0].URL)
}

func TestWriteCatalogAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	items := []catalog.ContentItem{{ID: 1, Name: "Kanal D", URL: "http://x/1", Source: catalog.SourceIPTV}}
	require.NoError(t, WriteCatalog(t.Context(), path, items))

	// Overwrite with a second generation; the file must always hold a full
	// valid document.
	items = append(items, catalog.ContentItem{ID: 2, Name: "Show", URL: "http://x/2", Source: catalog.SourceIPTV})
	require.NoError(t, WriteCatalog(t.Context(), path, items))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []catalog.ContentItem
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 2)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
