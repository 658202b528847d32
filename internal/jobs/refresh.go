// SPDX-License-Identifier: MIT

// Package jobs implements the catalog refresh cycle: read playlist file,
// validate, parse, group, export.
package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/classify"
	"github.com/ManuGH/m3ucat/internal/config"
	xclog "github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/metrics"
)

// Status summarizes the last refresh run.
type Status struct {
	RunID   string    `json:"run_id"`
	LastRun time.Time `json:"last_run"`
	Entries int       `json:"entries"`
	Shows   int       `json:"shows"`
	Error   string    `json:"error,omitempty"`
}

// Result is the output of one refresh run: the freshly built catalog plus its
// derived show groups. A new Result fully replaces the previous one; nothing
// is merged.
type Result struct {
	Status Status
	Items  []catalog.ContentItem
	Groups *catalog.Groups
}

// Refresh performs the complete refresh cycle. It fails only at the file
// boundary (unreadable or invalid playlist); the pipeline itself is total.
func Refresh(ctx context.Context, cfg config.AppConfig) (*Result, error) {
	runID := uuid.NewString()
	ctx = xclog.ContextWithRunID(ctx, runID)
	logger := xclog.WithComponentFromContext(ctx, "jobs")

	logger.Info().
		Str(xclog.FieldEvent, "refresh.start").
		Str(xclog.FieldPlaylistPath, cfg.PlaylistPath).
		Msg("starting refresh")

	data, err := os.ReadFile(cfg.PlaylistPath)
	if err != nil {
		metrics.IncRefreshFailure("read")
		return nil, fmt.Errorf("read playlist %s: %w", cfg.PlaylistPath, err)
	}

	text := string(data)
	if !catalog.IsValidPlaylist(text) {
		metrics.IncRefreshFailure("validate")
		return nil, fmt.Errorf("%s is not a valid M3U playlist", cfg.PlaylistPath)
	}

	start := time.Now()
	items := catalog.Parse(text)
	groups := catalog.GroupSeries(items)
	elapsed := time.Since(start)

	metrics.RecordParse(len(items), elapsed.Seconds())
	recordTypeCounts(items)
	metrics.RecordShows(groups.Len())

	if len(items) == 0 {
		// Valid playlist, nothing in it. Distinct from a rejected file.
		logger.Warn().
			Str(xclog.FieldEvent, "refresh.no_content").
			Msg("playlist is valid but contains no entries")
	}

	if cfg.ExportPath != "" {
		exportPath := cfg.ExportPath
		if !filepath.IsAbs(exportPath) {
			exportPath = filepath.Join(cfg.DataDir, exportPath)
		}
		if err := os.MkdirAll(filepath.Dir(exportPath), 0o755); err != nil {
			metrics.IncCatalogExport("failure")
			logger.Warn().
				Err(err).
				Str(xclog.FieldEvent, "export.failed").
				Str(xclog.FieldCatalogPath, exportPath).
				Msg("catalog export failed")
		} else if err := WriteCatalog(ctx, exportPath, items); err != nil {
			metrics.IncCatalogExport("failure")
			logger.Warn().
				Err(err).
				Str(xclog.FieldEvent, "export.failed").
				Str(xclog.FieldCatalogPath, exportPath).
				Msg("catalog export failed")
		} else {
			metrics.IncCatalogExport("success")
			logger.Info().
				Str(xclog.FieldEvent, "export.success").
				Str(xclog.FieldCatalogPath, exportPath).
				Int(xclog.FieldItems, len(items)).
				Msg("catalog exported")
		}
	}

	metrics.IncRefreshSuccess()

	status := Status{
		RunID:   runID,
		LastRun: time.Now(),
		Entries: len(items),
		Shows:   groups.Len(),
	}
	logger.Info().
		Str(xclog.FieldEvent, "refresh.success").
		Int(xclog.FieldEntries, status.Entries).
		Int(xclog.FieldShows, status.Shows).
		Dur("parse_duration", elapsed).
		Msg("refresh completed")

	return &Result{Status: status, Items: items, Groups: groups}, nil
}

func recordTypeCounts(items []catalog.ContentItem) {
	var tv, series, movie, radio, unknown int
	for _, item := range items {
		switch item.Type {
		case classify.TypeTV:
			tv++
		case classify.TypeSeries:
			series++
		case classify.TypeMovie:
			movie++
		case classify.TypeRadio:
			radio++
		default:
			unknown++
		}
	}
	metrics.RecordTypeCounts(tv, series, movie, radio, unknown)
}
