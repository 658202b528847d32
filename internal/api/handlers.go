// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/jobs"
	"github.com/ManuGH/m3ucat/internal/log"
)

// refreshTimeout bounds a single refresh triggered over HTTP.
const refreshTimeout = 2 * time.Minute

type statusResponse struct {
	State   string       `json:"state"`
	Version string       `json:"version"`
	UptimeS int64        `json:"uptime_seconds"`
	LastRun *jobs.Status `json:"last_run,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready only once a catalog has been built.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if s.currentResult() == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "preparing"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		State:   "preparing",
		Version: s.currentConfig().Version,
		UptimeS: int64(time.Since(s.startTime).Seconds()),
	}
	if result := s.currentResult(); result != nil {
		resp.State = "ready"
		status := result.Status
		resp.LastRun = &status
	}
	writeJSON(w, http.StatusOK, resp)
}

// itemFilter holds the query-parameter filters for /api/items. Empty fields
// match everything.
type itemFilter struct {
	typ      string
	category string
	language string
	quality  string
	platform string
}

func (f itemFilter) matches(item catalog.ContentItem) bool {
	if f.typ != "" && !strings.EqualFold(string(item.Type), f.typ) {
		return false
	}
	if f.category != "" && !strings.EqualFold(item.Category, f.category) {
		return false
	}
	if f.language != "" && !strings.EqualFold(item.Language, f.language) {
		return false
	}
	if f.quality != "" && !strings.EqualFold(item.Quality, f.quality) {
		return false
	}
	if f.platform != "" && !strings.EqualFold(item.Platform, f.platform) {
		return false
	}
	return true
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	result := s.currentResult()
	if result == nil {
		writeError(w, http.StatusServiceUnavailable, "preparing", "Catalog not built yet")
		return
	}

	q := r.URL.Query()
	filter := itemFilter{
		typ:      q.Get("type"),
		category: q.Get("category"),
		language: q.Get("language"),
		quality:  q.Get("quality"),
		platform: q.Get("platform"),
	}

	items := make([]catalog.ContentItem, 0, len(result.Items))
	for _, item := range result.Items {
		if filter.matches(item) {
			items = append(items, item)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(items),
		"items": items,
	})
}

type seriesSummary struct {
	Key            string              `json:"key"`
	Representative catalog.ContentItem `json:"representative"`
	Episodes       int                 `json:"episodes"`
	Seasons        int                 `json:"seasons"`
}

func (s *Server) handleSeries(w http.ResponseWriter, _ *http.Request) {
	result := s.currentResult()
	if result == nil {
		writeError(w, http.StatusServiceUnavailable, "preparing", "Catalog not built yet")
		return
	}

	keys := result.Groups.Keys()
	summaries := make([]seriesSummary, 0, len(keys))
	for _, key := range keys {
		group := result.Groups.ByKey(key)
		summaries = append(summaries, seriesSummary{
			Key:            key,
			Representative: group.Representative,
			Episodes:       len(group.Items),
			Seasons:        len(group.Seasons),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(summaries),
		"series": summaries,
	})
}

func (s *Server) handleSeriesByKey(w http.ResponseWriter, r *http.Request) {
	result := s.currentResult()
	if result == nil {
		writeError(w, http.StatusServiceUnavailable, "preparing", "Catalog not built yet")
		return
	}

	key := chi.URLParam(r, "key")
	group := result.Groups.ByKey(key)
	if group == nil {
		writeError(w, http.StatusNotFound, "not_found", "No series group under this key")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"key":            key,
		"representative": group.Representative,
		"items":          group.Items,
		"seasons":        catalog.SortedSeasons(group),
	})
}

// handleRefresh rebuilds the catalog on demand. Concurrent refreshes are
// rejected with 409 instead of queued.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	if !s.refreshing.CompareAndSwap(false, true) {
		logger.Warn().
			Str(log.FieldEvent, "refresh.conflict").
			Msg("refresh already in progress")
		w.Header().Set("Retry-After", "30")
		writeError(w, http.StatusConflict, "conflict", "A refresh operation is already in progress")
		return
	}
	defer s.refreshing.Store(false)

	// The job outlives a disconnecting client, so it runs on its own context.
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	result, err := s.refreshFn(ctx, s.currentConfig())
	if err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "refresh.failed").
			Msg("on-demand refresh failed")
		writeError(w, http.StatusInternalServerError, "refresh_failed", err.Error())
		return
	}

	s.SetResult(result)
	writeJSON(w, http.StatusOK, result.Status)
}
