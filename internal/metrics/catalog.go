// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesParsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "m3ucat_entries_parsed",
		Help: "Number of playlist entries parsed in the last refresh",
	})

	parseDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "m3ucat_parse_duration_seconds",
		Help:    "Time spent tokenizing and classifying the playlist",
		Buckets: prometheus.DefBuckets,
	})

	itemsByType = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "m3ucat_items_by_type",
		Help: "Catalog items by content type in the last refresh",
	}, []string{"type"}) // type=tv|series|movie|radio|unknown

	showsGrouped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "m3ucat_shows_grouped",
		Help: "Number of show-level groups derived in the last refresh",
	})

	refreshRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3ucat_refresh_runs_total",
		Help: "Refresh runs by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	refreshFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3ucat_refresh_failures_total",
		Help: "Refresh failures by stage",
	}, []string{"stage"}) // stage=read|validate

	catalogExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3ucat_catalog_exports_total",
		Help: "Catalog JSON export attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure
)

func RecordParse(entries int, seconds float64) {
	entriesParsed.Set(float64(entries))
	parseDurationSeconds.Observe(seconds)
}

func RecordTypeCounts(tv, series, movie, radio, unknown int) {
	itemsByType.WithLabelValues("tv").Set(float64(tv))
	itemsByType.WithLabelValues("series").Set(float64(series))
	itemsByType.WithLabelValues("movie").Set(float64(movie))
	itemsByType.WithLabelValues("radio").Set(float64(radio))
	itemsByType.WithLabelValues("unknown").Set(float64(unknown))
}

func RecordShows(n int) { showsGrouped.Set(float64(n)) }

func IncRefreshSuccess() { refreshRunsTotal.WithLabelValues("success").Inc() }

func IncRefreshFailure(stage string) {
	refreshRunsTotal.WithLabelValues("failure").Inc()
	refreshFailuresTotal.WithLabelValues(stage).Inc()
}

func IncCatalogExport(outcome string) { catalogExportsTotal.WithLabelValues(outcome).Inc() }
