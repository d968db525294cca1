// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

// Package metrics provides Prometheus metrics collection and export.
//
// Metrics are exposed at the /metrics endpoint in Prometheus text format:
//
//	curl http://localhost:5000/metrics
//
// Available metrics:
//
//   - http_requests_total (counter): method, endpoint, status
//   - http_request_duration_seconds (histogram): method, endpoint
//   - http_requests_in_flight (gauge)
//   - recommend_cascade_total (counter): tier (fresh, full_pool, catalog_spillover)
//   - history_sessions (gauge)
//   - history_entries (gauge)
//   - catalog_tracks (gauge)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Recommendation metrics
	CascadeTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cascade_total",
			Help: "Recommendation requests by fallback cascade tier",
		},
		[]string{"tier"}, // "fresh", "full_pool", "catalog_spillover"
	)

	// History store metrics
	HistorySessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "history_sessions",
			Help: "Current number of sessions in the history store",
		},
	)

	HistoryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "history_entries",
			Help: "Total (session, category, track) entries in the history store",
		},
	)

	// Catalog metrics
	CatalogTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_tracks",
			Help: "Number of tracks in the loaded catalog",
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCascadeTier counts which cascade tier served a mood request.
func RecordCascadeTier(tier string) {
	CascadeTier.WithLabelValues(tier).Inc()
}

// SetHistoryStats updates the history store gauges.
func SetHistoryStats(sessions, entries int) {
	HistorySessions.Set(float64(sessions))
	HistoryEntries.Set(float64(entries))
}

// SetCatalogSize records the loaded catalog size.
func SetCatalogSize(tracks int) {
	CatalogTracks.Set(float64(tracks))
}
