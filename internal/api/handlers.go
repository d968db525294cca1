// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soundriftlabs/soundrift/internal/catalog"
	"github.com/soundriftlabs/soundrift/internal/history"
	"github.com/soundriftlabs/soundrift/internal/logging"
	"github.com/soundriftlabs/soundrift/internal/metrics"
	"github.com/soundriftlabs/soundrift/internal/recommend"
	"github.com/soundriftlabs/soundrift/internal/session"
)

// Handler serves the recommendation API.
type Handler struct {
	engine   *recommend.Engine
	catalog  *catalog.Catalog
	history  *history.Store
	sessions *session.Resolver

	defaultLimit int
	startTime    time.Time
}

// NewHandler creates the API handler.
func NewHandler(engine *recommend.Engine, cat *catalog.Catalog, hist *history.Store, sessions *session.Resolver, defaultLimit int) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &Handler{
		engine:       engine,
		catalog:      cat,
		history:      hist,
		sessions:     sessions,
		defaultLimit: defaultLimit,
		startTime:    time.Now(),
	}
}

// Mood handles GET /api/mood/{mood}.
//
// An unsupported mood returns an empty array with HTTP 200, not an error;
// clients iterate the result without checking a status discriminator.
func (h *Handler) Mood(w http.ResponseWriter, r *http.Request) {
	mood := chi.URLParam(r, "mood")
	limit := h.parseLimit(r)
	sessionID := h.sessions.Resolve(w, r)

	recs, err := h.engine.Mood(r.Context(), mood, limit, sessionID)
	switch {
	case errors.Is(err, recommend.ErrUnsupportedMood):
		logger := logging.Ctx(r.Context())
		logger.Debug().
			Str("mood", mood).
			Msg("unsupported mood requested")
		writeJSON(w, r, http.StatusOK, []recommend.Recommendation{})
		return
	case err != nil:
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).
			Str("mood", mood).
			Msg("mood recommendation failed")
		writeError(w, r, http.StatusInternalServerError, errInternal)
		return
	}

	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	writeJSON(w, r, http.StatusOK, recs)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, r, http.StatusBadRequest, errMissingQuery)
		return
	}

	scope := recommend.ParseScope(r.URL.Query().Get("type"))
	limit := h.parseLimit(r)
	sessionID := h.sessions.Resolve(w, r)

	recs, err := h.engine.Search(r.Context(), query, scope, limit, sessionID)
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).
			Str("query", query).
			Msg("search failed")
		writeError(w, r, http.StatusInternalServerError, errInternal)
		return
	}

	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	writeJSON(w, r, http.StatusOK, recs)
}

// HealthLive handles GET /api/health/live. Always healthy while the
// process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.startTime).String(),
	})
}

// HealthReady handles GET /api/health/ready. Ready means the catalog is
// loaded; without it no endpoint can serve. The handler also refreshes the
// history gauges so scrapes see current store size.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	metrics.SetHistoryStats(h.history.Sessions(), h.history.Entries())

	if h.catalog.Len() == 0 {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"reason": "catalog is empty",
		})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"tracks":   h.catalog.Len(),
		"moods":    len(h.catalog.Moods()),
		"sessions": h.history.Sessions(),
		"source":   h.catalog.Source(),
	})
}

// parseLimit reads the limit query parameter. Absent, malformed, or
// non-positive values fall back to the default.
func (h *Handler) parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return h.defaultLimit
	}
	return limit
}
