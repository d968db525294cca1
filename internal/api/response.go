// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/soundriftlabs/soundrift/internal/logging"
)

// errMissingQuery is the exact error body for a search without a query.
// The wording is a compatibility contract with existing clients.
const errMissingQuery = "Query parameter 'q' is required"

// errInternal is the generic body for unexpected failures.
const errInternal = "internal server error"

// errorResponse is the error payload shape for all endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v with proper headers. Encoding failures are logged;
// at that point part of the response may already be on the wire.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError writes the standard error payload.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Error: message})
}
