// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

// Package session resolves the caller's session identity for a request.
//
// Resolution order:
//
//  1. the session_id query parameter, for clients that manage their own ids
//  2. the session cookie
//  3. a freshly minted UUID, set as a cookie on the response
//
// The id is opaque; it only partitions recommendation history. There is no
// authentication attached to it.
package session

import (
	"net/http"

	"github.com/google/uuid"
)

// QueryParam is the query parameter that overrides cookie-based resolution.
const QueryParam = "session_id"

// Resolver extracts or mints session ids on each request.
type Resolver struct {
	cookieName string
	maxAge     int
}

// NewResolver creates a resolver issuing cookies with the given name and
// max age in seconds.
func NewResolver(cookieName string, maxAge int) *Resolver {
	return &Resolver{cookieName: cookieName, maxAge: maxAge}
}

// Resolve returns the request's session id, minting one when the request
// carries none. A minted id is written to the response as a cookie so the
// same browser keeps its history across requests.
func (r *Resolver) Resolve(w http.ResponseWriter, req *http.Request) string {
	if id := req.URL.Query().Get(QueryParam); id != "" {
		return id
	}

	if c, err := req.Cookie(r.cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     r.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   r.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
