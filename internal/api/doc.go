// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

/*
Package api provides HTTP routing and handlers for the recommendation
service.

Endpoints:

	GET /api/mood/{mood}   mood-based recommendations
	GET /api/search        query search with artist/genre scopes
	GET /api/health/live   liveness probe
	GET /api/health/ready  readiness probe (catalog availability)
	GET /metrics           Prometheus metrics

Response shapes are part of the public contract: recommendation endpoints
return bare JSON arrays of track projections, and errors return
{"error": "<message>"}. Clients depend on these exact shapes.

Session identity comes from the session_id query parameter, the session
cookie, or a minted UUID, in that order (see internal/session).
*/
package api
