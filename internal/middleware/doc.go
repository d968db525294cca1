// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

/*
Package middleware provides HTTP middleware for the recommendation API.

Components:

  - RequestID: UUID request tracking, propagated through the logging context
  - PrometheusMetrics: request count, duration, and in-flight instrumentation
  - Compression: gzip for clients that accept it

All middleware follows the chi convention of wrapping http.Handler and is
mounted once on the router in internal/api.
*/
package middleware
