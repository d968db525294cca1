// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

// Package recommend implements the session-scoped ranking and
// anti-repetition engine.
//
// # Architecture
//
// The engine serves two axes of recommendation over the immutable catalog:
//
//   - Mood: a fixed-weight composite score over audio features, combined
//     with popularity and a random jitter term
//   - Search: case-insensitive substring matching over track name, artist
//     and genre, ranked popularity-first
//
// Both paths avoid repeating tracks already shown to the same session within
// the same query category, falling back to previously-seen tracks only when
// the fresh pool runs out ("better stale than empty").
//
// # Mood fallback cascade
//
// Given (mood, limit, session):
//
//  1. Take the exact-mood pool from the catalog.
//  2. Subtract the session's seen-set for category "mood_<mood>".
//  3. Score the fresh pool if it holds at least 2*limit tracks, otherwise
//     score the full exact-mood pool (seen tracks included).
//  4. If the sorted tier still has fewer than limit rows, discard it and
//     score the entire catalog instead, history-filtered. Results from this
//     escape hatch may not match the requested mood; that spillover is the
//     intended behavior for mood-sparse catalogs.
//  5. Truncate to limit and commit the returned ids to history.
//
// # Determinism
//
// Mood scores are pure functions of the audio features. Final ordering is
// deliberately not reproducible across calls: a per-track uniform jitter
// diversifies repeated requests. The jitter source is seeded through
// Options so tests can pin the ordering.
//
// # Thread safety
//
// The engine is safe for concurrent use. Each request holds its session's
// history lock across the whole read-score-commit sequence, so concurrent
// requests from one session serialize while different sessions proceed in
// parallel. The catalog is immutable and needs no locking.
package recommend
