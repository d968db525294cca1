// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package recommend

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/soundriftlabs/soundrift/internal/catalog"
	"github.com/soundriftlabs/soundrift/internal/history"
	"github.com/soundriftlabs/soundrift/internal/metrics"
)

// DefaultSessionID is used when a caller reaches the engine without a
// resolved session. All such callers share one freshness state.
const DefaultSessionID = "default"

// Cascade tier labels for observability.
const (
	tierFresh     = "fresh"
	tierFullPool  = "full_pool"
	tierSpillover = "catalog_spillover"
)

// Options configures an Engine.
type Options struct {
	// Seed seeds the jitter source. Zero selects a time-based seed.
	Seed int64

	// DefaultLimit is applied when a request passes limit <= 0.
	DefaultLimit int

	// FreshPoolFactor is the multiplier in the mood tier test: the fresh
	// pool is only scored on its own when |fresh| >= FreshPoolFactor*limit.
	FreshPoolFactor int
}

// Engine is the session-scoped ranking and anti-repetition engine.
// It is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	history *history.Store
	logger  zerolog.Logger

	defaultLimit    int
	freshPoolFactor int

	// rng backs the jitter term. Guarded by rngMu: rand.Rand is not safe
	// for concurrent use and the jitter stream must stay well-defined.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates an engine over the given catalog and history store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cat *catalog.Catalog, hist *history.Store, opts Options, logger zerolog.Logger) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	defaultLimit := opts.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	factor := opts.FreshPoolFactor
	if factor <= 0 {
		factor = 2
	}

	return &Engine{
		catalog:         cat,
		history:         hist,
		logger:          logger.With().Str("component", "recommend").Logger(),
		defaultLimit:    defaultLimit,
		freshPoolFactor: factor,
		rng:             rand.New(rand.NewSource(seed)), //nolint:gosec // jitter, not crypto
	}
}

// jitter draws one uniform sample in [0, 1).
func (e *Engine) jitter() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}

// Mood returns up to limit tracks for the given mood, freshest first.
//
// The returned ids are committed to the session's "mood_<mood>" history
// before returning, so an immediate follow-up call sees them as stale.
// ErrUnsupportedMood is returned for labels without a scoring formula; in
// that case no history is written.
func (e *Engine) Mood(ctx context.Context, mood string, limit int, sessionID string) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}
	if !SupportedMood(mood) {
		return nil, ErrUnsupportedMood
	}

	category := MoodCategory(mood)

	// Hold the session lock across read, score, and commit so concurrent
	// requests from the same session cannot serve duplicates.
	sess := e.history.Session(sessionID)
	sess.Lock()
	defer sess.Unlock()

	seen := sess.Seen(category)
	exact := e.catalog.ByMood(mood)
	fresh := filterSeen(exact, seen)

	// Tier 1: prefer the fresh pool, but only when it is comfortably
	// larger than the request; a thin fresh pool would starve the jitter
	// of meaningful choice, so the full exact-mood pool is rescored
	// instead, previously-seen tracks included.
	tier := tierFresh
	pool := fresh
	if len(fresh) < e.freshPoolFactor*limit {
		tier = tierFullPool
		pool = exact
	}

	scored, err := e.scoreTracks(pool, mood)
	if err != nil {
		return nil, err
	}
	sortByFinalScore(scored)

	// Tier 2 escape hatch: the mood pool cannot fill the request, so the
	// whole catalog is scored with the same formula and history-filtered.
	// Cross-mood spillover here is intentional.
	if len(scored) < limit {
		tier = tierSpillover
		all, err := e.scoreTracks(e.catalog.Tracks(), mood)
		if err != nil {
			return nil, err
		}
		scored = filterSeenScored(all, seen)
		sortByFinalScore(scored)
	}

	if len(scored) > limit {
		scored = scored[:limit]
	}

	results := make([]Recommendation, len(scored))
	ids := make([]string, len(scored))
	for i, st := range scored {
		results[i] = project(st.track)
		ids[i] = st.track.ID
	}

	sess.Commit(category, ids)
	metrics.RecordCascadeTier(tier)

	e.logger.Debug().
		Str("mood", mood).
		Str("session_id", sessionID).
		Str("tier", tier).
		Int("exact_pool", len(exact)).
		Int("fresh_pool", len(fresh)).
		Int("returned", len(results)).
		Msg("mood recommendations served")

	return results, nil
}

// Search returns up to limit tracks matching the query within the scope.
//
// Ranking depends on how much of the match set this session has not seen
// yet: a healthy fresh pool is ranked by popularity plus jitter and only
// fresh tracks are returned; once the fresh pool is thinner than the
// request, freshness is ignored and the full match set is ranked
// deterministically by (popularity desc, name asc).
func (e *Engine) Search(ctx context.Context, query string, scope SearchScope, limit int, sessionID string) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, ErrMissingQuery
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}

	matches := e.match(query, scope)
	category := SearchCategory(scope, query)

	sess := e.history.Session(sessionID)
	sess.Lock()
	defer sess.Unlock()

	seen := sess.Seen(category)
	fresh := filterSeen(matches, seen)

	var results []catalog.Track
	if len(fresh) < limit {
		// Better stale than empty: previously-shown tracks may reappear.
		results = rankByPopularityName(matches)
	} else {
		results = e.rankWithJitter(fresh)
	}
	if len(results) > limit {
		results = results[:limit]
	}

	out := make([]Recommendation, len(results))
	ids := make([]string, len(results))
	for i, t := range results {
		out[i] = project(t)
		ids[i] = t.ID
	}

	sess.Commit(category, ids)

	e.logger.Debug().
		Str("query", query).
		Str("scope", scope.String()).
		Str("session_id", sessionID).
		Int("matches", len(matches)).
		Int("fresh", len(fresh)).
		Int("returned", len(out)).
		Msg("search results served")

	return out, nil
}

// filterSeen returns the tracks whose ids are absent from the seen-set.
func filterSeen(tracks []catalog.Track, seen map[string]struct{}) []catalog.Track {
	if len(seen) == 0 {
		return tracks
	}
	fresh := make([]catalog.Track, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := seen[t.ID]; !ok {
			fresh = append(fresh, t)
		}
	}
	return fresh
}

// filterSeenScored is filterSeen over already-scored rows.
func filterSeenScored(scored []scoredTrack, seen map[string]struct{}) []scoredTrack {
	if len(seen) == 0 {
		return scored
	}
	fresh := make([]scoredTrack, 0, len(scored))
	for _, st := range scored {
		if _, ok := seen[st.track.ID]; !ok {
			fresh = append(fresh, st)
		}
	}
	return fresh
}

// sortByFinalScore orders rows by final score descending. The sort is
// stable, so equal scores keep their input order; with jitter in play,
// exact ties are vanishingly rare and their order is not a contract.
func sortByFinalScore(scored []scoredTrack) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].finalScore > scored[j].finalScore
	})
}
