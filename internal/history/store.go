// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

// Package history tracks which tracks have already been shown to each
// session, partitioned by query category.
//
// The store is a two-level map: session id -> category -> seen-set of track
// ids. Seen-sets only ever grow for the lifetime of a session; the optional
// janitor (see janitor.go) drops whole sessions that have gone idle, which is
// the only form of eviction.
//
// # Concurrency
//
// The recommendation flow is read-modify-write: read the seen-set, score
// candidates against it, then commit the returned ids. Two concurrent
// requests for the same session could otherwise interleave and serve
// duplicates or lose a commit. The store therefore exposes a per-session
// lock: callers acquire the session via Session(), hold its lock across the
// whole compute-and-commit sequence, and release it afterward. Requests for
// different sessions never contend.
package history

import (
	"sync"
	"time"
)

// Store is the concurrency-safe per-session history store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// Session holds one caller's seen-sets, keyed by category. All reads and
// writes must happen while holding the session lock.
type Session struct {
	mu         sync.Mutex
	categories map[string]map[string]struct{}
	lastActive time.Time
}

// NewStore creates an empty history store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Session returns the session with the given id, creating it on first use.
// The caller must Lock() the returned session before reading or committing
// and hold the lock across the whole read-modify-write sequence.
func (s *Store) Session(id string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[id]; ok {
		return sess
	}
	sess = &Session{
		categories: make(map[string]map[string]struct{}),
		lastActive: time.Now(),
	}
	s.sessions[id] = sess
	return sess
}

// Lock acquires the session lock.
func (sess *Session) Lock() { sess.mu.Lock() }

// Unlock releases the session lock.
func (sess *Session) Unlock() { sess.mu.Unlock() }

// Seen returns the seen-set for a category. The returned map is the live
// set; callers must hold the session lock and must not mutate it directly.
// Returns nil when the category has never been committed to.
func (sess *Session) Seen(category string) map[string]struct{} {
	return sess.categories[category]
}

// SeenCount returns the size of a category's seen-set. Callers must hold
// the session lock.
func (sess *Session) SeenCount(category string) int {
	return len(sess.categories[category])
}

// Commit adds the given track ids to a category's seen-set, creating the
// set on first write. Ids are never removed, so membership is monotonically
// non-decreasing. Callers must hold the session lock.
func (sess *Session) Commit(category string, ids []string) {
	set, ok := sess.categories[category]
	if !ok {
		set = make(map[string]struct{}, len(ids))
		sess.categories[category] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	sess.lastActive = time.Now()
}

// Touch refreshes the session's last-active timestamp without committing.
// Callers must hold the session lock.
func (sess *Session) Touch() {
	sess.lastActive = time.Now()
}

// Sessions returns the number of live sessions.
func (s *Store) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Entries returns the total number of (session, category, track) history
// entries across the store. Used for observability gauges.
func (s *Store) Entries() int {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	total := 0
	for _, sess := range sessions {
		sess.mu.Lock()
		for _, set := range sess.categories {
			total += len(set)
		}
		sess.mu.Unlock()
	}
	return total
}

// EvictIdle removes sessions whose last activity is older than maxIdle.
// It returns the number of sessions dropped. This is the pluggable eviction
// extension point; it is never called unless the janitor is enabled.
func (s *Store) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
