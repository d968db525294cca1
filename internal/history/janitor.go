// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package history

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Janitor periodically evicts idle sessions from a Store. It implements
// suture.Service so it can run under the application's supervisor tree.
//
// By default history lives for the whole process lifetime; the janitor is
// only added to the tree when history eviction is enabled in config.
type Janitor struct {
	store    *Store
	maxIdle  time.Duration
	interval time.Duration
	logger   zerolog.Logger
}

// NewJanitor creates a janitor sweeping the store every interval, dropping
// sessions idle for longer than maxIdle.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewJanitor(store *Store, maxIdle, interval time.Duration, logger zerolog.Logger) *Janitor {
	return &Janitor{
		store:    store,
		maxIdle:  maxIdle,
		interval: interval,
		logger:   logger.With().Str("component", "history-janitor").Logger(),
	}
}

// Serve implements suture.Service. It blocks until the context is canceled.
func (j *Janitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if evicted := j.store.EvictIdle(j.maxIdle); evicted > 0 {
				j.logger.Info().
					Int("evicted", evicted).
					Int("remaining", j.store.Sessions()).
					Msg("evicted idle sessions")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (j *Janitor) String() string {
	return "history-janitor"
}
