// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package recommend

import (
	"sort"
	"strings"

	"github.com/soundriftlabs/soundrift/internal/catalog"
)

// match scans the catalog for tracks containing the query substring,
// case-insensitively, within the scope's fields.
func (e *Engine) match(query string, scope SearchScope) []catalog.Track {
	q := strings.ToLower(query)

	var matches []catalog.Track
	for _, t := range e.catalog.Tracks() {
		var hit bool
		switch scope {
		case ScopeArtist:
			hit = strings.Contains(strings.ToLower(t.Artists), q)
		case ScopeGenre:
			hit = strings.Contains(strings.ToLower(t.Genre), q)
		default:
			hit = strings.Contains(strings.ToLower(t.Name), q) ||
				strings.Contains(strings.ToLower(t.Artists), q) ||
				strings.Contains(strings.ToLower(t.Genre), q)
		}
		if hit {
			matches = append(matches, t)
		}
	}
	return matches
}

// rankWithJitter orders tracks by popularity plus a uniform jitter in
// [0, 10), descending. The jitter keeps a session's repeated searches from
// always surfacing the same popular tracks in the same order.
func (e *Engine) rankWithJitter(tracks []catalog.Track) []catalog.Track {
	type rankedTrack struct {
		track catalog.Track
		score float64
	}

	ranked := make([]rankedTrack, len(tracks))
	for i, t := range tracks {
		ranked[i] = rankedTrack{track: t, score: t.Popularity + e.jitter()*10}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]catalog.Track, len(ranked))
	for i, r := range ranked {
		out[i] = r.track
	}
	return out
}

// rankByPopularityName orders tracks deterministically by popularity
// descending, then track name ascending. Used once the fresh pool is too
// thin to honor freshness.
func rankByPopularityName(tracks []catalog.Track) []catalog.Track {
	out := make([]catalog.Track, len(tracks))
	copy(out, tracks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].Name < out[j].Name
	})
	return out
}
