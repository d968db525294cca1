// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package recommend

import (
	"errors"
	"strings"

	"github.com/soundriftlabs/soundrift/internal/catalog"
)

// Sentinel errors surfaced to the API layer.
var (
	// ErrUnsupportedMood indicates the mood label has no scoring formula.
	// The API maps this to an empty result set; no history is written.
	ErrUnsupportedMood = errors.New("unsupported mood")

	// ErrMissingQuery indicates a search call with an empty query.
	ErrMissingQuery = errors.New("query is required")
)

// Recommendation is the public projection of a catalog track. Audio
// features are internal to scoring and never leave the engine.
type Recommendation struct {
	TrackID    string  `json:"track_id"`
	TrackName  string  `json:"track_name"`
	Artists    string  `json:"artists"`
	AlbumName  string  `json:"album_name"`
	Popularity float64 `json:"popularity"`
	TrackGenre string  `json:"track_genre"`
	Mood       string  `json:"mood"`
}

// project reduces a track to its public projection.
func project(t catalog.Track) Recommendation {
	return Recommendation{
		TrackID:    t.ID,
		TrackName:  t.Name,
		Artists:    t.Artists,
		AlbumName:  t.Album,
		Popularity: t.Popularity,
		TrackGenre: t.Genre,
		Mood:       t.Mood,
	}
}

// SearchScope narrows which fields a search query matches against.
type SearchScope int

const (
	// ScopeAll matches track name, artists, or genre.
	ScopeAll SearchScope = iota
	// ScopeArtist matches the artists field only.
	ScopeArtist
	// ScopeGenre matches the genre field only.
	ScopeGenre
)

// ParseScope maps the ?type= query parameter to a scope. Anything other
// than "artist" or "genre" falls through to ScopeAll; unrecognized type
// values are not an error.
func ParseScope(s string) SearchScope {
	switch strings.ToLower(s) {
	case "artist":
		return ScopeArtist
	case "genre":
		return ScopeGenre
	default:
		return ScopeAll
	}
}

// String returns the scope name used in logs.
func (s SearchScope) String() string {
	switch s {
	case ScopeArtist:
		return "artist"
	case ScopeGenre:
		return "genre"
	default:
		return "all"
	}
}

// MoodCategory derives the history category key for a mood request.
// Distinct categories keep independent freshness state per session.
func MoodCategory(mood string) string {
	return "mood_" + mood
}

// SearchCategory derives the history category key for a search request.
// The query is lowercased first, so "Love" and "love" share freshness state.
func SearchCategory(scope SearchScope, query string) string {
	q := strings.ToLower(query)
	switch scope {
	case ScopeArtist:
		return "artist_" + q
	case ScopeGenre:
		return "genre_" + q
	default:
		return "search_" + q
	}
}
