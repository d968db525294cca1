// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

// Package catalog holds the immutable in-memory table of recommendable
// tracks. The catalog is loaded once at startup and never mutated afterward,
// so all accessors are safe for concurrent use without locking.
package catalog

import (
	"errors"
	"strings"
)

// ErrUnavailable indicates no dataset could be loaded. This is fatal at
// startup; the API cannot serve anything without a catalog.
var ErrUnavailable = errors.New("catalog unavailable: no dataset could be loaded")

// AudioFeatures is the 11-dimensional audio feature vector attached to every
// track. All values except Tempo, Key and Loudness are roughly normalized to
// [0, 1] by the upstream dataset.
type AudioFeatures struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              float64 `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             float64 `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
}

// FeatureNames lists the audio feature columns in vector order. The order is
// shared with the feature scaler so persisted matrices stay interpretable.
var FeatureNames = []string{
	"danceability", "energy", "key", "loudness", "mode",
	"speechiness", "acousticness", "instrumentalness",
	"liveness", "valence", "tempo",
}

// Vector returns the features as a slice in FeatureNames order.
func (f AudioFeatures) Vector() []float64 {
	return []float64{
		f.Danceability, f.Energy, f.Key, f.Loudness, f.Mode,
		f.Speechiness, f.Acousticness, f.Instrumentalness,
		f.Liveness, f.Valence, f.Tempo,
	}
}

// Track is a single catalog row. Tracks are value types; the catalog hands
// out copies and slices that must be treated as read-only.
type Track struct {
	// ID is the unique, stable track identifier.
	ID string `json:"track_id"`

	// Name is the display name of the track.
	Name string `json:"track_name"`

	// Artists may contain multiple artist names separated by semicolons.
	Artists string `json:"artists"`

	// Album is the album name.
	Album string `json:"album_name"`

	// Popularity is a 0-100 popularity metric (not strictly enforced).
	Popularity float64 `json:"popularity"`

	// Genre is the track genre label.
	Genre string `json:"track_genre"`

	// Mood is the mood label (open set, matched case-insensitively).
	Mood string `json:"mood"`

	// Features is the audio feature vector, internal to scoring.
	Features AudioFeatures `json:"-"`
}

// Catalog is the immutable track table plus a mood index.
type Catalog struct {
	tracks []Track
	byMood map[string][]Track
	moods  []string
	source string
}

// New builds a catalog from the given tracks. The mood index keys are
// lowercased so ByMood lookups are case-insensitive.
func New(tracks []Track, source string) *Catalog {
	byMood := make(map[string][]Track)
	for _, t := range tracks {
		key := strings.ToLower(t.Mood)
		byMood[key] = append(byMood[key], t)
	}

	moods := make([]string, 0, len(byMood))
	for m := range byMood {
		moods = append(moods, m)
	}

	return &Catalog{
		tracks: tracks,
		byMood: byMood,
		moods:  moods,
		source: source,
	}
}

// Len returns the number of tracks in the catalog.
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Source returns the dataset path the catalog was loaded from.
func (c *Catalog) Source() string {
	return c.source
}

// Tracks returns the full track table. Callers must not mutate the
// returned slice.
func (c *Catalog) Tracks() []Track {
	return c.tracks
}

// ByMood returns all tracks whose mood label equals the given mood,
// case-insensitively. Callers must not mutate the returned slice.
func (c *Catalog) ByMood(mood string) []Track {
	return c.byMood[strings.ToLower(mood)]
}

// Moods returns the distinct (lowercased) mood labels present in the catalog.
func (c *Catalog) Moods() []string {
	return c.moods
}
