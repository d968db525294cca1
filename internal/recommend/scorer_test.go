// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/soundriftlabs/soundrift/internal/catalog"
	"github.com/soundriftlabs/soundrift/internal/history"
)

const epsilon = 1e-9

func TestMoodScoreFormulas(t *testing.T) {
	features := catalog.AudioFeatures{
		Danceability: 0.8,
		Energy:       0.6,
		Acousticness: 0.3,
		Valence:      0.7,
		Tempo:        120,
	}

	tests := []struct {
		mood string
		want float64
	}{
		{"happy", 0.7*0.5 + 0.6*0.3 + 0.8*0.2},
		{"sad", (1-0.7)*0.5 + (1-0.6)*0.3 + 0.3*0.2},
		{"energetic", 0.6*0.5 + 120.0/200*0.3 + 0.8*0.2},
		{"relaxed", (1-0.6)*0.4 + 0.3*0.4 + (1-math.Abs(0.7-0.5))*0.2},
	}

	for _, tt := range tests {
		t.Run(tt.mood, func(t *testing.T) {
			got, err := MoodScore(features, tt.mood)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("MoodScore(%s) = %v, want %v", tt.mood, got, tt.want)
			}
		})
	}
}

func TestMoodScoreIsCaseInsensitive(t *testing.T) {
	features := catalog.AudioFeatures{Valence: 0.5, Energy: 0.5, Danceability: 0.5}

	lower, err := MoodScore(features, "happy")
	if err != nil {
		t.Fatal(err)
	}
	upper, err := MoodScore(features, "HAPPY")
	if err != nil {
		t.Fatal(err)
	}
	if lower != upper {
		t.Errorf("case-sensitive scoring: %v != %v", lower, upper)
	}
}

func TestMoodScoreCoefficientsSumToOne(t *testing.T) {
	// Each formula's best-case input scores exactly 1.0; the coefficients
	// of every variant sum to 1.
	tests := []struct {
		mood     string
		features catalog.AudioFeatures
	}{
		{"happy", catalog.AudioFeatures{Valence: 1, Energy: 1, Danceability: 1}},
		{"sad", catalog.AudioFeatures{Valence: 0, Energy: 0, Acousticness: 1}},
		{"energetic", catalog.AudioFeatures{Energy: 1, Tempo: 200, Danceability: 1}},
		{"relaxed", catalog.AudioFeatures{Energy: 0, Acousticness: 1, Valence: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.mood, func(t *testing.T) {
			got, err := MoodScore(tt.features, tt.mood)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-1.0) > epsilon {
				t.Errorf("best-case MoodScore(%s) = %v, want 1.0", tt.mood, got)
			}
		})
	}
}

func TestMoodScoreDeterministic(t *testing.T) {
	features := catalog.AudioFeatures{Valence: 0.42, Energy: 0.33, Danceability: 0.91}

	first, err := MoodScore(features, "happy")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := MoodScore(features, "happy")
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("MoodScore not deterministic: %v != %v", got, first)
		}
	}
}

func TestMoodScoreUnsupported(t *testing.T) {
	_, err := MoodScore(catalog.AudioFeatures{}, "angry")
	if !errors.Is(err, ErrUnsupportedMood) {
		t.Fatalf("expected ErrUnsupportedMood, got %v", err)
	}

	if SupportedMood("angry") {
		t.Error("angry should not be a supported mood")
	}
	if !SupportedMood("Relaxed") {
		t.Error("Relaxed should be supported case-insensitively")
	}
}

func TestScoreTracksJitterVariesFinalScoreOnly(t *testing.T) {
	e := NewEngine(
		catalog.New(nil, "test"),
		history.NewStore(),
		Options{Seed: 1},
		zerolog.Nop(),
	)

	pool := []catalog.Track{
		{ID: "a", Popularity: 50, Features: catalog.AudioFeatures{Valence: 0.5, Energy: 0.5, Danceability: 0.5}},
	}

	first, err := e.scoreTracks(pool, "happy")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.scoreTracks(pool, "happy")
	if err != nil {
		t.Fatal(err)
	}

	if first[0].moodScore != second[0].moodScore {
		t.Errorf("mood score must be deterministic: %v != %v", first[0].moodScore, second[0].moodScore)
	}
	if first[0].finalScore == second[0].finalScore {
		t.Errorf("final score should differ across calls (jitter), both %v", first[0].finalScore)
	}
}

func TestScoreTracksDoesNotMutateInputs(t *testing.T) {
	store := history.NewStore()
	tracks := []catalog.Track{
		{ID: "a", Popularity: 10, Features: catalog.AudioFeatures{Valence: 0.9}},
		{ID: "b", Popularity: 90, Features: catalog.AudioFeatures{Valence: 0.1}},
	}
	cat := catalog.New(tracks, "test")
	e := NewEngine(cat, store, Options{Seed: 7}, zerolog.Nop())

	if _, err := e.scoreTracks(cat.Tracks(), "happy"); err != nil {
		t.Fatal(err)
	}

	if cat.Tracks()[0].ID != "a" || cat.Tracks()[1].ID != "b" {
		t.Error("scoring reordered the catalog")
	}
	if store.Sessions() != 0 {
		t.Error("scoring must not touch the history store")
	}
}
