// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/soundriftlabs/soundrift/internal/catalog"
)

// Final score combiner weights. The mood component dominates, popularity
// nudges well-known tracks up, and the jitter term diversifies repeated
// calls for the same session.
const (
	moodWeight       = 0.65
	popularityWeight = 0.25
	jitterWeight     = 0.10
)

// moodFormula computes the composite mood score for one feature vector.
// Every formula's coefficients sum to 1.0.
type moodFormula func(f catalog.AudioFeatures) float64

// moodFormulas holds the fixed scoring policy per supported mood label.
// Weights are policy, not derived; changing them changes product behavior.
var moodFormulas = map[string]moodFormula{
	// Happy: high valence, moderate-high energy, high danceability.
	"happy": func(f catalog.AudioFeatures) float64 {
		return f.Valence*0.5 + f.Energy*0.3 + f.Danceability*0.2
	},
	// Sad: low valence, low energy, high acousticness.
	"sad": func(f catalog.AudioFeatures) float64 {
		return (1-f.Valence)*0.5 + (1-f.Energy)*0.3 + f.Acousticness*0.2
	},
	// Energetic: high energy, high tempo, high danceability.
	// Tempo is normalized against 200 BPM.
	"energetic": func(f catalog.AudioFeatures) float64 {
		return f.Energy*0.5 + f.Tempo/200*0.3 + f.Danceability*0.2
	},
	// Relaxed: low energy, high acousticness, valence near the middle.
	"relaxed": func(f catalog.AudioFeatures) float64 {
		return (1-f.Energy)*0.4 + f.Acousticness*0.4 + (1-math.Abs(f.Valence-0.5))*0.2
	},
}

// SupportedMood reports whether the mood label has a scoring formula.
// Matching is case-insensitive.
func SupportedMood(mood string) bool {
	_, ok := moodFormulas[strings.ToLower(mood)]
	return ok
}

// MoodScore computes the deterministic composite mood score for a single
// track. It returns ErrUnsupportedMood for labels outside the known set.
func MoodScore(f catalog.AudioFeatures, mood string) (float64, error) {
	formula, ok := moodFormulas[strings.ToLower(mood)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMood, mood)
	}
	return formula(f), nil
}

// scoredTrack pairs a track with its scores for sorting.
type scoredTrack struct {
	track catalog.Track

	// moodScore is the deterministic feature composite.
	moodScore float64

	// finalScore adds popularity and jitter; it is what ordering uses.
	finalScore float64
}

// scoreTracks scores a candidate pool for a mood. The jitter draw is
// independent per track per call.
func (e *Engine) scoreTracks(pool []catalog.Track, mood string) ([]scoredTrack, error) {
	formula, ok := moodFormulas[strings.ToLower(mood)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMood, mood)
	}

	scored := make([]scoredTrack, len(pool))
	for i, t := range pool {
		ms := formula(t.Features)
		scored[i] = scoredTrack{
			track:      t,
			moodScore:  ms,
			finalScore: ms*moodWeight + t.Popularity/100*popularityWeight + e.jitter()*jitterWeight,
		}
	}
	return scored, nil
}
