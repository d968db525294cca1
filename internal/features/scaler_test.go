// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package features

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundriftlabs/soundrift/internal/catalog"
)

func TestFitComputesMeanAndStd(t *testing.T) {
	matrix := [][]float64{
		{1, 10},
		{3, 10},
		{5, 10},
	}

	s, err := Fit(matrix, []string{"a", "b"})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, s.Mean[0], 1e-9)
	assert.InDelta(t, 10.0, s.Mean[1], 1e-9)
	// Population std of {1,3,5} is sqrt(8/3).
	assert.InDelta(t, math.Sqrt(8.0/3.0), s.Std[0], 1e-9)
	// Zero-variance column falls back to std 1.
	assert.Equal(t, 1.0, s.Std[1])
}

func TestFitRejectsBadInput(t *testing.T) {
	_, err := Fit(nil, []string{"a"})
	require.ErrorIs(t, err, ErrEmptyMatrix)

	_, err = Fit([][]float64{{1, 2}, {1}}, []string{"a", "b"})
	require.Error(t, err)
}

func TestTransformStandardizes(t *testing.T) {
	matrix := [][]float64{
		{0, 5},
		{10, 5},
	}
	s, err := Fit(matrix, []string{"a", "b"})
	require.NoError(t, err)

	scaled, err := s.TransformMatrix(matrix)
	require.NoError(t, err)

	// Column a: mean 5, std 5 -> {-1, 1}. Column b: zero variance -> 0.
	assert.InDelta(t, -1.0, scaled[0][0], 1e-9)
	assert.InDelta(t, 1.0, scaled[1][0], 1e-9)
	assert.Zero(t, scaled[0][1])
	assert.Zero(t, scaled[1][1])

	_, err = s.Transform([]float64{1})
	require.Error(t, err, "width mismatch must be rejected")
}

func TestPrecomputePersistsArtifacts(t *testing.T) {
	tracks := []catalog.Track{
		{ID: "a", Features: catalog.AudioFeatures{Danceability: 0.2, Energy: 0.8, Tempo: 100}},
		{ID: "b", Features: catalog.AudioFeatures{Danceability: 0.6, Energy: 0.4, Tempo: 140}},
	}
	cat := catalog.New(tracks, "test")

	store, err := OpenArtifacts("")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, Precompute(cat, store, zerolog.Nop()))

	var scaler Scaler
	require.NoError(t, store.GetJSON(ScalerKey, &scaler))
	assert.Equal(t, catalog.FeatureNames, scaler.Columns)
	assert.Len(t, scaler.Mean, len(catalog.FeatureNames))

	var matrix [][]float64
	require.NoError(t, store.GetJSON(MatrixKey, &matrix))
	require.Len(t, matrix, 2)
	assert.Len(t, matrix[0], len(catalog.FeatureNames))
}

func TestGetJSONMissingKey(t *testing.T) {
	store, err := OpenArtifacts("")
	require.NoError(t, err)
	defer store.Close()

	var out Scaler
	err = store.GetJSON("features:absent", &out)
	require.ErrorIs(t, err, ErrArtifactNotFound)
}
