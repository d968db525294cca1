// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package features

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/soundriftlabs/soundrift/internal/catalog"
)

// Precompute fits a scaler over the catalog's feature matrix, standardizes
// the matrix, and persists both artifacts. The recommendation path does not
// read them; they exist for offline analysis against the same catalog.
func Precompute(cat *catalog.Catalog, store *ArtifactStore, logger zerolog.Logger) error {
	tracks := cat.Tracks()
	matrix := make([][]float64, len(tracks))
	for i, t := range tracks {
		matrix[i] = t.Features.Vector()
	}

	scaler, err := Fit(matrix, catalog.FeatureNames)
	if err != nil {
		return fmt.Errorf("fit feature scaler: %w", err)
	}

	scaled, err := scaler.TransformMatrix(matrix)
	if err != nil {
		return fmt.Errorf("standardize feature matrix: %w", err)
	}

	if err := store.PutJSON(ScalerKey, scaler); err != nil {
		return err
	}
	if err := store.PutJSON(MatrixKey, scaled); err != nil {
		return err
	}

	logger.Info().
		Int("rows", len(scaled)).
		Int("columns", len(catalog.FeatureNames)).
		Msg("feature artifacts precomputed")
	return nil
}
