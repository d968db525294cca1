// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

// Package features standardizes the catalog's audio feature matrix and
// persists the fitted parameters so downstream tooling can reuse them.
package features

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyMatrix indicates a fit over zero rows.
var ErrEmptyMatrix = errors.New("cannot fit scaler on an empty matrix")

// Scaler standardizes feature columns to zero mean and unit variance.
// Parameters are exported so the fitted scaler round-trips through JSON.
type Scaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Std     []float64 `json:"std"`
}

// Fit computes per-column mean and population standard deviation over the
// matrix. Columns with zero variance get std 1 so transforming them yields
// zero instead of dividing by zero.
func Fit(matrix [][]float64, columns []string) (*Scaler, error) {
	if len(matrix) == 0 {
		return nil, ErrEmptyMatrix
	}
	width := len(columns)
	for i, row := range matrix {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), width)
		}
	}

	n := float64(len(matrix))
	mean := make([]float64, width)
	for _, row := range matrix {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	std := make([]float64, width)
	for _, row := range matrix {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			std[j] = 1
		}
	}

	return &Scaler{Columns: columns, Mean: mean, Std: std}, nil
}

// Transform standardizes a single feature vector.
func (s *Scaler) Transform(vec []float64) ([]float64, error) {
	if len(vec) != len(s.Mean) {
		return nil, fmt.Errorf("vector has %d columns, scaler fitted on %d", len(vec), len(s.Mean))
	}
	out := make([]float64, len(vec))
	for j, v := range vec {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// TransformMatrix standardizes every row of the matrix.
func (s *Scaler) TransformMatrix(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}
