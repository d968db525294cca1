// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

// requiredColumns are the CSV columns the loader refuses to run without.
var requiredColumns = []string{
	"track_id", "track_name", "artists", "album_name",
	"popularity", "track_genre", "mood",
	"danceability", "energy", "key", "loudness", "mode",
	"speechiness", "acousticness", "instrumentalness",
	"liveness", "valence", "tempo",
}

// Load tries each candidate path in order and builds a catalog from the
// first CSV that parses. It returns ErrUnavailable when none of the paths
// can be read.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Load(paths []string, logger zerolog.Logger) (*Catalog, error) {
	logger = logger.With().Str("component", "catalog").Logger()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			logger.Debug().Str("path", path).Err(err).Msg("dataset not readable, trying next")
			continue
		}

		cat, err := parse(f, path, logger)
		f.Close()
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("dataset failed to parse, trying next")
			continue
		}

		logger.Info().
			Str("path", path).
			Int("tracks", cat.Len()).
			Strs("moods", cat.Moods()).
			Msg("catalog loaded")
		return cat, nil
	}

	return nil, ErrUnavailable
}

// parse reads one CSV dataset into a Catalog. Rows with unparsable numeric
// fields are skipped and counted rather than failing the whole load.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func parse(r io.Reader, source string, logger zerolog.Logger) (*Catalog, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var tracks []Track
	skipped := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		track, err := parseRow(record, cols)
		if err != nil {
			skipped++
			continue
		}
		tracks = append(tracks, track)
	}

	if skipped > 0 {
		logger.Warn().Int("skipped", skipped).Str("path", source).Msg("skipped malformed rows")
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("dataset %s contains no usable rows", source)
	}

	return New(tracks, source), nil
}

func parseRow(record []string, cols map[string]int) (Track, error) {
	field := func(name string) string { return record[cols[name]] }

	numeric := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", name, err)
		}
		return v, nil
	}

	popularity, err := numeric("popularity")
	if err != nil {
		return Track{}, err
	}

	var features AudioFeatures
	targets := map[string]*float64{
		"danceability":     &features.Danceability,
		"energy":           &features.Energy,
		"key":              &features.Key,
		"loudness":         &features.Loudness,
		"mode":             &features.Mode,
		"speechiness":      &features.Speechiness,
		"acousticness":     &features.Acousticness,
		"instrumentalness": &features.Instrumentalness,
		"liveness":         &features.Liveness,
		"valence":          &features.Valence,
		"tempo":            &features.Tempo,
	}
	for name, dst := range targets {
		v, err := numeric(name)
		if err != nil {
			return Track{}, err
		}
		*dst = v
	}

	return Track{
		ID:         field("track_id"),
		Name:       field("track_name"),
		Artists:    field("artists"),
		Album:      field("album_name"),
		Popularity: popularity,
		Genre:      field("track_genre"),
		Mood:       field("mood"),
		Features:   features,
	}, nil
}
