// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package recommend

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundriftlabs/soundrift/internal/catalog"
)

func searchCatalog() []catalog.Track {
	return []catalog.Track{
		{ID: "b1", Name: "Let It Be", Artists: "The Beatles", Album: "Let It Be", Popularity: 85, Genre: "rock", Mood: "sad"},
		{ID: "b2", Name: "Hey Jude", Artists: "The Beatles", Album: "Hey Jude", Popularity: 90, Genre: "rock", Mood: "happy"},
		{ID: "q1", Name: "Bohemian Rhapsody", Artists: "Queen", Album: "A Night at the Opera", Popularity: 95, Genre: "rock", Mood: "energetic"},
		{ID: "j1", Name: "Take Five", Artists: "Dave Brubeck", Album: "Time Out", Popularity: 60, Genre: "jazz", Mood: "relaxed"},
		{ID: "j2", Name: "So What", Artists: "Miles Davis", Album: "Kind of Blue", Popularity: 70, Genre: "jazz", Mood: "relaxed"},
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want SearchScope
	}{
		{"artist", ScopeArtist},
		{"Artist", ScopeArtist},
		{"genre", ScopeGenre},
		{"GENRE", ScopeGenre},
		{"all", ScopeAll},
		{"", ScopeAll},
		{"album", ScopeAll},
	}
	for _, tt := range tests {
		t.Run("in="+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScope(tt.in))
		})
	}
}

func TestCategoryKeys(t *testing.T) {
	assert.Equal(t, "mood_happy", MoodCategory("happy"))
	assert.Equal(t, "mood_HAPPY", MoodCategory("HAPPY"), "mood categories keep the raw label")
	assert.Equal(t, "search_love", SearchCategory(ScopeAll, "Love"))
	assert.Equal(t, "artist_queen", SearchCategory(ScopeArtist, "Queen"))
	assert.Equal(t, "genre_jazz", SearchCategory(ScopeGenre, "Jazz"))
}

func TestSearchMissingQuery(t *testing.T) {
	e, store := newTestEngine(t, searchCatalog(), Options{Seed: 1})

	_, err := e.Search(context.Background(), "", ScopeAll, 5, "s1")
	require.ErrorIs(t, err, ErrMissingQuery)
	assert.Zero(t, store.Sessions())
}

func TestSearchScopes(t *testing.T) {
	e, _ := newTestEngine(t, searchCatalog(), Options{Seed: 1})

	tests := []struct {
		name    string
		query   string
		scope   SearchScope
		wantIDs []string
	}{
		{"name match", "rhapsody", ScopeAll, []string{"q1"}},
		{"artist via all", "beatles", ScopeAll, []string{"b1", "b2"}},
		{"genre via all", "jazz", ScopeAll, []string{"j1", "j2"}},
		{"artist scope", "davis", ScopeArtist, []string{"j2"}},
		{"artist scope misses names", "rhapsody", ScopeArtist, nil},
		{"genre scope", "rock", ScopeGenre, []string{"b1", "b2", "q1"}},
		{"case insensitive", "QUEEN", ScopeArtist, []string{"q1"}},
		{"no matches", "polka", ScopeAll, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Fresh session per case so freshness state cannot leak between
			// subtests.
			recs, err := e.Search(context.Background(), tt.query, tt.scope, 10, "sess-"+tt.name)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.wantIDs, idsOf(recs))
		})
	}
}

func TestSearchFreshTierAvoidsRepeats(t *testing.T) {
	// Six matches against limit 2: calls one through three all find a fresh
	// pool of at least the limit, so no track repeats across them.
	tracks := make([]catalog.Track, 6)
	for i := range tracks {
		tracks[i] = catalog.Track{
			ID:         fmt.Sprintf("m%d", i),
			Name:       fmt.Sprintf("Moonlight %d", i),
			Artists:    "Various",
			Popularity: float64(50 + i),
			Genre:      "ambient",
		}
	}
	e, _ := newTestEngine(t, tracks, Options{Seed: 42})

	served := make(map[string]struct{})
	for call := 0; call < 3; call++ {
		recs, err := e.Search(context.Background(), "moonlight", ScopeAll, 2, "s1")
		require.NoError(t, err)
		require.Len(t, recs, 2)
		for _, r := range recs {
			_, dup := served[r.TrackID]
			assert.False(t, dup, "call %d repeated track %s", call, r.TrackID)
			served[r.TrackID] = struct{}{}
		}
	}
	assert.Len(t, served, 6)
}

func TestSearchStaleTierDeterministicOrder(t *testing.T) {
	// Once the fresh pool is thinner than the limit the full match set is
	// ranked by popularity descending, then name ascending, with no jitter.
	tracks := []catalog.Track{
		{ID: "a", Name: "Blue Bossa", Artists: "X", Popularity: 70, Genre: "jazz"},
		{ID: "b", Name: "Autumn Leaves", Artists: "Y", Popularity: 80, Genre: "jazz"},
		{ID: "c", Name: "Blue in Green", Artists: "Z", Popularity: 70, Genre: "jazz"},
	}
	e, _ := newTestEngine(t, tracks, Options{Seed: 42})

	// First call consumes the whole match set.
	first, err := e.Search(context.Background(), "jazz", ScopeGenre, 3, "s1")
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Popularity 80 first, then the two 70s in name order: "Blue Bossa"
	// sorts before "Blue in Green".
	second, err := e.Search(context.Background(), "jazz", ScopeGenre, 3, "s1")
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "c"}, idsOf(second))

	// The stale ranking is deterministic across calls.
	third, err := e.Search(context.Background(), "jazz", ScopeGenre, 3, "s1")
	require.NoError(t, err)
	assert.Equal(t, idsOf(second), idsOf(third))
}

func TestSearchScopeCategoriesIndependent(t *testing.T) {
	// The same query under different scopes tracks freshness separately.
	e, store := newTestEngine(t, searchCatalog(), Options{Seed: 7})

	_, err := e.Search(context.Background(), "beatles", ScopeAll, 2, "s1")
	require.NoError(t, err)

	assert.Len(t, seenIDs(store, "s1", SearchCategory(ScopeAll, "beatles")), 2)
	assert.Empty(t, seenIDs(store, "s1", SearchCategory(ScopeArtist, "beatles")))
}

func TestSearchQueryCaseSharesCategory(t *testing.T) {
	e, store := newTestEngine(t, searchCatalog(), Options{Seed: 7})

	_, err := e.Search(context.Background(), "Beatles", ScopeArtist, 2, "s1")
	require.NoError(t, err)
	_, err = e.Search(context.Background(), "BEATLES", ScopeArtist, 2, "s1")
	require.NoError(t, err)

	sess := store.Session("s1")
	sess.Lock()
	categories := 0
	for _, q := range []string{"beatles", "Beatles", "BEATLES"} {
		if sess.Seen("artist_"+q) != nil {
			categories++
		}
	}
	sess.Unlock()
	assert.Equal(t, 1, categories, "query casing must not split freshness state")
}

func TestSearchNoMatchesStillCommits(t *testing.T) {
	// A query with no matches returns an empty set but still touches the
	// session, mirroring the commit-always flow of the mood path.
	e, store := newTestEngine(t, searchCatalog(), Options{Seed: 7})

	recs, err := e.Search(context.Background(), "zamrock", ScopeAll, 5, "s1")
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, 1, store.Sessions())
}

func TestSearchContextCanceled(t *testing.T) {
	e, _ := newTestEngine(t, searchCatalog(), Options{Seed: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Search(ctx, "beatles", ScopeAll, 2, "s1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSearchTruncatesToLimit(t *testing.T) {
	e, _ := newTestEngine(t, searchCatalog(), Options{Seed: 1})

	recs, err := e.Search(context.Background(), "rock", ScopeGenre, 2, "s1")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}
