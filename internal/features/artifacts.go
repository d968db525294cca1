// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package features

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Artifact keys. The fitted scaler and the standardized matrix are written
// side by side so either can be read back independently.
const (
	ScalerKey = "features:scaler"
	MatrixKey = "features:matrix"
)

// ErrArtifactNotFound indicates the requested artifact key has never been
// written.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore persists precomputed feature artifacts in BadgerDB. The
// artifacts survive restarts, so a catalog that has not changed does not
// need refitting by external tooling.
type ArtifactStore struct {
	db *badger.DB
}

// OpenArtifacts opens (or creates) the artifact database at dir. An empty
// dir opens an in-memory database, used by tests.
func OpenArtifacts(dir string) (*ArtifactStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Badger's own logging is too chatty for an artifact store
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	return &ArtifactStore{db: db}, nil
}

// Close releases the underlying database.
func (a *ArtifactStore) Close() error {
	return a.db.Close()
}

// PutJSON marshals v and stores it under key.
func (a *ArtifactStore) PutJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", key, err)
	}

	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// GetJSON loads the value under key into out. Returns ErrArtifactNotFound
// when the key has never been written.
func (a *ArtifactStore) GetJSON(key string, out any) error {
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrArtifactNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		if errors.Is(err, ErrArtifactNotFound) {
			return fmt.Errorf("%w: %s", ErrArtifactNotFound, key)
		}
		return fmt.Errorf("load artifact %s: %w", key, err)
	}
	return nil
}
