// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package supervisor

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingService runs until its context is canceled.
type blockingService struct {
	started chan struct{}
}

func (s *blockingService) Serve(ctx context.Context) error {
	select {
	case s.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return "blocking-service" }

func TestNewTreeAppliesDefaults(t *testing.T) {
	tree := NewTree(slog.Default(), TreeConfig{})

	defaults := DefaultTreeConfig()
	assert.Equal(t, defaults.FailureThreshold, tree.config.FailureThreshold)
	assert.Equal(t, defaults.FailureDecay, tree.config.FailureDecay)
	assert.Equal(t, defaults.FailureBackoff, tree.config.FailureBackoff)
	assert.Equal(t, defaults.ShutdownTimeout, tree.config.ShutdownTimeout)
}

func TestTreeRunsAndStopsServices(t *testing.T) {
	tree := NewTree(slog.Default(), TreeConfig{ShutdownTimeout: time.Second})

	apiSvc := &blockingService{started: make(chan struct{}, 1)}
	maintSvc := &blockingService{started: make(chan struct{}, 1)}
	tree.AddAPIService(apiSvc)
	tree.AddMaintenanceService(maintSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	select {
	case <-apiSvc.started:
	case <-time.After(2 * time.Second):
		t.Fatal("api service never started")
	}
	select {
	case <-maintSvc.started:
	case <-time.After(2 * time.Second):
		t.Fatal("maintenance service never started")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			require.ErrorIs(t, err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor tree did not stop")
	}

	unstopped, err := tree.UnstoppedServiceReport()
	require.NoError(t, err)
	assert.Empty(t, unstopped)
}
