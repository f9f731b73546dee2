// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSweeperPurgesExpired(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(t, WithClock(clock.Now))

	_, err := s.Create(context.Background(), []byte("y"), "", time.Second)
	require.NoError(t, err)
	clock.Advance(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewSweeper(s, 10*time.Millisecond)
	go w.Run(ctx)

	require.Eventually(t, func() bool {
		return s.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSweeperStopsOnCancel(t *testing.T) {
	s := newTestStore(t)
	w := NewSweeper(s, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}

func TestSweeperIntervalFallback(t *testing.T) {
	s := newTestStore(t)
	w := NewSweeper(s, 0)
	require.Equal(t, DefaultSweepInterval, w.interval)
}
