// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"time"

	"github.com/chainguard-dev/clog"
)

// DefaultSweepInterval is how often the sweeper purges expired records
// when no interval is configured.
const DefaultSweepInterval = time.Minute

// Sweeper periodically purges expired records. It is a memory backstop,
// not an enforcement path: Fetch checks expiry itself, so an expired
// secret is never delivered even between sweeps. The sweeper only bounds
// growth from secrets nobody ever fetched.
type Sweeper struct {
	store    *Store
	interval time.Duration
}

// NewSweeper creates a sweeper for s. A non-positive interval falls back
// to DefaultSweepInterval.
func NewSweeper(s *Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{store: s, interval: interval}
}

// Run sweeps on the configured interval until ctx is canceled. Store state
// is volatile by design, so stopping needs no drain or flush.
func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log := clog.FromContext(ctx)
	for {
		select {
		case <-ticker.C:
			if removed := w.store.Sweep(w.store.now()); removed > 0 {
				log.Debugf("swept %d expired secrets", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}
