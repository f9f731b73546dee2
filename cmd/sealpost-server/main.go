// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point of the sealpost dæmon. It wires the
// audit sink, the secret store and the HTTP server together from the
// environment and runs until signaled.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/carabiner-dev/sealpost/internal/audit"
	"github.com/carabiner-dev/sealpost/internal/config"
	"github.com/carabiner-dev/sealpost/internal/envelope"
	"github.com/carabiner-dev/sealpost/internal/server"
	"github.com/carabiner-dev/sealpost/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = clog.WithLogger(ctx, logger)

	// Pick the audit sink. Either way it runs behind the async dispatcher
	// so a slow sink never stalls a secret operation.
	var sink audit.Recorder = audit.LogRecorder{}
	if cfg.Audit.PostgresEnabled {
		pg, err := audit.NewPostgresRecorder(ctx, cfg.Audit.DSN())
		if err != nil {
			return fmt.Errorf("connecting audit sink: %w", err)
		}
		sink = pg
	}
	recorder := audit.NewDispatcher(sink)
	defer recorder.Close()

	env, err := envelope.New()
	if err != nil {
		return fmt.Errorf("initializing envelope: %w", err)
	}

	st := store.New(env, recorder,
		store.WithDefaultTTL(time.Duration(cfg.DefaultTTLSeconds)*time.Second),
	)

	logger.Infof("starting sealpost server")

	return server.New(cfg, st).Run(ctx)
}
