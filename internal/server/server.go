// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the secret store over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/carabiner-dev/sealpost/internal/config"
	"github.com/carabiner-dev/sealpost/internal/store"
)

const shutdownGrace = 10 * time.Second

// Server routes HTTP requests to the secret store and owns the expiry
// sweeper's lifetime.
type Server struct {
	router  *gin.Engine
	store   *store.Store
	sweeper *store.Sweeper
	cfg     *config.Server
}

// New assembles the router around st. The sweeper is created here but only
// runs while Run does.
func New(cfg *config.Server, st *store.Store) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.New(),
		store:   st,
		sweeper: store.NewSweeper(st, time.Duration(cfg.SweepIntervalSeconds)*time.Second),
		cfg:     cfg,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())
	s.router.Use(noStoreCache())
	s.router.Use(callerAddr())

	s.router.GET("/health", s.health)
	s.router.POST("/secret", s.createSecret)
	s.router.GET("/secret/:key", s.getSecret)
	s.router.DELETE("/secret/:key", s.deleteSecret)

	return s
}

// Run serves until ctx is canceled, then shuts down gracefully. The expiry
// sweeper runs for exactly as long as the server does.
func (s *Server) Run(ctx context.Context) error {
	go s.sweeper.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	clog.FromContext(ctx).Infof("listening on %s", srv.Addr)

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	// Secrets are volatile by design, nothing to flush.
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
