// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	logsSchema = `
		CREATE TABLE IF NOT EXISTS logs (
			id SERIAL PRIMARY KEY,
			action TEXT,
			secret_key TEXT,
			ip TEXT,
			created_at TIMESTAMP DEFAULT now()
		);
	`
	insertTimeout = 5 * time.Second
)

// PostgresRecorder appends audit events to the logs table. Insert failures
// are logged and swallowed; an unreachable database must never affect
// secret operations.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder connects to the database at dsn and ensures the logs
// table exists.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating audit db pool: %w", err)
	}

	if _, err := pool.Exec(ctx, logsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing logs table: %w", err)
	}

	return &PostgresRecorder{pool: pool}, nil
}

// Record inserts one row into the logs table.
func (r *PostgresRecorder) Record(ctx context.Context, action Action, secretKey string) {
	ctx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		"INSERT INTO logs (action, secret_key, ip) VALUES ($1, $2, $3)",
		string(action), secretKey, CallerAddr(ctx),
	)
	if err != nil {
		clog.FromContext(ctx).Warnf("audit insert failed: %v", err)
	}
}

// Close releases the connection pool.
func (r *PostgresRecorder) Close() {
	r.pool.Close()
}
