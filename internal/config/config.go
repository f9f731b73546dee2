// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package config holds the environment-driven configuration of the
// sealpost server process.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Server holds the configuration parameters for the daemon.
type Server struct {
	Port  string `envconfig:"PORT" default:"8000"`
	Debug bool   `envconfig:"SEALPOST_DEBUG" default:"false"`

	// Secret lifecycle knobs
	DefaultTTLSeconds    int   `envconfig:"SEALPOST_DEFAULT_TTL_SECONDS" default:"3600"`
	SweepIntervalSeconds int   `envconfig:"SEALPOST_SWEEP_INTERVAL_SECONDS" default:"60"`
	MaxSecretBytes       int64 `envconfig:"SEALPOST_MAX_SECRET_BYTES" default:"1048576"`

	// Audit sink configuration. Embedded so the POSTGRES_* variables keep
	// their unprefixed names.
	Audit
}

// Audit configures the audit log sink. When Postgres is disabled, events
// go to the structured log instead.
type Audit struct {
	PostgresEnabled bool   `envconfig:"SEALPOST_AUDIT_POSTGRES" default:"false"`
	User            string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password        string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	Database        string `envconfig:"POSTGRES_DB" default:"secrets_db"`
	Host            string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort    int    `envconfig:"POSTGRES_PORT" default:"5432"`
}

// DSN builds the connection string for the audit database.
func (a Audit) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		a.User, a.Password, a.Host, a.PostgresPort, a.Database)
}

// Load reads the server configuration from the environment.
func Load() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	return &cfg, nil
}
