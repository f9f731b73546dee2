// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package options

import (
	"fmt"
	"time"
)

// Client options set
type Client struct {
	// ServerURL is the base URL of the sealpost server.
	ServerURL string

	// Timeout bounds every request the client makes.
	Timeout time.Duration

	Debug bool
}

// DefaultClient default client options
var DefaultClient = &Client{
	ServerURL: "http://localhost:8000",
	Timeout:   5 * time.Second,
	Debug:     false,
}

// Store holds the per-call options of a store operation.
type Store struct {
	TtlSeconds int
	Passphrase string
}

// StoreOptsFn configures a single store call.
type StoreOptsFn func(*Store) error

// WithTTL sets the secret's time to live in seconds. Zero means the
// server default applies.
func WithTTL(seconds int) StoreOptsFn {
	return func(o *Store) error {
		if seconds < 0 {
			return fmt.Errorf("ttl cannot be negative")
		}
		o.TtlSeconds = seconds
		return nil
	}
}

// WithPassphrase protects the secret's deletion with a passphrase.
func WithPassphrase(passphrase string) StoreOptsFn {
	return func(o *Store) error {
		o.Passphrase = passphrase
		return nil
	}
}
