// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package sealpost

import (
	"context"
	"fmt"
	"net/http"

	"github.com/carabiner-dev/sealpost/options"
)

// Store sends a secret to the server and returns the one-time retrieval
// key. Options control the TTL and the optional deletion passphrase.
func (c *Client) Store(ctx context.Context, secret string, optFns ...options.StoreOptsFn) (string, error) {
	opts := &options.Store{}
	for _, fn := range optFns {
		if err := fn(opts); err != nil {
			return "", err
		}
	}

	body := map[string]any{"secret": secret}
	if opts.Passphrase != "" {
		body["passphrase"] = opts.Passphrase
	}
	if opts.TtlSeconds > 0 {
		body["ttl_seconds"] = opts.TtlSeconds
	}

	resp, err := c.do(ctx, http.MethodPost, "/secret", body)
	if err != nil {
		return "", fmt.Errorf("failed to store secret: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var out struct {
		SecretKey string `json:"secret_key"`
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}

	return out.SecretKey, nil
}
