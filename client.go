// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package sealpost is the client library for the sealpost one-time secret
// server. A stored secret yields a retrieval key; whoever presents that
// key first gets the secret, and nobody ever gets it again.
package sealpost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/carabiner-dev/sealpost/options"
)

var (
	// ErrNotFound means the key never existed or its secret was already
	// retrieved, deleted or expired away. The server does not say which.
	ErrNotFound = errors.New("secret not found or already retrieved")

	// ErrExpired means the secret outlived its TTL. The fetch attempt
	// consumed it, retrying will return ErrNotFound.
	ErrExpired = errors.New("secret expired")

	// ErrPassphraseMismatch means the delete was rejected by the
	// passphrase gate. The secret is still stored.
	ErrPassphraseMismatch = errors.New("incorrect passphrase")
)

// Client is the sealpost client.
type Client struct {
	options *options.Client
	http    *http.Client
}

// NewClient creates a new client instance
func NewClient(opts *options.Client) *Client {
	return &Client{
		options: opts,
		http:    &http.Client{Timeout: opts.Timeout},
	}
}

// Ping checks if the server is alive
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return fmt.Errorf("pinging server: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server not alive (status %d)", resp.StatusCode)
	}

	return nil
}

// do issues one request against the server API.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.options.ServerURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// decode reads a JSON response body into out.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close() //nolint:errcheck
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// apiError turns a non-2xx response into the matching sentinel error.
func apiError(resp *http.Response) error {
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusGone:
		return ErrExpired
	case http.StatusForbidden:
		return ErrPassphraseMismatch
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Detail != "" {
		return fmt.Errorf("server error: %s", detail.Detail)
	}

	return fmt.Errorf("server error: status %d", resp.StatusCode)
}
