// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package sealpost

import (
	"context"
	"fmt"
	"net/http"
)

// Get retrieves a secret by its key. This is the one delivery: the server
// destroys the secret as part of answering, so a second Get with the same
// key fails with ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/secret/"+key, nil)
	if err != nil {
		return "", fmt.Errorf("getting secret: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var out struct {
		Secret string `json:"secret"`
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}

	return out.Secret, nil
}
