// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package sealpost

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Delete destroys a secret without retrieving it. If the secret was stored
// with a passphrase the same passphrase must be supplied here.
func (c *Client) Delete(ctx context.Context, key, passphrase string) error {
	path := "/secret/" + key
	if passphrase != "" {
		path += "?passphrase=" + url.QueryEscape(passphrase)
	}

	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return fmt.Errorf("deleting secret: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	return nil
}
