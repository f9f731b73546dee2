// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"github.com/gin-gonic/gin"

	"github.com/carabiner-dev/sealpost/internal/audit"
)

// noStoreCache forbids clients and intermediaries from caching responses.
// Secret payloads must never survive in a cache after the one delivery.
func noStoreCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}

// callerAddr stashes the client address in the request context so the
// audit sink can attribute events.
func callerAddr() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := audit.WithCallerAddr(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
