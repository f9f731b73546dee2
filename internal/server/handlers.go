// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carabiner-dev/sealpost/internal/store"
)

// createSecretRequest is the body of POST /secret.
type createSecretRequest struct {
	Secret     string `json:"secret" binding:"required"`
	Passphrase string `json:"passphrase"`
	TTLSeconds int    `json:"ttl_seconds"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createSecret handles POST /secret. Returns the one-time retrieval key.
func (s *Server) createSecret(c *gin.Context) {
	var req createSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	if int64(len(req.Secret)) > s.cfg.MaxSecretBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"detail": fmt.Sprintf("Secret exceeds maximum size of %d bytes", s.cfg.MaxSecretBytes),
		})
		return
	}

	if req.TTLSeconds < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "ttl_seconds must be positive"})
		return
	}

	key, err := s.store.Create(c.Request.Context(), []byte(req.Secret),
		req.Passphrase, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to store secret"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"secret_key": key})
}

// getSecret handles GET /secret/:key. The secret is destroyed by this call
// whether it is delivered or already expired.
func (s *Server) getSecret(c *gin.Context) {
	plaintext, err := s.store.Fetch(c.Request.Context(), c.Param("key"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Secret not found or already retrieved"})
	case errors.Is(err, store.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"detail": "Secret expired"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve secret"})
	default:
		c.JSON(http.StatusOK, gin.H{"secret": string(plaintext)})
	}
}

// deleteSecret handles DELETE /secret/:key with an optional passphrase
// query parameter.
func (s *Server) deleteSecret(c *gin.Context) {
	err := s.store.Delete(c.Request.Context(), c.Param("key"), c.Query("passphrase"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Secret not found or already retrieved"})
	case errors.Is(err, store.ErrPassphraseMismatch):
		c.JSON(http.StatusForbidden, gin.H{"detail": "Incorrect passphrase"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete secret"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "secret_deleted"})
	}
}
