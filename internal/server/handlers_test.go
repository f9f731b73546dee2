// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carabiner-dev/sealpost/internal/audit"
	"github.com/carabiner-dev/sealpost/internal/config"
	"github.com/carabiner-dev/sealpost/internal/envelope"
	"github.com/carabiner-dev/sealpost/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	env, err := envelope.New()
	require.NoError(t, err)

	cfg := &config.Server{
		Port:                 "0",
		DefaultTTLSeconds:    3600,
		SweepIntervalSeconds: 60,
		MaxSecretBytes:       1024,
	}

	return New(cfg, store.New(env, audit.NoopRecorder{}))
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func createSecret(t *testing.T, s *Server, body map[string]any) string {
	t.Helper()

	w := doJSON(t, s, http.MethodPost, "/secret", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SecretKey string `json:"secret_key"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SecretKey)
	return resp.SecretKey
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAndRetrieveSecret(t *testing.T) {
	s := newTestServer(t)

	key := createSecret(t, s, map[string]any{"secret": "hello", "ttl_seconds": 5})

	w := doJSON(t, s, http.MethodGet, "/secret/"+key, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Secret string `json:"secret"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "hello", resp.Secret)

	// One delivery only
	w = doJSON(t, s, http.MethodGet, "/secret/"+key, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRejectsMissingSecret(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/secret", map[string]any{"ttl_seconds": 5})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRejectsOversizedSecret(t *testing.T) {
	s := newTestServer(t)

	big := make([]byte, 2048)
	for i := range big {
		big[i] = 'a'
	}
	w := doJSON(t, s, http.MethodPost, "/secret", map[string]any{"secret": string(big)})
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestGetUnknownKey(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/secret/no-such-key", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteWithPassphraseGate(t *testing.T) {
	s := newTestServer(t)

	key := createSecret(t, s, map[string]any{
		"secret":      "x",
		"passphrase":  "p1",
		"ttl_seconds": 100,
	})

	w := doJSON(t, s, http.MethodDelete, "/secret/"+key+"?passphrase=wrong", nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, s, http.MethodDelete, "/secret/"+key+"?passphrase=p1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "secret_deleted", resp.Status)

	w = doJSON(t, s, http.MethodGet, "/secret/"+key, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUnknownKey(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodDelete, "/secret/no-such-key", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestResponsesAreNeverCacheable(t *testing.T) {
	s := newTestServer(t)

	key := createSecret(t, s, map[string]any{"secret": "v"})
	w := doJSON(t, s, http.MethodGet, "/secret/"+key, nil)

	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	require.Equal(t, "no-cache", w.Header().Get("Pragma"))
	require.Equal(t, "0", w.Header().Get("Expires"))
}
