// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package sealpost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carabiner-dev/sealpost/options"
)

// fakeServer mimics the server API closely enough to exercise the client's
// request shapes and error mapping.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	secrets := map[string]string{}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /secret", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Secret string `json:"secret"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Secret == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		secrets["test-key"] = req.Secret
		json.NewEncoder(w).Encode(map[string]string{"secret_key": "test-key"}) //nolint:errcheck
	})

	mux.HandleFunc("GET /secret/{key}", func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		if key == "expired-key" {
			w.WriteHeader(http.StatusGone)
			return
		}
		secret, ok := secrets[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(secrets, key)
		json.NewEncoder(w).Encode(map[string]string{"secret": secret}) //nolint:errcheck
	})

	mux.HandleFunc("DELETE /secret/{key}", func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		if _, ok := secrets[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("passphrase") == "wrong" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		delete(secrets, key)
		json.NewEncoder(w).Encode(map[string]string{"status": "secret_deleted"}) //nolint:errcheck
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := fakeServer(t)
	return NewClient(&options.Client{
		ServerURL: srv.URL,
		Timeout:   5 * time.Second,
	})
}

func TestClientPing(t *testing.T) {
	client := newTestClient(t)

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestClientStoreGetRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	key, err := client.Store(ctx, "my-secret-value",
		options.WithTTL(300), options.WithPassphrase("p1"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if key == "" {
		t.Fatal("expected non-empty key")
	}

	secret, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if secret != "my-secret-value" {
		t.Errorf("expected my-secret-value, got %s", secret)
	}

	// Consumed
	if _, err := client.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second get, got %v", err)
	}
}

func TestClientGetExpired(t *testing.T) {
	client := newTestClient(t)

	if _, err := client.Get(context.Background(), "expired-key"); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestClientDeletePassphraseMismatch(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	key, err := client.Store(ctx, "guarded")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if err := client.Delete(ctx, key, "wrong"); !errors.Is(err, ErrPassphraseMismatch) {
		t.Errorf("expected ErrPassphraseMismatch, got %v", err)
	}

	if err := client.Delete(ctx, key, "p1"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}

	if err := client.Delete(ctx, key, "p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestClientStoreRejectsNegativeTTL(t *testing.T) {
	client := newTestClient(t)

	if _, err := client.Store(context.Background(), "x", options.WithTTL(-5)); err == nil {
		t.Fatal("expected error for negative TTL")
	}
}
