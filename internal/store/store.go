// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package store implements the ephemeral one-time secret store. A record
// is addressable by an unguessable key, survives at most until its TTL
// runs out, and is destroyed by whichever of retrieval, deletion or the
// expiry sweep reaches it first. Destroyed means gone: the map entry is
// removed, never tombstoned, and the key is never reused.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"

	"github.com/carabiner-dev/sealpost/internal/audit"
	"github.com/carabiner-dev/sealpost/internal/envelope"
)

// DefaultTTL applies when a secret is created without an explicit TTL.
const DefaultTTL = 3600 * time.Second

var (
	// ErrNotFound covers every way a key can be unknown: never issued,
	// already retrieved, already deleted, or swept. Callers cannot tell
	// these apart.
	ErrNotFound = errors.New("secret not found or already retrieved")

	// ErrExpired means the key was known but its deadline had passed when
	// the fetch arrived. The record is consumed regardless.
	ErrExpired = errors.New("secret expired")

	// ErrPassphraseMismatch means the record is passphrase-protected and
	// the supplied value does not match. The record survives.
	ErrPassphraseMismatch = errors.New("incorrect passphrase")
)

// record is one stored secret. Records are immutable once created; every
// state change is a removal from the map.
type record struct {
	ciphertext       []byte
	passphraseDigest []byte // nil = no passphrase required
	expiresAt        time.Time
}

// Store is a concurrent map of one-time secrets. All access to records
// goes through its methods; nothing else ever holds a record reference
// beyond the scope of a single call.
type Store struct {
	mu      sync.RWMutex
	records map[string]*record

	envelope *envelope.Envelope
	recorder audit.Recorder

	now        func() time.Time
	defaultTTL time.Duration
}

// Option adjusts a Store at construction time.
type Option func(*Store)

// WithClock replaces the time source. Used by tests to drive expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDefaultTTL replaces the TTL applied when Create receives none.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) { s.defaultTTL = ttl }
}

// New creates a store that seals payloads with env and reports lifecycle
// events to rec. Pass audit.NoopRecorder{} to disable auditing.
func New(env *envelope.Envelope, rec audit.Recorder, opts ...Option) *Store {
	s := &Store{
		records:    map[string]*record{},
		envelope:   env,
		recorder:   rec,
		now:        time.Now,
		defaultTTL: DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create encrypts plaintext and stores it under a fresh random key, which
// it returns. A non-positive ttl falls back to the store default. An empty
// passphrase means retrieval-only protection does not apply to deletion.
func (s *Store) Create(ctx context.Context, plaintext []byte, passphrase string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	ciphertext, err := s.envelope.Seal(plaintext)
	if err != nil {
		return "", fmt.Errorf("sealing secret: %w", err)
	}

	var digest []byte
	if passphrase != "" {
		digest, err = hashPassphrase(passphrase)
		if err != nil {
			return "", fmt.Errorf("hashing passphrase: %w", err)
		}
	}

	rec := &record{
		ciphertext:       ciphertext,
		passphraseDigest: digest,
		expiresAt:        s.now().Add(ttl),
	}

	s.mu.Lock()
	key := uuid.NewString()
	// 122 bits of randomness make a collision with a live record all but
	// impossible, but retrying is cheap and keeps key uniqueness a hard
	// guarantee rather than a probabilistic one.
	for {
		if _, taken := s.records[key]; !taken {
			break
		}
		key = uuid.NewString()
	}
	s.records[key] = rec
	s.mu.Unlock()

	clog.FromContext(ctx).Debugf("stored secret, ttl %v", ttl)
	s.recorder.Record(ctx, audit.ActionCreated, key)

	return key, nil
}

// Fetch removes the record for key and returns its plaintext. The removal
// happens before the expiry verdict: a fetch of an expired secret consumes
// it and fails with ErrExpired, so no retry can resurrect a stale entry.
// An unknown key fails with ErrNotFound.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	rec, ok := s.records[key]
	if ok {
		delete(s.records, key)
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}

	if s.now().After(rec.expiresAt) {
		clog.FromContext(ctx).Debugf("consumed expired secret on fetch")
		return nil, ErrExpired
	}

	plaintext, err := s.envelope.Open(rec.ciphertext)
	if err != nil {
		// The record is already gone; an unopenable ciphertext means
		// internal corruption, not a caller mistake.
		clog.FromContext(ctx).Errorf("stored ciphertext failed authentication: %v", err)
		return nil, fmt.Errorf("opening secret: %w", err)
	}

	s.recorder.Record(ctx, audit.ActionRetrieved, key)

	return plaintext, nil
}

// Delete removes the record for key without returning its contents. When
// the record carries a passphrase digest the supplied passphrase is checked
// first; on mismatch the record stays in place. Fetch deliberately skips
// this gate, the passphrase protects deletion only.
func (s *Store) Delete(ctx context.Context, key, passphrase string) error {
	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}

	// Records are immutable and keys are never reused, so the digest can
	// be checked outside the lock: if the entry is still present below it
	// is the same record.
	if !gateAllows(rec.passphraseDigest, passphrase) {
		return ErrPassphraseMismatch
	}

	s.mu.Lock()
	_, ok = s.records[key]
	if ok {
		delete(s.records, key)
	}
	s.mu.Unlock()

	if !ok {
		// Lost the race to a concurrent fetch, delete or sweep.
		return ErrNotFound
	}

	s.recorder.Record(ctx, audit.ActionDeleted, key)

	return nil
}

// Sweep removes every record whose deadline is before now and returns how
// many it removed. Candidates are collected under a read lock and removed
// one by one, so no lock spans the scan and each removal races fairly with
// concurrent Fetch and Delete calls.
func (s *Store) Sweep(now time.Time) int {
	s.mu.RLock()
	var expired []string
	for key, rec := range s.records {
		if rec.expiresAt.Before(now) {
			expired = append(expired, key)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, key := range expired {
		s.mu.Lock()
		if rec, ok := s.records[key]; ok && rec.expiresAt.Before(now) {
			delete(s.records, key)
			removed++
		}
		s.mu.Unlock()
	}

	return removed
}

// Len reports the number of live records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
