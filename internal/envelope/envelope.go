// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package envelope implements the authenticated encryption boundary of the
// secret store. Every payload is sealed with AES-256-GCM under a single key
// generated at process start. The key lives in a memguard enclave and is
// never persisted, so all ciphertext becomes unrecoverable when the process
// exits.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/awnumar/memguard"
)

const (
	aesKeySize   = 32 // AES-256
	gcmNonceSize = 12
)

// ErrDecrypt is returned when a ciphertext fails authentication. It means
// the stored bytes were tampered with, truncated, or sealed under a
// different key. None of those happen in normal operation.
var ErrDecrypt = errors.New("ciphertext authentication failed")

// Envelope seals and opens secret payloads with a process-lifetime key.
type Envelope struct {
	key *memguard.Enclave
}

// New generates a fresh random key and returns an envelope bound to it.
func New() (*Envelope, error) {
	key := make([]byte, aesKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generating envelope key: %w", err)
	}

	// NewEnclave wipes the key slice after sealing it
	return &Envelope{key: memguard.NewEnclave(key)}, nil
}

// Seal encrypts plaintext and returns nonce||ciphertext+tag.
func (e *Envelope) Seal(plaintext []byte) ([]byte, error) {
	gcm, buf, err := e.cipher()
	if err != nil {
		return nil, err
	}
	defer buf.Destroy()

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a sealed payload. A payload that does not authenticate
// fails with ErrDecrypt, never with garbage output.
func (e *Envelope) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < gcmNonceSize {
		return nil, ErrDecrypt
	}

	gcm, buf, err := e.cipher()
	if err != nil {
		return nil, err
	}
	defer buf.Destroy()

	plaintext, err := gcm.Open(nil, sealed[:gcmNonceSize], sealed[gcmNonceSize:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}

	return plaintext, nil
}

// cipher opens the key enclave and builds the GCM instance. The caller must
// destroy the returned buffer once the cipher is no longer needed.
func (e *Envelope) cipher() (cipher.AEAD, *memguard.LockedBuffer, error) {
	buf, err := e.key.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("accessing envelope key: %w", err)
	}

	block, err := aes.NewCipher(buf.Bytes())
	if err != nil {
		buf.Destroy()
		return nil, nil, fmt.Errorf("creating cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		buf.Destroy()
		return nil, nil, fmt.Errorf("creating GCM: %w", err)
	}

	return gcm, buf, nil
}
