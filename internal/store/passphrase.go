// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package store

import "golang.org/x/crypto/bcrypt"

// hashPassphrase derives the at-rest digest for a record's passphrase.
// The plaintext passphrase is never stored.
func hashPassphrase(passphrase string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
}

// gateAllows decides whether an operation guarded by a passphrase digest
// may proceed. A record without a digest is unguarded and always allows,
// whatever the caller supplied. The bcrypt comparison is constant-time.
func gateAllows(digest []byte, supplied string) bool {
	if digest == nil {
		return true
	}
	return bcrypt.CompareHashAndPassword(digest, []byte(supplied)) == nil
}
