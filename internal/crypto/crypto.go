// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package crypto implements the two cryptographic primitives of the vault:
// key derivation (PBKDF2-HMAC-SHA256) and per-record authenticated
// encryption (AES-256-GCM). Everything here is deterministic and stateless
// except for the fresh nonce drawn on every Encrypt call.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the size of the derived AES-256 session key in bytes.
	KeySize = 32

	// NonceSize is the size of GCM nonces in bytes.
	NonceSize = 12

	// TagSize is the size of GCM authentication tags in bytes.
	TagSize = 16

	// SaltSize is the size of the persisted vault salt in bytes.
	SaltSize = 16

	// MinIterations is the floor for the PBKDF2 iteration count. Configured
	// values below this are raised to it.
	MinIterations = 100000
)

var (
	// ErrDecryptionFailed is returned when GCM authentication fails. Any bit
	// flip in the ciphertext, accidental or deliberate, ends up here.
	ErrDecryptionFailed = errors.New("decryption failed: authentication error")

	// ErrInvalidCiphertext is returned when a ciphertext is too short to even
	// contain a nonce and a tag.
	ErrInvalidCiphertext = errors.New("ciphertext too short")

	// ErrInvalidKeySize is returned when a key is not 32 bytes.
	ErrInvalidKeySize = errors.New("key must be 32 bytes")
)

// DeriveKey stretches a passphrase and salt into a 32-byte key via
// PBKDF2-HMAC-SHA256. Deterministic: identical inputs always yield the same
// key. Iteration counts below MinIterations are clamped up; the cost is
// deliberate and callers should treat a derive as a blocking step.
func DeriveKey(passphrase, salt []byte, iterations int) []byte {
	if iterations < MinIterations {
		iterations = MinIterations
	}
	return pbkdf2.Key(passphrase, salt, iterations, KeySize, sha256.New)
}

// GenerateSalt returns SaltSize bytes from the system CSPRNG.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// Encrypt seals plaintext with AES-256-GCM under key. A fresh random nonce is
// drawn per call and prepended, so encrypting the same plaintext twice yields
// different ciphertext. The result is nonce || ciphertext || tag.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a nonce-prepended AES-256-GCM ciphertext. Tampered or
// corrupted input returns ErrDecryptionFailed, never wrong plaintext.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < NonceSize+TagSize {
		return nil, ErrInvalidCiphertext
	}
	nonce, sealed := ciphertext[:NonceSize], ciphertext[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

// Zero overwrites a byte slice in memory with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
