// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package auth gates vault unlock. It persists a one-way verifier of the
// master passphrase and the random vault salt, and turns a correct passphrase
// into the session key via the KDF. The passphrase itself is never persisted
// and never logged.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/passkeep/passkeep/internal/crypto"
	"github.com/passkeep/passkeep/internal/generator"
	"github.com/passkeep/passkeep/internal/security"
)

// MaxAttempts bounds unlock retries per process invocation. This is a UX
// throttle, not a cryptographic lockout; it resets on restart and the real
// brute-force cost lives in the KDF iteration count.
const MaxAttempts = 3

// MinStrengthScore is the advisory gate for new master passphrases.
const MinStrengthScore = 3

var (
	// ErrAuthenticationFailed is returned when the passphrase digest does not
	// match the persisted verifier.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrAttemptsExhausted is returned once MaxAttempts failures have been
	// recorded in this process.
	ErrAttemptsExhausted = errors.New("too many failed attempts")

	// ErrWeakPassphrase is returned by Setup for passphrases under the
	// advisory strength gate. Callers should re-prompt.
	ErrWeakPassphrase = errors.New("passphrase too weak")

	// ErrAlreadyInitialized is returned by Setup when a verifier exists.
	ErrAlreadyInitialized = errors.New("vault already initialized")

	// ErrNotInitialized is returned by Unlock when no verifier exists.
	ErrNotInitialized = errors.New("vault not initialized")
)

// Authenticator manages the salt and verifier files and derives session keys.
type Authenticator struct {
	saltFile   string
	masterFile string
	iterations int

	failures int
}

// New returns an Authenticator over the given salt and verifier paths.
// iterations is the PBKDF2 cost from configuration.
func New(saltFile, masterFile string, iterations int) *Authenticator {
	return &Authenticator{saltFile: saltFile, masterFile: masterFile, iterations: iterations}
}

// Initialized reports whether a verifier has been persisted.
func (a *Authenticator) Initialized() bool {
	_, err := os.Stat(a.masterFile)
	return err == nil
}

// Setup establishes the master passphrase on an uninitialized vault: it
// enforces the advisory strength gate, persists the verifier, establishes the
// salt, and returns the derived session key.
func (a *Authenticator) Setup(passphrase security.Secret) (security.Secret, error) {
	if a.Initialized() {
		return nil, ErrAlreadyInitialized
	}

	score, _ := generator.CheckStrength(string(passphrase.Bytes()))
	if score < MinStrengthScore {
		return nil, ErrWeakPassphrase
	}

	if err := a.writeVerifier(passphrase); err != nil {
		return nil, err
	}
	return a.deriveSessionKey(passphrase)
}

// Unlock checks a candidate passphrase against the persisted verifier and, on
// match, returns the derived session key. Comparison is constant-time. After
// MaxAttempts failures every further call fails with ErrAttemptsExhausted
// until the process restarts.
func (a *Authenticator) Unlock(passphrase security.Secret) (security.Secret, error) {
	if !a.Initialized() {
		return nil, ErrNotInitialized
	}
	if a.failures >= MaxAttempts {
		return nil, ErrAttemptsExhausted
	}

	stored, err := os.ReadFile(a.masterFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read verifier: %w", err)
	}
	want := strings.TrimSpace(string(stored))
	got := digest(passphrase)

	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		a.failures++
		if a.failures >= MaxAttempts {
			return nil, ErrAttemptsExhausted
		}
		return nil, ErrAuthenticationFailed
	}

	a.failures = 0
	return a.deriveSessionKey(passphrase)
}

// AttemptsRemaining reports how many unlock attempts are left in this process.
func (a *Authenticator) AttemptsRemaining() int {
	left := MaxAttempts - a.failures
	if left < 0 {
		return 0
	}
	return left
}

// Salt returns the persisted vault salt, creating it on first use. Once a
// vault holds records the salt must never be regenerated: every derived key,
// and with it every stored ciphertext, depends on it.
func (a *Authenticator) Salt() ([]byte, error) {
	salt, err := os.ReadFile(a.saltFile)
	if err == nil {
		if len(salt) != crypto.SaltSize {
			return nil, fmt.Errorf("salt file %s has %d bytes, want %d", a.saltFile, len(salt), crypto.SaltSize)
		}
		return salt, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	salt, err = crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(a.saltFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create salt directory: %w", err)
	}
	if err := os.WriteFile(a.saltFile, salt, 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist salt: %w", err)
	}
	return salt, nil
}

func (a *Authenticator) deriveSessionKey(passphrase security.Secret) (security.Secret, error) {
	salt, err := a.Salt()
	if err != nil {
		return nil, err
	}

	var key security.Secret
	err = passphrase.Use(func(pw []byte) error {
		derived := crypto.DeriveKey(pw, salt, a.iterations)
		key = security.FromBytes(derived)
		crypto.Zero(derived)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (a *Authenticator) writeVerifier(passphrase security.Secret) error {
	if err := os.MkdirAll(filepath.Dir(a.masterFile), 0o700); err != nil {
		return fmt.Errorf("failed to create verifier directory: %w", err)
	}
	if err := os.WriteFile(a.masterFile, []byte(digest(passphrase)+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to persist verifier: %w", err)
	}
	return nil
}

// digest hashes a passphrase to its hex verifier form. SHA-256 one-way: the
// stored line allows comparison, never recovery of passphrase or key.
func digest(passphrase security.Secret) string {
	sum := sha256.Sum256([]byte(passphrase))
	return hex.EncodeToString(sum[:])
}
