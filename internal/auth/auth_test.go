// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/passkeep/passkeep/internal/crypto"
	"github.com/passkeep/passkeep/internal/security"
)

func newTestAuth(t *testing.T) *Authenticator {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "salt.key"), filepath.Join(dir, "master.hash"), crypto.MinIterations)
}

func TestSetupThenUnlock(t *testing.T) {
	a := newTestAuth(t)
	pass := security.FromString("Tr0ub4dor&3")

	if a.Initialized() {
		t.Fatal("fresh authenticator reports initialized")
	}

	setupKey, err := a.Setup(pass)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !a.Initialized() {
		t.Fatal("authenticator not initialized after Setup")
	}

	unlockKey, err := a.Unlock(pass)
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if !bytes.Equal(setupKey.Bytes(), unlockKey.Bytes()) {
		t.Error("Unlock() derived a different key than Setup()")
	}
	if len(unlockKey) != crypto.KeySize {
		t.Errorf("session key is %d bytes, want %d", len(unlockKey), crypto.KeySize)
	}
}

func TestSetup_WeakPassphrase(t *testing.T) {
	a := newTestAuth(t)
	if _, err := a.Setup(security.FromString("abc")); !errors.Is(err, ErrWeakPassphrase) {
		t.Errorf("Setup(weak) = %v, want ErrWeakPassphrase", err)
	}
	if a.Initialized() {
		t.Error("weak Setup must not persist a verifier")
	}
}

func TestSetup_AlreadyInitialized(t *testing.T) {
	a := newTestAuth(t)
	if _, err := a.Setup(security.FromString("Tr0ub4dor&3")); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if _, err := a.Setup(security.FromString("An0ther!Pass")); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Setup() = %v, want ErrAlreadyInitialized", err)
	}
}

func TestUnlock_NotInitialized(t *testing.T) {
	a := newTestAuth(t)
	if _, err := a.Unlock(security.FromString("whatever")); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Unlock() on fresh vault = %v, want ErrNotInitialized", err)
	}
}

func TestUnlock_WrongPassphrase(t *testing.T) {
	a := newTestAuth(t)
	if _, err := a.Setup(security.FromString("Tr0ub4dor&3")); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if _, err := a.Unlock(security.FromString("not-the-passphrase")); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Unlock(wrong) = %v, want ErrAuthenticationFailed", err)
	}
}

func TestUnlock_RetryThrottle(t *testing.T) {
	a := newTestAuth(t)
	correct := security.FromString("Tr0ub4dor&3")
	if _, err := a.Setup(correct); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	wrong := security.FromString("wrong-every-time")
	for i := 0; i < MaxAttempts; i++ {
		if _, err := a.Unlock(wrong); err == nil {
			t.Fatalf("attempt %d with wrong passphrase succeeded", i+1)
		}
	}

	// The 4th attempt must refuse even the correct passphrase.
	if _, err := a.Unlock(correct); !errors.Is(err, ErrAttemptsExhausted) {
		t.Errorf("4th attempt = %v, want ErrAttemptsExhausted", err)
	}
	if got := a.AttemptsRemaining(); got != 0 {
		t.Errorf("AttemptsRemaining() = %d, want 0", got)
	}
}

func TestUnlock_SuccessResetsFailures(t *testing.T) {
	a := newTestAuth(t)
	correct := security.FromString("Tr0ub4dor&3")
	if _, err := a.Setup(correct); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if _, err := a.Unlock(security.FromString("nope")); err == nil {
		t.Fatal("wrong passphrase succeeded")
	}
	if _, err := a.Unlock(correct); err != nil {
		t.Fatalf("Unlock(correct) after one failure = %v", err)
	}
	if got := a.AttemptsRemaining(); got != MaxAttempts {
		t.Errorf("AttemptsRemaining() after success = %d, want %d", got, MaxAttempts)
	}
}

func TestSalt_StableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	saltFile := filepath.Join(dir, "salt.key")
	masterFile := filepath.Join(dir, "master.hash")

	a1 := New(saltFile, masterFile, crypto.MinIterations)
	salt1, err := a1.Salt()
	if err != nil {
		t.Fatalf("Salt() error = %v", err)
	}
	if len(salt1) != crypto.SaltSize {
		t.Fatalf("salt is %d bytes, want %d", len(salt1), crypto.SaltSize)
	}

	// A second authenticator over the same files must read the same salt,
	// never regenerate it.
	a2 := New(saltFile, masterFile, crypto.MinIterations)
	salt2, err := a2.Salt()
	if err != nil {
		t.Fatalf("Salt() on reopen error = %v", err)
	}
	if !bytes.Equal(salt1, salt2) {
		t.Error("salt changed across reopen")
	}
}

func TestSalt_RejectsTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	saltFile := filepath.Join(dir, "salt.key")
	if err := os.WriteFile(saltFile, []byte("short"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	a := New(saltFile, filepath.Join(dir, "master.hash"), crypto.MinIterations)
	if _, err := a.Salt(); err == nil {
		t.Error("Salt() accepted a truncated salt file")
	}
}

func TestVerifierFile_Shape(t *testing.T) {
	a := newTestAuth(t)
	pass := security.FromString("Tr0ub4dor&3")
	if _, err := a.Setup(pass); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	data, err := os.ReadFile(a.masterFile)
	if err != nil {
		t.Fatalf("read verifier: %v", err)
	}
	line := string(bytes.TrimSpace(data))
	if len(line) != 64 {
		t.Errorf("verifier line is %d chars, want 64 hex chars", len(line))
	}
	// The verifier must not contain the passphrase.
	if bytes.Contains(data, []byte("Tr0ub4dor")) {
		t.Error("verifier file contains passphrase material")
	}
}
