// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	return key
}

func TestDeriveKey_Deterministic(t *testing.T) {
	pass := []byte("correct horse battery staple")
	salt := []byte("0123456789abcdef")

	key1 := DeriveKey(pass, salt, MinIterations)
	key2 := DeriveKey(pass, salt, MinIterations)

	if !bytes.Equal(key1, key2) {
		t.Error("DeriveKey() not deterministic for identical inputs")
	}
	if len(key1) != KeySize {
		t.Errorf("DeriveKey() returned %d bytes, want %d", len(key1), KeySize)
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	pass := []byte("correct horse battery staple")

	key1 := DeriveKey(pass, []byte("salt-aaaa-aaaa-a"), MinIterations)
	key2 := DeriveKey(pass, []byte("salt-bbbb-bbbb-b"), MinIterations)

	if bytes.Equal(key1, key2) {
		t.Error("DeriveKey() returned identical keys for different salts")
	}
}

func TestDeriveKey_ClampsIterations(t *testing.T) {
	pass := []byte("pw")
	salt := []byte("0123456789abcdef")

	// A below-floor count must behave exactly like the floor.
	low := DeriveKey(pass, salt, 1)
	floor := DeriveKey(pass, salt, MinIterations)
	if !bytes.Equal(low, floor) {
		t.Error("DeriveKey() did not clamp a low iteration count to MinIterations")
	}
}

func TestGenerateSalt(t *testing.T) {
	s1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() error = %v", err)
	}
	if len(s1) != SaltSize {
		t.Errorf("GenerateSalt() returned %d bytes, want %d", len(s1), SaltSize)
	}
	s2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() second call error = %v", err)
	}
	if bytes.Equal(s1, s2) {
		t.Error("GenerateSalt() returned identical salts")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("p@ss!23")

	ciphertext, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	got, err := Decrypt(key, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("round trip = %q, want %q", got, plaintext)
	}
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("same plaintext")

	c1, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	c2, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if bytes.Equal(c1, c2) {
		t.Error("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestDecrypt_BitFlip(t *testing.T) {
	key := testKey(t)
	ciphertext, err := Encrypt(key, []byte("tamper target"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	// Flip a single bit at every byte position; each mutation must fail
	// authentication, never return a different valid plaintext.
	for i := range ciphertext {
		mutated := make([]byte, len(ciphertext))
		copy(mutated, ciphertext)
		mutated[i] ^= 0x01

		if _, err := Decrypt(key, mutated); !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("Decrypt() with bit flip at byte %d: got %v, want ErrDecryptionFailed", i, err)
		}
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	ciphertext, err := Encrypt(testKey(t), []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if _, err := Decrypt(testKey(t), ciphertext); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Decrypt() with wrong key: got %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	key := testKey(t)
	for _, n := range []int{0, 1, NonceSize, NonceSize + TagSize - 1} {
		if _, err := Decrypt(key, make([]byte, n)); !errors.Is(err, ErrInvalidCiphertext) {
			t.Errorf("Decrypt() with %d bytes: got %v, want ErrInvalidCiphertext", n, err)
		}
	}
}

func TestEncrypt_BadKeySize(t *testing.T) {
	if _, err := Encrypt(make([]byte, 16), []byte("x")); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("Encrypt() with 16-byte key: got %v, want ErrInvalidKeySize", err)
	}
	if _, err := Decrypt(make([]byte, 31), make([]byte, 64)); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("Decrypt() with 31-byte key: got %v, want ErrInvalidKeySize", err)
	}
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("Zero() left byte %d = %d", i, v)
		}
	}
}
