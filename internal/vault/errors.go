// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"errors"

	"github.com/passkeep/passkeep/internal/crypto"
	"github.com/passkeep/passkeep/internal/db"
)

var (
	// ErrValidation is returned when a required field is empty. Recoverable:
	// the caller re-prompts.
	ErrValidation = errors.New("service and username are required")

	// ErrLocked is returned when an operation needs the session key but the
	// vault has not been unlocked.
	ErrLocked = errors.New("vault is locked")

	// ErrNotFound is the storage layer's missing-record sentinel, re-exported
	// so callers can match it without importing the db package.
	ErrNotFound = db.ErrNotFound

	// ErrDecryptionFailed marks a record whose secret is unavailable. It is
	// deliberately distinct from ErrNotFound: the record exists, the secret
	// does not decrypt.
	ErrDecryptionFailed = crypto.ErrDecryptionFailed
)
