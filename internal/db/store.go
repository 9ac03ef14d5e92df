// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/passkeep/passkeep/internal/model"
)

// Store defines the interface for all database operations in Passkeep.
// Secrets cross this boundary only as opaque ciphertext; encryption and
// decryption belong to the vault layer above.
type Store interface {
	// Account methods
	AddAccount(service, username string, secret []byte, url, notes string) (int, error)
	GetAccountByID(id int) (*model.Record, error)
	GetAccountsByService(query string) ([]model.Record, error)
	GetAllAccounts() ([]model.Record, error)
	SearchAccounts(query string) ([]model.Record, error)
	UpdateAccount(id int, username *string, secret []byte) error
	DeleteAccount(id int) error
	CountAccounts() (int, error)

	// Audit Log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error

	// Path returns the filesystem path the store was opened with; the backup
	// manager copies this file.
	Path() string
	Close() error
}
