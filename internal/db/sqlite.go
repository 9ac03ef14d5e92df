// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the SQLite implementation of the database store.
package db

import (
	"database/sql"
	"fmt"

	"github.com/passkeep/passkeep/internal/model"
	"github.com/uptrace/bun"
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	db   *sql.DB
	bun  *bun.DB
	path string
}

// AddAccount encodes nothing itself: the secret arrives as ciphertext from
// the vault layer. Returns the newly assigned row id.
func (s *SqliteStore) AddAccount(service, username string, secret []byte, url, notes string) (int, error) {
	id, err := AddAccountBun(s.bun, service, username, secret, url, notes)
	if err == nil {
		_ = s.LogAction("ADD_ACCOUNT", fmt.Sprintf("account: %s (%s)", service, username))
	}
	return id, err
}

// GetAccountByID retrieves a single account by its id.
func (s *SqliteStore) GetAccountByID(id int) (*model.Record, error) {
	return GetAccountByIDBun(s.bun, id)
}

// GetAccountsByService retrieves accounts whose service contains the query.
func (s *SqliteStore) GetAccountsByService(query string) ([]model.Record, error) {
	return GetAccountsByServiceBun(s.bun, query)
}

// GetAllAccounts retrieves all accounts ordered by service.
func (s *SqliteStore) GetAllAccounts() ([]model.Record, error) {
	return GetAllAccountsBun(s.bun)
}

// SearchAccounts retrieves accounts matching on service or username.
func (s *SqliteStore) SearchAccounts(query string) ([]model.Record, error) {
	return SearchAccountsBun(s.bun, query)
}

// UpdateAccount applies field changes to an account row.
func (s *SqliteStore) UpdateAccount(id int, username *string, secret []byte) error {
	err := UpdateAccountBun(s.bun, id, username, secret)
	if err == nil && (username != nil || secret != nil) {
		_ = s.LogAction("UPDATE_ACCOUNT", fmt.Sprintf("account_id: %d", id))
	}
	return err
}

// DeleteAccount removes an account row by its id.
func (s *SqliteStore) DeleteAccount(id int) error {
	// Get account details before deleting for logging.
	var service, username string
	err := s.db.QueryRow("SELECT service, username FROM accounts WHERE id = ?", id).Scan(&service, &username)
	details := fmt.Sprintf("id: %d", id)
	if err == nil {
		details = fmt.Sprintf("account: %s (%s)", service, username)
	}
	err = DeleteAccountBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("DELETE_ACCOUNT", details)
	}
	return err
}

// CountAccounts reports the number of stored accounts.
func (s *SqliteStore) CountAccounts() (int, error) {
	return CountAccountsBun(s.bun)
}

// GetAllAuditLogEntries retrieves all entries from the audit log, most recent first.
func (s *SqliteStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

// LogAction records an audit trail event. Details must never contain secret
// material; callers pass ids and service names only.
func (s *SqliteStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

// Path returns the path the store was opened with.
func (s *SqliteStore) Path() string {
	return s.path
}

// Close releases the underlying connection.
func (s *SqliteStore) Close() error {
	return s.bun.Close()
}
