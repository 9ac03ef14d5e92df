// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vault is the engine of Passkeep. A Vault owns the store handle,
// the backup manager, the master authenticator and, once unlocked, the
// session key. Lifecycle: Open -> Setup/Unlock -> operate -> Close. All
// operations serialize on an internal mutex, so backups never observe an
// in-flight write.
package vault

import (
	"fmt"
	"strings"
	"sync"

	"github.com/passkeep/passkeep/internal/auth"
	"github.com/passkeep/passkeep/internal/backup"
	"github.com/passkeep/passkeep/internal/config"
	"github.com/passkeep/passkeep/internal/crypto"
	"github.com/passkeep/passkeep/internal/db"
	"github.com/passkeep/passkeep/internal/logging"
	"github.com/passkeep/passkeep/internal/model"
	"github.com/passkeep/passkeep/internal/security"
)

// Vault is the explicit context object for all credential operations.
type Vault struct {
	mu      sync.Mutex
	cfg     config.Config
	store   db.Store
	auth    *auth.Authenticator
	backups *backup.Manager
	key     security.Secret
}

// Entry is a record joined with its decryption outcome. Err is non-nil when
// the ciphertext failed authentication; the record itself is still returned
// so one corrupt row never hides its neighbours.
type Entry struct {
	model.Record
	Password string
	Err      error
}

// UpdateResult reports what an Update call actually did.
type UpdateResult int

const (
	// NoChange means no fields were supplied; the record was left alone.
	NoChange UpdateResult = iota
	// Updated means at least one field was written and updated was bumped.
	Updated
)

// Open opens the store (creating and migrating it as needed) and wires up
// the collaborators. A persistence failure here is fatal to the caller:
// nothing works without a store.
func Open(cfg config.Config) (*Vault, error) {
	cfg.Normalize()

	store, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault store: %w", err)
	}

	return &Vault{
		cfg:     cfg,
		store:   store,
		auth:    auth.New(cfg.Vault.SaltFile, cfg.Vault.MasterFile, cfg.KDF.Iterations),
		backups: backup.New(cfg.Backup.Dir, cfg.Backup.Count),
	}, nil
}

// Initialized reports whether a master passphrase has been established.
func (v *Vault) Initialized() bool { return v.auth.Initialized() }

// Locked reports whether the vault currently holds no session key.
func (v *Vault) Locked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.key == nil
}

// Setup establishes the master passphrase and unlocks the vault. Weak
// passphrases are rejected with auth.ErrWeakPassphrase; the caller re-prompts.
func (v *Vault) Setup(passphrase security.Secret) error {
	key, err := v.auth.Setup(passphrase)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.key = key
	v.mu.Unlock()
	return nil
}

// Unlock verifies the passphrase and derives the session key. Attempts are
// bounded per process; see auth.MaxAttempts.
func (v *Vault) Unlock(passphrase security.Secret) error {
	key, err := v.auth.Unlock(passphrase)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.key = key
	v.mu.Unlock()
	return nil
}

// AttemptsRemaining reports how many unlock attempts are left.
func (v *Vault) AttemptsRemaining() int { return v.auth.AttemptsRemaining() }

// Add encrypts the secret under the session key and persists a new record.
// Empty service or username is a validation error. Returns the new id.
func (v *Vault) Add(service, username, secret, url, notes string) (int, error) {
	service = strings.TrimSpace(service)
	username = strings.TrimSpace(username)
	if service == "" || username == "" {
		return 0, ErrValidation
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key == nil {
		return 0, ErrLocked
	}

	ciphertext, err := crypto.Encrypt(v.key, []byte(secret))
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt secret: %w", err)
	}

	id, err := v.store.AddAccount(service, username, ciphertext, url, notes)
	if err != nil {
		return 0, err
	}
	v.autoBackupLocked()
	return id, nil
}

// GetByService returns entries whose service contains the query, each with
// its secret decrypted on demand. A record that fails to decrypt carries
// ErrDecryptionFailed in its Err field; the rest of the batch is unaffected.
func (v *Vault) GetByService(query string) ([]Entry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key == nil {
		return nil, ErrLocked
	}

	records, err := v.store.GetAccountsByService(query)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		e := Entry{Record: rec}
		plaintext, err := crypto.Decrypt(v.key, rec.Secret)
		if err != nil {
			e.Err = ErrDecryptionFailed
		} else {
			e.Password = string(plaintext)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// List returns all records, metadata only; secrets stay encrypted. The
// store itself is not passphrase-gated, but List stays behind the unlock so
// usernames do not leak before authentication.
func (v *Vault) List() ([]model.Record, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key == nil {
		return nil, ErrLocked
	}
	return v.store.GetAllAccounts()
}

// Search matches the query against service or username; metadata only.
func (v *Vault) Search(query string) ([]model.Record, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key == nil {
		return nil, ErrLocked
	}
	return v.store.SearchAccounts(query)
}

// Update applies the supplied changes. A nil username or secret leaves that
// field untouched; both nil is a successful no-op reported as NoChange. A
// new secret is re-encrypted under the session key.
func (v *Vault) Update(id int, username, secret *string) (UpdateResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key == nil {
		return NoChange, ErrLocked
	}

	if username == nil && secret == nil {
		// Still verify the id so "nothing changed" is never reported for a
		// record that does not exist.
		if _, err := v.store.GetAccountByID(id); err != nil {
			return NoChange, err
		}
		return NoChange, nil
	}

	var ciphertext []byte
	if secret != nil {
		var err error
		ciphertext, err = crypto.Encrypt(v.key, []byte(*secret))
		if err != nil {
			return NoChange, fmt.Errorf("failed to encrypt secret: %w", err)
		}
	}

	if err := v.store.UpdateAccount(id, username, ciphertext); err != nil {
		return NoChange, err
	}
	v.autoBackupLocked()
	return Updated, nil
}

// Delete removes a record irreversibly. Confirmation is the caller's job.
func (v *Vault) Delete(id int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key == nil {
		return ErrLocked
	}
	if err := v.store.DeleteAccount(id); err != nil {
		return err
	}
	v.autoBackupLocked()
	return nil
}

// ExportAll decrypts every record for export. Records whose secret fails to
// decrypt are skipped and counted, never fatal to the batch. The output is
// plaintext; the caller owns warning the user.
func (v *Vault) ExportAll() ([]model.DecryptedRecord, int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key == nil {
		return nil, 0, ErrLocked
	}

	records, err := v.store.GetAllAccounts()
	if err != nil {
		return nil, 0, err
	}

	out := make([]model.DecryptedRecord, 0, len(records))
	skipped := 0
	for _, rec := range records {
		plaintext, err := crypto.Decrypt(v.key, rec.Secret)
		if err != nil {
			skipped++
			logging.Warnf("export: skipping record %d: secret unavailable", rec.ID)
			continue
		}
		out = append(out, model.DecryptedRecord{
			Service:  rec.Service,
			Username: rec.Username,
			Password: string(plaintext),
			URL:      rec.URL,
			Notes:    rec.Notes,
			Created:  rec.Created,
			Updated:  rec.Updated,
		})
	}
	return out, skipped, nil
}

// Backup creates an explicit backup artifact. Errors are surfaced, never
// swallowed: the user asked for this copy.
func (v *Vault) Backup() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.backups.Backup(v.store.Path())
}

// AuditLog returns the audit trail, most recent first.
func (v *Vault) AuditLog() ([]model.AuditLogEntry, error) {
	return v.store.GetAllAuditLogEntries()
}

// Count reports the number of stored records.
func (v *Vault) Count() (int, error) {
	return v.store.CountAccounts()
}

// Close zeroizes the session key and releases the store.
func (v *Vault) Close() error {
	v.mu.Lock()
	v.key.Zero()
	v.key = nil
	v.mu.Unlock()
	return v.store.Close()
}

// autoBackupLocked fires a best-effort backup after a mutation when enabled.
// Failures are logged, not returned: the mutation itself already succeeded.
// Callers must hold v.mu.
func (v *Vault) autoBackupLocked() {
	if !v.cfg.Backup.Auto {
		return
	}
	if _, err := v.backups.Backup(v.store.Path()); err != nil {
		logging.Warnf("auto-backup failed: %v", err)
	}
}
