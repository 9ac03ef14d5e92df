// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/passkeep/passkeep/internal/model"
	"github.com/uptrace/bun"
)

// AccountModel maps the `accounts` table for Bun queries.
type AccountModel struct {
	bun.BaseModel `bun:"table:accounts"`
	ID            int            `bun:"id,pk,autoincrement"`
	Service       string         `bun:"service"`
	Username      string         `bun:"username"`
	Password      []byte         `bun:"password"`
	URL           sql.NullString `bun:"url"`
	Notes         sql.NullString `bun:"notes"`
	Created       string         `bun:"created"`
	Updated       string         `bun:"updated"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// --- Mapping helpers (centralized conversions) ---

func accountModelToRecord(a AccountModel) model.Record {
	rec := model.Record{
		ID:       a.ID,
		Service:  a.Service,
		Username: a.Username,
		Secret:   a.Password,
		Created:  a.Created,
		Updated:  a.Updated,
	}
	if a.URL.Valid {
		rec.URL = a.URL.String
	}
	if a.Notes.Valid {
		rec.Notes = a.Notes.String
	}
	return rec
}

func accountModelsToRecords(models []AccountModel) []model.Record {
	records := make([]model.Record, 0, len(models))
	for _, m := range models {
		records = append(records, accountModelToRecord(m))
	}
	return records
}

// nowStamp returns the ISO-8601 timestamp used for the created/updated columns.
func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// AddAccountBun inserts a new account row and returns its assigned id.
func AddAccountBun(bdb *bun.DB, service, username string, secret []byte, url, notes string) (int, error) {
	ctx := context.Background()
	now := nowStamp()

	m := &AccountModel{
		Service:  service,
		Username: username,
		Password: secret,
		URL:      sql.NullString{String: url, Valid: url != ""},
		Notes:    sql.NullString{String: notes, Valid: notes != ""},
		Created:  now,
		Updated:  now,
	}
	res, err := bdb.NewInsert().Model(m).Exec(ctx)
	if err != nil {
		return 0, MapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// GetAccountByIDBun fetches a single account row by id.
func GetAccountByIDBun(bdb *bun.DB, id int) (*model.Record, error) {
	ctx := context.Background()

	var m AccountModel
	err := bdb.NewSelect().Model(&m).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec := accountModelToRecord(m)
	return &rec, nil
}

// GetAccountsByServiceBun returns rows whose service contains the query as a
// substring (SQLite LIKE is case-insensitive for ASCII), ordered by service.
func GetAccountsByServiceBun(bdb *bun.DB, query string) ([]model.Record, error) {
	ctx := context.Background()

	var models []AccountModel
	err := bdb.NewSelect().Model(&models).
		Where("service LIKE ?", "%"+query+"%").
		Order("service ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return accountModelsToRecords(models), nil
}

// GetAllAccountsBun returns every account row ordered by service ascending.
func GetAllAccountsBun(bdb *bun.DB) ([]model.Record, error) {
	ctx := context.Background()

	var models []AccountModel
	err := bdb.NewSelect().Model(&models).Order("service ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return accountModelsToRecords(models), nil
}

// SearchAccountsBun matches the query as a substring of service OR username.
func SearchAccountsBun(bdb *bun.DB, query string) ([]model.Record, error) {
	ctx := context.Background()
	like := "%" + query + "%"

	var models []AccountModel
	err := bdb.NewSelect().Model(&models).
		Where("service LIKE ? OR username LIKE ?", like, like).
		Order("service ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return accountModelsToRecords(models), nil
}

// UpdateAccountBun applies the supplied field changes to one row inside a
// transaction, bumping `updated`. A nil username leaves the column alone; a
// nil secret keeps the stored ciphertext. Returns ErrNotFound for absent ids.
func UpdateAccountBun(bdb *bun.DB, id int, username *string, secret []byte) error {
	ctx := context.Background()

	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := QueryRawInto(ctx, tx, &exists, "SELECT 1 FROM accounts WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	var sets []string
	var params []interface{}
	if username != nil {
		sets = append(sets, "username = ?")
		params = append(params, *username)
	}
	if secret != nil {
		sets = append(sets, "password = ?")
		params = append(params, secret)
	}
	if len(sets) == 0 {
		// Nothing to change; the caller reports this, it is not an error.
		return nil
	}
	sets = append(sets, "updated = ?")
	params = append(params, nowStamp(), id)

	query := fmt.Sprintf("UPDATE accounts SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := ExecRaw(ctx, tx, query, params...); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteAccountBun removes one row, reporting ErrNotFound when nothing matched.
func DeleteAccountBun(bdb *bun.DB, id int) error {
	ctx := context.Background()

	res, err := bdb.NewDelete().Model((*AccountModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAccountsBun returns the number of stored accounts.
func CountAccountsBun(bdb *bun.DB) (int, error) {
	ctx := context.Background()
	return bdb.NewSelect().Model((*AccountModel)(nil)).Count(ctx)
}

// LogActionBun inserts an audit log entry attributed to the current OS user.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	curUser, err := user.Current()
	username := "unknown"
	if err == nil {
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}
	_, err = ExecRaw(ctx, bdb, "INSERT INTO audit_log (username, action, details) VALUES (?, ?, ?)", username, action, details)
	return MapDBError(err)
}

// GetAllAuditLogEntriesBun returns the audit trail, most recent first.
func GetAllAuditLogEntriesBun(bdb *bun.DB) ([]model.AuditLogEntry, error) {
	ctx := context.Background()

	var models []AuditLogModel
	err := bdb.NewSelect().Model(&models).Order("id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]model.AuditLogEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, model.AuditLogEntry{
			ID:        m.ID,
			Timestamp: m.Timestamp,
			Username:  m.Username,
			Action:    m.Action,
			Details:   m.Details,
		})
	}
	return entries, nil
}
