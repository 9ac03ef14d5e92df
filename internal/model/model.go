// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the data structures shared across the vault layers.
package model

import "fmt"

// Record is one stored credential row. Secret holds the authenticated-encrypted
// blob exactly as persisted; the storage layer never decrypts it.
type Record struct {
	ID       int
	Service  string
	Username string
	Secret   []byte
	URL      string
	Notes    string
	Created  string
	Updated  string
}

// String returns the "service (username)" representation used in CLI output
// and audit details. It never includes secret material.
func (r Record) String() string {
	return fmt.Sprintf("%s (%s)", r.Service, r.Username)
}

// DecryptedRecord is a Record whose secret has been decrypted for export.
// It only exists in memory on an explicit export path.
type DecryptedRecord struct {
	Service  string `json:"service"`
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
}

// AuditLogEntry represents a single entry in the audit trail.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}
