// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains shared database errors and helpers.
package db

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a record id does not exist. It is distinct
// from a decryption failure in the layer above: "no such record" and "record
// present but secret unavailable" must never be conflated.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when attempting to insert a record that violates
// a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// MapDBError inspects low-level driver errors and maps common constraint
// violations to package-level sentinel errors. String-based on purpose, to
// keep driver packages out of this file.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	le := strings.ToLower(err.Error())
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") {
		return ErrDuplicate
	}
	return err
}
