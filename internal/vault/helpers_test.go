// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// openRawDB opens a second connection to the store file for test-only
// tampering outside the Store interface.
func openRawDB(path string) (*sql.DB, error) {
	return sql.Open("sqlite", "file:"+path)
}
