// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/passkeep/passkeep/internal/logging"

// dbLogf routes low-level data layer messages to the debug log. Nothing
// passed through here may contain secret material.
func dbLogf(format string, v ...interface{}) {
	logging.Debugf(format, v...)
}
