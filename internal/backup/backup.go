// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup copies the store file to timestamped artifacts and prunes
// old ones. A copy is only consistent when no write is in flight; the vault
// layer serializes backups against mutations.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/passkeep/passkeep/internal/logging"
)

const (
	// DefaultRetain is the default number of artifacts kept.
	DefaultRetain = 5

	// MinRetain and MaxRetain bound the configurable retention count.
	MinRetain = 1
	MaxRetain = 20

	artifactPrefix = "backup_"
	artifactSuffix = ".db"
	stampLayout    = "20060102_150405"
)

// Manager creates and prunes backup artifacts in a single directory.
type Manager struct {
	dir    string
	retain int

	// now is swapped out by tests to get distinct artifact names.
	now func() time.Time
}

// New returns a Manager writing into dir, keeping retain artifacts.
// retain is clamped to [MinRetain, MaxRetain].
func New(dir string, retain int) *Manager {
	if retain < MinRetain {
		retain = MinRetain
	}
	if retain > MaxRetain {
		retain = MaxRetain
	}
	return &Manager{dir: dir, retain: retain, now: time.Now}
}

// Backup copies the store file byte-for-byte to a timestamped artifact and
// prunes artifacts beyond the retention count, oldest first by modification
// time. It returns the created artifact path.
func (m *Manager) Backup(storePath string) (string, error) {
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := m.now().Format(stampLayout)
	artifact := filepath.Join(m.dir, artifactPrefix+stamp+artifactSuffix)

	if err := copyFile(storePath, artifact); err != nil {
		return "", fmt.Errorf("backup copy failed: %w", err)
	}

	if err := m.prune(); err != nil {
		// The copy itself succeeded; pruning problems should not fail the
		// backup, only be reported.
		logging.Warnf("backup: pruning failed: %v", err)
	}
	return artifact, nil
}

// Artifacts lists the current backup artifacts, newest first by mtime.
func (m *Manager) Artifacts() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type stamped struct {
		path  string
		mtime time.Time
	}
	var found []stamped
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || len(name) < len(artifactPrefix)+len(artifactSuffix) {
			continue
		}
		if name[:len(artifactPrefix)] != artifactPrefix || filepath.Ext(name) != artifactSuffix {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, stamped{path: filepath.Join(m.dir, name), mtime: info.ModTime()})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].mtime.After(found[j].mtime) })

	paths := make([]string, 0, len(found))
	for _, f := range found {
		paths = append(paths, f.path)
	}
	return paths, nil
}

func (m *Manager) prune() error {
	artifacts, err := m.Artifacts()
	if err != nil {
		return err
	}
	for _, old := range artifacts[min(m.retain, len(artifacts)):] {
		if err := os.Remove(old); err != nil {
			return err
		}
		logging.Debugf("backup: pruned %s", old)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
