// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep/internal/backup"
	cfg "github.com/passkeep/passkeep/internal/config"
	"github.com/passkeep/passkeep/internal/crypto"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Point the user config dir at an empty tmp dir so no real file is found.
	os.Setenv("XDG_CONFIG_HOME", t.TempDir())
	defer os.Unsetenv("XDG_CONFIG_HOME")

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Database.Path != "./passkeep.db" {
		t.Errorf("database.path = %q", c.Database.Path)
	}
	if c.Backup.Count != backup.DefaultRetain {
		t.Errorf("backup.count = %d, want %d", c.Backup.Count, backup.DefaultRetain)
	}
	if !c.Backup.Auto {
		t.Error("backup.auto default should be true")
	}
	if c.KDF.Iterations != crypto.MinIterations {
		t.Errorf("kdf.iterations = %d, want %d", c.KDF.Iterations, crypto.MinIterations)
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "database:\n  path: /tmp/other.db\nbackup:\n  count: 9\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Database.Path != "/tmp/other.db" {
		t.Errorf("database.path = %q, want /tmp/other.db", c.Database.Path)
	}
	if c.Backup.Count != 9 {
		t.Errorf("backup.count = %d, want 9", c.Backup.Count)
	}
	// Unset keys keep their defaults.
	if c.Vault.SaltFile != "./salt.key" {
		t.Errorf("vault.salt_file = %q, want default", c.Vault.SaltFile)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	os.Setenv("XDG_CONFIG_HOME", t.TempDir())
	os.Setenv("PASSKEEP_DATABASE_PATH", "/env/vault.db")
	defer func() {
		os.Unsetenv("XDG_CONFIG_HOME")
		os.Unsetenv("PASSKEEP_DATABASE_PATH")
	}()

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Database.Path != "/env/vault.db" {
		t.Errorf("database.path = %q, want /env/vault.db", c.Database.Path)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", dir)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	c := cfg.Config{
		Database: cfg.DatabaseConfig{Path: "/tmp/write-test.db"},
		Backup:   cfg.BackupConfig{Count: 7},
	}
	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path := filepath.Join(dir, "passkeep", "passkeep.yaml")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	// The written file round-trips through LoadConfig.
	loaded, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig after write failed: %v", err)
	}
	if loaded.Database.Path != "/tmp/write-test.db" {
		t.Errorf("database.path = %q after round-trip", loaded.Database.Path)
	}
	if loaded.Backup.Count != 7 {
		t.Errorf("backup.count = %d after round-trip, want 7", loaded.Backup.Count)
	}
}

func TestNormalize_Clamps(t *testing.T) {
	c := cfg.Config{
		Backup: cfg.BackupConfig{Count: 0},
		KDF:    cfg.KDFConfig{Iterations: 10},
	}
	c.Normalize()
	if c.Backup.Count != backup.MinRetain {
		t.Errorf("backup.count = %d, want %d", c.Backup.Count, backup.MinRetain)
	}
	if c.KDF.Iterations != crypto.MinIterations {
		t.Errorf("kdf.iterations = %d, want %d", c.KDF.Iterations, crypto.MinIterations)
	}

	c.Backup.Count = 50
	c.Normalize()
	if c.Backup.Count != backup.MaxRetain {
		t.Errorf("backup.count = %d, want %d", c.Backup.Count, backup.MaxRetain)
	}
}
