// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/passkeep/passkeep/internal/backup"
	"github.com/passkeep/passkeep/internal/crypto"
)

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Vault    VaultConfig    `mapstructure:"vault" yaml:"vault"`
	Backup   BackupConfig   `mapstructure:"backup" yaml:"backup"`
	KDF      KDFConfig      `mapstructure:"kdf" yaml:"kdf"`
}

// DatabaseConfig locates the encrypted store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// VaultConfig locates the salt and verifier files.
type VaultConfig struct {
	SaltFile   string `mapstructure:"salt_file" yaml:"salt_file"`
	MasterFile string `mapstructure:"master_file" yaml:"master_file"`
}

// BackupConfig controls the backup directory, retention and auto-backup.
type BackupConfig struct {
	Dir   string `mapstructure:"dir" yaml:"dir"`
	Count int    `mapstructure:"count" yaml:"count"`
	Auto  bool   `mapstructure:"auto" yaml:"auto"`
}

// KDFConfig carries the key derivation cost.
type KDFConfig struct {
	Iterations int `mapstructure:"iterations" yaml:"iterations"`
}

// Defaults returns the viper defaults for a fresh installation.
func Defaults() map[string]any {
	return map[string]any{
		"database.path":     "./passkeep.db",
		"vault.salt_file":   "./salt.key",
		"vault.master_file": "./master.hash",
		"backup.dir":        "./backups",
		"backup.count":      backup.DefaultRetain,
		"backup.auto":       true,
		"kdf.iterations":    crypto.MinIterations,
	}
}

// Normalize clamps configured values into their valid ranges. Retention is
// bounded to [1, 20]; the KDF iteration floor protects against a config file
// quietly weakening key derivation.
func (c *Config) Normalize() {
	if c.Backup.Count < backup.MinRetain {
		c.Backup.Count = backup.MinRetain
	}
	if c.Backup.Count > backup.MaxRetain {
		c.Backup.Count = backup.MaxRetain
	}
	if c.KDF.Iterations < crypto.MinIterations {
		c.KDF.Iterations = crypto.MinIterations
	}
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Passkeep")
		default: // Linux, macOS, etc.
			configDir = "/etc/passkeep"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "passkeep")
	}

	return filepath.Join(configDir, "passkeep.yaml"), nil
}

// LoadConfig builds the configuration from defaults, the yaml config file,
// PASSKEEP_* environment variables and bound cobra flags, in ascending
// precedence. A missing config file is not an error.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitConfigFile *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("passkeep")
	v.SetConfigType("yaml")

	// An explicit --config path has the highest precedence for file-based
	// configuration.
	if explicitConfigFile != nil && *explicitConfigFile != "" {
		v.SetConfigFile(*explicitConfigFile)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("passkeep")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile persists the configuration to the user (or system) config
// location with restrictive permissions.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file names the salt and verifier locations.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}

	return nil
}
