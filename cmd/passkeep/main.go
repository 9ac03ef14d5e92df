// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Passkeep using the Cobra
// library: the root command, subcommands (add, get, list, export, backup and
// friends), flags, and the entry point.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep/internal/auth"
	"github.com/passkeep/passkeep/internal/config"
	"github.com/passkeep/passkeep/internal/logging"
	"github.com/passkeep/passkeep/internal/vault"
)

var version = "dev" // set by the linker

var (
	cfgFile string
	cfg     config.Config
)

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

// newRootCmd creates and configures a new root cobra command. Extracted so
// tests can build fresh instances.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passkeep",
		Short: "Passkeep is a local, single-user encrypted credential vault.",
		Long: `Passkeep stores service/username/password records in a local SQLite
database. Secrets are encrypted per record with AES-256-GCM under a key
derived from your master passphrase; the database, salt and verifier files
never contain recoverable secrets without it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			logging.SetDebug(debug)

			var err error
			cfg, err = config.LoadConfig[config.Config](cmd, config.Defaults(), &cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cmd.Flags().Changed("db") {
				cfg.Database.Path, _ = cmd.Flags().GetString("db")
			}
			cfg.Normalize()
			return nil
		},
	}

	cmd.AddCommand(initCmd)
	cmd.AddCommand(addCmd)
	cmd.AddCommand(getCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(searchCmd)
	cmd.AddCommand(updateCmd)
	cmd.AddCommand(deleteCmd)
	cmd.AddCommand(exportCmd)
	cmd.AddCommand(backupCmd)
	cmd.AddCommand(generateCmd)
	cmd.AddCommand(auditCmd)

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is passkeep.yaml in the user config dir or cwd)")
	cmd.PersistentFlags().String("db", "", "path to the vault database file")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	return cmd
}

// openVault opens the store. Failure here is fatal to the command: nothing
// works without a store.
func openVault() (*vault.Vault, error) {
	v, err := vault.Open(cfg)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// openUnlocked opens the store and walks the unlock flow: prompt, verify,
// bounded retries. The passphrase never appears in any log or error text.
func openUnlocked() (*vault.Vault, error) {
	v, err := openVault()
	if err != nil {
		return nil, err
	}

	if !v.Initialized() {
		_ = v.Close()
		return nil, errors.New("vault is not initialized; run 'passkeep init' first")
	}

	for {
		pass, err := promptSecret("Master passphrase")
		if err != nil {
			_ = v.Close()
			return nil, err
		}
		err = v.Unlock(pass)
		pass.Zero()
		if err == nil {
			return v, nil
		}
		if errors.Is(err, auth.ErrAttemptsExhausted) {
			_ = v.Close()
			return nil, errors.New("too many failed attempts")
		}
		printError("Incorrect. %d attempts remaining.", v.AttemptsRemaining())
	}
}
