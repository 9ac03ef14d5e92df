// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep/internal/auth"
	"github.com/passkeep/passkeep/internal/config"
	"github.com/passkeep/passkeep/internal/generator"
	"github.com/passkeep/passkeep/internal/logging"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the vault with a master passphrase",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		defer v.Close()

		if v.Initialized() {
			return errors.New("vault is already initialized")
		}

		for {
			pass, err := promptSecret("Choose a master passphrase")
			if err != nil {
				return err
			}
			score, feedback := generator.CheckStrength(string(pass.Bytes()))
			if score < auth.MinStrengthScore {
				pass.Zero()
				printWarning("Passphrase too weak (%s): %s", generator.StrengthLabel(score), strings.Join(feedback, ", "))
				continue
			}

			confirm, err := promptSecret("Repeat passphrase")
			if err != nil {
				pass.Zero()
				return err
			}
			match := string(pass.Bytes()) == string(confirm.Bytes())
			confirm.Zero()
			if !match {
				pass.Zero()
				printWarning("Passphrases do not match.")
				continue
			}

			err = v.Setup(pass)
			pass.Zero()
			if err != nil {
				return err
			}
			break
		}

		// First run: persist the effective config so later runs have a file
		// to inspect and edit. Failure is not fatal, defaults still work.
		if cfgFile == "" {
			if err := config.WriteConfigFile(&cfg, false); err != nil {
				logging.Warnf("could not write default config file: %v", err)
			}
		}

		printSuccess("Vault initialized at %s", cfg.Database.Path)
		fmt.Println("Keep your passphrase safe. A lost passphrase means lost data;")
		fmt.Println("there is no recovery mechanism.")
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all records as plaintext JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		v, err := openUnlocked()
		if err != nil {
			return err
		}
		defer v.Close()

		records, skipped, err := v.ExportAll()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')

		if output == "" || output == "-" {
			if _, err := os.Stdout.Write(data); err != nil {
				return err
			}
		} else {
			if err := os.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			printSuccess("Exported %d record(s) to %s", len(records), output)
		}

		printWarning("The export contains plaintext passwords. Handle and delete it with care.")
		if skipped > 0 {
			printWarning("%d record(s) could not be decrypted and were skipped.", skipped)
		}
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a timestamped backup of the vault database",
	Long: `Backup copies the encrypted database file into the backup directory as
backup_YYYYMMDD_HHMMSS.db and prunes the oldest copies beyond the retention
count. The copy is as opaque as the vault itself, so no passphrase is needed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		defer v.Close()

		path, err := v.Backup()
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		printSuccess("Backup written to %s", path)
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a password without storing it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		memorable, _ := cmd.Flags().GetBool("memorable")
		length, _ := cmd.Flags().GetInt("length")
		noSymbols, _ := cmd.Flags().GetBool("no-symbols")

		var password string
		var err error
		if memorable {
			words, _ := cmd.Flags().GetInt("words")
			password, err = generator.GenerateMemorable(words, "-", true, true)
		} else {
			opts := generator.DefaultOptions()
			if length > 0 {
				opts.Length = length
			}
			opts.Symbols = !noSymbols
			password, err = generator.Generate(opts)
		}
		if err != nil {
			return err
		}

		fmt.Println(password)
		score, _ := generator.CheckStrength(password)
		fmt.Fprintf(os.Stderr, "Strength: %s (%d/5)\n", generator.StrengthLabel(score), score)
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the vault audit trail",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openUnlocked()
		if err != nil {
			return err
		}
		defer v.Close()

		entries, err := v.AuditLog()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("The audit log is empty.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %-14s  %s  %s\n", e.Timestamp, e.Action, e.Username, e.Details)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output", "", "write JSON to this file instead of stdout")

	generateCmd.Flags().Bool("memorable", false, "generate a memorable word-based password")
	generateCmd.Flags().Int("length", 0, "password length (default 16)")
	generateCmd.Flags().Int("words", 4, "word count for --memorable")
	generateCmd.Flags().Bool("no-symbols", false, "exclude symbols")
}
