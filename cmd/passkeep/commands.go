// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep/internal/clipboard"
	"github.com/passkeep/passkeep/internal/generator"
	"github.com/passkeep/passkeep/internal/vault"
)

var addCmd = &cobra.Command{
	Use:   "add <service> <username>",
	Short: "Add a new credential record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, username := args[0], args[1]
		gen, _ := cmd.Flags().GetBool("generate")
		memorable, _ := cmd.Flags().GetBool("memorable")
		length, _ := cmd.Flags().GetInt("length")
		url, _ := cmd.Flags().GetString("url")
		notes, _ := cmd.Flags().GetString("notes")

		v, err := openUnlocked()
		if err != nil {
			return err
		}
		defer v.Close()

		var password string
		switch {
		case memorable:
			password, err = generator.GenerateMemorable(4, "-", true, true)
			if err != nil {
				return err
			}
		case gen:
			opts := generator.DefaultOptions()
			if length > 0 {
				opts.Length = length
			}
			password, err = generator.Generate(opts)
			if err != nil {
				return err
			}
		default:
			pass, err := promptSecret("Password for " + service)
			if err != nil {
				return err
			}
			password = string(pass.Bytes())
			pass.Zero()
			if score, feedback := generator.CheckStrength(password); score < 3 {
				printWarning("Weak password (%s): %s", generator.StrengthLabel(score), strings.Join(feedback, ", "))
			}
		}

		id, err := v.Add(service, username, password, url, notes)
		if err != nil {
			return err
		}
		printSuccess("Added record #%d for %s (%s)", id, service, username)

		if (gen || memorable) && clipboard.Available() {
			if err := clipboard.Copy(password); err == nil {
				fmt.Println("Generated password copied to clipboard.")
			}
		} else if gen || memorable {
			fmt.Printf("Generated password: %s\n", password)
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <service>",
	Short: "Retrieve and decrypt credentials for a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		copyFlag, _ := cmd.Flags().GetBool("copy")

		v, err := openUnlocked()
		if err != nil {
			return err
		}
		defer v.Close()

		entries, err := v.GetByService(args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			printWarning("No records match %q.", args[0])
			return nil
		}

		for i, e := range entries {
			if i > 0 {
				fmt.Println()
			}
			if e.Err != nil {
				printError("Record #%d (%s): cannot decrypt, data may be corrupted", e.ID, e.Service)
				continue
			}
			shown := e.Password
			if copyFlag {
				shown = ""
			}
			printEntryDetail(e.Service, e.Username, shown, e.URL, e.Notes, e.Created, e.Updated)
		}

		if copyFlag {
			first := entries[0]
			if first.Err != nil {
				return first.Err
			}
			if !clipboard.Available() {
				return clipboard.ErrUnavailable
			}
			if err := clipboard.Copy(first.Password); err != nil {
				return err
			}
			fmt.Println("Password copied to clipboard.")
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all records (metadata only, no secrets)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openUnlocked()
		if err != nil {
			return err
		}
		defer v.Close()

		records, err := v.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("The vault is empty.")
			return nil
		}
		fmt.Print(recordTable(records))
		fmt.Printf("%d record(s).\n", len(records))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search records by service or username substring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openUnlocked()
		if err != nil {
			return err
		}
		defer v.Close()

		records, err := v.Search(args[0])
		if err != nil {
			return err
		}
		if len(records) == 0 {
			printWarning("No records match %q.", args[0])
			return nil
		}
		fmt.Print(recordTable(records))
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the username and/or password of a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid record id %q", args[0])
		}

		var username, secret *string
		if cmd.Flags().Changed("username") {
			u, _ := cmd.Flags().GetString("username")
			username = &u
		}
		gen, _ := cmd.Flags().GetBool("generate")

		v, err := openUnlocked()
		if err != nil {
			return err
		}
		defer v.Close()

		switch {
		case gen:
			pw, err := generator.Generate(generator.DefaultOptions())
			if err != nil {
				return err
			}
			secret = &pw
		case cmd.Flags().Changed("secret"):
			pass, err := promptSecret("New password")
			if err != nil {
				return err
			}
			pw := string(pass.Bytes())
			pass.Zero()
			secret = &pw
		}

		result, err := v.Update(id, username, secret)
		if err != nil {
			if errors.Is(err, vault.ErrNotFound) {
				return fmt.Errorf("no record with id %d", id)
			}
			return err
		}
		if result == vault.NoChange {
			fmt.Println("Nothing changed.")
			return nil
		}
		printSuccess("Record #%d updated.", id)
		if secret != nil && gen && clipboard.Available() {
			if err := clipboard.Copy(*secret); err == nil {
				fmt.Println("New password copied to clipboard.")
			}
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid record id %q", args[0])
		}
		yes, _ := cmd.Flags().GetBool("yes")

		v, err := openUnlocked()
		if err != nil {
			return err
		}
		defer v.Close()

		if !yes {
			if err := confirmDeletion(fmt.Sprintf("record #%d", id)); err != nil {
				if errors.Is(err, errAborted) {
					fmt.Println("Aborted.")
					return nil
				}
				return err
			}
		}

		if err := v.Delete(id); err != nil {
			if errors.Is(err, vault.ErrNotFound) {
				return fmt.Errorf("no record with id %d", id)
			}
			return err
		}
		printSuccess("Record #%d deleted.", id)
		return nil
	},
}

func init() {
	addCmd.Flags().Bool("generate", false, "generate a random password instead of prompting")
	addCmd.Flags().Bool("memorable", false, "generate a memorable word-based password")
	addCmd.Flags().Int("length", 0, "length for --generate (default 16)")
	addCmd.Flags().String("url", "", "optional URL for the record")
	addCmd.Flags().String("notes", "", "optional notes for the record")

	getCmd.Flags().Bool("copy", false, "copy the first matching password to the clipboard instead of printing it")

	updateCmd.Flags().String("username", "", "new username")
	updateCmd.Flags().Bool("secret", false, "prompt for a new password")
	updateCmd.Flags().Bool("generate", false, "generate a new random password")

	deleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
}
