// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/passkeep/passkeep/internal/generator"
	"github.com/passkeep/passkeep/internal/model"
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	styleField   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func printSuccess(format string, v ...interface{}) {
	fmt.Println(styleSuccess.Render("✓ " + fmt.Sprintf(format, v...)))
}

func printWarning(format string, v ...interface{}) {
	fmt.Fprintln(os.Stderr, styleWarning.Render("! "+fmt.Sprintf(format, v...)))
}

func printError(format string, v ...interface{}) {
	fmt.Fprintln(os.Stderr, styleError.Render("✗ "+fmt.Sprintf(format, v...)))
}

// recordTable renders records as an aligned metadata table: id, service,
// username, created date. Secrets are never part of a table.
func recordTable(records []model.Record) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(fmt.Sprintf("%-6s %-25s %-20s %-12s", "ID", "Service", "Username", "Created")))
	b.WriteString("\n")
	for _, r := range records {
		created := r.Created
		if len(created) > 10 {
			created = created[:10]
		}
		b.WriteString(fmt.Sprintf("%-6d %-25s %-20s %-12s\n", r.ID, truncate(r.Service, 25), truncate(r.Username, 20), created))
	}
	return b.String()
}

// printEntryDetail renders one decrypted entry in full.
func printEntryDetail(service, username, password, url, notes, created, updated string) {
	field := func(name, value string) {
		if value != "" {
			fmt.Printf("%s %s\n", styleField.Render(name+":"), value)
		}
	}
	field("Service", service)
	field("Username", username)
	field("Password", password)
	if password != "" {
		score, _ := generator.CheckStrength(password)
		field("Strength", fmt.Sprintf("%s (%d/5)", generator.StrengthLabel(score), score))
	}
	field("URL", url)
	field("Notes", notes)
	field("Created", created)
	field("Updated", updated)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
