// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/passkeep/passkeep/internal/security"
)

// errAborted is returned when the user declines a confirmation prompt.
var errAborted = errors.New("aborted")

// promptSecret reads a line with terminal echo disabled. Falls back to a
// plain line read when stdin is not a terminal (piped input in scripts).
func promptSecret(label string) (security.Secret, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		s := security.FromBytes(raw)
		for i := range raw {
			raw[i] = 0
		}
		return s, nil
	}

	line, err := readLine()
	if err != nil {
		return nil, err
	}
	return security.FromString(line), nil
}

// promptLine reads a plain input line with the label on stderr, keeping
// stdout clean for pipeable command output.
func promptLine(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	return readLine()
}

func readLine() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirmDeletion requires the literal token DELETE, matching the weight of
// an irreversible operation.
func confirmDeletion(target string) error {
	fmt.Fprintf(os.Stderr, "Deleting: %s\n", target)
	answer, err := promptLine("Type 'DELETE' to confirm")
	if err != nil {
		return err
	}
	if answer != "DELETE" {
		return errAborted
	}
	return nil
}
