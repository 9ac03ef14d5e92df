// Copyright (c) 2026 Passkeep Authors
// Passkeep - local encrypted credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package generator provides pure, stateless password generation and strength
// scoring. Nothing here touches the vault or holds state; the CLI calls it
// directly and the auth layer borrows CheckStrength for the setup gate.
package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	digits    = "0123456789"
	symbols   = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	// ambiguous characters dropped when Options.ExcludeAmbiguous is set.
	ambiguous = "il1Lo0O"
)

// wordList backs GenerateMemorable. NATO alphabet plus common words.
var wordList = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
	"golf", "hotel", "india", "juliet", "kilo", "lima",
	"mike", "november", "oscar", "papa", "quebec", "romeo",
	"sierra", "tango", "uniform", "victor", "whiskey", "xray",
	"yankee", "zulu", "coffee", "python", "tiger", "ocean",
	"mountain", "river", "forest", "desert", "cloud", "thunder",
	"lightning", "rainbow", "sunset", "sunrise", "winter", "summer",
}

// ErrNoCharClasses is returned when every character class is disabled.
var ErrNoCharClasses = errors.New("at least one character type must be selected")

// Options controls Generate.
type Options struct {
	Length           int
	Upper            bool
	Lower            bool
	Digits           bool
	Symbols          bool
	ExcludeAmbiguous bool
}

// DefaultOptions is a 16-character password drawing from all classes with
// ambiguous characters excluded.
func DefaultOptions() Options {
	return Options{Length: 16, Upper: true, Lower: true, Digits: true, Symbols: true, ExcludeAmbiguous: true}
}

// Generate produces a random password using the system CSPRNG. Every enabled
// character class contributes at least one character; the length is raised to
// the number of enabled classes if set lower.
func Generate(opts Options) (string, error) {
	var pool string
	var required []byte

	classes := []struct {
		enabled   bool
		chars     string
		filterAmb bool
	}{
		{opts.Upper, uppercase, true},
		{opts.Lower, lowercase, true},
		{opts.Digits, digits, true},
		{opts.Symbols, symbols, false},
	}
	for _, c := range classes {
		if !c.enabled {
			continue
		}
		chars := c.chars
		if opts.ExcludeAmbiguous && c.filterAmb {
			chars = stripAmbiguous(chars)
		}
		pool += chars
		ch, err := pick(chars)
		if err != nil {
			return "", err
		}
		required = append(required, ch)
	}

	if pool == "" {
		return "", ErrNoCharClasses
	}

	length := opts.Length
	if length < len(required) {
		length = len(required)
	}

	password := make([]byte, 0, length)
	password = append(password, required...)
	for len(password) < length {
		ch, err := pick(pool)
		if err != nil {
			return "", err
		}
		password = append(password, ch)
	}

	if err := shuffle(password); err != nil {
		return "", err
	}
	return string(password), nil
}

// GenerateMemorable produces a word-based passphrase, e.g. "Tango-River-Echo-Cloud42".
// words is clamped to [3, 8].
func GenerateMemorable(words int, separator string, capitalize, addNumber bool) (string, error) {
	if words < 3 {
		words = 3
	}
	if words > 8 {
		words = 8
	}

	selected := make([]string, 0, words)
	for i := 0; i < words; i++ {
		n, err := randInt(len(wordList))
		if err != nil {
			return "", err
		}
		w := wordList[n]
		if capitalize {
			w = strings.ToUpper(w[:1]) + w[1:]
		}
		selected = append(selected, w)
	}

	passphrase := strings.Join(selected, separator)
	if addNumber {
		n, err := randInt(100)
		if err != nil {
			return "", err
		}
		passphrase += big.NewInt(int64(n)).String()
	}
	return passphrase, nil
}

// CheckStrength scores a password 0-5 and returns suggestions for whatever is
// missing. One point each for length >= 8/12/16 and for each character class,
// clamped to 5. The setup gate in the auth layer requires a score of at least 3.
func CheckStrength(password string) (int, []string) {
	score := 0
	var feedback []string

	if len(password) >= 8 {
		score++
	} else {
		feedback = append(feedback, "Too short (min 8)")
	}
	if len(password) >= 12 {
		score++
	}
	if len(password) >= 16 {
		score++
	}

	if strings.ContainsAny(password, uppercase) {
		score++
	} else {
		feedback = append(feedback, "Add uppercase letters")
	}
	if strings.ContainsAny(password, lowercase) {
		score++
	} else {
		feedback = append(feedback, "Add lowercase letters")
	}
	if strings.ContainsAny(password, digits) {
		score++
	} else {
		feedback = append(feedback, "Add numbers")
	}
	if strings.ContainsAny(password, symbols) {
		score++
	} else {
		feedback = append(feedback, "Add symbols")
	}

	if score > 5 {
		score = 5
	}
	return score, feedback
}

// StrengthLabel maps a CheckStrength score to its display label.
func StrengthLabel(score int) string {
	labels := []string{"Very Weak", "Weak", "Fair", "Good", "Strong", "Very Strong"}
	if score < 0 {
		score = 0
	}
	if score >= len(labels) {
		score = len(labels) - 1
	}
	return labels[score]
}

func stripAmbiguous(chars string) string {
	var b strings.Builder
	for _, c := range chars {
		if !strings.ContainsRune(ambiguous, c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func pick(chars string) (byte, error) {
	n, err := randInt(len(chars))
	if err != nil {
		return 0, err
	}
	return chars[n], nil
}

// shuffle performs a Fisher-Yates shuffle driven by crypto/rand so the
// required class characters do not cluster at the front.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func randInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
