// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY reports whether stdin is a terminal. Interactive prompts are
// only offered when it is.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether stdout is a terminal. Piped output gets
// no color.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

const (
	defaultTerminalWidth = 80
	minTerminalWidth     = 40
)

// TerminalWidth returns the current terminal width, with a sane
// fallback when detection fails.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	if width < minTerminalWidth {
		return minTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR CONTROL
// =============================================================================

var (
	profileOnce sync.Once
	profile     termenv.Profile
)

// ColorProfile returns the color profile for CLI output. It honors
// NO_COLOR and FORCE_COLOR and downgrades to plain ASCII when stdout is
// not a terminal.
func ColorProfile() termenv.Profile {
	profileOnce.Do(func() {
		switch {
		case os.Getenv("NO_COLOR") != "":
			profile = termenv.Ascii
		case os.Getenv("FORCE_COLOR") != "":
			profile = termenv.ANSI256
		case !IsStdoutTTY():
			profile = termenv.Ascii
		default:
			profile = termenv.ColorProfile()
		}
	})
	return profile
}

// ReadPassword reads a line from stdin without echo. The trailing
// newline the user typed is printed so the next output starts on a
// fresh line.
func ReadPassword() (string, error) {
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	os.Stdout.WriteString("\n")
	if err != nil {
		return "", err
	}
	return string(pass), nil
}
