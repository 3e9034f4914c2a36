// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fosterly/fosterly-tui/internal/ui/styles"
)

// Shared output styles for the non-interactive commands. The color
// profile is resolved once so piped output stays plain.
func init() {
	lipgloss.SetColorProfile(ColorProfile())
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Teal)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Emerald)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Rose)

	warnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	dimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// field renders one aligned "Label  value" row.
func field(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// separator renders a horizontal rule sized to the terminal.
func separator() string {
	width := TerminalWidth()
	if width > 72 {
		width = 72
	}
	return dimStyle.Render(strings.Repeat("-", width))
}
