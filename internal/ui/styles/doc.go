// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the fosterly TUI.
//
// All colors are lipgloss.AdaptiveColor pairs so the same palette works
// on light and dark terminals. Theme bundles the composed styles the
// components render with; construct one per program run with NewTheme,
// which probes the terminal's color profile through termenv.
//
// Status messages carry ASCII shape indicators ([OK], [X], [!], [i])
// alongside color so state is readable without color vision.
package styles
