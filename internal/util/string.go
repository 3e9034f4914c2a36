// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strconv"

// TruncateRunes truncates a string to a maximum number of runes.
// Counting runes instead of bytes keeps multi-byte UTF-8 characters
// intact (animal names and association addresses are frequently
// accented). If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// RuneLen returns the number of runes in a string.
func RuneLen(s string) int {
	return len([]rune(s))
}

// IntToString converts an int to its decimal representation.
func IntToString(i int) string {
	return strconv.Itoa(i)
}

// Int64ToString converts an int64 to its decimal representation.
func Int64ToString(i int64) string {
	return strconv.FormatInt(i, 10)
}
