// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the bottom bar: signed-in user with role badge, session
// countdown, offline indicator and key hints.
type StatusBar struct {
	theme *styles.Theme

	user     *model.User
	timeLeft time.Duration
	offline  bool
	hints    []Hint
	width    int
}

// Hint is a key binding shown in the bar.
type Hint struct {
	Key  string
	Desc string
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// SetUser sets the signed-in user, nil when signed out.
func (b *StatusBar) SetUser(user *model.User) {
	b.user = user
}

// SetTimeLeft sets the remaining session lifetime.
func (b *StatusBar) SetTimeLeft(d time.Duration) {
	b.timeLeft = d
}

// SetOffline toggles the offline indicator.
func (b *StatusBar) SetOffline(offline bool) {
	b.offline = offline
}

// SetHints replaces the key hints.
func (b *StatusBar) SetHints(hints []Hint) {
	b.hints = hints
}

// SetWidth sets the bar width.
func (b *StatusBar) SetWidth(width int) {
	b.width = width
}

// View renders the bar.
func (b StatusBar) View() string {
	var left []string

	if b.user != nil {
		left = append(left, b.roleBadge(b.user.Role))
		left = append(left, b.user.DisplayName())
		left = append(left, b.sessionTimer())
	} else {
		left = append(left, b.theme.ShortcutDesc.Render("not signed in"))
	}
	if b.offline {
		left = append(left, b.theme.OfflineTag.Render("OFFLINE"))
	}

	var right []string
	for _, h := range b.hints {
		right = append(right,
			b.theme.ShortcutKey.Render(h.Key)+" "+b.theme.ShortcutDesc.Render(h.Desc))
	}

	leftStr := strings.Join(left, "  ")
	rightStr := strings.Join(right, "  ")

	if b.width > 0 {
		gap := b.width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
		if gap > 0 {
			leftStr += strings.Repeat(" ", gap)
		} else if b.width > 20 {
			// Narrow terminal: drop the hints, keep session state.
			rightStr = ""
			leftStr = runewidth.Truncate(leftStr, b.width-2, "…")
		}
	}

	return b.theme.StatusBar.Render(leftStr + rightStr)
}

func (b StatusBar) roleBadge(role model.Role) string {
	switch role {
	case model.RoleFamily:
		return b.theme.FamilyBadge.Render("family")
	case model.RoleAssociation:
		return b.theme.AssociationBadge.Render("association")
	case model.RoleAdmin:
		return b.theme.AdminBadge.Render("admin")
	}
	return ""
}

// sessionLowMark is when the countdown turns amber.
const sessionLowMark = 5 * time.Minute

func (b StatusBar) sessionTimer() string {
	if b.timeLeft <= 0 {
		return b.theme.SessionLow.Render("session expired")
	}
	text := "session " + formatTimer(b.timeLeft)
	if b.timeLeft < sessionLowMark {
		return b.theme.SessionLow.Render(text)
	}
	return b.theme.SessionTimer.Render(text)
}

// formatTimer renders a duration as H:MM:SS or M:SS.
func formatTimer(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	hours := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}
