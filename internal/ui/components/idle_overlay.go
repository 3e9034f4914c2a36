// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fosterly/fosterly-tui/internal/ui/styles"
)

// =============================================================================
// IDLE LOCK OVERLAY
// =============================================================================

// IdleLockOverlay covers the screen after the session was force-ended by
// inactivity. The session data underneath is already cleared; the
// overlay only explains what happened and routes the user back to sign
// in. It doubles as a low-lifetime warning before the lock happens.
type IdleLockOverlay struct {
	theme *styles.Theme

	visible       bool
	locked        bool
	timeRemaining time.Duration

	// warningThreshold is when the countdown warning appears.
	warningThreshold time.Duration

	width  int
	height int
}

// IdleLockDismissedMsg signals the user acknowledged the lock screen.
type IdleLockDismissedMsg struct{}

// NewIdleLockOverlay creates a hidden overlay.
func NewIdleLockOverlay(theme *styles.Theme) IdleLockOverlay {
	return IdleLockOverlay{
		theme:            theme,
		warningThreshold: 2 * time.Minute,
	}
}

// SetSize sets the overlay dimensions.
func (o *IdleLockOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// SetWarningThreshold sets when the countdown warning appears.
func (o *IdleLockOverlay) SetWarningThreshold(threshold time.Duration) {
	o.warningThreshold = threshold
}

// ShowLocked displays the locked screen.
func (o *IdleLockOverlay) ShowLocked() {
	o.visible = true
	o.locked = true
}

// ShowWarning displays the countdown warning with the remaining token
// lifetime.
func (o *IdleLockOverlay) ShowWarning(remaining time.Duration) {
	if o.locked {
		return
	}
	o.visible = true
	o.timeRemaining = remaining
}

// UpdateTime refreshes the countdown.
func (o *IdleLockOverlay) UpdateTime(remaining time.Duration) {
	o.timeRemaining = remaining
}

// Hide hides the overlay.
func (o *IdleLockOverlay) Hide() {
	o.visible = false
	o.locked = false
}

// IsVisible reports whether the overlay is shown.
func (o IdleLockOverlay) IsVisible() bool {
	return o.visible
}

// IsLocked reports whether the session is idle-locked (as opposed to a
// mere warning).
func (o IdleLockOverlay) IsLocked() bool {
	return o.locked
}

// Update handles key events. Any key dismisses: a warning simply
// disappears (the key itself already counted as activity), a lock emits
// IdleLockDismissedMsg so the app returns to the sign-in view.
func (o IdleLockOverlay) Update(msg tea.Msg) (IdleLockOverlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.width = msg.Width
		o.height = msg.Height

	case tea.KeyMsg:
		if !o.visible {
			return o, nil
		}
		wasLocked := o.locked
		o.Hide()
		if wasLocked {
			return o, func() tea.Msg {
				return IdleLockDismissedMsg{}
			}
		}
	}
	return o, nil
}

// View renders the overlay, or empty when hidden.
func (o IdleLockOverlay) View() string {
	if !o.visible {
		return ""
	}
	if o.locked {
		return o.viewLocked()
	}
	return o.viewWarning()
}

// =============================================================================
// RENDER METHODS
// =============================================================================

func (o IdleLockOverlay) viewWarning() string {
	width, height, maxWidth := o.dimensions()

	var parts []string
	parts = append(parts, o.theme.OverlayTitle.Render(
		styles.StatusIndicators.Warning+" Session Expiring"))
	parts = append(parts, "")
	parts = append(parts, o.theme.OverlayMessage.Render(
		"Your session expires in "+formatCountdown(o.timeRemaining)))
	parts = append(parts, "")
	parts = append(parts, o.theme.OverlayHint.Render(
		"Keep working to stay signed in"))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	box := o.theme.OverlayBox.Width(maxWidth).Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim))
}

func (o IdleLockOverlay) viewLocked() string {
	width, height, maxWidth := o.dimensions()

	var parts []string
	titleStyle := lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	parts = append(parts, titleStyle.Render(
		styles.StatusIndicators.Error+" Signed Out"))
	parts = append(parts, "")
	parts = append(parts, o.theme.OverlayMessage.Render(
		"You were signed out after an hour of inactivity."))
	parts = append(parts, "")
	parts = append(parts, o.theme.OverlayHint.Render(
		"Press any key to sign in again"))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	box := o.theme.OverlayBox.
		BorderForeground(styles.Rose).
		Width(maxWidth).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim))
}

func (o IdleLockOverlay) dimensions() (width, height, maxWidth int) {
	width = o.width
	if width == 0 {
		width = 60
	}
	height = o.height
	if height == 0 {
		height = 24
	}
	maxWidth = width - 8
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 60 {
		maxWidth = 60
	}
	return width, height, maxWidth
}

// formatCountdown formats a duration as M:SS for display.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		return "0:00"
	}
	totalSecs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", totalSecs/60, totalSecs%60)
}
