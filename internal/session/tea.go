// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent once per second so the UI can repaint the remaining
// token lifetime and poll the manager state.
type TickMsg struct {
	Time time.Time
}

// IdleLockedMsg signals the session was force-ended by inactivity and
// the re-authentication prompt should be shown.
type IdleLockedMsg struct{}

// LoggedOutMsg signals the session ended for the given reason.
type LoggedOutMsg struct {
	Reason LogoutReason
}

// TickCmd returns a command that ticks once per second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// StateCmd converts a state change into the matching UI message. Wire
// it from the manager's WithOnChange callback through the program's
// Send function.
func StateCmd(state State, reason LogoutReason) tea.Msg {
	switch state {
	case StateIdleLocked:
		return IdleLockedMsg{}
	case StateUnauthenticated:
		return LoggedOutMsg{Reason: reason}
	case StateAuthenticated:
		return nil
	}
	return nil
}
