// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fosterly/fosterly-tui/internal/ui/styles"
)

// =============================================================================
// TOASTS
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastInfo is an informational toast
	ToastInfo ToastKind = iota
	// ToastError is an error toast
	ToastError
	// ToastWarning is a warning toast
	ToastWarning
	// ToastSuccess is a success toast
	ToastSuccess
)

// DefaultToastDuration is the auto-dismiss duration for info toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts,
// longer so the message can be read.
const ErrorToastDuration = 8 * time.Second

var toastCounter atomic.Int64

// Toast is a non-blocking corner notification. Unlike a modal error it
// auto-dismisses and never steals input focus.
type Toast struct {
	ID        int64
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates a toast of the given kind.
func NewToast(kind ToastKind, message string) Toast {
	duration := DefaultToastDuration
	if kind == ToastError {
		duration = ErrorToastDuration
	}
	return Toast{
		ID:        toastCounter.Add(1),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  duration,
	}
}

// Expired reports whether the toast should be dismissed at the given
// time.
func (t Toast) Expired(now time.Time) bool {
	return now.After(t.CreatedAt.Add(t.Duration))
}

// ToastExpiredMsg asks the stack to drop a toast.
type ToastExpiredMsg struct {
	ID int64
}

// =============================================================================
// TOAST STACK
// =============================================================================

// MaxToasts limits how many toasts stack before the oldest is dropped.
const MaxToasts = 3

// ToastStack manages the visible toasts.
type ToastStack struct {
	theme  *styles.Theme
	toasts []Toast
}

// NewToastStack creates an empty stack.
func NewToastStack(theme *styles.Theme) ToastStack {
	return ToastStack{theme: theme}
}

// Push adds a toast and returns the command that expires it.
func (s *ToastStack) Push(toast Toast) tea.Cmd {
	s.toasts = append(s.toasts, toast)
	if len(s.toasts) > MaxToasts {
		s.toasts = s.toasts[len(s.toasts)-MaxToasts:]
	}
	id := toast.ID
	return tea.Tick(toast.Duration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Expire drops the toast with the given ID.
func (s *ToastStack) Expire(id int64) {
	kept := s.toasts[:0]
	for _, t := range s.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.toasts = kept
}

// Clear drops all toasts.
func (s *ToastStack) Clear() {
	s.toasts = nil
}

// Len returns the number of visible toasts.
func (s ToastStack) Len() int {
	return len(s.toasts)
}

// View renders the stack, newest last.
func (s ToastStack) View() string {
	if len(s.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(s.toasts))
	for _, t := range s.toasts {
		var style lipgloss.Style
		var indicator string
		switch t.Kind {
		case ToastError:
			style = s.theme.ToastError
			indicator = styles.StatusIndicators.Error
		case ToastWarning:
			style = s.theme.ToastWarning
			indicator = styles.StatusIndicators.Warning
		case ToastSuccess:
			style = s.theme.ToastInfo
			indicator = styles.StatusIndicators.Success
		default:
			style = s.theme.ToastInfo
			indicator = styles.StatusIndicators.Info
		}
		lines = append(lines, style.Render(indicator+" "+t.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}
