// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the fosterly TUI.
//
// Each component is a self-contained Bubble Tea model (or plain
// renderer) styled through styles.Theme:
//
//   - LoginForm: email/password entry
//   - AnimalTable: scrollable listing browser
//   - AnimalDetail: markdown-rendered listing detail
//   - IdleLockOverlay: re-authentication prompt after inactivity
//   - Toast / ToastStack: non-blocking corner notifications
//   - StatusBar: session countdown, role badge, offline indicator
package components
