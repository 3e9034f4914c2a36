// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"
)

// =============================================================================
// ACTIVITY MONITOR
// =============================================================================

// DefaultIdleThreshold is the inactivity window before the session is
// forcibly ended: 1 hour, matching the hosted web client.
const DefaultIdleThreshold = time.Hour

// Monitor watches for user interaction and fires a callback when the
// idle threshold lapses uninterrupted. Each recorded interaction
// cancels the pending timer and arms a new one; the callback fires
// exactly once per idle episode.
//
// This is best-effort UX, not a security boundary: the server expires
// tokens independently.
type Monitor struct {
	mu sync.Mutex

	threshold    time.Duration
	timer        *time.Timer
	running      bool
	lastActivity time.Time

	onIdle func()
}

// NewMonitor creates a monitor with the given idle threshold. onIdle is
// invoked from the timer goroutine when the threshold lapses.
func NewMonitor(threshold time.Duration, onIdle func()) *Monitor {
	if threshold <= 0 {
		threshold = DefaultIdleThreshold
	}
	return &Monitor{
		threshold: threshold,
		onIdle:    onIdle,
	}
}

// Start arms the idle timer. Listeners attach on mount; starting an
// already-started monitor just resets the timer.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = true
	m.lastActivity = time.Now()
	m.armLocked()
}

// Stop cancels the pending timer. Safe to call repeatedly; no callback
// fires after Stop returns with the lock released.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Touch records a user interaction: the pending timer is cancelled and
// a fresh one armed. Touching a stopped monitor is a no-op.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.lastActivity = time.Now()
	m.armLocked()
}

// IdleTime returns how long since the last recorded interaction.
func (m *Monitor) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastActivity.IsZero() {
		return 0
	}
	return time.Since(m.lastActivity)
}

// Threshold returns the configured idle threshold.
func (m *Monitor) Threshold() time.Duration {
	return m.threshold
}

// armLocked replaces the pending timer. Caller holds m.mu.
func (m *Monitor) armLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.threshold, m.fire)
}

// fire delivers the idle callback once, then disarms until the next
// Start/Touch. Runs on the timer goroutine.
func (m *Monitor) fire() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	// Disarm: one callback per idle episode. A subsequent Touch or
	// Start begins the next episode.
	m.running = false
	m.timer = nil
	cb := m.onIdle
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}
