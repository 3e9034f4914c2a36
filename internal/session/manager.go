// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fosterly/fosterly-tui/internal/model"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State is the session lifecycle state.
type State int

const (
	// StateUnauthenticated means no token is held.
	StateUnauthenticated State = iota
	// StateAuthenticated means a token and user are held and timers run.
	StateAuthenticated
	// StateIdleLocked means the session was force-ended by inactivity and
	// the UI should show a re-authentication prompt. The underlying data
	// state is identical to Unauthenticated: token and store are cleared.
	StateIdleLocked
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "UNAUTHENTICATED"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateIdleLocked:
		return "IDLE_LOCKED"
	default:
		return "UNKNOWN"
	}
}

// LogoutReason says why a session ended.
type LogoutReason int

const (
	// LogoutExplicit is a user-requested logout.
	LogoutExplicit LogoutReason = iota
	// LogoutIdle is a forced logout after the inactivity window lapsed.
	LogoutIdle
	// LogoutRefreshFailed is a forced logout after a failed token refresh.
	LogoutRefreshFailed
)

// String returns a readable reason name.
func (r LogoutReason) String() string {
	switch r {
	case LogoutExplicit:
		return "explicit"
	case LogoutIdle:
		return "idle"
	case LogoutRefreshFailed:
		return "refresh_failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// MANAGER
// =============================================================================

// DefaultValidityWindow is the assumed token lifetime from issuance.
// Deliberately computed client-side as now + window rather than parsed
// from the token's claims, preserving the behavior of the hosted web
// client. If the backend's real lifetime differs, the refresh check
// fires early or late; the server remains the authority either way.
const DefaultValidityWindow = time.Hour

// DefaultRefreshLowWater is the remaining-lifetime threshold below
// which a proactive refresh is attempted: 5 minutes.
const DefaultRefreshLowWater = 5 * time.Minute

// TokenRefresher exchanges the current bearer token for a fresh one.
// *api.Client satisfies this.
type TokenRefresher interface {
	RefreshToken(ctx context.Context) (string, error)
}

// TokenSink receives bearer token changes. A refresher that also
// implements it (*api.Client does) is kept in step with the session:
// the token is installed on Login and Restore, rewritten on refresh,
// and cleared on Logout, so the transport never holds a credential the
// session no longer owns.
type TokenSink interface {
	SetToken(token string)
}

// Manager is the composition root of the session lifecycle. It owns the
// Token Store, the Activity Monitor and the in-memory session fields,
// and it is the single writer to all three. One Manager exists per
// process; it is constructed at startup and closed on shutdown, never
// ambient package state.
type Manager struct {
	mu sync.Mutex

	store     *Store
	refresher TokenRefresher
	sink      TokenSink
	monitor   *Monitor

	validity      time.Duration
	lowWater      time.Duration
	idleThreshold time.Duration

	// now is the clock; injectable for deterministic expiration tests.
	now func() time.Time

	// Session fields. token and user are set and cleared together;
	// expiration is only meaningful while token is non-empty.
	token      string
	user       *model.User
	expiration time.Time
	state      State

	// generation increments on every logout. A refresh that completes
	// after the session it started under has ended is discarded, so a
	// late response cannot resurrect a cleared session.
	generation uint64

	// sessionCtx is cancelled on logout/close; refresh calls derive
	// from it.
	sessionCtx    context.Context
	sessionCancel context.CancelFunc

	onChange func(State, LogoutReason)
	closed   bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithValidityWindow overrides the assumed token lifetime.
func WithValidityWindow(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.validity = d
		}
	}
}

// WithLowWaterMark overrides the refresh low-water-mark.
func WithLowWaterMark(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.lowWater = d
		}
	}
}

// WithIdleThreshold overrides the inactivity window.
func WithIdleThreshold(d time.Duration) Option {
	return func(m *Manager) {
		m.idleThreshold = d
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithOnChange registers a callback invoked after every state change.
// The reason is only meaningful for transitions out of Authenticated.
// Called without the manager lock held.
func WithOnChange(fn func(State, LogoutReason)) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// NewManager creates a session manager over the given store and
// refresher. The manager starts Unauthenticated; call Restore to pick
// up a persisted session.
func NewManager(store *Store, refresher TokenRefresher, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		refresher:     refresher,
		validity:      DefaultValidityWindow,
		lowWater:      DefaultRefreshLowWater,
		idleThreshold: DefaultIdleThreshold,
		now:           time.Now,
		state:         StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(m)
	}
	if sink, ok := refresher.(TokenSink); ok {
		m.sink = sink
	}
	m.monitor = NewMonitor(m.idleThreshold, m.handleIdle)
	return m
}

// setSinkToken pushes a token change to the sink, if any. Called
// without the manager lock held.
func (m *Manager) setSinkToken(token string) {
	if m.sink != nil {
		m.sink.SetToken(token)
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the current bearer token, empty when unauthenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns the current user, nil when unauthenticated.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// TimeLeft returns the remaining assumed token lifetime, zero when
// unauthenticated or already past expiration.
func (m *Manager) TimeLeft() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return 0
	}
	left := m.expiration.Sub(m.now())
	if left < 0 {
		return 0
	}
	return left
}

// Expiration returns the assumed expiration instant.
func (m *Manager) Expiration() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiration
}

// IsActive reports whether recent user interaction has occurred within
// the inactivity window.
func (m *Manager) IsActive() bool {
	m.mu.Lock()
	authenticated := m.state == StateAuthenticated
	m.mu.Unlock()
	return authenticated && m.monitor.IdleTime() < m.monitor.Threshold()
}

// Monitor exposes the activity monitor (the UI forwards interaction
// events to it through Touch).
func (m *Manager) Monitor() *Monitor {
	return m.monitor
}

// Context returns a context that is cancelled when the current session
// ends. Requests made on behalf of the session should derive from it.
func (m *Manager) Context() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessionCtx == nil {
		return context.Background()
	}
	return m.sessionCtx
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Login installs a freshly issued token and user: expiration is
// computed as now + validity window, the triple is persisted, the
// activity monitor starts counting, and the state becomes Authenticated.
func (m *Manager) Login(token string, user model.User) error {
	m.mu.Lock()

	m.token = token
	u := user
	m.user = &u
	m.expiration = m.now().Add(m.validity)
	m.state = StateAuthenticated
	m.generation++

	if m.sessionCancel != nil {
		m.sessionCancel()
	}
	m.sessionCtx, m.sessionCancel = context.WithCancel(context.Background())

	err := m.store.Save(token, user, m.expiration)
	onChange := m.onChange
	m.mu.Unlock()

	m.setSinkToken(token)
	m.monitor.Start()

	if err != nil {
		// Persistence failure degrades to a memory-only session rather
		// than failing the login; the next restart simply starts
		// unauthenticated.
		log.Printf("SESSION: persist failed, session will not survive restart: %v", err)
	}
	if onChange != nil {
		onChange(StateAuthenticated, LogoutExplicit)
	}
	log.Printf("SESSION: login user=%d role=%s expires=%s", user.ID, user.Role, m.Expiration().Format(time.RFC3339))
	return nil
}

// Restore initializes the session from the Token Store. A corrupt or
// absent store leaves the manager Unauthenticated; no error escapes.
func (m *Manager) Restore() {
	token, user, expiration := m.store.Load()
	if token == "" || user == nil {
		return
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.expiration = expiration
	m.state = StateAuthenticated
	m.generation++
	if m.sessionCancel != nil {
		m.sessionCancel()
	}
	m.sessionCtx, m.sessionCancel = context.WithCancel(context.Background())
	onChange := m.onChange
	m.mu.Unlock()

	m.setSinkToken(token)
	m.monitor.Start()

	if onChange != nil {
		onChange(StateAuthenticated, LogoutExplicit)
	}
	log.Printf("SESSION: restored user=%d role=%s", user.ID, user.Role)
}

// Logout ends the session: persisted keys are removed, in-memory state
// is cleared, the session context is cancelled and timers stop.
// Idempotent: logging out an already-unauthenticated session performs
// no store writes and never panics. Races between the idle timeout and
// a failed refresh are tolerated because both land here.
func (m *Manager) Logout(reason LogoutReason) {
	m.mu.Lock()
	if m.token == "" && m.user == nil {
		// Already logged out: only a possible IdleLocked -> Unauthenticated
		// downgrade on explicit dismissal.
		if reason == LogoutExplicit && m.state == StateIdleLocked {
			m.state = StateUnauthenticated
		}
		m.mu.Unlock()
		return
	}

	m.token = ""
	m.user = nil
	m.expiration = time.Time{}
	m.generation++
	if reason == LogoutIdle {
		m.state = StateIdleLocked
	} else {
		m.state = StateUnauthenticated
	}
	if m.sessionCancel != nil {
		m.sessionCancel()
		m.sessionCtx, m.sessionCancel = nil, nil
	}
	state := m.state
	onChange := m.onChange
	m.mu.Unlock()

	m.setSinkToken("")
	m.monitor.Stop()

	if err := m.store.Clear(); err != nil {
		log.Printf("SESSION: failed to clear store: %v", err)
	}
	if onChange != nil {
		onChange(state, reason)
	}
	log.Printf("SESSION: logout reason=%s", reason)
}

// DismissIdleLock acknowledges the idle-lock prompt, returning the
// session to plain Unauthenticated.
func (m *Manager) DismissIdleLock() {
	m.mu.Lock()
	changed := m.state == StateIdleLocked
	if changed {
		m.state = StateUnauthenticated
	}
	onChange := m.onChange
	m.mu.Unlock()
	if changed && onChange != nil {
		onChange(StateUnauthenticated, LogoutIdle)
	}
}

// Close tears the manager down: timers are cancelled and any session
// context is released. The persisted store is left as-is so the session
// survives a restart.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.sessionCancel != nil {
		m.sessionCancel()
		m.sessionCtx, m.sessionCancel = nil, nil
	}
	m.mu.Unlock()
	m.monitor.Stop()
}

// Touch records user interaction, resetting the inactivity window.
func (m *Manager) Touch() {
	m.monitor.Touch()
}

// handleIdle runs on the monitor's timer goroutine when the idle
// threshold lapses uninterrupted.
func (m *Manager) handleIdle() {
	m.mu.Lock()
	authenticated := m.state == StateAuthenticated
	m.mu.Unlock()
	if !authenticated {
		return
	}
	log.Printf("SESSION: idle threshold lapsed, forcing logout")
	m.Logout(LogoutIdle)
}

// =============================================================================
// REFRESH
// =============================================================================

// CheckRefresh is invoked by the refresh scheduler once per poll tick.
// If the remaining assumed lifetime is below the low-water-mark and the
// session is active, exactly one refresh call is issued. Success
// rewrites the token and pushes expiration back above the threshold;
// failure is fatal for the session (no retry, forced logout).
func (m *Manager) CheckRefresh(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateAuthenticated || m.token == "" {
		m.mu.Unlock()
		return
	}
	timeLeft := m.expiration.Sub(m.now())
	if timeLeft >= m.lowWater {
		m.mu.Unlock()
		return
	}
	active := m.monitor.IdleTime() < m.monitor.Threshold()
	if !active {
		// An idle session is about to be ended by the monitor anyway;
		// do not keep its token alive.
		m.mu.Unlock()
		return
	}
	gen := m.generation
	sessionCtx := m.sessionCtx
	m.mu.Unlock()

	// Tie the call to both the poller's context and the session's.
	callCtx, cancel := mergeContexts(ctx, sessionCtx)
	defer cancel()

	newToken, err := m.refresher.RefreshToken(callCtx)
	if err != nil {
		log.Printf("SESSION: token refresh failed: %v", err)
		m.Logout(LogoutRefreshFailed)
		return
	}

	m.mu.Lock()
	if m.generation != gen || m.state != StateAuthenticated {
		// The session ended while the call was in flight; discard. The
		// refresher may have installed the stale token on itself, so
		// re-sync the sink with whatever session exists now.
		current := m.token
		m.mu.Unlock()
		m.setSinkToken(current)
		return
	}
	m.token = newToken
	m.expiration = m.now().Add(m.validity)
	user := *m.user
	expiration := m.expiration
	m.mu.Unlock()

	m.setSinkToken(newToken)
	if err := m.store.Save(newToken, user, expiration); err != nil {
		log.Printf("SESSION: persist after refresh failed: %v", err)
	}
	log.Printf("SESSION: token refreshed, expires=%s", expiration.Format(time.RFC3339))
}

// mergeContexts returns a context cancelled when either parent is.
func mergeContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	if b == nil {
		return context.WithCancel(a)
	}
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
