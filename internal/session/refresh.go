// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// REFRESH SCHEDULER
// =============================================================================

// DefaultRefreshPoll is the fixed interval between refresh checks:
// 1 minute. The check polls instead of arming a one-shot timer on the
// expiration instant; the window is hour-coarse.
const DefaultRefreshPoll = time.Minute

// Scheduler drives Manager.CheckRefresh on a fixed interval for the
// manager's mounted lifetime. It holds no session state of its own.
type Scheduler struct {
	manager *Manager
	poll    time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewScheduler creates a scheduler polling at the given interval
// (DefaultRefreshPoll when zero).
func NewScheduler(manager *Manager, poll time.Duration) *Scheduler {
	if poll <= 0 {
		poll = DefaultRefreshPoll
	}
	return &Scheduler{
		manager: manager,
		poll:    poll,
	}
}

// Start launches the polling loop. Starting a running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.stopped = make(chan struct{})

	go s.run(ctx, s.stopped)
}

// Stop cancels the polling loop and waits for it to exit, so no check
// runs after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	stopped := s.stopped
	s.cancel = nil
	s.stopped = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

func (s *Scheduler) run(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.manager.CheckRefresh(ctx)
		}
	}
}
