// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fosterly/fosterly-tui/internal/api"
	"github.com/fosterly/fosterly-tui/internal/config"
	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/session"
	"github.com/fosterly/fosterly-tui/internal/storage"
)

// ErrNotSignedIn is returned by commands that need a session when the
// store holds none.
var ErrNotSignedIn = errors.New(`not signed in, run "fosterly login"`)

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes the non-interactive commands. It shares the config,
// API client and session store wiring with the interactive client but
// runs one request and exits.
type Runner struct {
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	cache  *storage.Cache

	stdout io.Writer
	stderr io.Writer
}

// NewRunner builds a runner from the loaded configuration.
func NewRunner(cfg *config.Config) (*Runner, error) {
	storePath, err := cfg.SessionStorePath()
	if err != nil {
		return nil, fmt.Errorf("resolve session store: %w", err)
	}

	client := api.New(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.API.MaxRetries)
	if cfg.API.RequestsPerSec > 0 {
		client = client.WithRateLimit(cfg.API.RequestsPerSec)
	}

	return &Runner{
		cfg:    cfg,
		client: client,
		store:  session.NewStore(storePath),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}, nil
}

// Close releases the cache handle when a command opened it.
func (r *Runner) Close() {
	if r.cache != nil {
		r.cache.Close()
		r.cache = nil
	}
}

// Run dispatches one parsed command.
func (r *Runner) Run(ctx context.Context, cmd Command, args *ArgParser) error {
	switch cmd {
	case CommandLogin:
		return r.runLogin(ctx, args)
	case CommandLogout:
		return r.runLogout(args)
	case CommandStatus:
		return r.runStatus(ctx, args)
	case CommandAnimals:
		return r.runAnimals(ctx, args)
	case CommandAsks:
		return r.runAsks(ctx, args)
	case CommandAssociations:
		return r.runAssociations(ctx, args)
	case CommandCache:
		return r.runCache(ctx, args)
	case CommandConfig:
		return r.runConfig(args)
	case CommandVersion:
		fmt.Fprintln(r.stdout, VersionString())
		return nil
	case CommandHelp:
		fmt.Fprint(r.stdout, Usage())
		return nil
	}
	return fmt.Errorf("unknown command %q, run \"fosterly help\"", strings.Join(args.Raw(), " "))
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// requireSession loads the persisted session, rejects expired or absent
// ones and installs the token on the API client.
func (r *Runner) requireSession() (*model.User, error) {
	token, user, expiration := r.store.Load()
	if token == "" || user == nil {
		return nil, ErrNotSignedIn
	}
	if !expiration.After(time.Now()) {
		return nil, errors.New(`session expired, run "fosterly login" again`)
	}
	r.client.SetToken(token)
	return user, nil
}

// openCache opens the offline cache, once per process.
func (r *Runner) openCache() (*storage.Cache, error) {
	if !r.cfg.Cache.Enabled {
		return nil, errors.New("the offline cache is disabled in the configuration")
	}
	if r.cache != nil {
		return r.cache, nil
	}
	path, err := r.cfg.CacheDatabasePath()
	if err != nil {
		return nil, fmt.Errorf("resolve cache path: %w", err)
	}
	cache, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	cache.SetMaxAnimals(r.cfg.Cache.MaxAnimals)
	r.cache = cache
	return cache, nil
}

// storageQuery maps the API filter onto the cache query type.
func storageQuery(f api.AnimalFilter) storage.AnimalQuery {
	return storage.AnimalQuery{
		Species:       f.Species,
		Query:         f.Query,
		AssociationID: f.AssociationID,
		OnlyAvailable: f.OnlyAvailable,
	}
}

// confirm asks a y/N question on the terminal. Non-interactive runs
// refuse rather than assume.
func (r *Runner) confirm(question string) bool {
	if !IsTTY() {
		fmt.Fprintln(r.stderr, warnStyle.Render("refusing without --confirm on a non-interactive run"))
		return false
	}
	fmt.Fprintf(r.stdout, "%s [y/N] ", question)
	var answer string
	fmt.Fscanln(os.Stdin, &answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
