// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// fosterly is a terminal client for the Fosterly animal fostering
// network. Run it bare for the interactive client, or see
// "fosterly help" for the scripting commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fosterly/fosterly-tui/internal/api"
	"github.com/fosterly/fosterly-tui/internal/cli"
	"github.com/fosterly/fosterly-tui/internal/config"
	"github.com/fosterly/fosterly-tui/internal/session"
	"github.com/fosterly/fosterly-tui/internal/storage"
	"github.com/fosterly/fosterly-tui/internal/ui/app"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	command, args := cli.Parse(argv)

	// Version and help need no config at all.
	switch command {
	case cli.CommandVersion:
		fmt.Println(cli.VersionString())
		return 0
	case cli.CommandHelp:
		fmt.Print(cli.Usage())
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fosterly: load configuration: "+err.Error())
		return 1
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "fosterly: invalid configuration: "+err.Error())
		return 1
	}

	api.SetVersion(cli.Version)

	if command == cli.CommandTUI {
		return runTUI(cfg)
	}

	runner, err := cli.NewRunner(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fosterly: "+err.Error())
		return 1
	}
	defer runner.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runner.Run(ctx, command, args); err != nil {
		fmt.Fprintln(os.Stderr, "fosterly: "+err.Error())
		return 1
	}
	return 0
}

// runTUI wires the session lifecycle and starts the interactive client.
func runTUI(cfg *config.Config) int {
	storePath, err := cfg.SessionStorePath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fosterly: "+err.Error())
		return 1
	}
	store := session.NewStore(storePath)

	client := api.New(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.API.MaxRetries)
	if cfg.API.RequestsPerSec > 0 {
		client = client.WithRateLimit(cfg.API.RequestsPerSec)
	}

	// The manager's state changes arrive asynchronously (idle monitor,
	// refresh scheduler); they are forwarded into the program as
	// messages. The program pointer is set before Run starts delivering.
	var program *tea.Program

	manager := session.NewManager(store, client,
		session.WithValidityWindow(cfg.ValidityWindow()),
		session.WithLowWaterMark(cfg.RefreshLowWater()),
		session.WithIdleThreshold(cfg.IdleThreshold()),
		session.WithOnChange(func(state session.State, reason session.LogoutReason) {
			if program == nil {
				return
			}
			if msg := session.StateCmd(state, reason); msg != nil {
				program.Send(msg)
			}
		}),
	)
	defer manager.Close()
	manager.Restore()

	scheduler := session.NewScheduler(manager, cfg.RefreshPoll())
	scheduler.Start()
	defer scheduler.Stop()

	// Losing the cache only loses offline browsing.
	var cache *storage.Cache
	if cfg.Cache.Enabled {
		if cachePath, err := cfg.CacheDatabasePath(); err == nil {
			if c, err := storage.Open(cachePath); err == nil {
				c.SetMaxAnimals(cfg.Cache.MaxAnimals)
				cache = c
				defer c.Close()
			} else {
				fmt.Fprintln(os.Stderr, "fosterly: offline cache unavailable: "+err.Error())
			}
		}
	}

	program = tea.NewProgram(
		app.New(cfg, client, manager, cache),
		tea.WithAltScreen(),
	)

	watcher, err := config.NewWatcher(func(next *config.Config) {
		program.Send(app.ConfigReloadedMsg{Cfg: next})
	})
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "fosterly: "+err.Error())
		return 1
	}
	return 0
}
