// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"
)

// statusReport is the --json shape of the status command.
type statusReport struct {
	SignedIn   bool   `json:"signed_in"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
	TimeLeft   string `json:"time_left,omitempty"`
	StorePath  string `json:"store_path"`
	APIBaseURL string `json:"api_base_url"`

	CacheEnabled bool   `json:"cache_enabled"`
	CacheAnimals int    `json:"cache_animals,omitempty"`
	CacheSynced  string `json:"cache_synced,omitempty"`
}

// runStatus prints the session and cache state without touching the
// network, so it works offline.
func (r *Runner) runStatus(ctx context.Context, args *ArgParser) error {
	report := statusReport{
		StorePath:    r.store.Path(),
		APIBaseURL:   r.cfg.API.BaseURL,
		CacheEnabled: r.cfg.Cache.Enabled,
	}

	token, user, expiration := r.store.Load()
	if token != "" && user != nil && expiration.After(time.Now()) {
		report.SignedIn = true
		report.Email = user.Email
		report.Role = user.Role.String()
		report.ExpiresAt = expiration.Format(time.RFC3339)
		report.TimeLeft = sessionTimeLeft(expiration)
	}

	if r.cfg.Cache.Enabled {
		if cache, err := r.openCache(); err == nil {
			if stats, err := cache.Stats(ctx); err == nil {
				report.CacheAnimals = stats.AnimalCount
				if !stats.LastSync.IsZero() {
					report.CacheSynced = stats.LastSync.Format(time.RFC3339)
				}
			}
		}
	}

	if args.BoolFlag("json") {
		return writeJSON(r.stdout, "status", report)
	}

	fmt.Fprintln(r.stdout, titleStyle.Render("Fosterly"))
	if report.SignedIn {
		fmt.Fprintln(r.stdout, field("Session", successStyle.Render("signed in")))
		fmt.Fprintln(r.stdout, field("Account", report.Email+" ("+report.Role+")"))
		fmt.Fprintln(r.stdout, field("Expires", report.ExpiresAt+" ("+report.TimeLeft+" left)"))
	} else {
		fmt.Fprintln(r.stdout, field("Session", dimStyle.Render("signed out")))
	}
	fmt.Fprintln(r.stdout, field("API", report.APIBaseURL))
	fmt.Fprintln(r.stdout, field("Store", report.StorePath))

	switch {
	case !report.CacheEnabled:
		fmt.Fprintln(r.stdout, field("Cache", dimStyle.Render("disabled")))
	case report.CacheSynced == "":
		fmt.Fprintln(r.stdout, field("Cache", "empty, never synced"))
	default:
		fmt.Fprintln(r.stdout, field("Cache",
			fmt.Sprintf("%d listings, synced %s", report.CacheAnimals, report.CacheSynced)))
	}
	return nil
}
