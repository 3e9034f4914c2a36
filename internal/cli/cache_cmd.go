// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fosterly/fosterly-tui/internal/api"
	"github.com/fosterly/fosterly-tui/internal/util"
)

// =============================================================================
// OFFLINE CACHE
// =============================================================================

func (r *Runner) runCache(ctx context.Context, args *ArgParser) error {
	switch args.Subcommand() {
	case "", "stats":
		return r.cacheStats(ctx, args)
	case "sync":
		return r.cacheSync(ctx)
	case "clear":
		return r.cacheClear(ctx, args)
	}
	return fmt.Errorf("unknown cache subcommand %q", args.Subcommand())
}

type cacheReport struct {
	Path         string `json:"path"`
	Animals      int    `json:"animals"`
	Associations int    `json:"associations"`
	LastSync     string `json:"last_sync,omitempty"`
	SizeBytes    int64  `json:"size_bytes"`
}

func (r *Runner) cacheStats(ctx context.Context, args *ArgParser) error {
	cache, err := r.openCache()
	if err != nil {
		return err
	}
	stats, err := cache.Stats(ctx)
	if err != nil {
		return err
	}

	report := cacheReport{
		Path:         cache.Path(),
		Animals:      stats.AnimalCount,
		Associations: stats.AssociationCount,
		SizeBytes:    stats.DatabaseSize,
	}
	if !stats.LastSync.IsZero() {
		report.LastSync = stats.LastSync.Format(time.RFC3339)
	}

	if args.BoolFlag("json") {
		return writeJSON(r.stdout, "cache stats", report)
	}

	fmt.Fprintln(r.stdout, titleStyle.Render("Offline cache"))
	fmt.Fprintln(r.stdout, field("Path", report.Path))
	fmt.Fprintln(r.stdout, field("Listings", util.IntToString(report.Animals)))
	fmt.Fprintln(r.stdout, field("Associations", util.IntToString(report.Associations)))
	if report.LastSync == "" {
		fmt.Fprintln(r.stdout, field("Last sync", dimStyle.Render("never")))
	} else {
		fmt.Fprintln(r.stdout, field("Last sync", report.LastSync))
	}
	fmt.Fprintln(r.stdout, field("Size", util.Int64ToString(report.SizeBytes)+" bytes"))
	return nil
}

// cacheSync refills the cache from the API in one shot, for use before
// going somewhere without a connection.
func (r *Runner) cacheSync(ctx context.Context) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}
	cache, err := r.openCache()
	if err != nil {
		return err
	}

	animals, err := r.client.ListAnimals(ctx, api.AnimalFilter{})
	if err != nil {
		return fmt.Errorf("fetch listings: %w", err)
	}
	if err := cache.ReplaceAnimals(ctx, animals); err != nil {
		return fmt.Errorf("store listings: %w", err)
	}

	associations, err := r.client.ListAssociations(ctx)
	if err != nil {
		return fmt.Errorf("fetch associations: %w", err)
	}
	if err := cache.ReplaceAssociations(ctx, associations); err != nil {
		return fmt.Errorf("store associations: %w", err)
	}

	fmt.Fprintln(r.stdout, successStyle.Render("Cache synced")+
		dimStyle.Render("  ("+util.IntToString(len(animals))+" listings, "+
			util.IntToString(len(associations))+" associations)"))
	return nil
}

func (r *Runner) cacheClear(ctx context.Context, args *ArgParser) error {
	cache, err := r.openCache()
	if err != nil {
		return err
	}

	if !args.BoolFlag("confirm") && !r.confirm("Drop all cached listings?") {
		return errors.New("aborted")
	}

	if err := cache.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(r.stdout, successStyle.Render("Cache cleared."))
	return nil
}
