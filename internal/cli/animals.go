// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fosterly/fosterly-tui/internal/api"
	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/util"
)

// speciesTitler renders species codes for humans ("dog" -> "Dog").
var speciesTitler = cases.Title(language.English)

func speciesLabel(species string) string {
	if species == "" {
		return "?"
	}
	return speciesTitler.String(species)
}

// =============================================================================
// ANIMALS
// =============================================================================

func (r *Runner) runAnimals(ctx context.Context, args *ArgParser) error {
	switch args.Subcommand() {
	case "", "list":
		return r.animalsList(ctx, args)
	case "show":
		return r.animalsShow(ctx, args)
	}
	return fmt.Errorf("unknown animals subcommand %q", args.Subcommand())
}

func (r *Runner) animalsList(ctx context.Context, args *ArgParser) error {
	filter := api.AnimalFilter{
		Species:       args.Flag("species"),
		Query:         args.Flag("query"),
		AssociationID: args.FlagIntOrDefault("association", 0),
		OnlyAvailable: args.BoolFlag("available"),
	}

	var (
		animals   []model.Animal
		fromCache bool
		err       error
	)
	if args.BoolFlag("cached") {
		animals, err = r.cachedAnimals(ctx, filter)
		fromCache = true
	} else {
		if _, err = r.requireSession(); err != nil {
			return err
		}
		animals, err = r.client.ListAnimals(ctx, filter)
		// The interactive client falls back the same way when the
		// backend is down.
		if errors.Is(err, api.ErrUnavailable) {
			if cached, cerr := r.cachedAnimals(ctx, filter); cerr == nil {
				animals, err, fromCache = cached, nil, true
				fmt.Fprintln(r.stderr, warnStyle.Render("API unreachable, showing cached listings"))
			}
		}
	}
	if err != nil {
		return err
	}

	if args.BoolFlag("json") {
		return writeJSON(r.stdout, "animals list", animals)
	}

	if len(animals) == 0 {
		fmt.Fprintln(r.stdout, dimStyle.Render("No listings match."))
		return nil
	}

	now := time.Now()
	fmt.Fprintln(r.stdout, titleStyle.Render("Listings")+
		dimStyle.Render("  ("+util.IntToString(len(animals))+")"))
	fmt.Fprintln(r.stdout, dimStyle.Render(
		pad("ID", 6)+pad("NAME", 18)+pad("SPECIES", 9)+pad("AGE", 5)+"STATUS"))
	fmt.Fprintln(r.stdout, separator())
	for _, a := range animals {
		age := "?"
		if years := a.Age(now); years >= 0 {
			age = util.IntToString(years)
		}
		status := warnStyle.Render("fostered")
		if a.Available {
			status = successStyle.Render("available")
		}
		fmt.Fprintln(r.stdout,
			pad(util.IntToString(a.ID), 6)+
				pad(a.Name, 18)+
				pad(speciesLabel(a.Species), 9)+
				pad(age, 5)+
				status)
	}
	if fromCache {
		fmt.Fprintln(r.stdout, dimStyle.Render("From the offline cache."))
	}
	return nil
}

func (r *Runner) animalsShow(ctx context.Context, args *ArgParser) error {
	id, err := args.PositionalID(1, "animal id")
	if err != nil {
		return err
	}

	if _, err := r.requireSession(); err != nil {
		return err
	}
	animal, err := r.client.GetAnimal(ctx, id)
	if errors.Is(err, api.ErrUnavailable) {
		if cache, cerr := r.openCache(); cerr == nil {
			if cached, cerr := cache.Animal(ctx, id); cerr == nil {
				animal = cached
				err = nil
				fmt.Fprintln(r.stderr, warnStyle.Render("API unreachable, showing the cached listing"))
			}
		}
	}
	if err != nil {
		return err
	}

	if args.BoolFlag("json") {
		return writeJSON(r.stdout, "animals show", animal)
	}

	title := animal.Name
	if animal.Breed != "" {
		title += "  (" + animal.Breed + ")"
	}
	fmt.Fprintln(r.stdout, titleStyle.Render(title))
	fmt.Fprintln(r.stdout, field("Species", speciesLabel(animal.Species)))
	if animal.Sex != "" {
		fmt.Fprintln(r.stdout, field("Sex", animal.Sex))
	}
	if animal.BirthDate != nil {
		born := animal.BirthDate.String()
		if years := animal.Age(time.Now()); years >= 0 {
			born += "  (" + util.IntToString(years) + " years)"
		}
		fmt.Fprintln(r.stdout, field("Born", born))
	}
	status := "fostered"
	if animal.Available {
		status = "available"
	}
	fmt.Fprintln(r.stdout, field("Status", status))
	fmt.Fprintln(r.stdout, field("Association", "#"+util.IntToString(animal.AssociationID)))
	if animal.Description != "" {
		fmt.Fprintln(r.stdout)
		fmt.Fprintln(r.stdout, valueStyle.Render(animal.Description))
	}
	return nil
}

// cachedAnimals reads listings from the offline cache with the same
// filter semantics as the API.
func (r *Runner) cachedAnimals(ctx context.Context, f api.AnimalFilter) ([]model.Animal, error) {
	cache, err := r.openCache()
	if err != nil {
		return nil, err
	}
	return cache.Animals(ctx, storageQuery(f))
}

// pad renders a fixed-width table cell, truncating wide values.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		s = runewidth.Truncate(s, width-1, "…")
	}
	return runewidth.FillRight(s, width)
}

// =============================================================================
// ASSOCIATIONS
// =============================================================================

func (r *Runner) runAssociations(ctx context.Context, args *ArgParser) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}

	associations, err := r.client.ListAssociations(ctx)
	if errors.Is(err, api.ErrUnavailable) {
		if cache, cerr := r.openCache(); cerr == nil {
			if cached, cerr := cache.Associations(ctx); cerr == nil {
				associations = cached
				err = nil
				fmt.Fprintln(r.stderr, warnStyle.Render("API unreachable, showing the cached directory"))
			}
		}
	}
	if err != nil {
		return err
	}

	if args.BoolFlag("json") {
		return writeJSON(r.stdout, "associations", associations)
	}

	if len(associations) == 0 {
		fmt.Fprintln(r.stdout, dimStyle.Render("No associations registered."))
		return nil
	}
	fmt.Fprintln(r.stdout, titleStyle.Render("Associations"))
	for _, assoc := range associations {
		line := pad("#"+util.IntToString(assoc.ID), 6) + assoc.Name
		if assoc.City != "" {
			line += dimStyle.Render("  " + strings.TrimSpace(assoc.City))
		}
		fmt.Fprintln(r.stdout, line)
	}
	return nil
}
