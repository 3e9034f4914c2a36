// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fosterly/fosterly-tui/internal/api"
	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/storage"
)

// requestTimeout bounds every interactive API call.
const requestTimeout = 15 * time.Second

// =============================================================================
// COMMANDS
// =============================================================================

func (a *App) signinCmd(email, password string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.Signin(ctx, email, password)
		return signinResultMsg{resp: resp, err: err}
	}
}

// loadAnimalsCmd fetches listings from the API. When the backend is
// unreachable it falls back to the offline cache; on success it refills
// the cache for the next outage.
func (a *App) loadAnimalsCmd() tea.Cmd {
	client := a.client
	cache := a.cache
	filter := a.filter
	sessionCtx := a.manager.Context()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(sessionCtx, requestTimeout)
		defer cancel()

		animals, err := client.ListAnimals(ctx, filter)
		if err == nil {
			if cache != nil {
				// Sync failures are invisible; the next online fetch retries.
				_ = cache.ReplaceAnimals(context.Background(), animals)
			}
			return animalsLoadedMsg{animals: animals}
		}

		if cache != nil && errors.Is(err, api.ErrUnavailable) {
			cached, cerr := cache.Animals(context.Background(), cacheQuery(filter))
			if cerr == nil {
				return animalsLoadedMsg{animals: cached, fromCache: true}
			}
		}
		return animalsLoadedMsg{err: err}
	}
}

// cacheQuery maps the API filter onto the cache's query type.
func cacheQuery(f api.AnimalFilter) storage.AnimalQuery {
	return storage.AnimalQuery{
		Species:       f.Species,
		Query:         f.Query,
		AssociationID: f.AssociationID,
		OnlyAvailable: f.OnlyAvailable,
	}
}

func (a *App) loadAssociationsCmd() tea.Cmd {
	client := a.client
	cache := a.cache
	sessionCtx := a.manager.Context()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(sessionCtx, requestTimeout)
		defer cancel()

		associations, err := client.ListAssociations(ctx)
		if err == nil {
			if cache != nil {
				_ = cache.ReplaceAssociations(context.Background(), associations)
			}
			return associationsLoadedMsg{associations: associations}
		}

		if cache != nil && errors.Is(err, api.ErrUnavailable) {
			cached, cerr := cache.Associations(context.Background())
			if cerr == nil {
				return associationsLoadedMsg{associations: cached, fromCache: true}
			}
		}
		return associationsLoadedMsg{err: err}
	}
}

func (a *App) loadAsksCmd() tea.Cmd {
	client := a.client
	sessionCtx := a.manager.Context()
	filter := a.askFilter()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(sessionCtx, requestTimeout)
		defer cancel()
		asks, err := client.ListAsks(ctx, filter)
		return asksLoadedMsg{asks: asks, err: err}
	}
}

// askFilter scopes the ask list to what the signed-in role may see.
// Families see their own requests, associations the requests on their
// animals, admins everything.
func (a *App) askFilter() api.AskFilter {
	user := a.manager.User()
	if user == nil {
		return api.AskFilter{}
	}
	switch user.Role {
	case model.RoleFamily:
		if user.FamilyID != nil {
			return api.AskFilter{FamilyID: *user.FamilyID}
		}
	case model.RoleAssociation, model.RoleAdmin:
		// Server scopes by the bearer token.
	}
	return api.AskFilter{}
}

func (a *App) fileAskCmd(animalID int) tea.Cmd {
	client := a.client
	sessionCtx := a.manager.Context()
	user := a.manager.User()
	return func() tea.Msg {
		if user == nil || user.FamilyID == nil {
			return askFiledMsg{err: errors.New("no family profile on this account")}
		}
		ctx, cancel := context.WithTimeout(sessionCtx, requestTimeout)
		defer cancel()
		ask, err := client.CreateAsk(ctx, model.Ask{
			FamilyID: *user.FamilyID,
			AnimalID: animalID,
			Status:   model.AskPending,
		})
		return askFiledMsg{ask: ask, err: err}
	}
}

func (a *App) reviewAskCmd(ask model.Ask, status model.AskStatus) tea.Cmd {
	client := a.client
	sessionCtx := a.manager.Context()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(sessionCtx, requestTimeout)
		defer cancel()
		ask.Status = status
		updated, err := client.UpdateAsk(ctx, ask)
		return askReviewedMsg{ask: updated, err: err}
	}
}

// saveAnimalCmd creates or updates a listing depending on its ID.
func (a *App) saveAnimalCmd(animal model.Animal) tea.Cmd {
	client := a.client
	sessionCtx := a.manager.Context()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(sessionCtx, requestTimeout)
		defer cancel()
		if animal.ID == 0 {
			saved, err := client.CreateAnimal(ctx, animal)
			return animalSavedMsg{animal: saved, created: true, err: err}
		}
		saved, err := client.UpdateAnimal(ctx, animal)
		return animalSavedMsg{animal: saved, err: err}
	}
}

// loadProfileCmd fetches the role profile behind the signed-in user.
func (a *App) loadProfileCmd() tea.Cmd {
	client := a.client
	sessionCtx := a.manager.Context()
	user := a.manager.User()
	return func() tea.Msg {
		if user == nil {
			return profileLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(sessionCtx, requestTimeout)
		defer cancel()
		switch {
		case user.FamilyID != nil:
			family, err := client.GetFamily(ctx, *user.FamilyID)
			return profileLoadedMsg{family: family, err: err}
		case user.AssociationID != nil:
			assoc, err := client.GetAssociation(ctx, *user.AssociationID)
			return profileLoadedMsg{association: assoc, err: err}
		}
		return profileLoadedMsg{}
	}
}

func (a *App) toggleAvailabilityCmd(animal model.Animal) tea.Cmd {
	client := a.client
	sessionCtx := a.manager.Context()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(sessionCtx, requestTimeout)
		defer cancel()
		animal.Available = !animal.Available
		updated, err := client.UpdateAnimal(ctx, animal)
		return availabilityToggledMsg{animal: updated, err: err}
	}
}

// =============================================================================
// ERROR PRESENTATION
// =============================================================================

// errorMessage maps API errors onto user-facing text.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, api.ErrAuthFailed):
		return "Email or password is incorrect"
	case errors.Is(err, api.ErrForbidden):
		return "Your account is not allowed to do that"
	case errors.Is(err, api.ErrNotFound):
		return "That record no longer exists"
	case errors.Is(err, api.ErrRateLimited):
		return "Too many requests, slow down a moment"
	case errors.Is(err, api.ErrUnavailable):
		return "Cannot reach the Fosterly service"
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong: " + err.Error()
}
