// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fosterly/fosterly-tui/internal/model"
)

// =============================================================================
// ANIMAL ENDPOINTS
// =============================================================================

// AnimalFilter narrows a listing query. Zero values are omitted; the
// backend owns search indexing, this is a passthrough.
type AnimalFilter struct {
	Species       string
	Query         string
	AssociationID int
	OnlyAvailable bool
}

func (f AnimalFilter) encode() string {
	q := url.Values{}
	if f.Species != "" {
		q.Set("species", f.Species)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.AssociationID != 0 {
		q.Set("associationId", fmt.Sprintf("%d", f.AssociationID))
	}
	if f.OnlyAvailable {
		q.Set("available", "true")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListAnimals fetches animal listings matching the filter.
func (c *Client) ListAnimals(ctx context.Context, filter AnimalFilter) ([]model.Animal, error) {
	var animals []model.Animal
	if err := c.doJSON(ctx, http.MethodGet, "/animals"+filter.encode(), nil, &animals); err != nil {
		return nil, err
	}
	return animals, nil
}

// GetAnimal fetches one animal record.
func (c *Client) GetAnimal(ctx context.Context, id int) (*model.Animal, error) {
	var animal model.Animal
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/animals/%d", id), nil, &animal); err != nil {
		return nil, err
	}
	return &animal, nil
}

// CreateAnimal publishes a new listing. Association role only; the
// backend enforces authorization, the client gates the form.
func (c *Client) CreateAnimal(ctx context.Context, animal model.Animal) (*model.Animal, error) {
	var created model.Animal
	if err := c.doJSON(ctx, http.MethodPost, "/animals", animal, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAnimal replaces an existing listing.
func (c *Client) UpdateAnimal(ctx context.Context, animal model.Animal) (*model.Animal, error) {
	var updated model.Animal
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/animals/%d", animal.ID), animal, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAnimal removes a listing.
func (c *Client) DeleteAnimal(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/animals/%d", id), nil, nil)
}
