// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fosterly/fosterly-tui/internal/model"
)

// =============================================================================
// FAMILY ENDPOINTS
// =============================================================================

// ListFamilies fetches foster family profiles (admin view).
func (c *Client) ListFamilies(ctx context.Context) ([]model.Family, error) {
	var families []model.Family
	if err := c.doJSON(ctx, http.MethodGet, "/families", nil, &families); err != nil {
		return nil, err
	}
	return families, nil
}

// GetFamily fetches one family profile.
func (c *Client) GetFamily(ctx context.Context, id int) (*model.Family, error) {
	var family model.Family
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/families/%d", id), nil, &family); err != nil {
		return nil, err
	}
	return &family, nil
}

// UpdateFamily updates a family profile (own profile, or admin).
func (c *Client) UpdateFamily(ctx context.Context, family model.Family) (*model.Family, error) {
	var updated model.Family
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/families/%d", family.ID), family, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// =============================================================================
// ASSOCIATION ENDPOINTS
// =============================================================================

// ListAssociations fetches association profiles.
func (c *Client) ListAssociations(ctx context.Context) ([]model.Association, error) {
	var assocs []model.Association
	if err := c.doJSON(ctx, http.MethodGet, "/associations", nil, &assocs); err != nil {
		return nil, err
	}
	return assocs, nil
}

// GetAssociation fetches one association profile.
func (c *Client) GetAssociation(ctx context.Context, id int) (*model.Association, error) {
	var assoc model.Association
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/associations/%d", id), nil, &assoc); err != nil {
		return nil, err
	}
	return &assoc, nil
}

// UpdateAssociation updates an association profile.
func (c *Client) UpdateAssociation(ctx context.Context, assoc model.Association) (*model.Association, error) {
	var updated model.Association
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/associations/%d", assoc.ID), assoc, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
