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
// ASK (ADOPTION REQUEST) ENDPOINTS
// =============================================================================

// AskFilter narrows an ask listing query.
type AskFilter struct {
	FamilyID int
	AnimalID int
	Status   model.AskStatus
}

func (f AskFilter) encode() string {
	q := url.Values{}
	if f.FamilyID != 0 {
		q.Set("familyId", fmt.Sprintf("%d", f.FamilyID))
	}
	if f.AnimalID != 0 {
		q.Set("animalId", fmt.Sprintf("%d", f.AnimalID))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListAsks fetches adoption requests matching the filter. Families see
// their own asks; associations see asks targeting their animals.
func (c *Client) ListAsks(ctx context.Context, filter AskFilter) ([]model.Ask, error) {
	var asks []model.Ask
	if err := c.doJSON(ctx, http.MethodGet, "/asks"+filter.encode(), nil, &asks); err != nil {
		return nil, err
	}
	return asks, nil
}

// CreateAsk files a new adoption request. Family role only.
func (c *Client) CreateAsk(ctx context.Context, ask model.Ask) (*model.Ask, error) {
	var created model.Ask
	if err := c.doJSON(ctx, http.MethodPost, "/asks", ask, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAsk updates an ask, typically its status (accept/refuse) by the
// reviewing association or an amended message by the family.
func (c *Client) UpdateAsk(ctx context.Context, ask model.Ask) (*model.Ask, error) {
	var updated model.Ask
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/asks/%d", ask.ID), ask, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAsk withdraws an adoption request.
func (c *Client) DeleteAsk(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/asks/%d", id), nil, nil)
}
