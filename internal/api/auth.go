// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fosterly/fosterly-tui/internal/model"
)

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// SigninRequest is the body of POST /signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResponse is the payload of a successful POST /signin.
type SigninResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// refreshRequest is the body of POST /refresh-token.
type refreshRequest struct {
	Token string `json:"token"`
}

// refreshResponse is the payload of a successful POST /refresh-token.
type refreshResponse struct {
	Token string `json:"token"`
}

// Signin authenticates with email and password. On success the returned
// token is also installed on the client for subsequent requests.
//
// Credential failures come back as ErrAuthFailed and are never retried.
func (c *Client) Signin(ctx context.Context, email, password string) (*SigninResponse, error) {
	var resp SigninResponse
	err := c.doJSON(ctx, http.MethodPost, "/signin", SigninRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("signin response carried no token")
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// RefreshToken exchanges the current bearer token for a fresh one. The
// current token rides both in the body and the bearer header, matching
// the backend contract. On success the new token replaces the old one
// on the client.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	if c.token == "" {
		return "", ErrAuthFailed
	}
	var resp refreshResponse
	err := c.doJSON(ctx, http.MethodPost, "/refresh-token", refreshRequest{Token: c.token}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("refresh response carried no token")
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

// Me fetches the authenticated user's record.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
