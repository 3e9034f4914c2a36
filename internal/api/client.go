// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the typed client for the Fosterly REST API.
//
// All business logic lives behind the remote API; this package only
// shapes requests, decodes responses and classifies failures. Every
// blocking call takes a context so the session layer can cancel
// in-flight requests on logout.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Configuration constants for the Fosterly API client.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for
	// transient errors.
	DefaultMaxRetries = 3

	// DefaultRequestsPerSec caps outbound request rate.
	DefaultRequestsPerSec = 10

	// MaxResponseSize is the maximum allowed response body size.
	// Listings responses are small; anything past this is a bug or abuse.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// sharedTransport is reused by every Client to keep connection pooling
// effective across client copies.
var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

// Error variables for common API failures.
var (
	// ErrAuthFailed indicates authentication failed (bad credentials or
	// an expired/invalid bearer token).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrForbidden indicates the authenticated role may not perform the
	// operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates the API could not be reached or kept
	// failing after retries.
	ErrUnavailable = errors.New("service unavailable")
)

// APIError carries the decoded error payload of a non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("fosterly api error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("fosterly api error (HTTP %d): %s", e.Status, e.Message)
}

// apiErrorResponse is the error envelope the backend returns.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	// Some endpoints return a bare message instead of the envelope.
	Message string `json:"message"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the Fosterly REST API.
//
// The zero value is not usable; construct with New. Token is the
// current bearer credential and may be swapped as the session refreshes.
// SetToken is safe to call between requests, not concurrently with
// them; the session manager is the single writer.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter
}

// New creates a client for the given API base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
		maxRetries: DefaultMaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRequestsPerSec), DefaultRequestsPerSec),
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithMaxRetries sets the maximum number of retry attempts.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	c.maxRetries = maxRetries
	return c
}

// WithRateLimit sets the outbound requests-per-second cap.
func (c *Client) WithRateLimit(rps float64) *Client {
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c
}

// SetToken sets the bearer token sent with authenticated requests.
// An empty token returns the client to unauthenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST CORE
// =============================================================================

// doJSON performs a JSON request against path, retrying transient
// failures with exponential backoff, and decodes the response into out
// (out may be nil for empty responses).
//
// Auth failures (401) and client errors are never retried; only 5xx,
// 429 and transport errors are considered transient.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	url := c.baseURL + path
	correlationID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s, capped by context.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		c.setHeaders(req, correlationID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("API: %s %s transport error: %v", method, path, err)
			lastErr = err
			continue
		}

		log.Printf("API: %s %s -> %d (%v)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			lastErr = classifyStatus(resp)
			resp.Body.Close()
			continue
		}

		return decodeResponse(resp, out)
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// setHeaders sets the common headers for every API request.
func (c *Client) setHeaders(req *http.Request, correlationID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fosterly-tui/"+clientVersion)
	req.Header.Set("X-Request-Id", correlationID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// clientVersion is stamped into the User-Agent; overridden at build time.
var clientVersion = "dev"

// SetVersion sets the version reported in the User-Agent header.
func SetVersion(v string) {
	if v != "" {
		clientVersion = v
	}
}

// decodeResponse maps a completed HTTP response to out or to a typed error.
func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, MaxResponseSize)
	data, err := io.ReadAll(limited)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError converts a non-2xx body into a typed error.
func decodeError(status int, data []byte) error {
	var envelope apiErrorResponse
	_ = json.Unmarshal(data, &envelope)

	msg := envelope.Error.Message
	if msg == "" {
		msg = envelope.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	apiErr := &APIError{Status: status, Code: envelope.Error.Code, Message: msg}

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrAuthFailed, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	default:
		return apiErr
	}
}

// classifyStatus maps a retryable status to its sentinel for the final
// "max retries exceeded" error.
func classifyStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}
