// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fosterly/fosterly-tui/internal/model"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New(srv.URL).WithMaxRetries(1).WithRateLimit(1000)
	return c, srv
}

// =============================================================================
// SIGNIN
// =============================================================================

func TestSignin_Success(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/signin", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var req SigninRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.com", req.Email)
		require.Equal(t, "Secret1!", req.Password)

		json.NewEncoder(w).Encode(SigninResponse{
			Token: "abc123",
			User:  model.User{ID: 1, Email: "a@b.com", Role: model.RoleFamily},
		})
	}))
	defer srv.Close()

	resp, err := c.Signin(context.Background(), "a@b.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.Token)
	assert.Equal(t, 1, resp.User.ID)
	assert.Equal(t, model.RoleFamily, resp.User.Role)

	// The token is installed for subsequent requests.
	assert.Equal(t, "abc123", c.Token())
}

func TestSignin_BadCredentials(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"bad_credentials","message":"invalid email or password"}}`))
	}))
	defer srv.Close()

	_, err := c.Signin(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Empty(t, c.Token())
}

// =============================================================================
// REFRESH
// =============================================================================

func TestRefreshToken_SendsBearerAndBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refresh-token", r.URL.Path)
		require.Equal(t, "Bearer old-token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "old-token", body["token"])

		w.Write([]byte(`{"token":"new-token"}`))
	}))
	defer srv.Close()

	c.SetToken("old-token")
	token, err := c.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
	assert.Equal(t, "new-token", c.Token())
}

func TestRefreshToken_WithoutToken(t *testing.T) {
	c := New("http://unused.local")
	_, err := c.RefreshToken(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestRefreshToken_Failure(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c.SetToken("expired")
	_, err := c.RefreshToken(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)
	// The stale token stays in place; the session layer decides to logout.
	assert.Equal(t, "expired", c.Token())
}

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

func TestDoJSON_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuthFailed},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := c.GetAnimal(context.Background(), 7)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDoJSON_APIErrorPayload(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"code":"validation","message":"name is required"}}`))
	}))
	defer srv.Close()

	_, err := c.CreateAnimal(context.Background(), model.Animal{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "validation", apiErr.Code)
	assert.Contains(t, apiErr.Message, "name is required")
}

// =============================================================================
// RETRY BEHAVIOR
// =============================================================================

func TestDoJSON_RetriesServerErrors(t *testing.T) {
	var calls int32
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := c.ListAnimals(context.Background(), AnimalFilter{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoJSON_DoesNotRetryAuthFailures(t *testing.T) {
	var calls int32
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := c.ListAnimals(context.Background(), AnimalFilter{})
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoJSON_ExhaustedRetries(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := c.ListAnimals(context.Background(), AnimalFilter{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDoJSON_ContextCancellation(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListAnimals(ctx, AnimalFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// QUERY ENCODING
// =============================================================================

func TestAnimalFilter_Encode(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "cat", q.Get("species"))
		assert.Equal(t, "tabby", q.Get("q"))
		assert.Equal(t, "true", q.Get("available"))
		w.Write([]byte(`[{"id":3,"name":"Milo","species":"cat","associationId":1,"available":true}]`))
	}))
	defer srv.Close()

	animals, err := c.ListAnimals(context.Background(), AnimalFilter{
		Species:       "cat",
		Query:         "tabby",
		OnlyAvailable: true,
	})
	require.NoError(t, err)
	require.Len(t, animals, 1)
	assert.Equal(t, "Milo", animals[0].Name)
}

func TestAskFilter_Encode(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "4", q.Get("familyId"))
		assert.Equal(t, "pending", q.Get("status"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := c.ListAsks(context.Background(), AskFilter{FamilyID: 4, Status: model.AskPending})
	require.NoError(t, err)
}

// =============================================================================
// MISC
// =============================================================================

func TestDelete_NoContent(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/animals/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, c.DeleteAnimal(context.Background(), 9))
}

func TestSetToken_EmptyClearsAuthHeader(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c.SetToken("temp")
	c.SetToken("")
	_, err := c.ListAnimals(context.Background(), AnimalFilter{})
	require.NoError(t, err)
}
