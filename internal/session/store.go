// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the authenticated-session lifecycle:
// persistent token storage, inactivity detection, silent token refresh
// and the state machine tying them together.
package session

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/util"
)

// =============================================================================
// TOKEN STORE
// =============================================================================

// Persisted key names. The layout matches the hosted web client's
// storage exactly: three string values, expiration as stringified epoch
// milliseconds, user as a JSON-serialized record.
const (
	keyAuthToken       = "authToken"
	keyTokenExpiration = "tokenExpirationTime"
	keyAuthUser        = "authUser"
)

// Store persists the session triple (token, expiration, user) across
// restarts as a flat string key-value file. No schema versioning, no
// encryption. All operations touch the file synchronously.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Save persists the token, user and expiration under the known keys.
// The write is atomic so a crash mid-save leaves the previous session
// intact rather than a torn file.
func (s *Store) Save(token string, user model.User, expiration time.Time) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	kv := map[string]string{
		keyAuthToken:       token,
		keyTokenExpiration: strconv.FormatInt(expiration.UnixMilli(), 10),
		keyAuthUser:        string(userJSON),
	}

	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0600)
}

// Load returns the last-persisted triple. A missing file, unreadable
// JSON, or a corrupt user record all come back as "absent" (nil user,
// empty token): parse failures are logged, never propagated, so a
// damaged store can never keep the client from starting.
func (s *Store) Load() (token string, user *model.User, expiration time.Time) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("SESSION_STORE: unreadable store at %s: %v", s.path, err)
		}
		return "", nil, time.Time{}
	}

	var kv map[string]string
	if err := json.Unmarshal(data, &kv); err != nil {
		log.Printf("SESSION_STORE: corrupt store, treating as absent: %v", err)
		return "", nil, time.Time{}
	}

	token = kv[keyAuthToken]
	if token == "" {
		return "", nil, time.Time{}
	}

	var u model.User
	if err := json.Unmarshal([]byte(kv[keyAuthUser]), &u); err != nil {
		log.Printf("SESSION_STORE: corrupt user record, treating session as absent: %v", err)
		return "", nil, time.Time{}
	}

	if ms, err := strconv.ParseInt(kv[keyTokenExpiration], 10, 64); err == nil {
		expiration = time.UnixMilli(ms)
	} else {
		log.Printf("SESSION_STORE: corrupt expiration %q, treating session as absent: %v", kv[keyTokenExpiration], err)
		return "", nil, time.Time{}
	}

	return token, &u, expiration
}

// Clear removes all persisted keys. Clearing an already-clear store is
// a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether anything is persisted.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
