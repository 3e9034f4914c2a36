// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the offline listing cache.
//
// Animal listings and association profiles fetched over the API are
// mirrored into a local SQLite database so browse views keep working
// without a connection. The cache is a read replica, never a source of
// truth: every sync replaces its contents wholesale, and all writes
// (asks, profile edits) go to the live API only.
//
// # Key Types
//
//   - Cache: the SQLite-backed mirror
//   - AnimalQuery: filter for cached listings
//   - Stats: cache contents summary
//
// # Usage
//
// Open the cache and sync fetched listings into it:
//
//	cache, err := storage.Open(cfg.CacheDatabasePath())
//	err = cache.ReplaceAnimals(ctx, animals)
//
// Query while offline:
//
//	animals, err := cache.Animals(ctx, storage.AnimalQuery{Species: "dog"})
//
// # Storage Location
//
// The database lives at ~/.fosterly/listings.db.
package storage
