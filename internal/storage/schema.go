// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// Schema creates the offline cache tables.
//
// The cache is a read-only replica of listing data already fetched over
// the API. It is wiped wholesale on every successful sync, so there are
// no migrations; bumping schemaVersion discards the file.
const Schema = `
CREATE TABLE IF NOT EXISTS animals (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    species         TEXT NOT NULL,
    breed           TEXT NOT NULL DEFAULT '',
    sex             TEXT NOT NULL DEFAULT '',
    birth_date      TEXT,
    description     TEXT NOT NULL DEFAULT '',
    photo_keys      TEXT NOT NULL DEFAULT '[]',
    association_id  INTEGER NOT NULL,
    available       INTEGER NOT NULL DEFAULT 0,
    created_at      INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_animals_species ON animals(species);
CREATE INDEX IF NOT EXISTS idx_animals_association ON animals(association_id);
CREATE INDEX IF NOT EXISTS idx_animals_available ON animals(available);

CREATE TABLE IF NOT EXISTS associations (
    id              INTEGER PRIMARY KEY,
    user_id         INTEGER NOT NULL DEFAULT 0,
    name            TEXT NOT NULL,
    registration_id TEXT NOT NULL DEFAULT '',
    address         TEXT NOT NULL DEFAULT '',
    city            TEXT NOT NULL DEFAULT '',
    zip_code        TEXT NOT NULL DEFAULT '',
    phone           TEXT NOT NULL DEFAULT '',
    description     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// InitMetadata seeds the metadata keys on first open.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES
    ('schema_version', '1'),
    ('last_sync', '0');
`

const schemaVersion = "1"
