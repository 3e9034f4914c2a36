// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/fosterly/fosterly-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotCached is returned when a record is absent from the cache.
	ErrNotCached = errors.New("not in offline cache")
	// ErrNeverSynced is returned when the cache has never been filled.
	ErrNeverSynced = errors.New("offline cache never synced")
)

// =============================================================================
// LISTING CACHE
// =============================================================================

// Cache is the offline copy of listing data. Animal listings and
// association profiles fetched over the API are mirrored here so the
// browse views stay usable without a network connection. The cache is
// never authoritative: asks and all writes require the live API.
type Cache struct {
	db         *sql.DB
	path       string
	maxAnimals int
}

// SetMaxAnimals caps how many listings a sync keeps. Zero means
// unlimited.
func (c *Cache) SetMaxAnimals(n int) {
	c.maxAnimals = n
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	c := &Cache{db: db, path: path}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initSchema() error {
	if _, err := c.db.Exec(Schema); err != nil {
		return err
	}
	if _, err := c.db.Exec(InitMetadata); err != nil {
		return err
	}

	// A version mismatch wipes the data tables rather than migrating.
	var version string
	err := c.db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version)
	if err != nil {
		return err
	}
	if version != schemaVersion {
		if _, err := c.db.Exec("DELETE FROM animals"); err != nil {
			return err
		}
		if _, err := c.db.Exec("DELETE FROM associations"); err != nil {
			return err
		}
		if _, err := c.db.Exec("UPDATE metadata SET value = ? WHERE key = 'schema_version'", schemaVersion); err != nil {
			return err
		}
		_, err = c.db.Exec("UPDATE metadata SET value = '0' WHERE key = 'last_sync'")
		return err
	}
	return nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file location.
func (c *Cache) Path() string {
	return c.path
}

// =============================================================================
// SYNC (WRITE SIDE)
// =============================================================================

// ReplaceAnimals swaps the cached animal listings for the given set in
// one transaction and stamps the sync time. With a cap set, only the
// first maxAnimals listings survive; the API returns newest first.
func (c *Cache) ReplaceAnimals(ctx context.Context, animals []model.Animal) error {
	if c.maxAnimals > 0 && len(animals) > c.maxAnimals {
		animals = animals[:c.maxAnimals]
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM animals"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO animals (id, name, species, breed, sex, birth_date,
			description, photo_keys, association_id, available, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range animals {
		var birthDate any
		if a.BirthDate != nil {
			birthDate = a.BirthDate.String()
		}
		photoKeys, err := json.Marshal(a.PhotoKeys)
		if err != nil {
			photoKeys = []byte("[]")
		}
		available := 0
		if a.Available {
			available = 1
		}
		_, err = stmt.ExecContext(ctx,
			a.ID, a.Name, a.Species, a.Breed, a.Sex, birthDate,
			a.Description, string(photoKeys), a.AssociationID, available,
			a.CreatedAt.Unix(),
		)
		if err != nil {
			return err
		}
	}

	if err := stampSync(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceAssociations swaps the cached association profiles.
func (c *Cache) ReplaceAssociations(ctx context.Context, associations []model.Association) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM associations"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO associations (id, user_id, name, registration_id,
			address, city, zip_code, phone, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range associations {
		_, err := stmt.ExecContext(ctx,
			a.ID, a.UserID, a.Name, a.RegistrationID,
			a.Address, a.City, a.ZipCode, a.Phone, a.Description,
		)
		if err != nil {
			return err
		}
	}

	if err := stampSync(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func stampSync(ctx context.Context, tx *sql.Tx) error {
	now := time.Now().Unix()
	_, err := tx.ExecContext(ctx,
		"UPDATE metadata SET value = ? WHERE key = 'last_sync'", now)
	return err
}

// Clear wipes all cached data and the sync stamp.
func (c *Cache) Clear(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM animals",
		"DELETE FROM associations",
		"UPDATE metadata SET value = '0' WHERE key = 'last_sync'",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// QUERIES (READ SIDE)
// =============================================================================

// AnimalQuery filters cached animal listings. Zero values match all.
type AnimalQuery struct {
	Species       string
	Query         string // substring of name or breed, case-insensitive
	AssociationID int
	OnlyAvailable bool
}

// Animals returns cached listings matching the query, newest first.
func (c *Cache) Animals(ctx context.Context, q AnimalQuery) ([]model.Animal, error) {
	var (
		where []string
		args  []any
	)
	if q.Species != "" {
		where = append(where, "species = ?")
		args = append(args, q.Species)
	}
	if q.Query != "" {
		where = append(where, "(name LIKE ? OR breed LIKE ?)")
		pattern := "%" + q.Query + "%"
		args = append(args, pattern, pattern)
	}
	if q.AssociationID > 0 {
		where = append(where, "association_id = ?")
		args = append(args, q.AssociationID)
	}
	if q.OnlyAvailable {
		where = append(where, "available = 1")
	}

	query := `SELECT id, name, species, breed, sex, birth_date,
		description, photo_keys, association_id, available, created_at
		FROM animals`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var animals []model.Animal
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}
	return animals, rows.Err()
}

// Animal returns one cached listing, or ErrNotCached.
func (c *Cache) Animal(ctx context.Context, id int) (*model.Animal, error) {
	row := c.db.QueryRowContext(ctx, `SELECT id, name, species, breed, sex,
		birth_date, description, photo_keys, association_id, available, created_at
		FROM animals WHERE id = ?`, id)
	a, err := scanAnimal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotCached
		}
		return nil, err
	}
	return &a, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (model.Animal, error) {
	var (
		a         model.Animal
		birthDate sql.NullString
		photoKeys string
		available int
		createdAt int64
	)
	err := row.Scan(&a.ID, &a.Name, &a.Species, &a.Breed, &a.Sex,
		&birthDate, &a.Description, &photoKeys, &a.AssociationID,
		&available, &createdAt)
	if err != nil {
		return model.Animal{}, err
	}

	if birthDate.Valid && birthDate.String != "" {
		if t, err := time.Parse("2006-01-02", birthDate.String); err == nil {
			d := model.ShortDate(t)
			a.BirthDate = &d
		}
	}
	if photoKeys != "" {
		// Corrupt photo keys degrade to no photos, never to a failed row.
		_ = json.Unmarshal([]byte(photoKeys), &a.PhotoKeys)
	}
	a.Available = available == 1
	if createdAt > 0 {
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
	}
	return a, nil
}

// Associations returns all cached association profiles, by name.
func (c *Cache) Associations(ctx context.Context) ([]model.Association, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, user_id, name,
		registration_id, address, city, zip_code, phone, description
		FROM associations ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var associations []model.Association
	for rows.Next() {
		var a model.Association
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.RegistrationID,
			&a.Address, &a.City, &a.ZipCode, &a.Phone, &a.Description)
		if err != nil {
			return nil, err
		}
		associations = append(associations, a)
	}
	return associations, rows.Err()
}

// Association returns one cached profile, or ErrNotCached.
func (c *Cache) Association(ctx context.Context, id int) (*model.Association, error) {
	var a model.Association
	err := c.db.QueryRowContext(ctx, `SELECT id, user_id, name,
		registration_id, address, city, zip_code, phone, description
		FROM associations WHERE id = ?`, id).
		Scan(&a.ID, &a.UserID, &a.Name, &a.RegistrationID,
			&a.Address, &a.City, &a.ZipCode, &a.Phone, &a.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats describes the cache contents.
type Stats struct {
	AnimalCount      int
	AssociationCount int
	LastSync         time.Time
	DatabaseSize     int64
}

// Stats returns cache statistics.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var s Stats

	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM animals").Scan(&s.AnimalCount); err != nil {
		return s, err
	}
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM associations").Scan(&s.AssociationCount); err != nil {
		return s, err
	}

	var lastSync int64
	err := c.db.QueryRowContext(ctx,
		"SELECT value FROM metadata WHERE key = 'last_sync'").Scan(&lastSync)
	if err != nil {
		return s, err
	}
	if lastSync > 0 {
		s.LastSync = time.Unix(lastSync, 0)
	}

	if info, err := os.Stat(c.path); err == nil {
		s.DatabaseSize = info.Size()
	}
	return s, nil
}

// LastSync returns the last successful sync time, or ErrNeverSynced.
func (c *Cache) LastSync(ctx context.Context) (time.Time, error) {
	var lastSync int64
	err := c.db.QueryRowContext(ctx,
		"SELECT value FROM metadata WHERE key = 'last_sync'").Scan(&lastSync)
	if err != nil {
		return time.Time{}, err
	}
	if lastSync == 0 {
		return time.Time{}, ErrNeverSynced
	}
	return time.Unix(lastSync, 0), nil
}
