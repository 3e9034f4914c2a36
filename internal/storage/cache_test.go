// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fosterly/fosterly-tui/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "listings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleAnimals() []model.Animal {
	birth := model.ShortDate(time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC))
	return []model.Animal{
		{
			ID:            1,
			Name:          "Rex",
			Species:       "dog",
			Breed:         "Beagle",
			Sex:           "male",
			BirthDate:     &birth,
			Description:   "Friendly beagle looking for a calm home.",
			PhotoKeys:     []string{"animals/1/a.jpg", "animals/1/b.jpg"},
			AssociationID: 10,
			Available:     true,
			CreatedAt:     time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:            2,
			Name:          "Misty",
			Species:       "cat",
			AssociationID: 10,
			Available:     true,
			CreatedAt:     time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:            3,
			Name:          "Bruno",
			Species:       "dog",
			Breed:         "Mixed",
			AssociationID: 11,
			Available:     false,
			CreatedAt:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

// =============================================================================
// SYNC + QUERY
// =============================================================================

func TestCache_ReplaceAndQueryAnimals(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()))

	all, err := c.Animals(ctx, AnimalQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "Bruno", all[0].Name)
	assert.Equal(t, "Rex", all[2].Name)

	dogs, err := c.Animals(ctx, AnimalQuery{Species: "dog"})
	require.NoError(t, err)
	assert.Len(t, dogs, 2)

	available, err := c.Animals(ctx, AnimalQuery{OnlyAvailable: true})
	require.NoError(t, err)
	assert.Len(t, available, 2)

	byAssoc, err := c.Animals(ctx, AnimalQuery{AssociationID: 11})
	require.NoError(t, err)
	require.Len(t, byAssoc, 1)
	assert.Equal(t, "Bruno", byAssoc[0].Name)

	byName, err := c.Animals(ctx, AnimalQuery{Query: "beag"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Rex", byName[0].Name)
}

func TestCache_AnimalRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()))

	got, err := c.Animal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Rex", got.Name)
	assert.Equal(t, "Beagle", got.Breed)
	assert.Equal(t, []string{"animals/1/a.jpg", "animals/1/b.jpg"}, got.PhotoKeys)
	assert.True(t, got.Available)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, "2022-03-15", got.BirthDate.String())
	assert.Equal(t, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC), got.CreatedAt)

	// Nil birth date survives the round trip as nil.
	misty, err := c.Animal(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, misty.BirthDate)
	assert.Empty(t, misty.PhotoKeys)
}

func TestCache_AnimalNotCached(t *testing.T) {
	c := openTestCache(t)
	_, err := c.Animal(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCache_ReplaceIsWholesale(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()))

	// A second sync with one animal discards the rest.
	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()[:1]))

	all, err := c.Animals(ctx, AnimalQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = c.Animal(ctx, 3)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCache_MaxAnimalsCapsSync(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	c.SetMaxAnimals(2)
	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()))

	all, err := c.Animals(ctx, AnimalQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	// The first two listings of the sync survive, the tail is dropped.
	_, err = c.Animal(ctx, 1)
	assert.NoError(t, err)
	_, err = c.Animal(ctx, 3)
	assert.ErrorIs(t, err, ErrNotCached)

	// Zero lifts the cap again.
	c.SetMaxAnimals(0)
	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()))
	all, err = c.Animals(ctx, AnimalQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCache_Associations(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ReplaceAssociations(ctx, []model.Association{
		{ID: 11, UserID: 5, Name: "Zoo Rescue", City: "Lyon"},
		{ID: 10, UserID: 4, Name: "animal haven", City: "Paris", Phone: "0102030405"},
	}))

	all, err := c.Associations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Sorted by name, case-insensitive.
	assert.Equal(t, "animal haven", all[0].Name)
	assert.Equal(t, "Zoo Rescue", all[1].Name)

	one, err := c.Association(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Paris", one.City)
	assert.Equal(t, "0102030405", one.Phone)

	_, err = c.Association(ctx, 404)
	assert.ErrorIs(t, err, ErrNotCached)
}

// =============================================================================
// METADATA
// =============================================================================

func TestCache_LastSync(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	_, err := c.LastSync(ctx)
	assert.ErrorIs(t, err, ErrNeverSynced)

	before := time.Now().Add(-time.Second)
	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()))

	synced, err := c.LastSync(ctx)
	require.NoError(t, err)
	assert.False(t, synced.Before(before.Truncate(time.Second)))
}

func TestCache_Stats(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()))
	require.NoError(t, c.ReplaceAssociations(ctx, []model.Association{{ID: 1, Name: "A"}}))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.AnimalCount)
	assert.Equal(t, 1, stats.AssociationCount)
	assert.False(t, stats.LastSync.IsZero())
}

func TestCache_Clear(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()))

	require.NoError(t, c.Clear(ctx))

	all, err := c.Animals(ctx, AnimalQuery{})
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = c.LastSync(ctx)
	assert.ErrorIs(t, err, ErrNeverSynced)
}

func TestCache_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.db")
	ctx := context.Background()

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.ReplaceAnimals(ctx, sampleAnimals()))
	require.NoError(t, c.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()

	all, err := c2.Animals(ctx, AnimalQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
