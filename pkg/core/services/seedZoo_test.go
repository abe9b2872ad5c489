package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

func TestSeedZoo_EmptyStore(t *testing.T) {
	store := db.NewMemoryDB()
	ctx := context.Background()

	result, err := SeedZoo(ctx, store, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Zoos)
	assert.Equal(t, 5, result.Categories)
	assert.Equal(t, 7, result.Enclosures)
	assert.Equal(t, 7, result.Animals)

	enclosures, err := store.ListEnclosures(ctx, db.EnclosureFilter{ZooID: &result.ZooID})
	require.NoError(t, err)
	require.Len(t, enclosures, 7)
	assert.Equal(t, "Savanna", enclosures[0].Name)
	assert.Equal(t, 500.0, enclosures[0].Size)
	assert.Equal(t, 500.0, enclosures[0].RemainingCapacity)
	assert.Equal(t, "Desert", enclosures[6].Name)

	animals, err := store.ListAnimals(ctx, db.AnimalFilter{Unassigned: true})
	require.NoError(t, err)
	assert.Len(t, animals, 7)

	preyLinks := 0
	for _, animal := range animals {
		assert.NotNil(t, animal.CategoryID)
		preyLinks += len(animal.PreyIDs)
	}
	assert.Equal(t, 1, preyLinks)
}

func TestSeedZoo_Idempotent(t *testing.T) {
	store := db.NewMemoryDB()
	ctx := context.Background()

	first, err := SeedZoo(ctx, store, zap.NewNop())
	require.NoError(t, err)

	second, err := SeedZoo(ctx, store, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, first.ZooID, second.ZooID)
	assert.Zero(t, second.Zoos)
	assert.Zero(t, second.Categories)
	assert.Zero(t, second.Enclosures)
	assert.Zero(t, second.Animals)

	zoos, err := store.ListZoos(ctx)
	require.NoError(t, err)
	assert.Len(t, zoos, 1)
}

func TestSeedZoo_ThenAutoAssign(t *testing.T) {
	store := db.NewMemoryDB()
	ctx := context.Background()

	_, err := SeedZoo(ctx, store, zap.NewNop())
	require.NoError(t, err)

	result, err := AutoAssign(ctx, store, zap.NewNop(), AutoAssignOptions{})
	require.NoError(t, err)
	assert.Equal(t, 7, result.ReassignedCount)

	summaries, err := ListEnclosures(ctx, store, zap.NewNop())
	require.NoError(t, err)

	placed := 0
	for _, summary := range summaries {
		placed += summary.OccupantCount
		assert.GreaterOrEqual(t, summary.Enclosure.RemainingCapacity, 0.0)
		assert.InDelta(t, summary.Enclosure.Size-summary.OccupiedSpace, summary.Enclosure.RemainingCapacity, 1e-9)
		assert.InDelta(t, summary.Remaining, summary.Enclosure.RemainingCapacity, 1e-9)
	}
	assert.Equal(t, 7, placed)
}
