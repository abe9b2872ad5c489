package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// mockAutoAssignStore implements AutoAssignStore
type mockAutoAssignStore struct {
	animals        []model.Animal
	enclosures     []model.Enclosure
	listAnimalsErr error
	commitErr      error
	committed      []db.Batch
}

func (m *mockAutoAssignStore) ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error) {
	if m.listAnimalsErr != nil {
		return nil, m.listAnimalsErr
	}
	return m.animals, nil
}

func (m *mockAutoAssignStore) ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error) {
	return m.enclosures, nil
}

func (m *mockAutoAssignStore) CommitBatch(ctx context.Context, batch db.Batch) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = append(m.committed, batch)
	return nil
}

func TestAutoAssign_FirstFit(t *testing.T) {
	tz := newTestZoo(t)
	tz.addEnclosure(t, model.Enclosure{Name: "E1", Size: 100, SecurityLevel: model.SecurityMedium})
	tz.addAnimal(t, model.Animal{Name: "A1", SpaceRequirement: 40, SecurityRequirement: model.SecurityLow})
	tz.addAnimal(t, model.Animal{Name: "A2", SpaceRequirement: 70, SecurityRequirement: model.SecurityLow})

	result, err := AutoAssign(context.Background(), tz.store, zap.NewNop(), AutoAssignOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ReassignedCount)
	assert.True(t, result.Committed)
	assert.NotEmpty(t, result.BatchID)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, "A2", result.Unplaced[0].Name)

	a1 := tz.animal(t, "A1")
	require.NotNil(t, a1.EnclosureID)
	assert.Equal(t, tz.enclosures["E1"], *a1.EnclosureID)
	assert.Nil(t, tz.animal(t, "A2").EnclosureID)

	e1 := tz.enclosure(t, "E1")
	assert.Equal(t, 60.0, e1.RemainingCapacity)
	assert.Equal(t, 100.0, e1.Size)

	batches := tz.store.Batches()
	require.Len(t, batches, 1)
	assert.Equal(t, result.BatchID, batches[0].ID)
	assert.Equal(t, 1, batches[0].PlacedCount)
}

func TestAutoAssign_Idempotent(t *testing.T) {
	tz := newTestZoo(t)
	tz.addEnclosure(t, model.Enclosure{Name: "E1", Size: 100, SecurityLevel: model.SecurityMedium})
	tz.addAnimal(t, model.Animal{Name: "A1", SpaceRequirement: 40})
	tz.addAnimal(t, model.Animal{Name: "A2", SpaceRequirement: 70})

	_, err := AutoAssign(context.Background(), tz.store, zap.NewNop(), AutoAssignOptions{})
	require.NoError(t, err)

	second, err := AutoAssign(context.Background(), tz.store, zap.NewNop(), AutoAssignOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, second.ReassignedCount)
	assert.False(t, second.Committed)
	assert.Len(t, tz.store.Batches(), 1)
	assert.Equal(t, 60.0, tz.enclosure(t, "E1").RemainingCapacity)
}

func TestAutoAssign_ResetAllRestoresCapacity(t *testing.T) {
	tz := newTestZoo(t)
	tz.addEnclosure(t, model.Enclosure{Name: "Low", Size: 100, SecurityLevel: model.SecurityLow})
	tz.addEnclosure(t, model.Enclosure{Name: "High", Size: 100, SecurityLevel: model.SecurityHigh})
	tz.addAnimal(t, model.Animal{Name: "Goat", SpaceRequirement: 60})

	_, err := AutoAssign(context.Background(), tz.store, zap.NewNop(), AutoAssignOptions{})
	require.NoError(t, err)
	assert.Equal(t, 40.0, tz.enclosure(t, "Low").RemainingCapacity)

	// A fierce animal arrives that only fits the high security enclosure
	tz.addAnimal(t, model.Animal{Name: "Tiger", SpaceRequirement: 60, SecurityRequirement: model.SecurityHigh})

	result, err := AutoAssign(context.Background(), tz.store, zap.NewNop(), AutoAssignOptions{ResetAll: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ClearedCount)
	assert.Equal(t, 2, result.ReassignedCount)
	assert.Empty(t, result.Unplaced)

	// Goat goes back into Low with its capacity restored first, not reduced twice
	assert.Equal(t, tz.enclosures["Low"], *tz.animal(t, "Goat").EnclosureID)
	assert.Equal(t, tz.enclosures["High"], *tz.animal(t, "Tiger").EnclosureID)
	assert.Equal(t, 40.0, tz.enclosure(t, "Low").RemainingCapacity)
	assert.Equal(t, 40.0, tz.enclosure(t, "High").RemainingCapacity)
}

func TestAutoAssign_ResetAllReplacesManuallyHoused(t *testing.T) {
	tz := newTestZoo(t)
	encID := tz.addEnclosure(t, model.Enclosure{Name: "Tiny", Size: 50, SecurityLevel: model.SecurityLow})
	tz.addAnimal(t, model.Animal{Name: "Rhino", SpaceRequirement: 45, EnclosureID: model.ID(encID)})

	// Rhino was housed by hand, the reset frees and places it again
	result, err := AutoAssign(context.Background(), tz.store, zap.NewNop(), AutoAssignOptions{ResetAll: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ReassignedCount)
	assert.Equal(t, 5.0, tz.enclosure(t, "Tiny").RemainingCapacity)
}

func TestAutoAssign_DietIgnored(t *testing.T) {
	tz := newTestZoo(t)
	tz.addEnclosure(t, model.Enclosure{Name: "Veggie", Size: 100, SecurityLevel: model.SecurityHigh, DietaryRestrictions: "Carnivore"})
	tz.addAnimal(t, model.Animal{Name: "Leo", DietaryClass: model.DietCarnivore, SpaceRequirement: 40})

	result, err := AutoAssign(context.Background(), tz.store, zap.NewNop(), AutoAssignOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ReassignedCount)

	// The evaluator still reports the mismatch afterwards
	report, err := CheckAnimal(context.Background(), tz.store, zap.NewNop(), tz.animals["Leo"])
	require.NoError(t, err)
	assert.False(t, report.Compatible)
}

func TestAutoAssign_DryRun(t *testing.T) {
	tz := newTestZoo(t)
	tz.addEnclosure(t, model.Enclosure{Name: "E1", Size: 100})
	tz.addAnimal(t, model.Animal{Name: "A1", SpaceRequirement: 40})

	result, err := AutoAssign(context.Background(), tz.store, zap.NewNop(), AutoAssignOptions{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ReassignedCount)
	assert.False(t, result.Committed)
	assert.Empty(t, result.BatchID)
	assert.Nil(t, tz.animal(t, "A1").EnclosureID)
	assert.Empty(t, tz.store.Batches())
}

func TestAutoAssign_ConflictLeavesNoPartialState(t *testing.T) {
	store := &mockAutoAssignStore{
		animals:    []model.Animal{{ID: 1, Name: "A1", SpaceRequirement: 10, Version: 1}},
		enclosures: []model.Enclosure{{ID: 1, Name: "E1", Size: 100, RemainingCapacity: 100, Version: 1}},
		commitErr:  fmt.Errorf("animal 1 changed: %w", db.ErrConflict),
	}

	result, err := AutoAssign(context.Background(), store, zap.NewNop(), AutoAssignOptions{})
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrConflict))
	assert.Contains(t, err.Error(), "assignment failed: ")
	assert.Empty(t, store.committed)
}

func TestAutoAssign_PersistenceFailure(t *testing.T) {
	store := &mockAutoAssignStore{
		animals:    []model.Animal{{ID: 1, Name: "A1", SpaceRequirement: 10, Version: 1}},
		enclosures: []model.Enclosure{{ID: 1, Name: "E1", Size: 100, RemainingCapacity: 100, Version: 1}},
		commitErr:  errors.New("disk full"),
	}

	_, err := AutoAssign(context.Background(), store, zap.NewNop(), AutoAssignOptions{})
	require.Error(t, err)
	assert.Equal(t, "assignment failed: disk full", err.Error())
	assert.False(t, errors.Is(err, db.ErrConflict))
}

func TestAutoAssign_ListFailure(t *testing.T) {
	store := &mockAutoAssignStore{listAnimalsErr: errors.New("connection refused")}

	_, err := AutoAssign(context.Background(), store, zap.NewNop(), AutoAssignOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assignment failed: failed to list animals")
}

func TestAutoAssign_BatchCarriesExpectedVersions(t *testing.T) {
	store := &mockAutoAssignStore{
		animals: []model.Animal{
			{ID: 1, Name: "A1", SpaceRequirement: 10, Version: 3},
			{ID: 2, Name: "A2", SpaceRequirement: 500, Version: 1},
		},
		enclosures: []model.Enclosure{{ID: 7, Name: "E7", Size: 100, RemainingCapacity: 100, Version: 5}},
	}

	result, err := AutoAssign(context.Background(), store, zap.NewNop(), AutoAssignOptions{})
	require.NoError(t, err)
	require.Len(t, store.committed, 1)

	batch := store.committed[0]
	assert.Equal(t, result.BatchID, batch.ID)
	assert.Equal(t, 1, batch.PlacedCount)

	require.Len(t, batch.Animals, 1)
	assert.Equal(t, int64(1), batch.Animals[0].AnimalID)
	assert.Equal(t, int64(3), batch.Animals[0].ExpectedVersion)
	require.NotNil(t, batch.Animals[0].EnclosureID)
	assert.Equal(t, int64(7), *batch.Animals[0].EnclosureID)

	require.Len(t, batch.Enclosures, 1)
	assert.Equal(t, int64(5), batch.Enclosures[0].ExpectedVersion)
	assert.Equal(t, 90.0, batch.Enclosures[0].RemainingCapacity)
}

func TestAutoAssign_ConcurrentRunsOnSameSnapshot(t *testing.T) {
	tz := newTestZoo(t)
	tz.addEnclosure(t, model.Enclosure{Name: "E1", Size: 100})
	tz.addAnimal(t, model.Animal{Name: "A1", SpaceRequirement: 40})

	// Both runs read the same snapshot; only the first commit can win
	animals, err := tz.store.ListAnimals(context.Background(), db.AnimalFilter{})
	require.NoError(t, err)
	enclosures, err := tz.store.ListEnclosures(context.Background(), db.EnclosureFilter{})
	require.NoError(t, err)

	stale := &staleSnapshotStore{MemoryDB: tz.store, animals: animals, enclosures: enclosures}

	_, err = AutoAssign(context.Background(), stale, zap.NewNop(), AutoAssignOptions{})
	require.NoError(t, err)

	_, err = AutoAssign(context.Background(), stale, zap.NewNop(), AutoAssignOptions{})
	assert.ErrorIs(t, err, db.ErrConflict)
	assert.Len(t, tz.store.Batches(), 1)
}

// staleSnapshotStore serves a fixed snapshot but commits to a real MemoryDB
type staleSnapshotStore struct {
	*db.MemoryDB
	animals    []model.Animal
	enclosures []model.Enclosure
}

func (s *staleSnapshotStore) ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error) {
	return s.animals, nil
}

func (s *staleSnapshotStore) ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error) {
	return s.enclosures, nil
}

func TestAutoAssign_ManualHousingDuringRunConflicts(t *testing.T) {
	tz := newTestZoo(t)
	encID := tz.addEnclosure(t, model.Enclosure{Name: "E1", Size: 100, SecurityLevel: model.SecurityLow})
	tz.addAnimal(t, model.Animal{Name: "Goat", SpaceRequirement: 60})

	store := &interleavedInsertStore{
		MemoryDB: tz.store,
		insert:   model.Animal{Name: "Manual", SpaceRequirement: 80, EnclosureID: model.ID(encID)},
	}

	result, err := AutoAssign(context.Background(), store, zap.NewNop(), AutoAssignOptions{})
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrConflict)
	assert.Contains(t, err.Error(), "assignment failed: ")

	animals, err := tz.store.ListAnimals(context.Background(), db.AnimalFilter{EnclosureID: model.ID(encID)})
	require.NoError(t, err)
	require.Len(t, animals, 1)
	assert.Equal(t, "Manual", animals[0].Name)

	assert.Nil(t, tz.animal(t, "Goat").EnclosureID)
	assert.Equal(t, 20.0, tz.enclosure(t, "E1").RemainingCapacity)
	assert.Empty(t, tz.store.Batches())
}

// interleavedInsertStore houses an animal between the snapshot read and the commit
type interleavedInsertStore struct {
	*db.MemoryDB
	insert model.Animal
}

func (s *interleavedInsertStore) CommitBatch(ctx context.Context, batch db.Batch) error {
	a := s.insert
	if err := s.MemoryDB.InsertAnimal(ctx, &a); err != nil {
		return err
	}
	return s.MemoryDB.CommitBatch(ctx, batch)
}
