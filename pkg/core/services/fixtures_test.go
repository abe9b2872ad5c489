package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// testZoo is a small zoo in a MemoryDB with the IDs of everything inserted
type testZoo struct {
	store      *db.MemoryDB
	zooID      int64
	enclosures map[string]int64
	animals    map[string]int64
}

func newTestZoo(t *testing.T) *testZoo {
	t.Helper()
	ctx := context.Background()
	store := db.NewMemoryDB()
	tz := &testZoo{
		store:      store,
		enclosures: map[string]int64{},
		animals:    map[string]int64{},
	}

	zoo := &model.Zoo{Name: "Test Zoo"}
	require.NoError(t, store.InsertZoo(ctx, zoo))
	tz.zooID = zoo.ID

	return tz
}

func (tz *testZoo) addEnclosure(t *testing.T, e model.Enclosure) int64 {
	t.Helper()
	e.ZooID = model.ID(tz.zooID)
	require.NoError(t, tz.store.InsertEnclosure(context.Background(), &e))
	tz.enclosures[e.Name] = e.ID
	return e.ID
}

func (tz *testZoo) addAnimal(t *testing.T, a model.Animal) int64 {
	t.Helper()
	require.NoError(t, tz.store.InsertAnimal(context.Background(), &a))
	tz.animals[a.Name] = a.ID
	return a.ID
}

func (tz *testZoo) animal(t *testing.T, name string) *model.Animal {
	t.Helper()
	a, err := tz.store.GetAnimal(context.Background(), tz.animals[name])
	require.NoError(t, err)
	return a
}

func (tz *testZoo) enclosure(t *testing.T, name string) *model.Enclosure {
	t.Helper()
	e, err := tz.store.GetEnclosure(context.Background(), tz.enclosures[name])
	require.NoError(t, err)
	return e
}
