package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/cmd/cli/commands"
	"github.com/jakechorley/zoo-enclosures/internal/config"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

func TestOpenDatabase_MemoryIsSeeded(t *testing.T) {
	ctx := context.Background()

	repo, err := openDatabase(ctx, config.DatabaseConfig{Driver: config.DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	enclosures, err := repo.ListEnclosures(ctx, db.EnclosureFilter{})
	require.NoError(t, err)
	assert.Len(t, enclosures, 7)

	animals, err := repo.ListAnimals(ctx, db.AnimalFilter{Unassigned: true})
	require.NoError(t, err)
	assert.Len(t, animals, 7)
}

func TestOpenDatabase_SQLiteStartsEmpty(t *testing.T) {
	ctx := context.Background()
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "zoo.db")}

	repo, err := openDatabase(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	animals, err := repo.ListAnimals(ctx, db.AnimalFilter{})
	require.NoError(t, err)
	assert.Empty(t, animals)
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := openDatabase(context.Background(), config.DatabaseConfig{Driver: "csv"}, zap.NewNop())
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestNewRootCmd_RegistersCommands(t *testing.T) {
	root := newRootCmd(&commands.AppContext{Ctx: context.Background()})

	for _, name := range []string{"checkAnimal", "checkEnclosure", "checkZoo", "autoAssign", "dayNightEvent", "feedingTime", "listEnclosures", "listAnimals", "history", "seed", "interactive"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
