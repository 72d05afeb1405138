package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rs2go/internal/model"
)

// testRepo connects to the database named by RS2GO_TEST_DSN, running the
// migrations first. Tests are skipped when no database is configured.
func testRepo(t *testing.T) *AppearanceRepository {
	t.Helper()
	dsn := os.Getenv("RS2GO_TEST_DSN")
	if dsn == "" {
		t.Skip("RS2GO_TEST_DSN not set")
	}

	ctx := context.Background()
	require.NoError(t, RunMigrations(ctx, dsn))

	d, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	repo := NewAppearanceRepository(d)
	t.Cleanup(func() {
		_, _ = d.Pool().Exec(context.Background(), `TRUNCATE appearances`)
	})
	return repo
}

func TestAppearanceRepository_SaveLoad(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := model.Appearance{
		Gender:         0,
		Skull:          true,
		OverheadPrayer: 2,
		Hair:           5,
		Beard:          10,
		Arms:           26,
		Legs:           36,
		Hands:          33,
		Feet:           42,
		Colors:         [5]int8{1, 2, 3, 4, 5},
		Stances:        [7]int16{808, 823, 819, 820, 821, 822, 824},
		Username:       "Sage",
		CombatLevel:    125,
		SkillLevel:     0,
		Hidden:         0,
	}
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.Load(ctx, "Sage")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a, *got)
}

func TestAppearanceRepository_LoadMissing(t *testing.T) {
	repo := testRepo(t)

	got, err := repo.Load(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAppearanceRepository_SaveOverwrites(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := model.Appearance{Username: "Sage", CombatLevel: 3}
	require.NoError(t, repo.Save(ctx, a))

	a.CombatLevel = 126
	a.Skull = true
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.Load(ctx, "Sage")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int8(126), got.CombatLevel)
	assert.True(t, got.Skull)
}

func TestAppearanceRepository_LoadAllAndDelete(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Alto", "Breeze", "Cinder"} {
		require.NoError(t, repo.Save(ctx, model.Appearance{Username: name}))
	}

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alto", all[0].Username)

	require.NoError(t, repo.Delete(ctx, "Breeze"))
	all, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
