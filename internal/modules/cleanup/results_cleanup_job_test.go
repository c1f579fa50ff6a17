package cleanup

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/modules/simulation"
	"github.com/aristath/foresight/internal/montecarlo"
)

func newTestDB(t *testing.T, name string, profile database.DatabaseProfile) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:cleanup_%s_%s?mode=memory&cache=shared", name, t.Name()),
		Profile: profile,
		Name:    name,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestResultsCleanupJob_Run(t *testing.T) {
	repo := simulation.NewRepository(newTestDB(t, "foresight", database.ProfileStandard), zerolog.Nop())
	cache := simulation.NewResultCache(newTestDB(t, "cache", database.ProfileCache), zerolog.Nop())

	now := time.Now().UTC().Truncate(time.Second)
	stale := simulation.RunRecord{
		ID:        "stale",
		CreatedAt: now.AddDate(0, 0, -60),
		Config:    montecarlo.Config{Paths: 1, HorizonDays: 1, InitialInvestment: 1, Seed: 1},
		Stats:     montecarlo.HistoricalStats{CurrentPrice: 1},
	}
	fresh := stale
	fresh.ID = "fresh"
	fresh.CreatedAt = now

	require.NoError(t, repo.Insert(stale))
	require.NoError(t, repo.Insert(fresh))

	job := NewResultsCleanupJob(repo, cache, 30, zerolog.Nop())
	assert.Equal(t, "results_cleanup", job.Name())
	require.NoError(t, job.Run())

	_, err := repo.GetByID("stale")
	assert.ErrorIs(t, err, simulation.ErrRunNotFound)

	_, err = repo.GetByID("fresh")
	assert.NoError(t, err)
}

func TestResultsCleanupJob_NilCache(t *testing.T) {
	repo := simulation.NewRepository(newTestDB(t, "foresight", database.ProfileStandard), zerolog.Nop())

	job := NewResultsCleanupJob(repo, nil, 30, zerolog.Nop())
	assert.NoError(t, job.Run())
}
