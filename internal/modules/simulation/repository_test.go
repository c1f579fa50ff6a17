package simulation

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/montecarlo"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:runs_%s?mode=memory&cache=shared", t.Name()),
		Profile: database.ProfileStandard,
		Name:    "foresight",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	return NewRepository(db, zerolog.Nop())
}

func testRecord(id string, createdAt time.Time) RunRecord {
	return RunRecord{
		ID:        id,
		Symbol:    "AAPL",
		CreatedAt: createdAt,
		Config: montecarlo.Config{
			Paths:             1000,
			HorizonDays:       252,
			InitialInvestment: 100000,
			Seed:              42,
		},
		Stats: montecarlo.HistoricalStats{
			CurrentPrice:    100,
			MeanDailyReturn: 0.0003,
			DailyVolatility: 0.02,
		},
		Risk: montecarlo.RiskMetrics{
			MeanReturn:        0.08,
			MedianReturn:      0.06,
			ProbabilityOfLoss: 0.31,
			ValueAtRisk5:      -0.25,
			ValueAtRisk1:      -0.38,
			ConditionalVaR5:   -0.30,
			Volatility:        0.33,
		},
		Summary: montecarlo.Summary{
			ExpectedValue: 108000,
			MinValue:      42000,
			MaxValue:      310000,
			BestReturn:    2.1,
			WorstReturn:   -0.58,
		},
	}
}

func TestRepository_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	original := testRecord("run-1", now)
	require.NoError(t, repo.Insert(original))

	stored, err := repo.GetByID("run-1")
	require.NoError(t, err)
	assert.Equal(t, original, *stored)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRepository_EmptySymbolStoredAsNull(t *testing.T) {
	repo := newTestRepo(t)

	rec := testRecord("run-2", time.Now().UTC().Truncate(time.Second))
	rec.Symbol = ""
	require.NoError(t, repo.Insert(rec))

	stored, err := repo.GetByID("run-2")
	require.NoError(t, err)
	assert.Empty(t, stored.Symbol)
}

func TestRepository_ListRecentNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Insert(testRecord("old", base.Add(-2*time.Hour))))
	require.NoError(t, repo.Insert(testRecord("mid", base.Add(-1*time.Hour))))
	require.NoError(t, repo.Insert(testRecord("new", base)))

	runs, err := repo.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Insert(testRecord("stale", base.Add(-48*time.Hour))))
	require.NoError(t, repo.Insert(testRecord("fresh", base)))

	deleted, err := repo.DeleteOlderThan(base.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetByID("stale")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = repo.GetByID("fresh")
	assert.NoError(t, err)
}
