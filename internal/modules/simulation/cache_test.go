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

func newTestCache(t *testing.T) *ResultCache {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:cache_%s?mode=memory&cache=shared", t.Name()),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	return NewResultCache(db, zerolog.Nop())
}

func cacheFixtures() (montecarlo.Config, montecarlo.HistoricalStats, *montecarlo.Result) {
	cfg := montecarlo.Config{Paths: 100, HorizonDays: 10, InitialInvestment: 1000, Seed: 42}
	stats := montecarlo.HistoricalStats{CurrentPrice: 100, MeanDailyReturn: 0.0003, DailyVolatility: 0.02}
	result := &montecarlo.Result{
		Config:          cfg,
		Stats:           stats,
		InitialShares:   10,
		TerminalPrices:  []float64{101, 99},
		TerminalReturns: []float64{0.01, -0.01},
		TerminalValues:  []float64{1010, 990},
		Risk:            montecarlo.RiskMetrics{MeanReturn: 0, ProbabilityOfLoss: 0.5},
		Summary:         montecarlo.Summary{ExpectedValue: 1000},
	}
	return cfg, stats, result
}

func TestResultCache_MissThenHit(t *testing.T) {
	cache := newTestCache(t)
	cfg, stats, result := cacheFixtures()

	assert.Nil(t, cache.Get(cfg, stats))

	cache.Put(cfg, stats, result)

	hit := cache.Get(cfg, stats)
	require.NotNil(t, hit)
	assert.Equal(t, result.TerminalPrices, hit.TerminalPrices)
	assert.Equal(t, result.Risk, hit.Risk)
	assert.Equal(t, result.Summary, hit.Summary)
}

func TestResultCache_KeyDependsOnInputs(t *testing.T) {
	cache := newTestCache(t)
	cfg, stats, result := cacheFixtures()
	cache.Put(cfg, stats, result)

	otherCfg := cfg
	otherCfg.Seed = 43
	assert.Nil(t, cache.Get(otherCfg, stats))

	otherStats := stats
	otherStats.DailyVolatility = 0.03
	assert.Nil(t, cache.Get(cfg, otherStats))
}

func TestResultCache_PutOverwrites(t *testing.T) {
	cache := newTestCache(t)
	cfg, stats, result := cacheFixtures()

	cache.Put(cfg, stats, result)

	updated := *result
	updated.Summary.ExpectedValue = 2000
	cache.Put(cfg, stats, &updated)

	hit := cache.Get(cfg, stats)
	require.NotNil(t, hit)
	assert.Equal(t, 2000.0, hit.Summary.ExpectedValue)
}

func TestResultCache_DeleteOlderThan(t *testing.T) {
	cache := newTestCache(t)
	cfg, stats, result := cacheFixtures()
	cache.Put(cfg, stats, result)

	deleted, err := cache.DeleteOlderThan(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Nil(t, cache.Get(cfg, stats))
}
