package history

import (
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/foresight/internal/database"
)

func TestStatistics_HandComputed(t *testing.T) {
	closes := []float64{100, 110, 99}
	// log returns: ln(1.1), ln(0.9)
	r1 := math.Log(1.1)
	r2 := math.Log(0.9)
	mean := (r1 + r2) / 2
	// Sample stddev over two points.
	sigma := math.Sqrt(math.Pow(r1-mean, 2) + math.Pow(r2-mean, 2))

	stats, err := Statistics(closes)
	require.NoError(t, err)

	assert.Equal(t, 99.0, stats.CurrentPrice)
	assert.InDelta(t, mean, stats.MeanDailyReturn, 1e-12)
	assert.InDelta(t, sigma, stats.DailyVolatility, 1e-12)
	assert.InDelta(t, mean*252, stats.AnnualizedReturn, 1e-12)
	assert.InDelta(t, sigma*math.Sqrt(252), stats.AnnualizedVolatility, 1e-12)
}

func TestStatistics_FlatSeries(t *testing.T) {
	stats, err := Statistics([]float64{50, 50, 50, 50})
	require.NoError(t, err)

	assert.Equal(t, 50.0, stats.CurrentPrice)
	assert.Equal(t, 0.0, stats.MeanDailyReturn)
	assert.Equal(t, 0.0, stats.DailyVolatility)
}

func TestStatistics_TooShort(t *testing.T) {
	_, err := Statistics([]float64{100, 101})
	assert.Error(t, err)
}

func TestStatistics_BadLastClose(t *testing.T) {
	_, err := Statistics([]float64{100, 101, 0})
	assert.Error(t, err)
}

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:history_%s?mode=memory&cache=shared", t.Name()),
		Profile: database.ProfileStandard,
		Name:    "foresight",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	return NewDB(db, zerolog.Nop())
}

func TestDB_RoundTrip(t *testing.T) {
	h := newTestDB(t)

	require.NoError(t, h.UpsertDailyCloses("AAPL", []DailyPrice{
		{Date: "2026-01-02", Close: 100},
		{Date: "2026-01-03", Close: 101},
		{Date: "2026-01-04", Close: 102},
	}))

	prices, err := h.GetDailyCloses("AAPL", 0)
	require.NoError(t, err)
	require.Len(t, prices, 3)

	// Chronological order.
	assert.Equal(t, "2026-01-02", prices[0].Date)
	assert.Equal(t, 102.0, prices[2].Close)
}

func TestDB_UpsertReplacesSameDate(t *testing.T) {
	h := newTestDB(t)

	require.NoError(t, h.UpsertDailyCloses("MSFT", []DailyPrice{{Date: "2026-01-02", Close: 100}}))
	require.NoError(t, h.UpsertDailyCloses("MSFT", []DailyPrice{{Date: "2026-01-02", Close: 105}}))

	prices, err := h.GetDailyCloses("MSFT", 0)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, 105.0, prices[0].Close)
}

func TestDB_LimitTakesMostRecent(t *testing.T) {
	h := newTestDB(t)

	require.NoError(t, h.UpsertDailyCloses("VT", []DailyPrice{
		{Date: "2026-01-02", Close: 1},
		{Date: "2026-01-03", Close: 2},
		{Date: "2026-01-04", Close: 3},
		{Date: "2026-01-05", Close: 4},
	}))

	prices, err := h.GetDailyCloses("VT", 2)
	require.NoError(t, err)
	require.Len(t, prices, 2)

	// The two newest rows, back in chronological order.
	assert.Equal(t, 3.0, prices[0].Close)
	assert.Equal(t, 4.0, prices[1].Close)
}

func TestStatisticsForSymbol(t *testing.T) {
	h := newTestDB(t)

	require.NoError(t, h.UpsertDailyCloses("SPY", []DailyPrice{
		{Date: "2026-01-02", Close: 100},
		{Date: "2026-01-03", Close: 110},
		{Date: "2026-01-04", Close: 99},
	}))

	stats, err := h.StatisticsForSymbol("SPY", 0)
	require.NoError(t, err)
	assert.Equal(t, 99.0, stats.CurrentPrice)

	_, err = h.StatisticsForSymbol("UNKNOWN", 0)
	assert.Error(t, err)
}
