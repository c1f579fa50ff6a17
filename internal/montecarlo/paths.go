package montecarlo

import (
	"context"
	"math"
	"sync"
)

// dt is the simulation step in trading days. The GBM formulas generalize to
// other step sizes but the engine advances one trading day at a time.
const dt = 1.0

// cancelCheckInterval is how many runs a worker completes between context
// checks.
const cancelCheckInterval = 256

// simulatePaths produces the price matrix for the configuration. Runs are
// partitioned into contiguous column ranges across workers; each run owns a
// generator seeded from the base seed and its run index, so the output is
// independent of the worker count. Workers write disjoint columns and need
// no locking.
func simulatePaths(ctx context.Context, cfg Config, stats HistoricalStats) (*PathMatrix, error) {
	n := cfg.Paths
	days := cfg.HorizonDays

	matrix := &PathMatrix{
		Days:     days,
		Runs:     n,
		Terminal: make([]float64, n),
	}
	if cfg.IncludePaths {
		matrix.Prices = make([][]float64, days+1)
		for t := 0; t <= days; t++ {
			matrix.Prices[t] = make([]float64, n)
		}
		row0 := matrix.Prices[0]
		for s := 0; s < n; s++ {
			row0[s] = stats.CurrentPrice
		}
	}

	drift := (stats.MeanDailyReturn - 0.5*stats.DailyVolatility*stats.DailyVolatility) * dt
	vol := stats.DailyVolatility * math.Sqrt(dt)

	workers := cfg.workerCount()
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for s := start; s < end; s++ {
				if (s-start)%cancelCheckInterval == 0 && ctx.Err() != nil {
					return
				}
				simulateRun(cfg, stats, matrix, s, drift, vol)
			}
		}(start, end)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return matrix, nil
}

// simulateRun advances one price path from day 1 through day T and writes
// it into column s of the matrix.
func simulateRun(cfg Config, stats HistoricalStats, matrix *PathMatrix, s int, drift, vol float64) {
	rng := NewNormalSource(runSeed(cfg.Seed, s))
	price := stats.CurrentPrice

	for t := 1; t <= cfg.HorizonDays; t++ {
		z := rng.Next()
		price *= math.Exp(drift + vol*z)
		if matrix.Prices != nil {
			matrix.Prices[t][s] = price
		}
	}

	matrix.Terminal[s] = price
}
