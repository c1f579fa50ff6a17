// Package cleanup provides data cleanup and maintenance functionality.
package cleanup

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/foresight/internal/modules/simulation"
)

// cacheRetention is how long full cached results are kept. Cached payloads
// are large compared to run summaries, so they age out faster.
const cacheRetention = 7 * 24 * time.Hour

// ResultsCleanupJob prunes aged simulation run summaries and cached
// results. Runs daily via the scheduler.
type ResultsCleanupJob struct {
	repo          *simulation.Repository
	cache         *simulation.ResultCache
	retentionDays int
	log           zerolog.Logger
}

// NewResultsCleanupJob creates a new results cleanup job. cache may be nil
// when result caching is disabled.
func NewResultsCleanupJob(repo *simulation.Repository, cache *simulation.ResultCache, retentionDays int, log zerolog.Logger) *ResultsCleanupJob {
	return &ResultsCleanupJob{
		repo:          repo,
		cache:         cache,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "results_cleanup").Logger(),
	}
}

// Name returns the job name for scheduler logging
func (j *ResultsCleanupJob) Name() string {
	return "results_cleanup"
}

// Run executes the cleanup job
func (j *ResultsCleanupJob) Run() error {
	j.log.Info().Int("retention_days", j.retentionDays).Msg("Starting results cleanup job")

	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)
	deletedRuns, err := j.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune simulation runs: %w", err)
	}

	var deletedCache int64
	if j.cache != nil {
		deletedCache, err = j.cache.DeleteOlderThan(time.Now().UTC().Add(-cacheRetention))
		if err != nil {
			return fmt.Errorf("failed to prune result cache: %w", err)
		}
	}

	j.log.Info().
		Int64("deleted_runs", deletedRuns).
		Int64("deleted_cache_entries", deletedCache).
		Msg("Results cleanup job completed")

	return nil
}
