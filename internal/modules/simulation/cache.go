package simulation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/montecarlo"
)

// ResultCache stores full simulation results keyed by a hash of their
// inputs. The engine is deterministic, so identical inputs always map to
// identical outputs and a hit is exact, not approximate. Entries are
// msgpack-encoded; the cache database runs with the ephemeral profile and
// may be dropped at any time.
type ResultCache struct {
	db  *database.DB
	log zerolog.Logger
}

// NewResultCache creates a new result cache
func NewResultCache(db *database.DB, log zerolog.Logger) *ResultCache {
	return &ResultCache{
		db:  db,
		log: log.With().Str("component", "result_cache").Logger(),
	}
}

// cacheKey builds a deterministic key from the simulation inputs.
func cacheKey(cfg montecarlo.Config, stats montecarlo.HistoricalStats) string {
	payload, _ := json.Marshal(struct {
		Config montecarlo.Config          `json:"config"`
		Stats  montecarlo.HistoricalStats `json:"stats"`
	}{cfg, stats})

	h := sha256.Sum256(payload)
	return hex.EncodeToString(h[:16])
}

// Get returns the cached result for the inputs, or nil on a miss. Decode
// failures are treated as misses; a stale or truncated entry just forces a
// recompute.
func (c *ResultCache) Get(cfg montecarlo.Config, stats montecarlo.HistoricalStats) *montecarlo.Result {
	key := cacheKey(cfg, stats)

	var payload []byte
	err := c.db.Conn().QueryRow(
		`SELECT payload FROM result_cache WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		return nil
	}

	var result montecarlo.Result
	if err := msgpack.Unmarshal(payload, &result); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to decode cached result")
		return nil
	}

	c.log.Debug().Str("key", key).Msg("Result cache hit")
	return &result
}

// Put stores a result. Cache failures are logged, never propagated; the
// caller already has the result in hand.
func (c *ResultCache) Put(cfg montecarlo.Config, stats montecarlo.HistoricalStats, result *montecarlo.Result) {
	key := cacheKey(cfg, stats)

	payload, err := msgpack.Marshal(result)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to encode result for cache")
		return
	}

	_, err = c.db.Conn().Exec(`
		INSERT INTO result_cache (key, payload, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at
	`, key, payload, time.Now().Unix())
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to store result in cache")
	}
}

// DeleteOlderThan removes cache entries created before the cutoff.
func (c *ResultCache) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := c.db.Conn().Exec(
		`DELETE FROM result_cache WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune result cache: %w", err)
	}
	return result.RowsAffected()
}
