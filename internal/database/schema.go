package database

// schemas maps database names to their DDL. Each schema is the single
// source of truth for that database and is safe to re-apply on startup.
var schemas = map[string]string{
	"foresight": foresightSchema,
	"cache":     cacheSchema,
}

// foresightSchema holds durable data: the historical daily closes the
// statistics collaborator reduces, and the summary row persisted per
// simulation run.
const foresightSchema = `
CREATE TABLE IF NOT EXISTS daily_prices (
    symbol TEXT NOT NULL,
    date TEXT NOT NULL,            -- YYYY-MM-DD
    close REAL NOT NULL,
    PRIMARY KEY (symbol, date)
);

CREATE INDEX IF NOT EXISTS idx_daily_prices_symbol ON daily_prices(symbol);

CREATE TABLE IF NOT EXISTS simulation_runs (
    id TEXT PRIMARY KEY,           -- uuid
    symbol TEXT,                   -- null when stats were supplied inline
    created_at INTEGER NOT NULL,   -- unix seconds

    -- configuration
    paths INTEGER NOT NULL,
    horizon_days INTEGER NOT NULL,
    initial_investment REAL NOT NULL,
    seed INTEGER NOT NULL,

    -- historical inputs
    current_price REAL NOT NULL,
    mean_daily_return REAL NOT NULL,
    daily_volatility REAL NOT NULL,

    -- risk metrics over terminal returns
    mean_return REAL NOT NULL,
    median_return REAL NOT NULL,
    probability_of_loss REAL NOT NULL,
    var_5 REAL NOT NULL,
    var_1 REAL NOT NULL,
    cvar_5 REAL NOT NULL,
    volatility REAL NOT NULL,

    -- summary over terminal investment values
    expected_value REAL NOT NULL,
    min_value REAL NOT NULL,
    max_value REAL NOT NULL,
    best_return REAL NOT NULL,
    worst_return REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_simulation_runs_created ON simulation_runs(created_at);
`

// cacheSchema holds ephemeral data: msgpack-encoded full results keyed by a
// hash of the simulation inputs. Deterministic engine, deterministic cache.
const cacheSchema = `
CREATE TABLE IF NOT EXISTS result_cache (
    key TEXT PRIMARY KEY,
    payload BLOB NOT NULL,
    created_at INTEGER NOT NULL
);
`
