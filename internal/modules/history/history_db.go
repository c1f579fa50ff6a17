// Package history provides access to historical daily closes and reduces
// them to the per-instrument statistics the simulation engine consumes.
package history

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/foresight/internal/database"
)

// DailyPrice represents one stored daily close
type DailyPrice struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}

// DB provides access to historical price data
type DB struct {
	db  *database.DB
	log zerolog.Logger
}

// NewDB creates a new history database accessor
func NewDB(db *database.DB, log zerolog.Logger) *DB {
	return &DB{
		db:  db,
		log: log.With().Str("component", "history_db").Logger(),
	}
}

// GetDailyCloses fetches up to limit daily closes for a symbol, oldest
// first. limit <= 0 means the full series.
func (h *DB) GetDailyCloses(symbol string, limit int) ([]DailyPrice, error) {
	query := `
		SELECT date, close
		FROM daily_prices
		WHERE symbol = ?
		ORDER BY date DESC
	`
	args := []interface{}{symbol}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var prices []DailyPrice
	for rows.Next() {
		var p DailyPrice
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	// Query returns newest first for the LIMIT; callers want chronological.
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}

	return prices, nil
}

// UpsertDailyCloses stores a batch of daily closes for a symbol, replacing
// rows that already exist for the same date.
func (h *DB) UpsertDailyCloses(symbol string, prices []DailyPrice) error {
	tx, err := h.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prices (symbol, date, close)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET close = excluded.close
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.Exec(symbol, p.Date, p.Close); err != nil {
			return fmt.Errorf("failed to upsert price for %s on %s: %w", symbol, p.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price upsert: %w", err)
	}

	h.log.Debug().Str("symbol", symbol).Int("rows", len(prices)).Msg("Stored daily closes")
	return nil
}
