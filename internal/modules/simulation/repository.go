package simulation

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/montecarlo"
)

// ErrRunNotFound is returned when a stored run ID does not exist.
var ErrRunNotFound = errors.New("simulation run not found")

// RunRecord is the persisted summary of one simulation run. Full results
// (paths, bands) live in the cache only; the durable record keeps the
// scalar fields a dashboard or audit needs.
type RunRecord struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Config montecarlo.Config          `json:"config"`
	Stats  montecarlo.HistoricalStats `json:"historical_stats"`

	Risk    montecarlo.RiskMetrics `json:"risk_metrics"`
	Summary montecarlo.Summary     `json:"summary"`
}

// Repository persists simulation run summaries
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a new simulation run repository
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "simulation_repository").Logger(),
	}
}

// Insert stores a run summary
func (r *Repository) Insert(rec RunRecord) error {
	_, err := r.db.Conn().Exec(`
		INSERT INTO simulation_runs (
			id, symbol, created_at,
			paths, horizon_days, initial_investment, seed,
			current_price, mean_daily_return, daily_volatility,
			mean_return, median_return, probability_of_loss, var_5, var_1, cvar_5, volatility,
			expected_value, min_value, max_value, best_return, worst_return
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, nullableString(rec.Symbol), rec.CreatedAt.Unix(),
		rec.Config.Paths, rec.Config.HorizonDays, rec.Config.InitialInvestment, rec.Config.Seed,
		rec.Stats.CurrentPrice, rec.Stats.MeanDailyReturn, rec.Stats.DailyVolatility,
		rec.Risk.MeanReturn, rec.Risk.MedianReturn, rec.Risk.ProbabilityOfLoss,
		rec.Risk.ValueAtRisk5, rec.Risk.ValueAtRisk1, rec.Risk.ConditionalVaR5, rec.Risk.Volatility,
		rec.Summary.ExpectedValue, rec.Summary.MinValue, rec.Summary.MaxValue,
		rec.Summary.BestReturn, rec.Summary.WorstReturn,
	)
	if err != nil {
		return fmt.Errorf("failed to insert simulation run: %w", err)
	}
	return nil
}

// GetByID fetches one stored run summary
func (r *Repository) GetByID(id string) (*RunRecord, error) {
	row := r.db.Conn().QueryRow(`
		SELECT id, symbol, created_at,
			paths, horizon_days, initial_investment, seed,
			current_price, mean_daily_return, daily_volatility,
			mean_return, median_return, probability_of_loss, var_5, var_1, cvar_5, volatility,
			expected_value, min_value, max_value, best_return, worst_return
		FROM simulation_runs
		WHERE id = ?
	`, id)

	rec, err := scanRunRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation run: %w", err)
	}
	return rec, nil
}

// ListRecent returns up to limit run summaries, newest first
func (r *Repository) ListRecent(limit int) ([]RunRecord, error) {
	rows, err := r.db.Conn().Query(`
		SELECT id, symbol, created_at,
			paths, horizon_days, initial_investment, seed,
			current_price, mean_daily_return, daily_volatility,
			mean_return, median_return, probability_of_loss, var_5, var_1, cvar_5, volatility,
			expected_value, min_value, max_value, best_return, worst_return
		FROM simulation_runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulation runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRunRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation run: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating simulation runs: %w", err)
	}
	return records, nil
}

// DeleteOlderThan removes run summaries created before the cutoff.
// Returns the number of rows removed.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Conn().Exec(
		`DELETE FROM simulation_runs WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old simulation runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted simulation runs: %w", err)
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRunRecord(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var symbol sql.NullString
	var createdAt int64

	err := row.Scan(
		&rec.ID, &symbol, &createdAt,
		&rec.Config.Paths, &rec.Config.HorizonDays, &rec.Config.InitialInvestment, &rec.Config.Seed,
		&rec.Stats.CurrentPrice, &rec.Stats.MeanDailyReturn, &rec.Stats.DailyVolatility,
		&rec.Risk.MeanReturn, &rec.Risk.MedianReturn, &rec.Risk.ProbabilityOfLoss,
		&rec.Risk.ValueAtRisk5, &rec.Risk.ValueAtRisk1, &rec.Risk.ConditionalVaR5, &rec.Risk.Volatility,
		&rec.Summary.ExpectedValue, &rec.Summary.MinValue, &rec.Summary.MaxValue,
		&rec.Summary.BestReturn, &rec.Summary.WorstReturn,
	)
	if err != nil {
		return nil, err
	}

	if symbol.Valid {
		rec.Symbol = symbol.String
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rec, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
