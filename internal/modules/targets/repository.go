// Package targets manages monthly sanction targets for the dashboard's
// target-vs-actual gauge.
package targets

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Target is one month's sanction target
type Target struct {
	Month        int     `json:"month"` // 1-12
	Year         int     `json:"year"`
	TargetAmount float64 `json:"target_amount"`
}

// Repository handles monthly target persistence in portfolio.db
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new monthly target repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "targets").Logger(),
	}
}

// Get returns the target for a given month, or nil when none is set
func (r *Repository) Get(month, year int) (*Target, error) {
	var t Target
	err := r.db.QueryRow(`
		SELECT month, year, target_amount FROM monthly_targets
		WHERE month = ? AND year = ?
	`, month, year).Scan(&t.Month, &t.Year, &t.TargetAmount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly target: %w", err)
	}
	return &t, nil
}

// Set creates or updates the target for a given month
func (r *Repository) Set(month, year int, amount float64) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be in 1-12, got %d", month)
	}
	if amount < 0 {
		return fmt.Errorf("target amount must not be negative")
	}

	now := time.Now().Unix()
	_, err := r.db.Exec(`
		INSERT INTO monthly_targets (month, year, target_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(month, year) DO UPDATE SET
			target_amount = excluded.target_amount,
			updated_at = excluded.updated_at
	`, month, year, amount, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert monthly target: %w", err)
	}
	return nil
}

// CurrentMonth returns the target for the current month; amount 0 when unset
func (r *Repository) CurrentMonth() (Target, error) {
	now := time.Now()
	t, err := r.Get(int(now.Month()), now.Year())
	if err != nil {
		return Target{}, err
	}
	if t == nil {
		return Target{Month: int(now.Month()), Year: now.Year()}, nil
	}
	return *t, nil
}
