// Package records provides persistence and in-memory snapshots for the
// normalized loan portfolios. The loan_records table in portfolio.db is the
// only durable copy; each dataset (full portfolio, fraud-screened feed) gets
// its own repository instance and snapshot, and reads go through the atomic
// snapshot.
package records

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/database"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

// Repository handles loan record persistence for one dataset
type Repository struct {
	db      *sql.DB
	dataset domain.Dataset
	log     zerolog.Logger
}

// NewRepository creates a loan record repository scoped to one dataset
func NewRepository(db *sql.DB, dataset domain.Dataset, log zerolog.Logger) *Repository {
	return &Repository{
		db:      db,
		dataset: dataset,
		log:     log.With().Str("repo", "records").Str("dataset", string(dataset)).Logger(),
	}
}

const dateFormat = "2006-01-02"

// ReplaceAll swaps this dataset's full table contents for the given record
// set inside one transaction. Full-replace semantics avoid stale-record
// accumulation when the upstream schema changes; there is no incremental
// merge. Rows belonging to other datasets are untouched.
func (r *Repository) ReplaceAll(recs []domain.LoanRecord) error {
	now := time.Now().Unix()

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM loan_records WHERE dataset = ?", string(r.dataset)); err != nil {
			return fmt.Errorf("failed to clear loan_records: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO loan_records (
				dataset, id, application_date, sanction_amount, disbursed_amount,
				repayment_amount, actual_repayment_amount, penalty_amount,
				collected_amount, pending_amount, status, dpd, state, city,
				created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range recs {
			_, err := stmt.Exec(
				string(r.dataset),
				rec.ID,
				rec.ApplicationDate.Format(dateFormat),
				rec.SanctionAmount,
				rec.DisbursedAmount,
				rec.RepaymentAmount,
				rec.ActualRepaymentAmount,
				rec.PenaltyAmount,
				rec.CollectedAmount,
				rec.PendingAmount,
				string(rec.Status),
				rec.DPD,
				rec.State,
				rec.City,
				now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.log.Debug().Int("count", len(recs)).Msg("Replaced loan records")
	return nil
}

// GetAll returns every stored record of this dataset, ordered by id for
// determinism
func (r *Repository) GetAll() ([]domain.LoanRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, application_date, sanction_amount, disbursed_amount,
		       repayment_amount, actual_repayment_amount, penalty_amount,
		       collected_amount, pending_amount, status, dpd, state, city
		FROM loan_records
		WHERE dataset = ?
		ORDER BY id
	`, string(r.dataset))
	if err != nil {
		return nil, fmt.Errorf("failed to query loan_records: %w", err)
	}
	defer rows.Close()

	var recs []domain.LoanRecord
	for rows.Next() {
		var rec domain.LoanRecord
		var dateStr, status string

		err := rows.Scan(
			&rec.ID,
			&dateStr,
			&rec.SanctionAmount,
			&rec.DisbursedAmount,
			&rec.RepaymentAmount,
			&rec.ActualRepaymentAmount,
			&rec.PenaltyAmount,
			&rec.CollectedAmount,
			&rec.PendingAmount,
			&status,
			&rec.DPD,
			&rec.State,
			&rec.City,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan record: %w", err)
		}

		rec.ApplicationDate, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid application_date %q for record %s: %w", dateStr, rec.ID, err)
		}
		rec.Status = domain.LoanStatus(status)

		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return recs, nil
}

// Count returns the number of stored records in this dataset
func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM loan_records WHERE dataset = ?", string(r.dataset),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count loan_records: %w", err)
	}
	return count, nil
}
