package repository

import (
	"database/sql"
	"fmt"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// SnapshotRepository provides data access methods for the portfolio_snapshot
// table: the daily portfolio-value history.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// GetSnapshots retrieves the full value history ordered by date ascending.
// Returns an empty slice when no snapshots have been recorded.
func (s *SnapshotRepository) GetSnapshots() ([]model.PortfolioSnapshot, error) {
	query := `
          SELECT date, value
          FROM portfolio_snapshot
          ORDER BY date
      `
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.PortfolioSnapshot{}

	for rows.Next() {
		var snap model.PortfolioSnapshot

		if err := rows.Scan(&snap.Date, &snap.Value); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_snapshot table results: %w", err)
		}

		snapshots = append(snapshots, snap)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_snapshot table: %w", err)
	}

	return snapshots, nil
}

// ReplaceSnapshots atomically replaces the stored history with the given
// slice. The caller (the ledger's snapshot recorder) has already applied the
// one-per-day and retention rules.
func (s *SnapshotRepository) ReplaceSnapshots(snapshots []model.PortfolioSnapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM portfolio_snapshot"); err != nil {
		return fmt.Errorf("failed to clear portfolio_snapshot table: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO portfolio_snapshot (date, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, snap := range snapshots {
		if _, err := stmt.Exec(snap.Date, snap.Value); err != nil {
			return fmt.Errorf("failed to insert snapshot for %s: %w", snap.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot replace: %w", err)
	}
	return nil
}
