package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
)

// OverrideRepository provides data access methods for the price_override
// table. Override values are stored exactly as the user entered them;
// deciding whether a value is usable as a price happens at valuation time.
type OverrideRepository struct {
	db *sql.DB
}

// NewOverrideRepository creates a new OverrideRepository with the provided database connection.
func NewOverrideRepository(db *sql.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// GetOverrides retrieves all manual price overrides keyed by ticker.
func (s *OverrideRepository) GetOverrides() (map[string]string, error) {
	rows, err := s.db.Query("SELECT ticker, value FROM price_override")
	if err != nil {
		return nil, fmt.Errorf("failed to query price_override table: %w", err)
	}
	defer rows.Close()

	overrides := map[string]string{}

	for rows.Next() {
		var ticker, value string

		if err := rows.Scan(&ticker, &value); err != nil {
			return nil, fmt.Errorf("failed to scan price_override table results: %w", err)
		}

		overrides[ticker] = value
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_override table: %w", err)
	}

	return overrides, nil
}

// SetOverride inserts or updates the override for a ticker.
func (s *OverrideRepository) SetOverride(ticker, value string) error {
	query := `
          INSERT INTO price_override (ticker, value, updated_at)
          VALUES (?, ?, ?)
          ON CONFLICT(ticker) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
      `
	if _, err := s.db.Exec(query, ticker, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to upsert price override for %s: %w", ticker, err)
	}
	return nil
}

// DeleteOverride removes the override for a ticker. Returns
// apperrors.ErrOverrideNotFound when no override exists.
func (s *OverrideRepository) DeleteOverride(ticker string) error {
	result, err := s.db.Exec("DELETE FROM price_override WHERE ticker = ?", ticker)
	if err != nil {
		return fmt.Errorf("failed to delete price override for %s: %w", ticker, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result for %s: %w", ticker, err)
	}
	if affected == 0 {
		return apperrors.ErrOverrideNotFound
	}
	return nil
}
