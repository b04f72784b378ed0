package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
)

// SettingRepository provides data access methods for the system_setting
// key/value table (last refresh timestamp, encrypted API keys).
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSetting retrieves the value for a setting key. Returns
// apperrors.ErrSettingNotFound when the key has never been written.
func (s *SettingRepository) GetSetting(key string) (string, error) {
	var value string

	err := s.db.QueryRow(`SELECT value FROM system_setting WHERE "key" = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query system_setting table: %w", err)
	}

	return value, nil
}

// SetSetting inserts or updates a setting value.
func (s *SettingRepository) SetSetting(key, value string) error {
	query := `
          INSERT INTO system_setting ("key", value, updated_at)
          VALUES (?, ?, ?)
          ON CONFLICT("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
      `
	if _, err := s.db.Exec(query, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes a setting key. Deleting a missing key is not an error.
func (s *SettingRepository) DeleteSetting(key string) error {
	if _, err := s.db.Exec(`DELETE FROM system_setting WHERE "key" = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
