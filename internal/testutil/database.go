// Package testutil provides shared test infrastructure: an in-memory
// database with the production schema, seed builders, and HTTP helpers.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Holding table
		CREATE TABLE IF NOT EXISTS holding (
			ticker VARCHAR(12) NOT NULL PRIMARY KEY,
			name VARCHAR(100),
			sector VARCHAR(50),
			quantity FLOAT NOT NULL DEFAULT 0,
			average_buy_price FLOAT NOT NULL DEFAULT 0,
			total_investment FLOAT NOT NULL DEFAULT 0,
			current_price FLOAT,
			day_change FLOAT,
			data_source VARCHAR(20),
			overview TEXT,
			position INTEGER NOT NULL
		);

		-- Transaction history per holding
		CREATE TABLE IF NOT EXISTS holding_transaction (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(12) NOT NULL,
			kind VARCHAR(10) NOT NULL,
			date DATE NOT NULL,
			quantity FLOAT NOT NULL DEFAULT 0,
			price FLOAT NOT NULL DEFAULT 0,
			amount FLOAT NOT NULL,
			position INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(ticker) REFERENCES holding(ticker) ON DELETE CASCADE
		);

		-- Daily portfolio value history
		CREATE TABLE IF NOT EXISTS portfolio_snapshot (
			date VARCHAR(10) NOT NULL PRIMARY KEY,
			value FLOAT NOT NULL
		);

		-- Manual price overrides
		CREATE TABLE IF NOT EXISTS price_override (
			ticker VARCHAR(12) NOT NULL PRIMARY KEY,
			value VARCHAR(50) NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- System key/value settings
		CREATE TABLE IF NOT EXISTS system_setting (
			"key" VARCHAR(50) NOT NULL PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME
		);
	`

	_, err := db.Exec(schema)
	return err
}
