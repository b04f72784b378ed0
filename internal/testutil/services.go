package testutil

import (
	"database/sql"
	"testing"

	"github.com/umair4234/psx-portfolio-tracker/internal/repository"
	"github.com/umair4234/psx-portfolio-tracker/internal/service"
)

// TestFernetKey is a fixed fernet key for tests (base64 of 32 zero bytes).
const TestFernetKey = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

// NewTestPortfolioService wires a PortfolioService against the given test
// database.
func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewHoldingRepository(db),
		repository.NewSnapshotRepository(db),
		repository.NewOverrideRepository(db),
		repository.NewSettingRepository(db),
	)
}

// NewTestSettingsService wires a SettingsService with the fixed test
// encryption key.
func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	s, err := service.NewSettingsService(
		repository.NewSettingRepository(db),
		repository.NewOverrideRepository(db),
		TestFernetKey,
	)
	if err != nil {
		t.Fatalf("Failed to create settings service: %v", err)
	}
	return s
}

// NewTestSystemService wires a SystemService against the given test database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}
