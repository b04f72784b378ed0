package repository_test

import (
	"math"
	"testing"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
	"github.com/umair4234/psx-portfolio-tracker/internal/repository"
	"github.com/umair4234/psx-portfolio-tracker/internal/testutil"
)

// TestHoldingRepository_ReplaceAndGet tests the replace-then-load round trip.
//
// WHY: The ledger is persisted by full replacement, so any field that does
// not survive the round trip is silently lost on every mutation. This covers
// nullable live fields, the JSON-encoded overview, and transaction ordering.
func TestHoldingRepository_ReplaceAndGet(t *testing.T) {
	t.Run("returns empty slice for an empty portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewHoldingRepository(db)

		holdings, err := repo.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}

		if len(holdings) != 0 {
			t.Errorf("Expected empty slice, got %d holdings", len(holdings))
		}
	})

	t.Run("round-trips holdings with transactions and live fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewHoldingRepository(db)

		price := 155.5
		change := -1.25
		stored := []model.Holding{
			testutil.NewHolding("AIRLINK").
				WithName("Air Link Communication").
				WithSector("Technology").
				WithBuy(100, 150, "2025-03-01").
				WithBuy(50, 160, "2025-04-01").
				WithDividend(500, "2025-05-01").
				WithPrice(price).
				WithDayChange(change).
				Holding(),
			testutil.NewHolding("EFERT").
				WithBuy(200, 60, "2025-03-15").
				Holding(),
		}
		stored[0].DataSource = "psx"
		stored[0].Overview = map[string]any{"marketCap": "60B", "peRatio": "8.1"}

		if err := repo.ReplaceHoldings(stored); err != nil {
			t.Fatalf("ReplaceHoldings() returned unexpected error: %v", err)
		}

		loaded, err := repo.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}

		if len(loaded) != 2 {
			t.Fatalf("Expected 2 holdings, got %d", len(loaded))
		}

		airlink := loaded[0]
		if airlink.Ticker != "AIRLINK" {
			t.Fatalf("Expected AIRLINK first (insertion order), got %s", airlink.Ticker)
		}
		if airlink.Name != "Air Link Communication" || airlink.Sector != "Technology" {
			t.Errorf("Metadata lost in round trip: %+v", airlink)
		}
		if airlink.CurrentPrice == nil || *airlink.CurrentPrice != price {
			t.Errorf("Expected current price %v, got %v", price, airlink.CurrentPrice)
		}
		if airlink.DayChange == nil || *airlink.DayChange != change {
			t.Errorf("Expected day change %v, got %v", change, airlink.DayChange)
		}
		if airlink.Overview["marketCap"] != "60B" {
			t.Errorf("Overview lost in round trip: %v", airlink.Overview)
		}
		if len(airlink.Transactions) != 3 {
			t.Fatalf("Expected 3 transactions, got %d", len(airlink.Transactions))
		}
		if airlink.Transactions[0].Kind != model.KindBuy || airlink.Transactions[2].Kind != model.KindDividend {
			t.Errorf("Transaction order not preserved: %v, %v",
				airlink.Transactions[0].Kind, airlink.Transactions[2].Kind)
		}
		if math.Abs(airlink.TotalInvestment-23000) > 1e-9 {
			t.Errorf("Expected total investment 23000, got %v", airlink.TotalInvestment)
		}

		efert := loaded[1]
		if efert.CurrentPrice != nil {
			t.Errorf("Expected nil current price for unrefreshed holding, got %v", *efert.CurrentPrice)
		}
		if efert.DayChange != nil {
			t.Errorf("Expected nil day change, got %v", *efert.DayChange)
		}
		if efert.Overview != nil {
			t.Errorf("Expected nil overview, got %v", efert.Overview)
		}
	})

	t.Run("replace removes holdings absent from the new state", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewHoldingRepository(db)

		testutil.NewHolding("AIRLINK").WithBuy(10, 100, "2025-01-01").Build(t, db)
		testutil.NewHolding("MEBL").WithBuy(20, 200, "2025-01-02").Build(t, db)

		kept := testutil.NewHolding("MEBL").WithBuy(20, 200, "2025-01-02").Holding()
		if err := repo.ReplaceHoldings([]model.Holding{kept}); err != nil {
			t.Fatalf("ReplaceHoldings() returned unexpected error: %v", err)
		}

		loaded, err := repo.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}

		if len(loaded) != 1 || loaded[0].Ticker != "MEBL" {
			t.Errorf("Expected only MEBL to survive, got %+v", loaded)
		}
	})
}

// TestSnapshotRepository_ReplaceAndGet tests the value-history round trip.
//
// WHY: History is capped and deduplicated in memory, then persisted by
// replacement; date ordering on load is what the charting endpoint depends on.
func TestSnapshotRepository_ReplaceAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSnapshotRepository(db)

	history := []model.PortfolioSnapshot{
		{Date: "2025-08-01", Value: 1000},
		{Date: "2025-08-02", Value: 1100},
		{Date: "2025-08-03", Value: 1050},
	}
	if err := repo.ReplaceSnapshots(history); err != nil {
		t.Fatalf("ReplaceSnapshots() returned unexpected error: %v", err)
	}

	loaded, err := repo.GetSnapshots()
	if err != nil {
		t.Fatalf("GetSnapshots() returned unexpected error: %v", err)
	}

	if len(loaded) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(loaded))
	}
	for i, snap := range history {
		if loaded[i] != snap {
			t.Errorf("Snapshot %d mismatch: expected %+v, got %+v", i, snap, loaded[i])
		}
	}
}
