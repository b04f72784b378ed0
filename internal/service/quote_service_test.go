package service_test

import (
	"context"
	"testing"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
	"github.com/umair4234/psx-portfolio-tracker/internal/repository"
	"github.com/umair4234/psx-portfolio-tracker/internal/service"
	"github.com/umair4234/psx-portfolio-tracker/internal/testutil"
)

func floatPtr(v float64) *float64 { return &v }

// TestQuoteService_RefreshQuotes tests the concurrent quote refresh.
//
// WHY: A refresh must overwrite only live market fields, leave transaction
// histories alone, survive individual ticker failures, and stamp the
// last-refreshed setting. This is the only path that touches external data.
func TestQuoteService_RefreshQuotes(t *testing.T) {
	t.Run("overwrites live fields and records the refresh time", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		portfolioSvc := testutil.NewTestPortfolioService(t, db)

		testutil.NewHolding("AIRLINK").WithBuy(100, 150, "2025-01-01").Build(t, db)
		testutil.NewHolding("EFERT").WithBuy(200, 60, "2025-01-01").WithPrice(61).Build(t, db)

		stub := testutil.NewStubQuoteProvider(map[string]model.Quote{
			"AIRLINK": {
				Ticker:    "AIRLINK",
				Name:      "Air Link Communication",
				Price:     158.5,
				DayChange: floatPtr(2.5),
				Sector:    "Technology",
				Source:    "stub",
			},
			"EFERT": {Ticker: "EFERT", Price: 63.25, Source: "stub"},
		})
		quoteSvc := service.NewQuoteService(
			repository.NewHoldingRepository(db),
			repository.NewSettingRepository(db),
			stub,
		)

		result, err := quoteSvc.RefreshQuotes(context.Background())
		if err != nil {
			t.Fatalf("RefreshQuotes() returned unexpected error: %v", err)
		}
		if result.Refreshed != 2 || len(result.Failed) != 0 {
			t.Errorf("Expected 2 refreshed and 0 failed, got %+v", result)
		}

		airlink, err := portfolioSvc.GetHolding("AIRLINK")
		if err != nil {
			t.Fatalf("GetHolding() failed: %v", err)
		}
		if airlink.CurrentPrice == nil || *airlink.CurrentPrice != 158.5 {
			t.Errorf("Expected price 158.5, got %v", airlink.CurrentPrice)
		}
		if airlink.DayChange == nil || *airlink.DayChange != 2.5 {
			t.Errorf("Expected day change 2.5, got %v", airlink.DayChange)
		}
		if airlink.Name != "Air Link Communication" || airlink.Sector != "Technology" {
			t.Errorf("Metadata not refreshed: %+v", airlink)
		}
		// Position fields untouched by refresh.
		if airlink.Quantity != 100 || airlink.TotalInvestment != 15000 || len(airlink.Transactions) != 1 {
			t.Errorf("Refresh touched ledger fields: %+v", airlink)
		}

		// EFERT quote carried no day change; stale value must be cleared.
		efert, err := portfolioSvc.GetHolding("EFERT")
		if err != nil {
			t.Fatalf("GetHolding() failed: %v", err)
		}
		if efert.CurrentPrice == nil || *efert.CurrentPrice != 63.25 {
			t.Errorf("Expected price 63.25, got %v", efert.CurrentPrice)
		}
		if efert.DayChange != nil {
			t.Errorf("Expected day change cleared, got %v", *efert.DayChange)
		}

		portfolio, err := portfolioSvc.GetPortfolio()
		if err != nil {
			t.Fatalf("GetPortfolio() failed: %v", err)
		}
		if portfolio.LastRefreshed == nil {
			t.Error("Expected last refreshed timestamp to be recorded")
		}
	})

	t.Run("a failing ticker is reported but does not abort the refresh", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		portfolioSvc := testutil.NewTestPortfolioService(t, db)

		testutil.NewHolding("AIRLINK").WithBuy(100, 150, "2025-01-01").Build(t, db)
		testutil.NewHolding("GHOST").WithBuy(10, 10, "2025-01-01").Build(t, db)

		stub := testutil.NewStubQuoteProvider(map[string]model.Quote{
			"AIRLINK": {Ticker: "AIRLINK", Price: 152, Source: "stub"},
		})
		quoteSvc := service.NewQuoteService(
			repository.NewHoldingRepository(db),
			repository.NewSettingRepository(db),
			stub,
		)

		result, err := quoteSvc.RefreshQuotes(context.Background())
		if err != nil {
			t.Fatalf("RefreshQuotes() returned unexpected error: %v", err)
		}
		if result.Refreshed != 1 {
			t.Errorf("Expected 1 refreshed, got %d", result.Refreshed)
		}
		if len(result.Failed) != 1 || result.Failed[0] != "GHOST" {
			t.Errorf("Expected GHOST in failed list, got %v", result.Failed)
		}

		// The failing holding keeps whatever it had.
		ghost, err := portfolioSvc.GetHolding("GHOST")
		if err != nil {
			t.Fatalf("GetHolding() failed: %v", err)
		}
		if ghost.CurrentPrice != nil {
			t.Errorf("Expected GHOST price to stay unknown, got %v", *ghost.CurrentPrice)
		}
	})

	t.Run("refresh of an empty portfolio is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		stub := testutil.NewStubQuoteProvider(nil)
		quoteSvc := service.NewQuoteService(
			repository.NewHoldingRepository(db),
			repository.NewSettingRepository(db),
			stub,
		)

		result, err := quoteSvc.RefreshQuotes(context.Background())
		if err != nil {
			t.Fatalf("RefreshQuotes() returned unexpected error: %v", err)
		}
		if result.Refreshed != 0 || len(stub.Calls()) != 0 {
			t.Errorf("Expected no work for empty portfolio, got %+v, calls %v", result, stub.Calls())
		}
	})

	t.Run("running the same refresh twice is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		portfolioSvc := testutil.NewTestPortfolioService(t, db)

		testutil.NewHolding("MEBL").WithBuy(10, 200, "2025-01-01").Build(t, db)

		stub := testutil.NewStubQuoteProvider(map[string]model.Quote{
			"MEBL": {Ticker: "MEBL", Price: 240, DayChange: floatPtr(-1), Source: "stub"},
		})
		quoteSvc := service.NewQuoteService(
			repository.NewHoldingRepository(db),
			repository.NewSettingRepository(db),
			stub,
		)

		if _, err := quoteSvc.RefreshQuotes(context.Background()); err != nil {
			t.Fatalf("First refresh failed: %v", err)
		}
		first, err := portfolioSvc.GetHolding("MEBL")
		if err != nil {
			t.Fatalf("GetHolding() failed: %v", err)
		}

		if _, err := quoteSvc.RefreshQuotes(context.Background()); err != nil {
			t.Fatalf("Second refresh failed: %v", err)
		}
		second, err := portfolioSvc.GetHolding("MEBL")
		if err != nil {
			t.Fatalf("GetHolding() failed: %v", err)
		}

		if *first.CurrentPrice != *second.CurrentPrice || *first.DayChange != *second.DayChange {
			t.Errorf("Repeated refresh changed live fields: %+v vs %+v", first, second)
		}
		if len(second.Transactions) != 1 {
			t.Errorf("Repeated refresh changed history: %d transactions", len(second.Transactions))
		}
	})
}
