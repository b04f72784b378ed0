package ledger_test

import (
	"reflect"
	"testing"

	"github.com/umair4234/psx-portfolio-tracker/internal/ledger"
	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

func holdingWithBuy(ticker string, quantity, price float64) model.Holding {
	h := model.Holding{
		Ticker:       ticker,
		Transactions: []model.Transaction{model.NewBuy(quantity, price, testDay)},
	}
	agg := ledger.Aggregate(h.Transactions)
	h.Quantity = agg.Quantity
	h.TotalInvestment = agg.TotalInvestment
	h.AverageBuyPrice = agg.AverageBuyPrice
	return h
}

func floatPtr(v float64) *float64 { return &v }

// TestAddHoldings_Purchase tests merging purchased holdings into the ledger.
//
// WHY: Buying more of an existing ticker and importing new tickers run
// through the same operation; the combined history must re-aggregate and
// ticker uniqueness must survive any input.
func TestAddHoldings_Purchase(t *testing.T) {
	t.Run("appends transactions to an existing holding and re-aggregates", func(t *testing.T) {
		existing := []model.Holding{holdingWithBuy("MEBL", 100, 150)}
		incoming := []model.Holding{holdingWithBuy("mebl", 50, 180)}

		out := ledger.AddHoldings(existing, incoming, false)

		if len(out) != 1 {
			t.Fatalf("expected 1 holding, got %d", len(out))
		}
		h := out[0]
		if len(h.Transactions) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(h.Transactions))
		}
		if h.Quantity != 150 {
			t.Errorf("Quantity = %v, want 150", h.Quantity)
		}
		if h.TotalInvestment != 24000 {
			t.Errorf("TotalInvestment = %v, want 24000", h.TotalInvestment)
		}
	})

	t.Run("inserts unknown tickers as new holdings", func(t *testing.T) {
		existing := []model.Holding{holdingWithBuy("MEBL", 100, 150)}
		incoming := []model.Holding{holdingWithBuy("EFERT", 200, 112.5)}

		out := ledger.AddHoldings(existing, incoming, false)

		if len(out) != 2 {
			t.Fatalf("expected 2 holdings, got %d", len(out))
		}
		if out[1].Ticker != "EFERT" || out[1].Quantity != 200 {
			t.Errorf("unexpected inserted holding: %+v", out[1])
		}
	})

	t.Run("does not mutate the input ledger", func(t *testing.T) {
		existing := []model.Holding{holdingWithBuy("MEBL", 100, 150)}
		before := existing[0].Quantity
		txCount := len(existing[0].Transactions)

		ledger.AddHoldings(existing, []model.Holding{holdingWithBuy("MEBL", 10, 100)}, false)

		if existing[0].Quantity != before || len(existing[0].Transactions) != txCount {
			t.Error("input ledger was mutated in place")
		}
	})
}

// TestAddHoldings_Refresh tests price-refresh payload application.
//
// WHY: A refresh must only ever touch live market fields. If it leaked into
// transactions or derived figures, re-fetching prices would corrupt the
// books; applying the same payload twice must also be a no-op.
func TestAddHoldings_Refresh(t *testing.T) {
	refreshPayload := func() []model.Holding {
		return []model.Holding{{
			Ticker:       "MEBL",
			Name:         "Meezan Bank Limited",
			Sector:       "Commercial Banks",
			CurrentPrice: floatPtr(245.5),
			DayChange:    floatPtr(-1.2),
			DataSource:   "psx",
			Overview:     map[string]any{"peRatio": 6.1, "marketCap": "438B"},
		}}
	}

	t.Run("overwrites only live fields", func(t *testing.T) {
		existing := []model.Holding{holdingWithBuy("MEBL", 100, 150)}
		wantTxs := existing[0].Transactions

		out := ledger.AddHoldings(existing, refreshPayload(), true)

		h := out[0]
		if *h.CurrentPrice != 245.5 || *h.DayChange != -1.2 || h.DataSource != "psx" {
			t.Errorf("live fields not applied: %+v", h)
		}
		if h.Name != "Meezan Bank Limited" || h.Sector != "Commercial Banks" {
			t.Errorf("name/sector not applied: %+v", h)
		}
		if !reflect.DeepEqual(h.Transactions, wantTxs) {
			t.Error("refresh altered the transaction history")
		}
		if h.Quantity != 100 || h.TotalInvestment != 15000 || h.AverageBuyPrice != 150 {
			t.Errorf("refresh altered derived fields: %+v", h)
		}
	})

	t.Run("drops payload entries for unknown tickers", func(t *testing.T) {
		existing := []model.Holding{holdingWithBuy("MEBL", 100, 150)}
		payload := refreshPayload()
		payload[0].Ticker = "GHOST"

		out := ledger.AddHoldings(existing, payload, true)

		if len(out) != 1 || out[0].Ticker != "MEBL" {
			t.Errorf("refresh created or replaced holdings: %+v", out)
		}
		if out[0].CurrentPrice != nil {
			t.Error("refresh wrote price data onto the wrong holding")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		existing := []model.Holding{holdingWithBuy("MEBL", 100, 150)}

		once := ledger.AddHoldings(existing, refreshPayload(), true)
		twice := ledger.AddHoldings(once, refreshPayload(), true)

		if !reflect.DeepEqual(once, twice) {
			t.Error("applying the same refresh payload twice changed the ledger")
		}
	})
}

// TestSell tests the sale operation, including the guarded no-ops.
//
// WHY: Selling is where positions shrink or disappear; a mistake either
// strands a zero-quantity holding or destroys one that still has shares.
// The oversell guard is the ledger's last line of defence against a
// validation layer that was bypassed.
func TestSell(t *testing.T) {
	t.Run("partial sell reduces quantity and appends a sell transaction", func(t *testing.T) {
		holdings := []model.Holding{holdingWithBuy("MEBL", 100, 150)}

		out := ledger.Sell(holdings, "MEBL", 40, 200, testDay)

		if len(out) != 1 {
			t.Fatalf("expected holding to remain, got %d holdings", len(out))
		}
		h := out[0]
		if h.Quantity != 60 {
			t.Errorf("Quantity = %v, want 60", h.Quantity)
		}
		if h.TotalInvestment != 15000 {
			t.Errorf("TotalInvestment = %v, want 15000 (sells must not reduce it)", h.TotalInvestment)
		}
		// 15000 / 60: average buy price rises after a partial sell because
		// invested capital is not reduced. Intentional behaviour.
		if h.AverageBuyPrice != 250 {
			t.Errorf("AverageBuyPrice = %v, want 250", h.AverageBuyPrice)
		}
		last := h.Transactions[len(h.Transactions)-1]
		if last.Kind != model.KindSell || last.Quantity != 40 || last.Amount != 8000 {
			t.Errorf("unexpected sell transaction: %+v", last)
		}
	})

	t.Run("selling the full position removes the holding entirely", func(t *testing.T) {
		holdings := []model.Holding{
			holdingWithBuy("MEBL", 100, 150),
			holdingWithBuy("EFERT", 200, 112.5),
		}

		out := ledger.Sell(holdings, "MEBL", 100, 200, testDay)

		if len(out) != 1 || out[0].Ticker != "EFERT" {
			t.Errorf("expected only EFERT to remain, got %+v", out)
		}
	})

	t.Run("floating point residue still removes the holding", func(t *testing.T) {
		holdings := []model.Holding{holdingWithBuy("LUCK", 0.3, 100)}

		// 0.3 - 0.1 - 0.2 leaves ~5.5e-17 shares.
		out := ledger.Sell(holdings, "LUCK", 0.1, 100, testDay)
		out = ledger.Sell(out, "LUCK", 0.2, 100, testDay)

		if len(out) != 0 {
			t.Errorf("residue position was retained: %+v", out)
		}
	})

	t.Run("oversell is a no-op returning the ledger unchanged", func(t *testing.T) {
		holdings := []model.Holding{holdingWithBuy("MEBL", 100, 150)}

		out := ledger.Sell(holdings, "MEBL", 150, 200, testDay)

		if !reflect.DeepEqual(out, holdings) {
			t.Error("oversell modified the ledger")
		}
	})

	t.Run("unknown ticker is a no-op", func(t *testing.T) {
		holdings := []model.Holding{holdingWithBuy("MEBL", 100, 150)}

		out := ledger.Sell(holdings, "GHOST", 10, 200, testDay)

		if !reflect.DeepEqual(out, holdings) {
			t.Error("sell of unknown ticker modified the ledger")
		}
	})
}

// TestAddDividend tests dividend recording.
//
// WHY: Dividends feed total gain/loss but must never move quantity or cost
// figures.
func TestAddDividend(t *testing.T) {
	t.Run("appends a dividend without touching derived fields", func(t *testing.T) {
		holdings := []model.Holding{holdingWithBuy("MEBL", 100, 150)}

		out := ledger.AddDividend(holdings, "MEBL", 750, testDay)

		h := out[0]
		if len(h.Transactions) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(h.Transactions))
		}
		last := h.Transactions[1]
		if last.Kind != model.KindDividend || last.Amount != 750 {
			t.Errorf("unexpected dividend transaction: %+v", last)
		}
		if h.Quantity != 100 || h.TotalInvestment != 15000 || h.AverageBuyPrice != 150 {
			t.Errorf("dividend altered derived fields: %+v", h)
		}
	})

	t.Run("unknown ticker is a no-op", func(t *testing.T) {
		holdings := []model.Holding{holdingWithBuy("MEBL", 100, 150)}

		out := ledger.AddDividend(holdings, "GHOST", 750, testDay)

		if !reflect.DeepEqual(out, holdings) {
			t.Error("dividend for unknown ticker modified the ledger")
		}
	})
}

// TestUpdateHolding tests the destructive manual correction.
//
// WHY: Reconciliation replaces a holding's entire history with one
// synthetic buy; anything short of exactly one transaction afterwards means
// history leaked through.
func TestUpdateHolding(t *testing.T) {
	t.Run("replaces history with a single synthetic buy", func(t *testing.T) {
		holdings := []model.Holding{holdingWithBuy("MEBL", 100, 150)}
		holdings = ledger.Sell(holdings, "MEBL", 10, 200, testDay)
		holdings = ledger.AddDividend(holdings, "MEBL", 500, testDay)
		holdings = ledger.AddHoldings(holdings, []model.Holding{holdingWithBuy("MEBL", 20, 170)}, false)
		holdings = ledger.AddDividend(holdings, "MEBL", 300, testDay)
		if got := len(holdings[0].Transactions); got != 5 {
			t.Fatalf("setup expected 5 prior transactions, got %d", got)
		}

		out := ledger.UpdateHolding(holdings, "MEBL", 120, 160, testDay)

		h := out[0]
		if len(h.Transactions) != 1 {
			t.Fatalf("expected exactly 1 transaction after correction, got %d", len(h.Transactions))
		}
		tx := h.Transactions[0]
		if tx.Kind != model.KindBuy || tx.Quantity != 120 || tx.Price != 160 {
			t.Errorf("unexpected synthetic buy: %+v", tx)
		}
		if h.Quantity != 120 || h.AverageBuyPrice != 160 || h.TotalInvestment != 19200 {
			t.Errorf("derived fields do not match correction: %+v", h)
		}
	})

	t.Run("unknown ticker is a no-op", func(t *testing.T) {
		holdings := []model.Holding{holdingWithBuy("MEBL", 100, 150)}

		out := ledger.UpdateHolding(holdings, "GHOST", 50, 100, testDay)

		if !reflect.DeepEqual(out, holdings) {
			t.Error("update of unknown ticker modified the ledger")
		}
	})
}

// TestEndToEndScenario runs the bulk-import-then-sell flow.
//
// WHY: This pins down the documented interaction of import, sell and the
// cumulative-capital investment figure in one place.
func TestEndToEndScenario(t *testing.T) {
	imported := ledger.ParseBulkImport("MEBL 100 150 2024-01-01", testDay)
	holdings := ledger.AddHoldings(nil, imported, false)

	holdings = ledger.Sell(holdings, "MEBL", 40, 200, testDay)

	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}
	h := holdings[0]
	if h.Quantity != 60 {
		t.Errorf("Quantity = %v, want 60", h.Quantity)
	}
	if h.TotalInvestment != 15000 {
		t.Errorf("TotalInvestment = %v, want 15000", h.TotalInvestment)
	}
	if h.AverageBuyPrice != 250 {
		t.Errorf("AverageBuyPrice = %v, want 250", h.AverageBuyPrice)
	}
}
