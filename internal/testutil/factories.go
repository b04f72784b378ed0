package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
	"github.com/umair4234/psx-portfolio-tracker/internal/repository"
)

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	// Simple creation with defaults
//	holding := testutil.NewHolding("AIRLINK").Build(t, db)
//
//	// Customized holding
//	holding := testutil.NewHolding("EFERT").
//	    WithBuy(100, 50, "2025-01-10").
//	    WithSector("Fertilizer").
//	    WithPrice(62.5).
//	    Build(t, db)
type HoldingBuilder struct {
	holding model.Holding
}

// NewHolding creates a HoldingBuilder for a ticker with no transactions.
func NewHolding(ticker string) *HoldingBuilder {
	return &HoldingBuilder{
		holding: model.Holding{
			Ticker:       model.NormalizeTicker(ticker),
			Transactions: []model.Transaction{},
		},
	}
}

// WithName sets the company name.
func (b *HoldingBuilder) WithName(name string) *HoldingBuilder {
	b.holding.Name = name
	return b
}

// WithSector sets the sector classification.
func (b *HoldingBuilder) WithSector(sector string) *HoldingBuilder {
	b.holding.Sector = sector
	return b
}

// WithBuy appends a buy transaction and updates the derived fields.
func (b *HoldingBuilder) WithBuy(quantity, price float64, date string) *HoldingBuilder {
	b.holding.Transactions = append(b.holding.Transactions, model.NewBuy(quantity, price, mustParseDate(date)))
	b.holding.Quantity += quantity
	b.holding.TotalInvestment += quantity * price
	b.holding.AverageBuyPrice = b.holding.TotalInvestment / b.holding.Quantity
	return b
}

// WithDividend appends a dividend transaction.
func (b *HoldingBuilder) WithDividend(amount float64, date string) *HoldingBuilder {
	b.holding.Transactions = append(b.holding.Transactions, model.NewDividend(amount, mustParseDate(date)))
	return b
}

// WithPrice sets the live current price.
func (b *HoldingBuilder) WithPrice(price float64) *HoldingBuilder {
	b.holding.CurrentPrice = &price
	return b
}

// WithDayChange sets the per-share day change.
func (b *HoldingBuilder) WithDayChange(change float64) *HoldingBuilder {
	b.holding.DayChange = &change
	return b
}

// Holding returns the built holding without persisting it.
func (b *HoldingBuilder) Holding() model.Holding {
	return b.holding
}

// Build persists the holding (appended after any existing rows) and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	repo := repository.NewHoldingRepository(db)
	existing, err := repo.GetHoldings()
	if err != nil {
		t.Fatalf("Failed to load holdings: %v", err)
	}

	if err := repo.ReplaceHoldings(append(existing, b.holding)); err != nil {
		t.Fatalf("Failed to persist holding %s: %v", b.holding.Ticker, err)
	}

	return b.holding
}

func mustParseDate(date string) time.Time {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return parsed
}
