package model

import "time"

// Portfolio is the ledger: the full set of holdings keyed by normalized
// ticker, the value-snapshot history, and the last refresh timestamp. It is
// the single source of truth; metrics and allocation are recomputed from it
// on every read and never stored.
type Portfolio struct {
	Holdings      []Holding           `json:"holdings"`
	History       []PortfolioSnapshot `json:"history"`
	LastRefreshed *time.Time          `json:"lastRefreshed,omitempty"`
}

// PortfolioSnapshot is a (calendar date, total value) pair. The history
// keeps at most one snapshot per day; a same-day write replaces the entry.
type PortfolioSnapshot struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
}

// PortfolioMetrics is a derived view over the full ledger plus manual price
// overrides. All percentages are defined (zero) when their denominator is
// zero or negative; no field is ever NaN or infinite.
type PortfolioMetrics struct {
	CurrentValue         float64 `json:"currentValue"`
	TotalInvestment      float64 `json:"totalInvestment"`
	TotalDividends       float64 `json:"totalDividends"`
	TotalGainLoss        float64 `json:"totalGainLoss"`
	TotalGainLossPercent float64 `json:"totalGainLossPercent"`
	DayGainLoss          float64 `json:"dayGainLoss"`
	DayGainLossPercent   float64 `json:"dayGainLossPercent"`
	HoldingCount         int     `json:"holdingCount"`
}

// SectorAllocation is one value-weighted sector bucket. Holdings without a
// sector are grouped under "Uncategorized".
type SectorAllocation struct {
	Sector     string   `json:"sector"`
	Percentage float64  `json:"percentage"`
	Value      float64  `json:"value"`
	Holdings   []string `json:"holdings"` // tickers in this bucket, insertion order
}

// UncategorizedSector is the bucket label for holdings with no sector.
const UncategorizedSector = "Uncategorized"
