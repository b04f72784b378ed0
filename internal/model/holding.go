package model

import "strings"

// Holding represents a single ticker position. Quantity, AverageBuyPrice and
// TotalInvestment are derived from the transaction history; CurrentPrice,
// DayChange, Name, Sector, Overview and DataSource are transient market
// fields written only by a price refresh, never by ledger arithmetic.
//
// TotalInvestment reflects cumulative capital deployed: sells reduce
// Quantity but leave TotalInvestment untouched, so the average buy price
// rises after a partial sell. Deliberate simplification, not a bug.
type Holding struct {
	Ticker          string        `json:"ticker"`
	Name            string        `json:"name,omitempty"`
	Sector          string        `json:"sector,omitempty"`
	Transactions    []Transaction `json:"transactions"`
	Quantity        float64       `json:"quantity"`
	AverageBuyPrice float64       `json:"averageBuyPrice"`
	TotalInvestment float64       `json:"totalInvestment"`

	// Live market fields. A nil CurrentPrice means "unknown, needs refresh
	// or manual entry" and is distinct from a price of zero.
	CurrentPrice *float64       `json:"currentPrice,omitempty"`
	DayChange    *float64       `json:"dayChange,omitempty"` // per-share move since previous close
	DataSource   string         `json:"dataSource,omitempty"`
	Overview     map[string]any `json:"overview,omitempty"` // open key/value market snippet, scalar values only
}

// NormalizeTicker upper-cases and trims a ticker symbol. All ledger
// operations key holdings by the normalized form.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Clone returns a deep copy of the holding. Ledger mutations operate on
// copies so the caller's input slice is never modified in place.
func (h Holding) Clone() Holding {
	c := h
	if h.Transactions != nil {
		c.Transactions = make([]Transaction, len(h.Transactions))
		copy(c.Transactions, h.Transactions)
	}
	if h.CurrentPrice != nil {
		p := *h.CurrentPrice
		c.CurrentPrice = &p
	}
	if h.DayChange != nil {
		d := *h.DayChange
		c.DayChange = &d
	}
	if h.Overview != nil {
		c.Overview = make(map[string]any, len(h.Overview))
		for k, v := range h.Overview {
			c.Overview[k] = v
		}
	}
	return c
}
