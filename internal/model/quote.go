package model

// Quote is the payload a price provider resolves for one ticker. The ledger
// consumes quotes only through a refresh, which overwrites live market
// fields and never touches transactions.
type Quote struct {
	Ticker    string         `json:"ticker"`
	Name      string         `json:"name,omitempty"`
	Price     float64        `json:"price"`
	DayChange *float64       `json:"dayChange,omitempty"`
	Sector    string         `json:"sector,omitempty"`
	Overview  map[string]any `json:"overview,omitempty"`
	Source    string         `json:"source,omitempty"` // provider tag, e.g. "gemini" or "psx"
}

// ToHolding converts a quote into the refresh-payload holding shape consumed
// by ledger.AddHoldings with isRefresh=true.
func (q Quote) ToHolding() Holding {
	h := Holding{
		Ticker:     NormalizeTicker(q.Ticker),
		Name:       q.Name,
		Sector:     q.Sector,
		DataSource: q.Source,
		Overview:   q.Overview,
	}
	price := q.Price
	h.CurrentPrice = &price
	if q.DayChange != nil {
		d := *q.DayChange
		h.DayChange = &d
	}
	return h
}
