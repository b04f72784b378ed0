package request

// CreateHoldingRequest records a single purchase, creating the holding if
// the ticker is new.
type CreateHoldingRequest struct {
	Ticker   string  `json:"ticker"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Date     string  `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

// SellRequest records a sale against an existing holding.
type SellRequest struct {
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Date     string  `json:"date,omitempty"`
}

// DividendRequest records a cash dividend against an existing holding.
type DividendRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date,omitempty"`
}

// UpdateHoldingRequest is a manual correction: it replaces the holding's
// transaction history with a single synthetic buy for these totals.
type UpdateHoldingRequest struct {
	TotalQuantity float64 `json:"totalQuantity"`
	AveragePrice  float64 `json:"averagePrice"`
}

// BulkImportRequest carries free-form "TICKER QUANTITY PRICE [DATE]" lines.
type BulkImportRequest struct {
	Text string `json:"text"`
}

// OverrideRequest sets a manual price override as entered, free text
// included; non-numeric values are simply ignored at valuation time.
type OverrideRequest struct {
	Value string `json:"value"`
}

// GeminiKeyRequest sets the Gemini API key used by the AI quote provider.
type GeminiKeyRequest struct {
	APIKey string `json:"apiKey"`
}
