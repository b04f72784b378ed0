package psx

// Response represents the raw JSON response from the PSX data portal's
// intraday timeseries endpoint. Data points are [unix timestamp, price,
// volume] triples, newest first.
type Response struct {
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Data    [][3]float64 `json:"data"`
}
