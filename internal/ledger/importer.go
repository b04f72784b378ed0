package ledger

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// ParseBulkImport turns free-form text with one entry per line into
// holdings, one per distinct ticker, each containing one buy transaction per
// valid line. Lines have the shape:
//
//	TICKER QUANTITY PRICE [DATE]
//
// where DATE is YYYY-MM-DD and defaults to today's calendar date in the
// given now. Blank lines and lines starting with '#' are ignored. A
// malformed line (missing field, non-positive or unparseable number, bad
// date) is skipped without aborting the rest of the input. The result is
// empty when nothing parses.
func ParseBulkImport(text string, now time.Time) []model.Holding {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var order []string
	byTicker := make(map[string]*model.Holding)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		ticker := model.NormalizeTicker(fields[0])
		if ticker == "" {
			continue
		}
		quantity, err := parsePositive(fields[1])
		if err != nil {
			continue
		}
		price, err := parsePositive(fields[2])
		if err != nil {
			continue
		}

		date := today
		if len(fields) >= 4 {
			parsed, err := time.Parse("2006-01-02", fields[3])
			if err != nil {
				continue
			}
			date = parsed
		}

		h, ok := byTicker[ticker]
		if !ok {
			h = &model.Holding{Ticker: ticker}
			byTicker[ticker] = h
			order = append(order, ticker)
		}
		h.Transactions = append(h.Transactions, model.NewBuy(quantity, price, date))
	}

	holdings := make([]model.Holding, 0, len(order))
	for _, ticker := range order {
		h := byTicker[ticker]
		applyAggregates(h)
		holdings = append(holdings, *h)
	}
	return holdings
}

// parsePositive parses a decimal number and rejects anything that is not a
// finite positive value.
func parsePositive(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
