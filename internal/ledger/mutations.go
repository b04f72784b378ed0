package ledger

import (
	"log"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// AddHoldings merges incoming holdings into the ledger and returns the new
// ledger. The input slices are never modified.
//
// With isRefresh=true the incoming entries are a price-refresh payload: only
// the live market fields (current price, day change, name, sector, overview,
// data source) of matching holdings are overwritten; transaction histories
// and derived investment fields are untouched, and incoming tickers with no
// existing match are dropped — a refresh cannot create positions. Applying
// the same payload twice leaves the ledger unchanged.
//
// With isRefresh=false the incoming entries are purchases or an import:
// transactions of matching tickers are appended to the existing history and
// the derived fields recomputed over the combined history; unmatched
// incoming holdings are inserted as new entries. Ticker uniqueness is
// preserved in both modes.
func AddHoldings(holdings, incoming []model.Holding, isRefresh bool) []model.Holding {
	out := make([]model.Holding, len(holdings))
	index := make(map[string]int, len(holdings))
	for i, h := range holdings {
		out[i] = h.Clone()
		index[model.NormalizeTicker(h.Ticker)] = i
	}

	for _, in := range incoming {
		ticker := model.NormalizeTicker(in.Ticker)
		if ticker == "" {
			continue
		}
		pos, exists := index[ticker]

		if isRefresh {
			if !exists {
				continue
			}
			refreshLiveFields(&out[pos], in)
			continue
		}

		if exists {
			out[pos].Transactions = append(out[pos].Transactions, in.Transactions...)
			applyAggregates(&out[pos])
			continue
		}

		fresh := in.Clone()
		fresh.Ticker = ticker
		applyAggregates(&fresh)
		index[ticker] = len(out)
		out = append(out, fresh)
	}

	return out
}

// refreshLiveFields overwrites the transient market fields of an existing
// holding from a refresh payload entry. Name and sector are only replaced
// when the provider supplied them, so a sparse payload cannot blank out
// previously known metadata.
func refreshLiveFields(h *model.Holding, in model.Holding) {
	if in.CurrentPrice != nil {
		price := *in.CurrentPrice
		h.CurrentPrice = &price
	}
	if in.DayChange != nil {
		change := *in.DayChange
		h.DayChange = &change
	} else {
		h.DayChange = nil
	}
	if in.Name != "" {
		h.Name = in.Name
	}
	if in.Sector != "" {
		h.Sector = in.Sector
	}
	if in.DataSource != "" {
		h.DataSource = in.DataSource
	}
	if in.Overview != nil {
		overview := make(map[string]any, len(in.Overview))
		for k, v := range in.Overview {
			overview[k] = v
		}
		h.Overview = overview
	}
}

// Sell applies a sale to the ledger and returns the new ledger. When the
// ticker is absent or quantity exceeds the held quantity the ledger is
// returned unchanged and a diagnostic is logged — the caller's validation is
// expected to have prevented the call, but the ledger must stay consistent
// regardless. A sale that brings the position to (or within Epsilon of)
// zero removes the holding entirely, transaction history included.
func Sell(holdings []model.Holding, ticker string, quantity, price float64, now time.Time) []model.Holding {
	ticker = model.NormalizeTicker(ticker)
	pos := findHolding(holdings, ticker)
	if pos < 0 {
		log.Printf("ledger: sell ignored, no holding for %s", ticker)
		return holdings
	}
	if quantity <= 0 || quantity > holdings[pos].Quantity+Epsilon {
		log.Printf("ledger: sell ignored, %s quantity %.4f exceeds held %.4f", ticker, quantity, holdings[pos].Quantity)
		return holdings
	}

	out := cloneAll(holdings)
	h := &out[pos]
	h.Transactions = append(h.Transactions, model.NewSell(quantity, price, now))
	h.Quantity -= quantity
	if h.Quantity > 0 {
		h.AverageBuyPrice = h.TotalInvestment / h.Quantity
	} else {
		h.AverageBuyPrice = 0
	}

	if h.Quantity <= Epsilon {
		out = append(out[:pos], out[pos+1:]...)
	}
	return out
}

// AddDividend appends a dividend transaction to a holding. Quantity,
// total investment and average buy price are unaffected. Absent ticker is a
// guarded no-op.
func AddDividend(holdings []model.Holding, ticker string, amount float64, date time.Time) []model.Holding {
	ticker = model.NormalizeTicker(ticker)
	pos := findHolding(holdings, ticker)
	if pos < 0 {
		log.Printf("ledger: dividend ignored, no holding for %s", ticker)
		return holdings
	}

	out := cloneAll(holdings)
	out[pos].Transactions = append(out[pos].Transactions, model.NewDividend(amount, date))
	return out
}

// UpdateHolding performs a manual correction: the holding's entire
// transaction history is replaced by a single synthetic buy dated today
// with the given totals, and the derived fields are set to match directly.
// This deliberately discards transaction-level history; it is a destructive
// reconciliation tool, not an incremental edit. Absent ticker is a guarded
// no-op.
func UpdateHolding(holdings []model.Holding, ticker string, totalQuantity, averagePrice float64, now time.Time) []model.Holding {
	ticker = model.NormalizeTicker(ticker)
	pos := findHolding(holdings, ticker)
	if pos < 0 {
		log.Printf("ledger: update ignored, no holding for %s", ticker)
		return holdings
	}

	out := cloneAll(holdings)
	h := &out[pos]
	h.Transactions = []model.Transaction{model.NewBuy(totalQuantity, averagePrice, now)}
	h.Quantity = totalQuantity
	h.AverageBuyPrice = averagePrice
	h.TotalInvestment = totalQuantity * averagePrice
	return out
}

func findHolding(holdings []model.Holding, normalizedTicker string) int {
	for i, h := range holdings {
		if model.NormalizeTicker(h.Ticker) == normalizedTicker {
			return i
		}
	}
	return -1
}

func cloneAll(holdings []model.Holding) []model.Holding {
	out := make([]model.Holding, len(holdings))
	for i, h := range holdings {
		out[i] = h.Clone()
	}
	return out
}
