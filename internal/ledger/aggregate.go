// Package ledger implements the portfolio ledger and metrics engine: the
// mutation operations that keep per-holding aggregates consistent across
// buys, sells, dividends and manual corrections, and the pure derivations
// (valuation, gain/loss, sector allocation, snapshot history) computed from
// the ledger plus manual price overrides.
//
// Every operation is a pure function: it takes the current ledger and
// returns a new one, never mutating its input. There is no I/O here; the
// service layer owns loading and persisting the authoritative ledger and
// must serialize writes to it.
package ledger

import "github.com/umair4234/psx-portfolio-tracker/internal/model"

// Epsilon is the quantity below which a position counts as zero, guarding
// against floating-point residue after a full sell.
const Epsilon = 1e-9

// Aggregates holds the derived per-holding figures recomputed from a
// transaction history.
type Aggregates struct {
	Quantity        float64
	TotalInvestment float64
	AverageBuyPrice float64
}

// Aggregate walks a transaction history in order and derives the holding's
// quantity, total investment and average buy price. Buys add quantity and
// cost; sells subtract quantity but leave total investment unchanged
// (proceeds are not credited against invested capital); dividends affect
// neither. The result is independent of transaction order.
func Aggregate(txs []model.Transaction) Aggregates {
	var agg Aggregates
	for _, tx := range txs {
		switch tx.Kind {
		case model.KindBuy:
			agg.Quantity += tx.Quantity
			agg.TotalInvestment += tx.Amount
		case model.KindSell:
			agg.Quantity -= tx.Quantity
		case model.KindDividend:
			// no effect on quantity or invested capital
		}
	}
	if agg.Quantity > 0 {
		agg.AverageBuyPrice = agg.TotalInvestment / agg.Quantity
	}
	return agg
}

// applyAggregates recomputes a holding's derived fields from its history.
func applyAggregates(h *model.Holding) {
	agg := Aggregate(h.Transactions)
	h.Quantity = agg.Quantity
	h.TotalInvestment = agg.TotalInvestment
	h.AverageBuyPrice = agg.AverageBuyPrice
}
