package ledger

import (
	"math"
	"strconv"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// ParseOverrides filters a map of ticker -> free-text price down to the
// entries that parse as finite positive numbers, keyed by normalized
// ticker. Everything else is silently ignored.
func ParseOverrides(raw map[string]string) map[string]float64 {
	overrides := make(map[string]float64, len(raw))
	for ticker, text := range raw {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		overrides[model.NormalizeTicker(ticker)] = v
	}
	return overrides
}

// effectivePrice resolves the valuation price for a holding: manual
// override first, then the live price. The boolean is false when neither is
// known; callers choose their own fallback for that case.
func effectivePrice(h model.Holding, overrides map[string]float64) (float64, bool) {
	if v, ok := overrides[model.NormalizeTicker(h.Ticker)]; ok {
		return v, true
	}
	if h.CurrentPrice != nil {
		return *h.CurrentPrice, true
	}
	return 0, false
}

// ComputeMetrics folds the full ledger plus parsed manual price overrides
// into portfolio-level valuation and gain/loss figures. Holdings with no
// known price are valued at cost (their total investment) so they do not
// silently vanish from the total. Every ratio is defined as zero when its
// denominator is zero or negative.
func ComputeMetrics(holdings []model.Holding, overrides map[string]float64) model.PortfolioMetrics {
	var m model.PortfolioMetrics
	m.HoldingCount = len(holdings)

	for _, h := range holdings {
		if price, ok := effectivePrice(h, overrides); ok {
			m.CurrentValue += price * h.Quantity
		} else {
			m.CurrentValue += h.TotalInvestment
		}
		m.TotalInvestment += h.TotalInvestment

		for _, tx := range h.Transactions {
			if tx.Kind == model.KindDividend {
				m.TotalDividends += tx.Amount
			}
		}

		if h.DayChange != nil {
			m.DayGainLoss += *h.DayChange * h.Quantity
		}
	}

	m.TotalGainLoss = (m.CurrentValue - m.TotalInvestment) + m.TotalDividends
	if m.TotalInvestment > 0 {
		m.TotalGainLossPercent = m.TotalGainLoss / m.TotalInvestment * 100
	}
	if base := m.CurrentValue - m.DayGainLoss; base > 0 {
		m.DayGainLossPercent = m.DayGainLoss / base * 100
	}
	return m
}
