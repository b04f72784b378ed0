package ledger

import (
	"sort"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// ComputeAllocation groups holdings by sector and computes value-weighted
// percentages. The price preference here is manual override, then live
// price, then average buy price — a holding that has never seen a quote is
// weighted at its cost basis per share rather than dropped. A portfolio
// with zero total value yields an empty result. Buckets are ordered by
// descending percentage; ties keep first-seen sector order.
func ComputeAllocation(holdings []model.Holding, overrides map[string]float64) []model.SectorAllocation {
	var order []string
	buckets := make(map[string]*model.SectorAllocation)

	var total float64
	for _, h := range holdings {
		price, ok := effectivePrice(h, overrides)
		if !ok {
			price = h.AverageBuyPrice
		}
		value := price * h.Quantity

		sector := h.Sector
		if sector == "" {
			sector = model.UncategorizedSector
		}
		b, seen := buckets[sector]
		if !seen {
			b = &model.SectorAllocation{Sector: sector}
			buckets[sector] = b
			order = append(order, sector)
		}
		b.Value += value
		b.Holdings = append(b.Holdings, model.NormalizeTicker(h.Ticker))
		total += value
	}

	if total <= 0 {
		return nil
	}

	allocations := make([]model.SectorAllocation, 0, len(order))
	for _, sector := range order {
		b := buckets[sector]
		b.Percentage = b.Value / total * 100
		allocations = append(allocations, *b)
	}
	sort.SliceStable(allocations, func(i, j int) bool {
		return allocations[i].Percentage > allocations[j].Percentage
	})
	return allocations
}
