package ledger

import (
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// MaxSnapshots caps the retained value history at roughly one year of
// daily entries.
const MaxSnapshots = 365

// RecordSnapshot appends today's total portfolio value to the history and
// returns the new history. The history keeps at most one entry per calendar
// day: when the most recent entry already falls on today's date it is
// replaced (last write wins) instead of appended. Beyond MaxSnapshots
// entries the oldest entry is evicted, one per insertion, preserving
// chronological order.
func RecordSnapshot(history []model.PortfolioSnapshot, value float64, now time.Time) []model.PortfolioSnapshot {
	today := now.Format("2006-01-02")

	out := make([]model.PortfolioSnapshot, len(history))
	copy(out, history)

	if n := len(out); n > 0 && out[n-1].Date == today {
		out[n-1].Value = value
		return out
	}

	out = append(out, model.PortfolioSnapshot{Date: today, Value: value})
	if len(out) > MaxSnapshots {
		out = out[1:]
	}
	return out
}
