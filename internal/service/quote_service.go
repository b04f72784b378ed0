package service

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/umair4234/psx-portfolio-tracker/internal/ledger"
	"github.com/umair4234/psx-portfolio-tracker/internal/model"
	"github.com/umair4234/psx-portfolio-tracker/internal/provider"
	"github.com/umair4234/psx-portfolio-tracker/internal/repository"
)

// maxConcurrentQuotes bounds the refresh fan-out so a large portfolio does
// not hammer the upstream sources.
const maxConcurrentQuotes = 4

// QuoteService refreshes live market data for all holdings. Quotes are
// fetched concurrently, then merged into the ledger in one refresh pass so
// transaction histories are never touched.
type QuoteService struct {
	holdingRepo *repository.HoldingRepository
	settingRepo *repository.SettingRepository
	quotes      provider.QuoteProvider
}

// NewQuoteService creates a new QuoteService with the provided dependencies.
func NewQuoteService(
	holdingRepo *repository.HoldingRepository,
	settingRepo *repository.SettingRepository,
	quotes provider.QuoteProvider,
) *QuoteService {
	return &QuoteService{
		holdingRepo: holdingRepo,
		settingRepo: settingRepo,
		quotes:      quotes,
	}
}

// RefreshResult summarizes one refresh pass.
type RefreshResult struct {
	Refreshed int       `json:"refreshed"`
	Failed    []string  `json:"failed,omitempty"`
	At        time.Time `json:"at"`
}

// RefreshQuotes fetches a quote for every held ticker and overwrites the
// live market fields of matching holdings. A ticker whose quote cannot be
// resolved is reported in the result but does not fail the refresh; its
// stale price is left in place.
func (s *QuoteService) RefreshQuotes(ctx context.Context) (RefreshResult, error) {
	holdings, err := s.holdingRepo.GetHoldings()
	if err != nil {
		return RefreshResult{}, err
	}

	result := RefreshResult{At: time.Now().UTC()}
	if len(holdings) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	payload := []model.Holding{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)

	for _, h := range holdings {
		ticker := h.Ticker
		g.Go(func() error {
			quote, err := s.quotes.Quote(gctx, ticker)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("refresh: quote for %s failed: %v", ticker, err)
				result.Failed = append(result.Failed, ticker)
				return nil
			}
			payload = append(payload, quote.ToHolding())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RefreshResult{}, err
	}

	if len(payload) > 0 {
		updated := ledger.AddHoldings(holdings, payload, true)
		if err := s.holdingRepo.ReplaceHoldings(updated); err != nil {
			return RefreshResult{}, err
		}
	}
	result.Refreshed = len(payload)

	if err := s.settingRepo.SetSetting(LastRefreshedKey, result.At.Format(time.RFC3339)); err != nil {
		log.Printf("refresh: failed to record refresh timestamp: %v", err)
	}

	return result, nil
}
