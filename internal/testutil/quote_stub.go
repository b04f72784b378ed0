package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// StubQuoteProvider serves canned quotes keyed by ticker, for exercising the
// refresh path without network access. Safe for the refresh fan-out's
// concurrent calls.
type StubQuoteProvider struct {
	Quotes map[string]model.Quote

	mu    sync.Mutex
	calls []string
}

// NewStubQuoteProvider creates a stub with the given canned quotes.
func NewStubQuoteProvider(quotes map[string]model.Quote) *StubQuoteProvider {
	return &StubQuoteProvider{Quotes: quotes}
}

// Name identifies the stub in logs.
func (s *StubQuoteProvider) Name() string { return "stub" }

// Quote returns the canned quote for a ticker, or an error when none is
// registered.
func (s *StubQuoteProvider) Quote(_ context.Context, ticker string) (model.Quote, error) {
	s.mu.Lock()
	s.calls = append(s.calls, ticker)
	s.mu.Unlock()

	quote, ok := s.Quotes[ticker]
	if !ok {
		return model.Quote{}, fmt.Errorf("no quote for %s", ticker)
	}
	return quote, nil
}

// Calls returns the tickers requested so far.
func (s *StubQuoteProvider) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
