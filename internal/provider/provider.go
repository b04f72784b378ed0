// Package provider defines the quote-provider abstraction and the fallback
// chain that resolves live PSX prices from multiple sources.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// QuoteProvider resolves a live quote for a single ticker. Implementations
// must be safe for concurrent use; the refresh fans out one call per ticker.
type QuoteProvider interface {
	// Name identifies the provider in logs and in Holding.DataSource.
	Name() string

	// Quote fetches the current quote for a normalized ticker. Returns
	// apperrors.ErrQuoteUnavailable (possibly wrapped) when the source has
	// no data for the symbol.
	Quote(ctx context.Context, ticker string) (model.Quote, error)
}

// Chain tries each provider in order and returns the first successful quote.
type Chain struct {
	providers []QuoteProvider
}

// NewChain creates a provider chain. Order matters: earlier providers win.
func NewChain(providers ...QuoteProvider) *Chain {
	return &Chain{providers: providers}
}

// Name returns the chain's identity for logging.
func (c *Chain) Name() string { return "chain" }

// Quote resolves the ticker against each provider in order. All per-provider
// errors are joined into the returned error when every provider fails.
func (c *Chain) Quote(ctx context.Context, ticker string) (model.Quote, error) {
	if len(c.providers) == 0 {
		return model.Quote{}, apperrors.ErrProviderNotConfigured
	}

	var errs []error
	for _, p := range c.providers {
		quote, err := p.Quote(ctx, ticker)
		if err == nil {
			return quote, nil
		}
		if ctx.Err() != nil {
			return model.Quote{}, ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}

	return model.Quote{}, fmt.Errorf("%w for %s: %w", apperrors.ErrQuoteUnavailable, ticker, errors.Join(errs...))
}
