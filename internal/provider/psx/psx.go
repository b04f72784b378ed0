// Package psx fetches live prices from the Pakistan Stock Exchange data
// portal. It covers price and day change only; company name and sector come
// from the AI provider further down the chain.
package psx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// SourceTag is the DataSource value recorded on holdings refreshed from PSX.
const SourceTag = "psx"

// Client provides methods for fetching price data from the PSX data portal.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new PSX client for the given portal base URL
// (e.g. "https://dps.psx.com.pk").
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

// Name identifies this provider in logs and Holding.DataSource.
func (c *Client) Name() string { return SourceTag }

// Quote fetches the intraday timeseries for a symbol and derives the latest
// price and the day change (latest minus session open).
func (c *Client) Quote(ctx context.Context, ticker string) (model.Quote, error) {
	endpoint := fmt.Sprintf("%s/timeseries/int/%s", c.baseURL, url.PathEscape(ticker))

	response, err := c.queryPortal(ctx, endpoint)
	if err != nil {
		return model.Quote{}, err
	}

	if response.Status != 1 || len(response.Data) == 0 {
		return model.Quote{}, fmt.Errorf("%w: no intraday data for %s", apperrors.ErrQuoteUnavailable, ticker)
	}

	// Points arrive newest first: Data[0] is the latest tick, the last
	// element is the session open.
	latest := response.Data[0][1]
	open := response.Data[len(response.Data)-1][1]
	if latest <= 0 {
		return model.Quote{}, fmt.Errorf("%w: non-positive price for %s", apperrors.ErrQuoteUnavailable, ticker)
	}

	dayChange := latest - open

	return model.Quote{
		Ticker:    ticker,
		Price:     latest,
		DayChange: &dayChange,
		Source:    SourceTag,
	}, nil
}

// queryPortal executes a GET against the portal. A browser User-Agent is
// required; the portal rejects default Go client requests.
func (c *Client) queryPortal(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("portal returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("failed to parse portal response: %w", err)
	}

	return response, nil
}
