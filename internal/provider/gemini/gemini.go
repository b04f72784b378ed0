// Package gemini resolves PSX quotes through the Google Gemini API. The
// model is prompted for a strict JSON object per ticker, which also yields
// company name, sector and a short market overview that the exchange portal
// does not provide.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// SourceTag is the DataSource value recorded on holdings refreshed via Gemini.
const SourceTag = "gemini"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Client implements the quote provider interface on top of the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new Gemini-backed quote client.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, apperrors.ErrProviderNotConfigured
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}

	return &Client{client: genaiClient, model: modelName}, nil
}

// Name identifies this provider in logs and Holding.DataSource.
func (c *Client) Name() string { return SourceTag }

// Quote prompts the model for the ticker's latest PSX data and parses the
// JSON reply into a quote.
func (c *Client) Quote(ctx context.Context, ticker string) (model.Quote, error) {
	prompt := buildQuotePrompt(ticker)

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return model.Quote{}, err
	}

	return ParseQuoteReply(ticker, text)
}

func buildQuotePrompt(ticker string) string {
	return fmt.Sprintf(`You are a stock data service for the Pakistan Stock Exchange (PSX).
Return the latest data for the PSX ticker %q as a single JSON object, no prose,
no markdown fences, with exactly these fields:
{
  "name": "full company name",
  "price": <latest share price in PKR as a number>,
  "dayChange": <price change since previous close in PKR as a number>,
  "sector": "PSX sector classification",
  "overview": {"marketCap": "...", "peRatio": "...", "dividendYield": "..."}
}
If the ticker does not exist on PSX, return {"error": "unknown ticker"}.`, ticker)
}

// quoteReply is the JSON shape requested from the model.
type quoteReply struct {
	Error     string         `json:"error"`
	Name      string         `json:"name"`
	Price     float64        `json:"price"`
	DayChange *float64       `json:"dayChange"`
	Sector    string         `json:"sector"`
	Overview  map[string]any `json:"overview"`
}

// ParseQuoteReply parses the model's reply into a quote. Markdown code
// fences around the JSON are tolerated; anything else malformed is an error.
func ParseQuoteReply(ticker, text string) (model.Quote, error) {
	cleaned := stripFences(text)

	var reply quoteReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return model.Quote{}, fmt.Errorf("failed to parse quote reply for %s: %w", ticker, err)
	}

	if reply.Error != "" {
		return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrQuoteUnavailable, reply.Error)
	}
	if reply.Price <= 0 {
		return model.Quote{}, fmt.Errorf("%w: non-positive price for %s", apperrors.ErrQuoteUnavailable, ticker)
	}

	quote := model.Quote{
		Ticker:   ticker,
		Name:     reply.Name,
		Price:    reply.Price,
		Sector:   reply.Sector,
		Overview: reply.Overview,
		Source:   SourceTag,
	}
	if reply.DayChange != nil {
		d := *reply.DayChange
		quote.DayChange = &d
	}

	return quote, nil
}

func stripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(cleaned, "```json"); ok {
		cleaned = after
	} else if after, ok := strings.CutPrefix(cleaned, "```"); ok {
		cleaned = after
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}
