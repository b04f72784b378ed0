package psx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
)

// TestClient_Quote tests quote resolution against a stubbed exchange portal.
//
// WHY: The portal returns intraday [timestamp, price, volume] triples newest
// first; the client must derive the latest price and day change from them
// and treat empty or error payloads as quote-unavailable.
func TestClient_Quote(t *testing.T) {
	t.Run("derives price and day change from the timeseries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/timeseries/int/MEBL" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			if ua := r.Header.Get("User-Agent"); ua == "" || ua == "Go-http-client/1.1" {
				t.Errorf("Expected browser User-Agent, got %q", ua)
			}
			w.Header().Set("Content-Type", "application/json")
			// Newest first: latest 245.5, session open 243.0.
			_, _ = w.Write([]byte(`{"status":1,"message":"","data":[[1756450800,245.5,12000],[1756447200,244.0,8000],[1756443600,243.0,5000]]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL)

		quote, err := client.Quote(context.Background(), "MEBL")
		if err != nil {
			t.Fatalf("Quote() returned unexpected error: %v", err)
		}

		if quote.Price != 245.5 {
			t.Errorf("Expected price 245.5, got %v", quote.Price)
		}
		if quote.DayChange == nil || *quote.DayChange != 2.5 {
			t.Errorf("Expected day change 2.5, got %v", quote.DayChange)
		}
		if quote.Source != SourceTag {
			t.Errorf("Expected source %q, got %q", SourceTag, quote.Source)
		}
	})

	t.Run("empty data maps to quote unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":0,"message":"no data","data":[]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL)

		_, err := client.Quote(context.Background(), "GHOST")
		if !errors.Is(err, apperrors.ErrQuoteUnavailable) {
			t.Errorf("Expected ErrQuoteUnavailable, got %v", err)
		}
	})

	t.Run("non-200 responses are an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := NewClient(server.URL)

		if _, err := client.Quote(context.Background(), "MEBL"); err == nil {
			t.Error("Expected error for 403 response")
		}
	})
}
