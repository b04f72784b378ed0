package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/umair4234/psx-portfolio-tracker/internal/api/handlers"
	custommiddleware "github.com/umair4234/psx-portfolio-tracker/internal/api/middleware"
	"github.com/umair4234/psx-portfolio-tracker/internal/config"
	"github.com/umair4234/psx-portfolio-tracker/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	portfolioService *service.PortfolioService,
	quoteService *service.QuoteService,
	settingsService *service.SettingsService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService, quoteService)
			r.Get("/", portfolioHandler.Portfolio)
			r.Get("/metrics", portfolioHandler.Metrics)
			r.Get("/allocation", portfolioHandler.Allocation)
			r.Get("/history", portfolioHandler.History)
			r.Post("/history", portfolioHandler.Snapshot)
			r.Post("/import", portfolioHandler.Import)
			r.Post("/refresh", portfolioHandler.Refresh)
			r.Get("/export", portfolioHandler.Export)
			r.Post("/import-backup", portfolioHandler.ImportBackup)
		})

		r.Route("/holding", func(r chi.Router) {
			holdingHandler := handlers.NewHoldingHandler(portfolioService)
			r.Get("/", holdingHandler.Holdings)
			r.Post("/", holdingHandler.CreateHolding)

			r.Route("/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateTickerMiddleware)
				r.Get("/", holdingHandler.GetHolding)
				r.Put("/", holdingHandler.UpdateHolding)
				r.Delete("/", holdingHandler.DeleteHolding)
				r.Get("/transactions", holdingHandler.Transactions)
				r.Post("/sell", holdingHandler.Sell)
				r.Post("/dividend", holdingHandler.Dividend)
			})
		})

		r.Route("/overrides", func(r chi.Router) {
			overrideHandler := handlers.NewOverrideHandler(settingsService)
			r.Get("/", overrideHandler.Overrides)

			r.Route("/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateTickerMiddleware)
				r.Put("/", overrideHandler.SetOverride)
				r.Delete("/", overrideHandler.DeleteOverride)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(settingsService)
			r.Get("/gemini-key", settingsHandler.GeminiKeyStatus)
			r.Put("/gemini-key", settingsHandler.SetGeminiKey)
			r.Delete("/gemini-key", settingsHandler.DeleteGeminiKey)
		})
	})

	return r
}
