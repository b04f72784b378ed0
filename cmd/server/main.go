package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/api"
	"github.com/umair4234/psx-portfolio-tracker/internal/config"
	"github.com/umair4234/psx-portfolio-tracker/internal/database"
	"github.com/umair4234/psx-portfolio-tracker/internal/provider"
	"github.com/umair4234/psx-portfolio-tracker/internal/provider/gemini"
	"github.com/umair4234/psx-portfolio-tracker/internal/provider/psx"
	"github.com/umair4234/psx-portfolio-tracker/internal/repository"
	"github.com/umair4234/psx-portfolio-tracker/internal/scheduler"
	"github.com/umair4234/psx-portfolio-tracker/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	holdingRepo := repository.NewHoldingRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	overrideRepo := repository.NewOverrideRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(
		holdingRepo,
		snapshotRepo,
		overrideRepo,
		settingRepo,
	)
	settingsService, err := service.NewSettingsService(
		settingRepo,
		overrideRepo,
		cfg.Secrets.FernetKey,
	)
	if err != nil {
		log.Fatalf("Failed to create settings service: %v", err)
	}

	quotes := buildProviderChain(cfg, settingsService)
	quoteService := service.NewQuoteService(holdingRepo, settingRepo, quotes)

	// Background jobs
	jobs := scheduler.New()
	if err := jobs.AddJob(cfg.Scheduler.RefreshSpec, scheduler.NewRefreshJob(quoteService)); err != nil {
		log.Fatalf("Failed to register refresh job: %v", err)
	}
	if err := jobs.AddJob(cfg.Scheduler.SnapshotSpec, scheduler.NewSnapshotJob(portfolioService)); err != nil {
		log.Fatalf("Failed to register snapshot job: %v", err)
	}
	jobs.Start()
	defer jobs.Stop()

	// Create router
	router := api.NewRouter(systemService, portfolioService, quoteService, settingsService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// buildProviderChain assembles the quote sources: the exchange portal first,
// the Gemini fallback when an API key is available (environment variable
// wins over the stored, encrypted key).
func buildProviderChain(cfg *config.Config, settingsService *service.SettingsService) provider.QuoteProvider {
	providers := []provider.QuoteProvider{psx.NewClient(cfg.Provider.PSXBaseURL)}

	apiKey := cfg.Provider.GeminiAPIKey
	if apiKey == "" {
		if stored, err := settingsService.GetGeminiKey(); err == nil {
			apiKey = stored
		}
	}

	if apiKey != "" {
		client, err := gemini.NewClient(context.Background(), apiKey, cfg.Provider.GeminiModel)
		if err != nil {
			log.Printf("Gemini provider disabled: %v", err)
		} else {
			providers = append(providers, client)
		}
	} else {
		log.Println("Gemini provider disabled: no API key configured")
	}

	return provider.NewChain(providers...)
}
