package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/api"
	"github.com/guttosm/stockpulse/internal/enrich"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/provider"
	"github.com/guttosm/stockpulse/internal/service"
	"github.com/guttosm/stockpulse/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Initializes the repository layer (StocksRepository).
//   - Builds the provider adapters (keyless providers are skipped) and the
//     shared breaker/limiter state.
//   - Wires the enrichment pipeline and the service layer.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewStocksRepository(db, cfg.Enrich.UpsertChunkSize)
	enricher := buildEnricher(cfg, repo)

	screener := service.NewScreenerService(repo, enricher, cfg.Enrich.RealtimeFreshness, cfg.Enrich.MaxSymbols)
	updater := service.NewUpdateService(repo, enricher, cfg.Enrich.BatchSize, cfg.Enrich.DeltaTopN, cfg.Enrich.FundamentalsFreshness)
	monitor := service.NewMonitorService(repo)

	handler := api.NewHandler(screener, updater, monitor)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}

// InitializeUpdater wires just enough of the application for a one-shot
// update run from the CLI: the store, the provider cascade, and the update
// service, without the HTTP stack.
func InitializeUpdater() (service.UpdateService, func(), error) {
	cfg := config.AppConfig

	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewStocksRepository(db, cfg.Enrich.UpsertChunkSize)
	enricher := buildEnricher(cfg, repo)
	updater := service.NewUpdateService(repo, enricher, cfg.Enrich.BatchSize, cfg.Enrich.DeltaTopN, cfg.Enrich.FundamentalsFreshness)

	cleanup := func() {
		_ = db.Close()
	}
	return updater, cleanup, nil
}

// buildEnricher assembles the provider cascade from configuration. Providers
// whose API key is missing are left out; the pipeline degrades to whatever
// remains. Yahoo needs no key and is always first.
func buildEnricher(cfg config.Config, repo storage.StocksRepository) *enrich.Enricher {
	log := logger.With("app")
	registry := provider.NewStateRegistry()

	batch := []provider.BatchFetcher{
		provider.NewYahoo(cfg.Providers.YahooBaseURL),
	}
	if cfg.Providers.TwelveDataKey != "" {
		batch = append(batch, provider.NewTwelveData(cfg.Providers.TwelveDataBaseURL, cfg.Providers.TwelveDataKey))
	} else {
		log.Warn().Msg("TWELVEDATA_API_KEY not set, secondary quote provider disabled")
	}

	var single provider.SingleFetcher
	if cfg.Providers.FinnhubKey != "" {
		limiter := provider.NewSlidingWindow(cfg.Enrich.CallsPerMinute, time.Minute)
		registry.SetLimiter(provider.NameFinnhub, limiter)
		single = provider.NewFinnhub(cfg.Providers.FinnhubBaseURL, cfg.Providers.FinnhubKey, limiter)
	} else {
		log.Warn().Msg("FINNHUB_API_KEY not set, per-symbol fallback disabled")
	}

	var fundamentals provider.BatchFetcher
	if cfg.Providers.FMPKey != "" {
		fundamentals = provider.NewFMP(cfg.Providers.FMPBaseURL, cfg.Providers.FMPKey)
	} else {
		log.Warn().Msg("FMP_KEY not set, fundamentals backfill disabled")
	}

	return enrich.New(enrich.Options{
		Repo:         repo,
		Registry:     registry,
		Batch:        batch,
		Single:       single,
		Fundamentals: fundamentals,
		BatchSize:    cfg.Enrich.BatchSize,
		Concurrency:  cfg.Enrich.Concurrency,
	})
}
