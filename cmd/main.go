package main

//
//  @title           stockpulse API
//  @version         1.0
//  @description     Stock quote enrichment & screening service.
//  @termsOfService  https://github.com/guttosm/stockpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/stockpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        screener
//  @tag.description Stock screening with filters and field comparisons
//
//  @tag.name        update
//  @tag.description Quote store refresh (manual, delta, full)
//
//  @tag.name        quote
//  @tag.description Single-symbol quote lookup
//
//  @tag.name        monitor
//  @tag.description Data freshness and coverage reporting
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/stockpulse/config"
	_ "github.com/guttosm/stockpulse/docs" // swagger docs
	"github.com/guttosm/stockpulse/internal/app"
	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// splitSymbols turns a comma-separated flag value into a clean symbol list.
func splitSymbols(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// main is the entry point of the stockpulse application.
//
// Modes (selected via --mode flag):
//   - api:    Starts the REST API exposing screener, update, quote, and
//     monitor endpoints.
//   - update: Runs one quote store refresh and exits.
//
// Flags:
//   - --mode:    Execution mode ("api" or "update"). Default: "api".
//   - --port:    Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --update:  Update strategy for update mode ("delta" or "full"). Default: "delta".
//   - --symbols: Comma-separated symbols for a manual update (overrides --update).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api or update")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	strategy := flag.String("update", "delta", "Update strategy: delta or full")
	symbols := flag.String("symbols", "", "Comma-separated symbols for a manual update")
	flag.Parse()

	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "update":
		logger.L().Info().Str("strategy", *strategy).Msg("running quote update")

		updater, cleanup, err := app.InitializeUpdater()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer cleanup()

		req := dto.UpdateRequest{Mode: *strategy, Symbols: splitSymbols(*symbols)}
		if len(req.Symbols) > 0 {
			req.Mode = ""
		}
		resp, err := updater.Update(ctx, req)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("update failed")
		}
		logger.L().Info().
			Str("mode", resp.Mode).
			Int("requested", resp.Requested).
			Int("updated", resp.Updated).
			Int("failed", resp.Failed).
			Msg("update completed successfully")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
