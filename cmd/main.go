package main

//
//  @title           adrpulse API
//  @version         1.0
//  @description     TSM ADR to TWSE 2330 conversion and premium/discount tracking.
//  @termsOfService  https://github.com/guttosm/adrpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/adrpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        conversion
//  @tag.description ADR to home-market price conversion
//
//  @tag.name        prices
//  @tag.description Live quotes
//
//  @tag.name        spread
//  @tag.description Historical spread and statistics
//
//  @tag.name        health
//  @tag.description Liveness, readiness and status

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/adrpulse/config"
	"github.com/guttosm/adrpulse/docs" // swagger docs
	"github.com/guttosm/adrpulse/internal/app"
	"github.com/guttosm/adrpulse/internal/domain/models"
	"github.com/guttosm/adrpulse/internal/logger"
	"github.com/guttosm/adrpulse/internal/spread"
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
		WriteTimeout:      30 * time.Second,
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
//   - cleanup (func()): Cleanup callback to release resources (e.g., the background refresher).
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

// runSnapshot fetches one price snapshot, converts it and logs the result.
//
// Returns an error when no complete snapshot could be fetched.
func runSnapshot(ctx context.Context, c *app.Components) error {
	snap, err := c.Prices.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh prices: %w", err)
	}
	if !snap.Complete() {
		return fmt.Errorf("incomplete snapshot (source=%s)", snap.Source)
	}

	res, err := c.Spreads.Convert(ctx, models.ConversionRequest{
		ADRPrice:         snap.ADR.Price,
		USDTWDRate:       snap.FX.Price,
		ActualLocalPrice: &snap.Local.Price,
	})
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	logger.L().Info().
		Str("source", snap.Source).
		Float64("adr_price", snap.ADR.Price).
		Float64("usd_twd", snap.FX.Price).
		Float64("local_price", snap.Local.Price).
		Str("implied_local_price", spread.RoundPrice(res.ImpliedLocalPrice).StringFixed(2)).
		Str("spread_percent", spread.RoundPercent(res.SpreadPercent).StringFixed(4)).
		Bool("is_premium", res.IsPremium).
		Str("formula", spread.Formula(res)).
		Msg("snapshot")
	return nil
}

// swaggerHost derives the swagger host from the public base URL.
func swaggerHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return docs.SwaggerInfo.Host
	}
	return u.Host
}

// main is the entry point of the adrpulse application.
//
// Modes (selected via --mode flag):
//   - api:      Starts the REST API and the background price refresher.
//   - snapshot: Fetches prices once, logs the conversion and exits.
//
// Flags:
//   - --mode: Execution mode ("api" or "snapshot"). Default: "api".
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize JSON logger
	logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api or snapshot")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "snapshot":
		c, err := app.Build(cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		if err := runSnapshot(ctx, c); err != nil {
			logger.L().Fatal().Err(err).Msg("snapshot failed")
		}

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")
		docs.SwaggerInfo.Host = swaggerHost(cfg.Server.APIBaseURL)

		router, cleanup, err := app.InitializeApp(cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
