package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guttosm/adrpulse/config"
	"github.com/guttosm/adrpulse/internal/api"
	"github.com/guttosm/adrpulse/internal/domain/models"
	"github.com/guttosm/adrpulse/internal/logger"
	"github.com/guttosm/adrpulse/internal/metrics"
	"github.com/guttosm/adrpulse/internal/service"
	"github.com/guttosm/adrpulse/internal/storage"
)

// Version is reported by the status endpoint.
const Version = "1.0.0"

// refresherStopTimeout bounds how long cleanup waits for an in-flight refresh.
var refresherStopTimeout = 5 * time.Second

// Components are the wired services, exposed for non-HTTP modes.
type Components struct {
	Market    service.MarketData
	Prices    service.PriceService
	Spreads   service.SpreadService
	Refresher *service.Refresher
	Metrics   *metrics.Metrics
}

// Build wires providers, stores, services and metrics from cfg.
func Build(cfg config.Config) (*Components, error) {
	if cfg.Market.APIKey == "" {
		return nil, fmt.Errorf("market api key is required")
	}

	// the quota gauge is only read at scrape time, after market is set
	var market service.MarketData
	m := metrics.New(func() models.QuotaUsage { return market.QuotaUsage() })
	market = marketDataFactory(cfg, m)

	snapshots := storage.NewSnapshotStore()
	history := storage.NewHistoryStore()

	prices := service.NewPriceService(market, snapshots, history, service.PriceConfig{
		TTL:      cfg.RefreshInterval,
		Version:  Version,
		Observer: m,
	})
	spreads := service.NewSpreadService(market, snapshots, history, m)

	return &Components{
		Market:    market,
		Prices:    prices,
		Spreads:   spreads,
		Refresher: service.NewRefresher(prices, cfg.RefreshInterval),
		Metrics:   m,
	}, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds providers, in-memory stores and services via Build().
//   - Creates the HTTP handler layer and configures the Gin router.
//   - Registers health and readiness probes and the /metrics endpoint.
//   - Starts the background refresher; cleanup stops it.
func InitializeApp(cfg config.Config) (*gin.Engine, func(), error) {
	c, err := Build(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build components: %w", err)
	}

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(c.Prices, c.Spreads, cfg.HistoryDays)

	// Setup Gin router with routes
	router := api.NewRouter(handler, api.RouterConfig{RateLimitPerMinute: cfg.Server.RateLimitPerMinute})

	// Register health and readiness probes
	api.NewHealthHandler(c.Prices.Ready).Register(router)

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Metrics.Registry(), promhttp.HandlerOpts{})))

	// Keep the snapshot warm in the background
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Refresher.Run(ctx)
	}()

	// Cleanup resources on shutdown
	cleanup := func() {
		cancel()
		select {
		case <-done:
		case <-time.After(refresherStopTimeout):
			logger.L().Warn().Dur("timeout", refresherStopTimeout).Msg("refresher still busy, shutting down without it")
		}
	}

	return router, cleanup, nil
}
