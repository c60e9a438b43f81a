package service

import (
	"context"
	"time"

	"github.com/guttosm/adrpulse/internal/logger"
)

// Refresher keeps the price snapshot warm by refreshing it on a fixed interval.
type Refresher struct {
	prices   PriceService
	interval time.Duration
}

func NewRefresher(prices PriceService, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Refresher{prices: prices, interval: interval}
}

// Run refreshes once immediately and then every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	logger.L().Info().Dur("interval", r.interval).Msg("refresher started")
	r.tick(ctx)

	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.L().Info().Msg("refresher stopped")
			return
		case <-t.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if _, err := r.prices.Refresh(ctx); err != nil {
		logger.L().Error().Err(err).Msg("scheduled refresh failed")
	}
}
