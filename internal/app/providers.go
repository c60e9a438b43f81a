package app

import (
	"github.com/guttosm/adrpulse/config"
	"github.com/guttosm/adrpulse/internal/provider"
	"github.com/guttosm/adrpulse/internal/service"
)

// NewMarketData builds the provider gateway from configuration.
//
// Behavior:
//   - One shared daily Quota meters every Alpha Vantage call.
//   - TWSE and Bank of Taiwan clients share the timeout / retry settings.
//   - Each upstream call is reported to observer (may be nil).
func NewMarketData(cfg config.Config, observer provider.FetchObserver) service.MarketData {
	opts := []provider.ClientOption{
		provider.WithTimeout(cfg.Market.Timeout),
		provider.WithRetries(cfg.Market.MaxRetries, 0),
	}
	quota := provider.NewQuota(cfg.Market.DailyLimit)

	return provider.NewGateway(
		provider.NewAlphaVantage(cfg.Market.BaseURL, cfg.Market.APIKey, quota, opts...),
		provider.NewTWSE(cfg.Market.TWSEBaseURL, cfg.Market.TWSEReportURL, opts...),
		provider.NewBankOfTaiwan(cfg.Market.BOTBaseURL, opts...),
		provider.WithObserver(observer),
	)
}

// marketDataFactory is an indirection used by Build; overridden in tests to avoid real upstream calls.
var marketDataFactory = NewMarketData
