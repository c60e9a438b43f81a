// Package service holds the business logic between the HTTP handlers and the
// market-data providers: snapshot caching, history assembly and spread math.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/adrpulse/internal/domain/models"
)

var (
	// ErrNoPriceData is returned when neither the providers nor the cache
	// hold any price.
	ErrNoPriceData = errors.New("no price data available")

	// ErrInvalidWindow is returned for a historical window outside [1, MaxHistoryDays].
	ErrInvalidWindow = errors.New("invalid history window")
)

const (
	// DefaultHistoryDays is the historical window used when none is given.
	DefaultHistoryDays = 30
	// MaxHistoryDays matches the history retention.
	MaxHistoryDays = 60
)

// MarketData is the port the services use to reach upstream prices.
type MarketData interface {
	ADRQuote(ctx context.Context) (models.Quote, error)
	LocalQuote(ctx context.Context) (models.Quote, error)
	FXQuote(ctx context.Context) (models.Quote, error)
	ADRHistory(ctx context.Context, from, to time.Time) ([]models.Quote, error)
	LocalHistory(ctx context.Context, from, to time.Time) ([]models.Quote, error)
	FXHistory(ctx context.Context, from, to time.Time) ([]models.Quote, error)
	QuotaUsage() models.QuotaUsage
}

// Observer receives service-level events (e.g. Prometheus metrics).
type Observer interface {
	ObserveConversion(res models.ConversionResult, err error)
	ObserveRefresh(source string)
}

type nopObserver struct{}

func (nopObserver) ObserveConversion(models.ConversionResult, error) {}
func (nopObserver) ObserveRefresh(string)                            {}

func orNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
