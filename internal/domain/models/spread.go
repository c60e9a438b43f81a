package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpreadObservation is one (timestamp, spread %) point of a historical series.
type SpreadObservation struct {
	Timestamp     time.Time
	SpreadPercent decimal.Decimal
}

// SpreadSeries is ordered by Timestamp ascending with no duplicate timestamps.
// Build it with spread.NewSeries to get that guarantee.
type SpreadSeries []SpreadObservation

// SpreadStatistics summarizes a SpreadSeries.
//
// Fields:
//   - Count: number of observations.
//   - MeanSpreadPercent: arithmetic mean of spread %.
//   - MaxSpreadPercent / MinSpreadPercent: extrema over the series.
//   - PremiumRatio: fraction of observations with spread % > 0.
//   - Volatility: sample standard deviation of spread % (0 for one observation).
type SpreadStatistics struct {
	Count             int
	MeanSpreadPercent decimal.Decimal
	MaxSpreadPercent  decimal.Decimal
	MinSpreadPercent  decimal.Decimal
	PremiumRatio      decimal.Decimal
	Volatility        decimal.Decimal
}

// HistoricalPoint is one trading day of the historical spread view.
type HistoricalPoint struct {
	Date              time.Time
	ADRPrice          float64
	LocalPrice        float64
	USDTWDRate        float64
	ImpliedLocalPrice decimal.Decimal
	SpreadAbsolute    decimal.Decimal
	SpreadPercent     decimal.Decimal
}
