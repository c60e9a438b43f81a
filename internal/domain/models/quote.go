package models

import "time"

// Instrument identifiers for the two listings and the currency pair modeled by the service.
const (
	InstrumentADR    = "TSM"     // NYSE depositary receipt
	InstrumentLocal  = "2330"    // TWSE home-market listing
	InstrumentUSDTWD = "USD/TWD" // Bank of Taiwan spot selling rate
)

// Quote is a single timestamped price as returned by a market-data provider.
//
// Quotes are immutable once fetched; callers copy them rather than mutate.
//
// swagger:model Quote
type Quote struct {
	InstrumentID string    `json:"instrument_id" example:"TSM"`
	Price        float64   `json:"price" example:"150.25"`
	Currency     string    `json:"currency" example:"USD"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source" example:"alphavantage"`
}

// Snapshot sources describe how fresh a PriceSnapshot is.
const (
	SourceLive          = "live"
	SourcePartialStale  = "partial_stale"
	SourceQuotaFallback = "cached_due_to_api_limit"
)

// PriceSnapshot groups the latest known ADR, home-market and FX quotes.
// Any of the three may be nil when neither the provider nor the cache had it.
type PriceSnapshot struct {
	ADR       *Quote    `json:"adr,omitempty"`
	Local     *Quote    `json:"local,omitempty"`
	FX        *Quote    `json:"fx,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	Source    string    `json:"source"`
}

// Complete reports whether all three quotes are present.
func (s *PriceSnapshot) Complete() bool {
	return s != nil && s.ADR != nil && s.Local != nil && s.FX != nil
}

// DailyRecord is one calendar day of closing prices kept in the history cache.
type DailyRecord struct {
	Date       time.Time
	ADRPrice   float64
	LocalPrice float64
	USDTWDRate float64
	Source     string
}
