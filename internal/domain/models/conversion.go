package models

import "github.com/shopspring/decimal"

// ConversionRequest carries the inputs of a single ADR → home-market conversion.
// ActualLocalPrice is optional; without it no spread is computed unless
// UseMarketReference asks for the last observed home-market price instead.
type ConversionRequest struct {
	ADRPrice           float64
	USDTWDRate         float64
	ActualLocalPrice   *float64
	UseMarketReference bool
}

// Reference sources of the actual price a spread was computed against.
const (
	ReferenceRequest = "request"
	ReferenceMarket  = "market_snapshot"
)

// ConversionResult holds the derived values of a conversion.
//
// Values are kept at full decimal precision; rounding happens only when the
// result is rendered into a response DTO.
type ConversionResult struct {
	ADRPrice          decimal.Decimal
	USDTWDRate        decimal.Decimal
	ShareRatio        int64
	ImpliedLocalPrice decimal.Decimal

	// Spread fields are only meaningful when HasSpread is true.
	HasSpread        bool
	ActualLocalPrice decimal.Decimal
	SpreadAbsolute   decimal.Decimal
	SpreadPercent    decimal.Decimal
	IsPremium        bool
	ReferenceSource  string
}
