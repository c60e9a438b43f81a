package dto

import (
	"time"

	"github.com/guttosm/adrpulse/internal/domain/models"
	"github.com/guttosm/adrpulse/internal/spread"
)

// ConvertRequest is the body of POST /api/v1/convert.
//
// Pointers distinguish a missing field from an explicit zero, which is
// rejected by the conversion engine.
type ConvertRequest struct {
	// ADR price in USD.
	ADRPrice *float64 `json:"adr_price" binding:"required" example:"150.25"`
	// TWD per 1 USD.
	USDTWDRate *float64 `json:"usd_twd" binding:"required" example:"32.10"`
	// Observed 2330 price in TWD.
	ActualLocalPrice *float64 `json:"actual_local_price,omitempty" example:"965.00"`
	// Compare with the cached TWSE price when actual_local_price is absent.
	UseMarketReference bool `json:"use_market_reference,omitempty" example:"false"`
}

// ToModel converts the validated request into the domain request.
func (r ConvertRequest) ToModel() models.ConversionRequest {
	return models.ConversionRequest{
		ADRPrice:           *r.ADRPrice,
		USDTWDRate:         *r.USDTWDRate,
		ActualLocalPrice:   r.ActualLocalPrice,
		UseMarketReference: r.UseMarketReference,
	}
}

// ConversionResponse is the rendered result of a conversion. Prices are
// rounded to 2 decimals and percentages to 4, half-to-even.
type ConversionResponse struct {
	ADRPrice           float64  `json:"adr_price" example:"150.25"`
	USDTWDRate         float64  `json:"usd_twd" example:"32.1"`
	ShareRatio         int64    `json:"share_ratio" example:"5"`
	ImpliedLocalPrice  float64  `json:"implied_local_price" example:"964.61"`
	ActualLocalPrice   *float64 `json:"actual_local_price,omitempty" example:"965"`
	SpreadAbsolute     *float64 `json:"spread_absolute,omitempty" example:"0.39"`
	SpreadPercent      *float64 `json:"spread_percent,omitempty" example:"0.0405"`
	IsPremium          *bool    `json:"is_premium,omitempty" example:"true"`
	ReferenceSource    string   `json:"reference_source,omitempty" example:"request"`
	FormulaExplanation string   `json:"formula_explanation"`
}

// NewConversionResponse renders a conversion result.
func NewConversionResponse(res models.ConversionResult) ConversionResponse {
	out := ConversionResponse{
		ADRPrice:           res.ADRPrice.InexactFloat64(),
		USDTWDRate:         res.USDTWDRate.InexactFloat64(),
		ShareRatio:         res.ShareRatio,
		ImpliedLocalPrice:  spread.RoundPrice(res.ImpliedLocalPrice).InexactFloat64(),
		ReferenceSource:    res.ReferenceSource,
		FormulaExplanation: spread.Formula(res),
	}
	if res.HasSpread {
		actual := spread.RoundPrice(res.ActualLocalPrice).InexactFloat64()
		abs := spread.RoundPrice(res.SpreadAbsolute).InexactFloat64()
		pct := spread.RoundPercent(res.SpreadPercent).InexactFloat64()
		premium := res.IsPremium
		out.ActualLocalPrice, out.SpreadAbsolute, out.SpreadPercent, out.IsPremium = &actual, &abs, &pct, &premium
	}
	return out
}

// PricesResponse is the current price snapshot.
type PricesResponse struct {
	ADR               *models.Quote `json:"adr,omitempty"`
	Local             *models.Quote `json:"local,omitempty"`
	FX                *models.Quote `json:"usd_twd,omitempty"`
	ImpliedLocalPrice *float64      `json:"implied_local_price,omitempty" example:"964.61"`
	SpreadPercent     *float64      `json:"spread_percent,omitempty" example:"0.0405"`
	FetchedAt         time.Time     `json:"fetched_at"`
	Source            string        `json:"source" example:"live"`
}

// NewPricesResponse renders a snapshot; when complete it also carries the
// live implied price and spread.
func NewPricesResponse(snap models.PriceSnapshot) PricesResponse {
	out := PricesResponse{ADR: snap.ADR, Local: snap.Local, FX: snap.FX, FetchedAt: snap.FetchedAt, Source: snap.Source}
	if !snap.Complete() {
		return out
	}
	local := snap.Local.Price
	res, err := spread.Convert(snap.ADR.Price, snap.FX.Price, &local)
	if err != nil {
		return out
	}
	implied := spread.RoundPrice(res.ImpliedLocalPrice).InexactFloat64()
	pct := spread.RoundPercent(res.SpreadPercent).InexactFloat64()
	out.ImpliedLocalPrice, out.SpreadPercent = &implied, &pct
	return out
}

// HistoricalPoint is one trading day in HistoricalResponse.
type HistoricalPoint struct {
	Date              string  `json:"date" example:"2025-10-14"`
	ADRPrice          float64 `json:"adr_price" example:"150.25"`
	LocalPrice        float64 `json:"local_price" example:"965"`
	USDTWDRate        float64 `json:"usd_twd" example:"32.1"`
	ImpliedLocalPrice float64 `json:"implied_local_price" example:"964.61"`
	SpreadAbsolute    float64 `json:"spread_absolute" example:"0.39"`
	SpreadPercent     float64 `json:"spread_percent" example:"0.0405"`
}

// HistoricalResponse is the body of GET /api/v1/historical.
type HistoricalResponse struct {
	Days   int               `json:"days" example:"30"`
	Count  int               `json:"count" example:"21"`
	Points []HistoricalPoint `json:"points"`
}

func NewHistoricalResponse(days int, points []models.HistoricalPoint) HistoricalResponse {
	out := HistoricalResponse{Days: days, Count: len(points), Points: make([]HistoricalPoint, 0, len(points))}
	for _, p := range points {
		out.Points = append(out.Points, HistoricalPoint{
			Date:              p.Date.Format("2006-01-02"),
			ADRPrice:          p.ADRPrice,
			LocalPrice:        p.LocalPrice,
			USDTWDRate:        p.USDTWDRate,
			ImpliedLocalPrice: spread.RoundPrice(p.ImpliedLocalPrice).InexactFloat64(),
			SpreadAbsolute:    spread.RoundPrice(p.SpreadAbsolute).InexactFloat64(),
			SpreadPercent:     spread.RoundPercent(p.SpreadPercent).InexactFloat64(),
		})
	}
	return out
}

// StatisticsResponse is the body of GET /api/v1/statistics. All values are
// percentages except Count and PremiumRatio (a fraction in [0, 1]).
type StatisticsResponse struct {
	Days              int     `json:"days" example:"30"`
	Count             int     `json:"count" example:"21"`
	MeanSpreadPercent float64 `json:"mean_spread_percent" example:"0.8123"`
	MaxSpreadPercent  float64 `json:"max_spread_percent" example:"2.5"`
	MinSpreadPercent  float64 `json:"min_spread_percent" example:"-1.25"`
	PremiumRatio      float64 `json:"premium_ratio" example:"0.6667"`
	Volatility        float64 `json:"volatility" example:"1.0412"`
}

func NewStatisticsResponse(days int, s models.SpreadStatistics) StatisticsResponse {
	return StatisticsResponse{
		Days:              days,
		Count:             s.Count,
		MeanSpreadPercent: spread.RoundPercent(s.MeanSpreadPercent).InexactFloat64(),
		MaxSpreadPercent:  spread.RoundPercent(s.MaxSpreadPercent).InexactFloat64(),
		MinSpreadPercent:  spread.RoundPercent(s.MinSpreadPercent).InexactFloat64(),
		PremiumRatio:      spread.RoundPercent(s.PremiumRatio).InexactFloat64(),
		Volatility:        spread.RoundPercent(s.Volatility).InexactFloat64(),
	}
}
