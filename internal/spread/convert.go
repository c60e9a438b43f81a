// Package spread implements the ADR conversion formula and the statistics
// computed over historical spread observations.
//
// Everything here is pure: no I/O, no logging, no shared state. Failures are
// returned as errors wrapping ErrInvalidInput, ErrEmptySeries or ErrDivisionHazard.
package spread

import (
	"fmt"
	"math"

	"github.com/guttosm/adrpulse/internal/domain/models"
	"github.com/shopspring/decimal"
)

// ShareRatio is the number of ADR units that represent one home-market share
// unit in the conversion formula (1 TSM ADR = 5 shares of 2330).
const ShareRatio int64 = 5

// divScale is the number of decimal places kept by every division. A
// positive implied price that rounds to zero at this scale is a DivisionHazard.
const divScale int32 = 28

var (
	shareRatio = decimal.NewFromInt(ShareRatio)
	hundred    = decimal.NewFromInt(100)
)

// Convert computes the home-market price implied by an ADR price and the
// USD/TWD rate:
//
//	implied = adrPrice / ShareRatio * usdTwdRate
//
// The product is formed first and divided once, so nothing is rounded before
// the final division.
//
// When actualLocalPrice is non-nil the spread against it is computed too:
//
//	spread_abs = actual - implied
//	spread_pct = spread_abs / implied * 100
//
// A zero spread is neither premium nor discount (IsPremium is false).
func Convert(adrPrice, usdTwdRate float64, actualLocalPrice *float64) (models.ConversionResult, error) {
	adr, err := positive("adr_price", adrPrice)
	if err != nil {
		return models.ConversionResult{}, err
	}
	rate, err := positive("usd_twd_rate", usdTwdRate)
	if err != nil {
		return models.ConversionResult{}, err
	}

	implied := adr.Mul(rate).DivRound(shareRatio, divScale)
	if implied.IsZero() {
		return models.ConversionResult{}, fmt.Errorf("%w: implied price underflows for adr_price=%v usd_twd_rate=%v", ErrDivisionHazard, adrPrice, usdTwdRate)
	}
	res := models.ConversionResult{
		ADRPrice:          adr,
		USDTWDRate:        rate,
		ShareRatio:        ShareRatio,
		ImpliedLocalPrice: implied,
	}
	if actualLocalPrice == nil {
		return res, nil
	}

	actual, err := positive("actual_local_price", *actualLocalPrice)
	if err != nil {
		return models.ConversionResult{}, err
	}
	abs := actual.Sub(implied)
	res.HasSpread = true
	res.ActualLocalPrice = actual
	res.SpreadAbsolute = abs
	res.SpreadPercent = abs.Mul(hundred).DivRound(implied, divScale)
	res.IsPremium = abs.IsPositive()
	return res, nil
}

// ImpliedADRPrice inverts the conversion: the ADR price at which the given
// home-market price would trade at parity.
func ImpliedADRPrice(localPrice, usdTwdRate float64) (decimal.Decimal, error) {
	local, err := positive("local_price", localPrice)
	if err != nil {
		return decimal.Zero, err
	}
	rate, err := positive("usd_twd_rate", usdTwdRate)
	if err != nil {
		return decimal.Zero, err
	}
	return local.Mul(shareRatio).DivRound(rate, divScale), nil
}

// Formula renders the conversion as a one-line explanation, rounded for display.
func Formula(res models.ConversionResult) string {
	return fmt.Sprintf("implied = ADR ÷ %d × USD/TWD = %s ÷ %d × %s = %s TWD",
		res.ShareRatio,
		RoundPrice(res.ADRPrice).StringFixed(2),
		res.ShareRatio,
		RoundPrice(res.USDTWDRate).StringFixed(2),
		RoundPrice(res.ImpliedLocalPrice).StringFixed(2),
	)
}

// RoundPrice rounds half-to-even to 2 decimal places for currency display.
func RoundPrice(d decimal.Decimal) decimal.Decimal { return d.RoundBank(2) }

// RoundPercent rounds half-to-even to 4 decimal places for percentage display.
func RoundPercent(d decimal.Decimal) decimal.Decimal { return d.RoundBank(4) }

func positive(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, field)
	}
	if v <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidInput, field, v)
	}
	return decimal.NewFromFloat(v), nil
}
