package spread

import (
	"fmt"
	"math"
	"sort"

	"github.com/guttosm/adrpulse/internal/domain/models"
	"github.com/shopspring/decimal"
)

// NewSeries returns the observations ordered by timestamp ascending.
// Duplicate timestamps are rejected with ErrInvalidInput.
func NewSeries(obs []models.SpreadObservation) (models.SpreadSeries, error) {
	out := make(models.SpreadSeries, len(obs))
	copy(out, obs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })

	for i := 1; i < len(out); i++ {
		if out[i].Timestamp.Equal(out[i-1].Timestamp) {
			return nil, fmt.Errorf("%w: duplicate timestamp %s", ErrInvalidInput, out[i].Timestamp.Format("2006-01-02T15:04:05Z07:00"))
		}
	}
	return out, nil
}

// Aggregate reduces a non-empty series to its summary statistics.
func Aggregate(series models.SpreadSeries) (models.SpreadStatistics, error) {
	n := len(series)
	if n == 0 {
		return models.SpreadStatistics{}, ErrEmptySeries
	}

	sum := decimal.Zero
	maxV := series[0].SpreadPercent
	minV := series[0].SpreadPercent
	premiums := 0
	for _, o := range series {
		v := o.SpreadPercent
		sum = sum.Add(v)
		if v.GreaterThan(maxV) {
			maxV = v
		}
		if v.LessThan(minV) {
			minV = v
		}
		if v.IsPositive() {
			premiums++
		}
	}

	count := decimal.NewFromInt(int64(n))
	mean := sum.Div(count)

	return models.SpreadStatistics{
		Count:             n,
		MeanSpreadPercent: mean,
		MaxSpreadPercent:  maxV,
		MinSpreadPercent:  minV,
		PremiumRatio:      decimal.NewFromInt(int64(premiums)).Div(count),
		Volatility:        stddev(series, mean),
	}, nil
}

// stddev is the sample standard deviation (n-1); zero for a single observation.
func stddev(series models.SpreadSeries, mean decimal.Decimal) decimal.Decimal {
	if len(series) < 2 {
		return decimal.Zero
	}
	sq := decimal.Zero
	for _, o := range series {
		d := o.SpreadPercent.Sub(mean)
		sq = sq.Add(d.Mul(d))
	}
	variance := sq.Div(decimal.NewFromInt(int64(len(series) - 1)))
	return decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
}
