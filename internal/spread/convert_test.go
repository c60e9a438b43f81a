package spread

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestConvert_PremiumScenario(t *testing.T) {
	t.Parallel()

	res, err := Convert(150.0, 32.0, ptr(980.0))
	require.NoError(t, err)

	assert.True(t, res.ImpliedLocalPrice.Equal(decimal.NewFromInt(960)), "implied=%s", res.ImpliedLocalPrice)
	assert.True(t, res.HasSpread)
	assert.True(t, res.SpreadAbsolute.Equal(decimal.NewFromInt(20)), "abs=%s", res.SpreadAbsolute)
	assert.InDelta(t, 2.0833, res.SpreadPercent.InexactFloat64(), 1e-4)
	assert.True(t, res.IsPremium)
	assert.Equal(t, ShareRatio, res.ShareRatio)
}

func TestConvert_ZeroSpreadIsNotPremium(t *testing.T) {
	t.Parallel()

	res, err := Convert(100.0, 30.0, ptr(600.0))
	require.NoError(t, err)

	assert.True(t, res.ImpliedLocalPrice.Equal(decimal.NewFromInt(600)))
	assert.True(t, res.SpreadPercent.IsZero())
	assert.False(t, res.IsPremium)
}

func TestConvert_Discount(t *testing.T) {
	t.Parallel()

	res, err := Convert(100.0, 30.0, ptr(570.0))
	require.NoError(t, err)

	assert.True(t, res.SpreadAbsolute.Equal(decimal.NewFromInt(-30)))
	assert.InDelta(t, -5.0, res.SpreadPercent.InexactFloat64(), 1e-9)
	assert.False(t, res.IsPremium)
}

func TestConvert_WithoutActualHasNoSpread(t *testing.T) {
	t.Parallel()

	res, err := Convert(150.0, 32.0, nil)
	require.NoError(t, err)
	assert.False(t, res.HasSpread)
	assert.True(t, res.SpreadPercent.IsZero())
}

func TestConvert_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		adr    float64
		rate   float64
		actual *float64
	}{
		{name: "zero adr", adr: 0, rate: 32},
		{name: "zero rate", adr: 150, rate: 0},
		{name: "negative adr", adr: -1, rate: 32},
		{name: "negative rate", adr: 150, rate: -32},
		{name: "nan adr", adr: math.NaN(), rate: 32},
		{name: "inf rate", adr: 150, rate: math.Inf(1)},
		{name: "zero actual", adr: 150, rate: 32, actual: ptr(0)},
		{name: "negative actual", adr: 150, rate: 32, actual: ptr(-980)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Convert(tc.adr, tc.rate, tc.actual)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestConvert_DivisionHazard(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		actual *float64
	}{
		{name: "without actual", actual: nil},
		{name: "with actual", actual: ptr(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Convert(1e-30, 1, tc.actual)
			assert.ErrorIs(t, err, ErrDivisionHazard)
			assert.True(t, res.ImpliedLocalPrice.IsZero(), "no partial result on error")
		})
	}
}

func TestConvert_TinyPricesKeepPrecision(t *testing.T) {
	t.Parallel()

	res, err := Convert(3e-16, 1, ptr(1))
	require.NoError(t, err)
	assert.True(t, res.ImpliedLocalPrice.Equal(decimal.RequireFromString("6e-17")), "implied=%s", res.ImpliedLocalPrice)

	// (1 - 6e-17) / 6e-17 * 100
	want := decimal.RequireFromString("1").Sub(decimal.RequireFromString("6e-17")).
		Mul(decimal.NewFromInt(100)).DivRound(decimal.RequireFromString("6e-17"), 28)
	assert.True(t, res.SpreadPercent.Equal(want), "pct=%s want=%s", res.SpreadPercent, want)
	assert.True(t, res.IsPremium)

	res, err = Convert(1e-17, 1, nil)
	require.NoError(t, err)
	assert.True(t, res.ImpliedLocalPrice.Equal(decimal.RequireFromString("2e-18")), "implied=%s", res.ImpliedLocalPrice)
}

func TestConvert_ScalesLinearly(t *testing.T) {
	t.Parallel()

	inputs := []struct{ adr, rate float64 }{
		{150, 32}, {1.25, 29.87}, {203.17, 31.415}, {0.01, 0.5},
	}
	for _, in := range inputs {
		base, err := Convert(in.adr, in.rate, nil)
		require.NoError(t, err)
		assert.True(t, base.ImpliedLocalPrice.IsPositive())

		doubledADR, err := Convert(in.adr*2, in.rate, nil)
		require.NoError(t, err)
		assert.InDelta(t, base.ImpliedLocalPrice.InexactFloat64()*2, doubledADR.ImpliedLocalPrice.InexactFloat64(), 1e-9)

		doubledRate, err := Convert(in.adr, in.rate*2, nil)
		require.NoError(t, err)
		assert.InDelta(t, base.ImpliedLocalPrice.InexactFloat64()*2, doubledRate.ImpliedLocalPrice.InexactFloat64(), 1e-9)
	}
}

func TestConvert_Idempotent(t *testing.T) {
	t.Parallel()

	a, errA := Convert(187.42, 31.9, ptr(1005))
	b, errB := Convert(187.42, 31.9, ptr(1005))
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.True(t, a.ImpliedLocalPrice.Equal(b.ImpliedLocalPrice))
	assert.True(t, a.SpreadPercent.Equal(b.SpreadPercent))
	assert.Equal(t, a.IsPremium, b.IsPremium)
}

func TestImpliedADRPrice_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, in := range []struct{ adr, rate float64 }{{150, 32}, {187.42, 31.9}, {99.99, 30.123}} {
		res, err := Convert(in.adr, in.rate, nil)
		require.NoError(t, err)

		back, err := ImpliedADRPrice(res.ImpliedLocalPrice.InexactFloat64(), in.rate)
		require.NoError(t, err)
		assert.InDelta(t, in.adr, back.InexactFloat64(), 1e-6)
	}

	_, err := ImpliedADRPrice(960, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFormulaAndRounding(t *testing.T) {
	t.Parallel()

	res, err := Convert(150, 32, nil)
	require.NoError(t, err)
	assert.Equal(t, "implied = ADR ÷ 5 × USD/TWD = 150.00 ÷ 5 × 32.00 = 960.00 TWD", Formula(res))

	// half-even: 2.345 -> 2.34, 2.355 -> 2.36
	assert.Equal(t, "2.34", RoundPrice(decimal.RequireFromString("2.345")).StringFixed(2))
	assert.Equal(t, "2.36", RoundPrice(decimal.RequireFromString("2.355")).StringFixed(2))
	assert.Equal(t, "2.0833", RoundPercent(decimal.RequireFromString("2.08333333")).StringFixed(4))
}
