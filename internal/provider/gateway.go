package provider

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/adrpulse/internal/domain/models"
)

// FetchObserver is notified after every upstream call.
type FetchObserver interface {
	ObserveFetch(source string, err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(string, error, time.Duration) {}

// Gateway combines the three sources into the market-data port consumed by
// the service layer.
type Gateway struct {
	av       *AlphaVantage
	twse     *TWSE
	bot      *BankOfTaiwan
	adr      string
	stockNo  string
	observer FetchObserver
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithObserver installs a FetchObserver (e.g. Prometheus metrics).
func WithObserver(o FetchObserver) GatewayOption {
	return func(g *Gateway) {
		if o != nil {
			g.observer = o
		}
	}
}

// WithInstruments overrides the ADR symbol and TWSE stock number.
func WithInstruments(adrSymbol, stockNo string) GatewayOption {
	return func(g *Gateway) {
		g.adr = adrSymbol
		g.stockNo = stockNo
	}
}

// NewGateway wires the three clients together.
func NewGateway(av *AlphaVantage, twse *TWSE, bot *BankOfTaiwan, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		av:       av,
		twse:     twse,
		bot:      bot,
		adr:      models.InstrumentADR,
		stockNo:  models.InstrumentLocal,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ADRQuote returns the latest depositary-receipt price.
func (g *Gateway) ADRQuote(ctx context.Context) (models.Quote, error) {
	return observe(g.observer, "alphavantage_quote", func() (models.Quote, error) {
		return g.av.GlobalQuote(ctx, g.adr)
	})
}

// LocalQuote returns the latest home-market price.
func (g *Gateway) LocalQuote(ctx context.Context) (models.Quote, error) {
	return observe(g.observer, "twse_realtime", func() (models.Quote, error) {
		return g.twse.Realtime(ctx, g.stockNo)
	})
}

// FXQuote returns the current USD/TWD spot rate.
func (g *Gateway) FXQuote(ctx context.Context) (models.Quote, error) {
	return observe(g.observer, "bankoftaiwan_spot", func() (models.Quote, error) {
		return g.bot.SpotRate(ctx, "USD")
	})
}

// ADRHistory returns ADR daily closes dated within [from, to].
func (g *Gateway) ADRHistory(ctx context.Context, from, to time.Time) ([]models.Quote, error) {
	all, err := observe(g.observer, "alphavantage_daily", func() ([]models.Quote, error) {
		return g.av.DailyCloses(ctx, g.adr)
	})
	if err != nil {
		return nil, err
	}
	return within(all, from, to), nil
}

// FXHistory returns USD/TWD daily closes dated within [from, to].
func (g *Gateway) FXHistory(ctx context.Context, from, to time.Time) ([]models.Quote, error) {
	all, err := observe(g.observer, "alphavantage_fx_daily", func() ([]models.Quote, error) {
		return g.av.FXDaily(ctx, "USD", "TWD")
	})
	if err != nil {
		return nil, err
	}
	return within(all, from, to), nil
}

// LocalHistory returns home-market daily closes within [from, to], fetching
// every calendar month of the range concurrently.
func (g *Gateway) LocalHistory(ctx context.Context, from, to time.Time) ([]models.Quote, error) {
	var months []time.Time
	for m := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location()); !m.After(to); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}

	results := make([][]models.Quote, len(months))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(3)
	for i, m := range months {
		eg.Go(func() error {
			quotes, err := observe(g.observer, "twse_stock_day", func() ([]models.Quote, error) {
				return g.twse.MonthlyCloses(egCtx, g.stockNo, m)
			})
			if err != nil {
				return err
			}
			results[i] = quotes
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []models.Quote
	for _, r := range results {
		out = append(out, within(r, from, to)...)
	}
	return out, nil
}

// QuotaUsage reports the metered provider's consumption today.
func (g *Gateway) QuotaUsage() models.QuotaUsage {
	return g.av.Usage()
}

func observe[T any](o FetchObserver, source string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	o.ObserveFetch(source, err, time.Since(start))
	return v, err
}

// within keeps quotes whose calendar date lies in [from, to]. Dates are
// compared as YYYY-MM-DD strings so sources in different zones line up.
func within(quotes []models.Quote, from, to time.Time) []models.Quote {
	lo, hi := from.Format("2006-01-02"), to.Format("2006-01-02")
	out := make([]models.Quote, 0, len(quotes))
	for _, q := range quotes {
		d := q.Timestamp.Format("2006-01-02")
		if d >= lo && d <= hi {
			out = append(out, q)
		}
	}
	return out
}
