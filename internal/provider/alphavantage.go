package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/adrpulse/internal/domain/models"
)

const (
	alphaVantageSource = "alphavantage"
	alphaVantagePath   = "/query"
)

// AlphaVantage fetches ADR quotes, ADR daily closes and FX daily closes.
// Every request consumes one call of the shared daily Quota.
type AlphaVantage struct {
	client *Client
	apiKey string
	quota  *Quota
}

// NewAlphaVantage creates an Alpha Vantage client. quota may be nil.
func NewAlphaVantage(baseURL, apiKey string, quota *Quota, opts ...ClientOption) *AlphaVantage {
	return &AlphaVantage{
		client: NewClient(baseURL, opts...),
		apiKey: apiKey,
		quota:  quota,
	}
}

// avStatus carries the fields Alpha Vantage uses to report throttling or bad
// requests with an HTTP 200.
type avStatus struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (s avStatus) err() error {
	switch {
	case s.Note != "":
		return fmt.Errorf("%w: %s", ErrRateLimited, s.Note)
	case s.Information != "":
		return fmt.Errorf("%w: %s", ErrRateLimited, s.Information)
	case s.ErrorMessage != "":
		return fmt.Errorf("%w: %s", ErrNoData, s.ErrorMessage)
	}
	return nil
}

type avGlobalQuote struct {
	avStatus
	Quote struct {
		Symbol           string `json:"01. symbol"`
		Price            string `json:"05. price"`
		LatestTradingDay string `json:"07. latest trading day"`
	} `json:"Global Quote"`
}

type avBar struct {
	Close string `json:"4. close"`
}

type avDaily struct {
	avStatus
	Series map[string]avBar `json:"Time Series (Daily)"`
}

type avFXDaily struct {
	avStatus
	Series map[string]avBar `json:"Time Series FX (Daily)"`
}

// GlobalQuote returns the latest price for symbol.
func (a *AlphaVantage) GlobalQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var out avGlobalQuote
	q := url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}
	if err := a.call(ctx, q, &out); err != nil {
		return models.Quote{}, err
	}
	if err := out.err(); err != nil {
		return models.Quote{}, err
	}
	if out.Quote.Price == "" {
		return models.Quote{}, fmt.Errorf("%w: empty global quote for %s", ErrNoData, symbol)
	}

	price, err := parsePrice(out.Quote.Price)
	if err != nil {
		return models.Quote{}, fmt.Errorf("global quote %s: %w", symbol, err)
	}
	ts := time.Now().UTC()
	if d, err := time.Parse("2006-01-02", out.Quote.LatestTradingDay); err == nil {
		ts = d
	}
	return models.Quote{InstrumentID: symbol, Price: price, Currency: "USD", Timestamp: ts, Source: alphaVantageSource}, nil
}

// DailyCloses returns the compact (about 100 days) daily close series for
// symbol, oldest first.
func (a *AlphaVantage) DailyCloses(ctx context.Context, symbol string) ([]models.Quote, error) {
	var out avDaily
	q := url.Values{"function": {"TIME_SERIES_DAILY"}, "symbol": {symbol}}
	if err := a.call(ctx, q, &out); err != nil {
		return nil, err
	}
	if err := out.err(); err != nil {
		return nil, err
	}
	return barsToQuotes(out.Series, symbol, "USD")
}

// FXDaily returns the daily close series of the from/to currency pair, oldest first.
func (a *AlphaVantage) FXDaily(ctx context.Context, from, to string) ([]models.Quote, error) {
	var out avFXDaily
	q := url.Values{"function": {"FX_DAILY"}, "from_symbol": {from}, "to_symbol": {to}}
	if err := a.call(ctx, q, &out); err != nil {
		return nil, err
	}
	if err := out.err(); err != nil {
		return nil, err
	}
	return barsToQuotes(out.Series, from+"/"+to, to)
}

// Usage exposes the quota consumption; zero value when no quota is attached.
func (a *AlphaVantage) Usage() models.QuotaUsage {
	if a.quota == nil {
		return models.QuotaUsage{}
	}
	return a.quota.Usage()
}

func (a *AlphaVantage) call(ctx context.Context, q url.Values, out any) error {
	if a.quota != nil {
		if err := a.quota.Acquire(); err != nil {
			return err
		}
	}
	q.Set("apikey", a.apiKey)

	body, err := a.client.get(ctx, alphaVantagePath, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func barsToQuotes(series map[string]avBar, instrument, currency string) ([]models.Quote, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: empty series for %s", ErrNoData, instrument)
	}
	out := make([]models.Quote, 0, len(series))
	for day, bar := range series {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("series %s: bad date %q: %w", instrument, day, err)
		}
		price, err := parsePrice(bar.Close)
		if err != nil {
			return nil, fmt.Errorf("series %s %s: %w", instrument, day, err)
		}
		out = append(out, models.Quote{InstrumentID: instrument, Price: price, Currency: currency, Timestamp: d, Source: alphaVantageSource})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// parsePrice parses a provider price string; thousands separators are allowed.
// Non-positive values are rejected.
func parsePrice(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: non-positive price %q", ErrNoData, s)
	}
	return v, nil
}
