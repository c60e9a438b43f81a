package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/adrpulse/internal/calendar"
)

type recordingObserver struct {
	mu      sync.Mutex
	sources []string
	errs    int
}

func (r *recordingObserver) ObserveFetch(source string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
	if err != nil {
		r.errs++
	}
}

func newTestGateway(t *testing.T, obs FetchObserver) (*Gateway, func()) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("function") {
		case "GLOBAL_QUOTE":
			_, _ = w.Write([]byte(`{"Global Quote":{"01. symbol":"TSM","05. price":"150.00","07. latest trading day":"2025-10-14"}}`))
		case "TIME_SERIES_DAILY":
			_, _ = w.Write([]byte(`{"Time Series (Daily)":{"2025-09-29":{"4. close":"140"},"2025-10-01":{"4. close":"145"},"2025-10-14":{"4. close":"150"}}}`))
		case "FX_DAILY":
			_, _ = w.Write([]byte(`{"Time Series FX (Daily)":{"2025-10-01":{"4. close":"30.5"}}}`))
		}
	})
	mux.HandleFunc("/stock/api/getStockInfo.jsp", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"msgArray":[{"c":"2330","z":"960.00"}]}`))
	})
	mux.HandleFunc("/exchangeReport/STOCK_DAY", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("date") {
		case "20250901":
			_, _ = w.Write([]byte(`{"stat":"OK","fields":["日期","收盤價"],"data":[["114/09/29","1,250.00"],["114/09/30","1,260.00"]]}`))
		case "20251001":
			_, _ = w.Write([]byte(`{"stat":"OK","fields":["日期","收盤價"],"data":[["114/10/01","1,300.00"]]}`))
		default:
			_, _ = w.Write([]byte(`{"stat":"no data"}`))
		}
	})
	mux.HandleFunc("/xrt/flcsv/0/day", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(boardCSV))
	})
	srv := httptest.NewServer(mux)

	g := NewGateway(
		NewAlphaVantage(srv.URL, "demo", NewQuota(10)),
		NewTWSE(srv.URL, srv.URL),
		NewBankOfTaiwan(srv.URL),
		WithObserver(obs),
	)
	return g, srv.Close
}

func TestGateway_LatestQuotes(t *testing.T) {
	obs := &recordingObserver{}
	g, done := newTestGateway(t, obs)
	defer done()
	ctx := context.Background()

	adr, err := g.ADRQuote(ctx)
	if err != nil || adr.Price != 150 {
		t.Fatalf("adr=%+v err=%v", adr, err)
	}
	local, err := g.LocalQuote(ctx)
	if err != nil || local.Price != 960 {
		t.Fatalf("local=%+v err=%v", local, err)
	}
	fx, err := g.FXQuote(ctx)
	if err != nil || fx.Price != 30.96 {
		t.Fatalf("fx=%+v err=%v", fx, err)
	}

	if got := strings.Join(obs.sources, ","); got != "alphavantage_quote,twse_realtime,bankoftaiwan_spot" {
		t.Fatalf("observed sources %q", got)
	}
	if u := g.QuotaUsage(); u.Calls != 1 {
		t.Fatalf("quota calls=%d, want 1", u.Calls)
	}
}

func TestGateway_HistoryRanges(t *testing.T) {
	g, done := newTestGateway(t, &recordingObserver{})
	defer done()
	ctx := context.Background()

	from := time.Date(2025, 9, 30, 0, 0, 0, 0, calendar.Taipei)
	to := time.Date(2025, 10, 13, 0, 0, 0, 0, calendar.Taipei)

	adr, err := g.ADRHistory(ctx, from, to)
	if err != nil {
		t.Fatalf("adr history: %v", err)
	}
	if len(adr) != 1 || adr[0].Price != 145 {
		t.Fatalf("adr history filtered wrong: %+v", adr)
	}

	local, err := g.LocalHistory(ctx, from, to)
	if err != nil {
		t.Fatalf("local history: %v", err)
	}
	if len(local) != 2 || local[0].Price != 1260 || local[1].Price != 1300 {
		t.Fatalf("local history wrong: %+v", local)
	}

	fx, err := g.FXHistory(ctx, from, to)
	if err != nil || len(fx) != 1 {
		t.Fatalf("fx history: %+v err=%v", fx, err)
	}
}

func TestGateway_LocalHistoryPropagatesErrors(t *testing.T) {
	g, done := newTestGateway(t, nil)
	defer done()

	from := time.Date(2025, 11, 1, 0, 0, 0, 0, calendar.Taipei)
	to := time.Date(2025, 11, 10, 0, 0, 0, 0, calendar.Taipei)
	if _, err := g.LocalHistory(context.Background(), from, to); err == nil {
		t.Fatalf("expected error for month without data")
	}
}
