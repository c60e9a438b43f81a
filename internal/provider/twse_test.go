package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guttosm/adrpulse/internal/calendar"
)

func TestTWSE_RealtimeFieldFallback(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    float64
		wantErr error
	}{
		{name: "last trade", payload: `{"msgArray":[{"c":"2330","z":"1005.0000","y":"1000.0000","tlong":"1760414400000"}],"rtcode":"0000"}`, want: 1005},
		{name: "reference price", payload: `{"msgArray":[{"c":"2330","z":"-","p":"1002.0000","y":"1000.0000"}]}`, want: 1002},
		{name: "previous close", payload: `{"msgArray":[{"c":"2330","z":"-","y":"1000.0000"}]}`, want: 1000},
		{name: "nothing usable", payload: `{"msgArray":[{"c":"2330","z":"-","y":"-"}]}`, wantErr: ErrNoData},
		{name: "empty array", payload: `{"msgArray":[],"rtcode":"0000"}`, wantErr: ErrNoData},
		{name: "blank body", payload: "  ", wantErr: ErrNoData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("ex_ch") != "tse_2330.tw" {
					t.Errorf("ex_ch=%q", r.URL.Query().Get("ex_ch"))
				}
				_, _ = w.Write([]byte(tc.payload))
			}))
			defer srv.Close()

			tw := NewTWSE(srv.URL, srv.URL, WithRetries(0, 0))
			q, err := tw.Realtime(context.Background(), "2330")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || q.Price != tc.want || q.Currency != "TWD" {
				t.Fatalf("got %+v err=%v, want price %v", q, err, tc.want)
			}
		})
	}
}

func TestTWSE_RealtimeTimestampFromTlong(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"msgArray":[{"c":"2330","z":"1005.00","tlong":"1760414400000"}]}`))
	}))
	defer srv.Close()

	q, err := NewTWSE(srv.URL, srv.URL).Realtime(context.Background(), "2330")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !q.Timestamp.Equal(time.UnixMilli(1760414400000).UTC()) {
		t.Fatalf("timestamp=%v", q.Timestamp)
	}
}

func TestTWSE_MonthlyCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/exchangeReport/STOCK_DAY" || q.Get("date") != "20251001" || q.Get("stockNo") != "2330" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`{
			"stat":"OK",
			"fields":["日期","成交股數","成交金額","開盤價","最高價","最低價","收盤價","漲跌價差","成交筆數"],
			"data":[
				["114/10/02","30,000,000","39,000,000,000","1,300.00","1,310.00","1,295.00","1,305.00","+5.00","50,000"],
				["114/10/01","28,000,000","36,000,000,000","1,290.00","1,300.00","1,285.00","1,300.00","+10.00","48,000"],
				["114/10/03","0","0","--","--","--","--"," 0.00","0"]
			]
		}`))
	}))
	defer srv.Close()

	tw := NewTWSE(srv.URL, srv.URL)
	quotes, err := tw.MonthlyCloses(context.Background(), "2330", time.Date(2025, 10, 15, 0, 0, 0, 0, calendar.Taipei))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("want 2 quotes (suspended row skipped), got %d", len(quotes))
	}
	if quotes[0].Timestamp.Format("2006-01-02") != "2025-10-01" || quotes[0].Price != 1300 {
		t.Fatalf("unexpected first quote: %+v", quotes[0])
	}
	if quotes[1].Price != 1305 {
		t.Fatalf("unexpected second quote: %+v", quotes[1])
	}
}

func TestTWSE_MonthlyClosesNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"stat":"很抱歉，沒有符合條件的資料!"}`))
	}))
	defer srv.Close()

	_, err := NewTWSE(srv.URL, srv.URL).MonthlyCloses(context.Background(), "2330", time.Now())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestParseROCDate(t *testing.T) {
	d, err := parseROCDate("114/10/09")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if d.Format("2006-01-02") != "2025-10-09" || d.Location() != calendar.Taipei {
		t.Fatalf("got %v", d)
	}
	for _, bad := range []string{"2025-10-09", "114/13/01", "114/aa/01", ""} {
		if _, err := parseROCDate(bad); err == nil {
			t.Fatalf("parseROCDate(%q) expected error", bad)
		}
	}
}
