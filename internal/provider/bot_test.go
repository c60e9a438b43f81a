package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const boardCSV = "\xef\xbb\xbf幣別,匯率,現金,即期,遠期10天,遠期30天,遠期60天,遠期90天,遠期120天,遠期150天,遠期180天,匯率,現金,即期,遠期10天,遠期30天,遠期60天,遠期90天,遠期120天,遠期150天,遠期180天\n" +
	"USD        ,本行買入,30.29000,30.61500,30.59100,30.54300,30.47500,30.40900,30.34000,30.27500,30.20500,本行賣出,30.96000,30.76500,30.74000,30.69000,30.62500,30.56100,30.49000,30.42000,30.35300\n" +
	"HKD        ,本行買入,3.79400,3.91800,3.91600,3.91100,3.90300,3.89500,3.88600,3.87800,3.86900,本行賣出,3.99800,3.98800,3.98600,3.98100,3.97300,3.96500,3.95600,3.94800,3.93900\n"

func TestBankOfTaiwan_SpotRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/xrt/flcsv/0/day" {
			t.Errorf("path=%q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(boardCSV))
	}))
	defer srv.Close()

	q, err := NewBankOfTaiwan(srv.URL).SpotRate(context.Background(), "USD")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if q.Price != 30.96 || q.InstrumentID != "USD/TWD" || q.Source != "bankoftaiwan" {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestParseBoardCSV_Errors(t *testing.T) {
	if _, err := parseBoardCSV([]byte(boardCSV), "JPY"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for missing currency, got %v", err)
	}
	if _, err := parseBoardCSV([]byte("USD,本行買入,30.1\n"), "USD"); err == nil {
		t.Fatalf("expected column count error")
	}
	if _, err := parseBoardCSV([]byte("USD,a,b,c,d,e,f,g,h,i,j,k,--,m\n"), "USD"); err == nil {
		t.Fatalf("expected parse error for non-numeric rate")
	}
}
