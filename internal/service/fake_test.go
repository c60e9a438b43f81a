package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/guttosm/adrpulse/internal/domain/models"
)

type fakeMarket struct {
	adr, local, fx          models.Quote
	adrErr, localErr, fxErr error

	adrHist, localHist, fxHist []models.Quote
	histErr                    error

	quoteCalls atomic.Int32
	histCalls  atomic.Int32
	block      chan struct{}
}

func (f *fakeMarket) wait() {
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeMarket) ADRQuote(context.Context) (models.Quote, error) {
	f.quoteCalls.Add(1)
	f.wait()
	return f.adr, f.adrErr
}

func (f *fakeMarket) LocalQuote(context.Context) (models.Quote, error) { return f.local, f.localErr }
func (f *fakeMarket) FXQuote(context.Context) (models.Quote, error)    { return f.fx, f.fxErr }

func (f *fakeMarket) ADRHistory(context.Context, time.Time, time.Time) ([]models.Quote, error) {
	f.histCalls.Add(1)
	return f.adrHist, f.histErr
}

func (f *fakeMarket) LocalHistory(context.Context, time.Time, time.Time) ([]models.Quote, error) {
	return f.localHist, nil
}

func (f *fakeMarket) FXHistory(context.Context, time.Time, time.Time) ([]models.Quote, error) {
	return f.fxHist, nil
}

func (f *fakeMarket) QuotaUsage() models.QuotaUsage {
	return models.QuotaUsage{Date: "2025-10-15", Calls: 3, Limit: 25, Remaining: 22}
}

type recordingObserver struct {
	conversions int
	refreshes   []string
}

func (r *recordingObserver) ObserveConversion(models.ConversionResult, error) { r.conversions++ }
func (r *recordingObserver) ObserveRefresh(source string)                    { r.refreshes = append(r.refreshes, source) }

func quote(id string, price float64) models.Quote {
	return models.Quote{InstrumentID: id, Price: price, Timestamp: time.Date(2025, 10, 15, 1, 0, 0, 0, time.UTC)}
}

func liveMarket() *fakeMarket {
	return &fakeMarket{
		adr:   quote(models.InstrumentADR, 150),
		local: quote(models.InstrumentLocal, 980),
		fx:    quote(models.InstrumentUSDTWD, 32),
	}
}

// 2025-10-15 10:00 Taipei, a Wednesday
var fixedNow = time.Date(2025, 10, 15, 2, 0, 0, 0, time.UTC)
