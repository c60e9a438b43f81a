package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/guttosm/adrpulse/internal/calendar"
	"github.com/guttosm/adrpulse/internal/domain/models"
	"github.com/guttosm/adrpulse/internal/logger"
	"github.com/guttosm/adrpulse/internal/provider"
	"github.com/guttosm/adrpulse/internal/storage"
)

// liveSnapshotSource tags history records captured from a live snapshot.
const liveSnapshotSource = "live_snapshot"

// PriceService defines business logic around the latest price snapshot.
type PriceService interface {
	CurrentPrices(ctx context.Context) (models.PriceSnapshot, error)
	Refresh(ctx context.Context) (models.PriceSnapshot, error)
	Status() models.ServiceStatus
	Ready() bool
}

type priceService struct {
	market    MarketData
	snapshots storage.SnapshotStore
	history   storage.HistoryStore
	ttl       time.Duration
	version   string
	observer  Observer
	now       func() time.Time
	group     singleflight.Group
}

// PriceConfig carries the tunables of NewPriceService.
type PriceConfig struct {
	TTL      time.Duration // how long a snapshot is served without refetching
	Version  string
	Observer Observer
}

func NewPriceService(market MarketData, snapshots storage.SnapshotStore, history storage.HistoryStore, cfg PriceConfig) PriceService {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &priceService{
		market:    market,
		snapshots: snapshots,
		history:   history,
		ttl:       cfg.TTL,
		version:   cfg.Version,
		observer:  orNop(cfg.Observer),
		now:       time.Now,
	}
}

// CurrentPrices serves the cached snapshot while fresh, otherwise refreshes.
func (s *priceService) CurrentPrices(ctx context.Context) (models.PriceSnapshot, error) {
	if snap, ok := s.snapshots.Fresh(s.now(), s.ttl); ok {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches all three prices concurrently. Concurrent callers share one
// upstream round. A failed source falls back to its last cached quote.
func (s *priceService) Refresh(ctx context.Context) (models.PriceSnapshot, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return models.PriceSnapshot{}, err
	}
	return v.(models.PriceSnapshot), nil
}

type fetchResult struct {
	quote models.Quote
	err   error
}

func (s *priceService) refresh(ctx context.Context) (models.PriceSnapshot, error) {
	var adr, local, fx fetchResult

	var eg errgroup.Group
	eg.Go(func() error { adr.quote, adr.err = s.market.ADRQuote(ctx); return nil })
	eg.Go(func() error { local.quote, local.err = s.market.LocalQuote(ctx); return nil })
	eg.Go(func() error { fx.quote, fx.err = s.market.FXQuote(ctx); return nil })
	_ = eg.Wait()

	prev, _ := s.snapshots.Get()
	now := s.now()
	m := merger{}
	snap := models.PriceSnapshot{
		ADR:       m.pick(models.InstrumentADR, adr, prev.ADR),
		Local:     m.pick(models.InstrumentLocal, local, prev.Local),
		FX:        m.pick(models.InstrumentUSDTWD, fx, prev.FX),
		FetchedAt: now,
	}

	if snap.ADR == nil && snap.Local == nil && snap.FX == nil {
		return models.PriceSnapshot{}, fmt.Errorf("%w: %w", ErrNoPriceData, errors.Join(adr.err, local.err, fx.err))
	}

	switch {
	case m.degraded && m.quotaHit:
		snap.Source = models.SourceQuotaFallback
	case m.degraded:
		snap.Source = models.SourcePartialStale
	default:
		snap.Source = models.SourceLive
	}

	s.snapshots.Put(snap)
	s.observer.ObserveRefresh(snap.Source)
	s.recordToday(snap, now)

	logger.L().Info().
		Str("source", snap.Source).
		Bool("complete", snap.Complete()).
		Msg("price snapshot refreshed")
	return snap, nil
}

// merger picks fresh quotes, falling back to cached ones, and remembers
// whether any fallback happened.
type merger struct {
	degraded bool
	quotaHit bool
}

func (m *merger) pick(instrument string, r fetchResult, cached *models.Quote) *models.Quote {
	if r.err == nil {
		q := r.quote
		return &q
	}
	m.degraded = true
	if errors.Is(r.err, provider.ErrQuotaExceeded) || errors.Is(r.err, provider.ErrRateLimited) {
		m.quotaHit = true
	}
	logger.L().Warn().Err(r.err).Str("instrument", instrument).Bool("cached", cached != nil).Msg("price fetch failed")
	return cached
}

// recordToday stores a complete live snapshot as today's history record so
// the window still has data when the daily series fetch fails later on.
func (s *priceService) recordToday(snap models.PriceSnapshot, now time.Time) {
	if !snap.Complete() || snap.Source != models.SourceLive {
		return
	}
	today := calendar.Today(now)
	if !calendar.IsTradingDay(today) {
		return
	}
	s.history.Upsert(models.DailyRecord{
		Date:       today,
		ADRPrice:   snap.ADR.Price,
		LocalPrice: snap.Local.Price,
		USDTWDRate: snap.FX.Price,
		Source:     liveSnapshotSource,
	})
}

// Status reports quota consumption and snapshot cache state.
func (s *priceService) Status() models.ServiceStatus {
	now := s.now()
	status := models.ServiceStatus{
		Timestamp: now.UTC(),
		Quota:     s.market.QuotaUsage(),
		Version:   s.version,
	}
	if snap, ok := s.snapshots.Get(); ok {
		fetched := snap.FetchedAt
		_, fresh := s.snapshots.Fresh(now, s.ttl)
		status.Cache = models.CacheStatus{Valid: fresh, FetchedAt: &fetched, Source: snap.Source}
	}
	return status
}

// Ready reports whether a snapshot has ever been stored.
func (s *priceService) Ready() bool {
	_, ok := s.snapshots.Get()
	return ok
}
