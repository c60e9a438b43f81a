package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/guttosm/adrpulse/internal/calendar"
	"github.com/guttosm/adrpulse/internal/domain/models"
	"github.com/guttosm/adrpulse/internal/logger"
	"github.com/guttosm/adrpulse/internal/spread"
	"github.com/guttosm/adrpulse/internal/storage"
)

const (
	dateLayout     = "2006-01-02"
	historySources = "alphavantage+twse"
)

// SpreadService defines business logic for conversions and the historical
// spread view.
type SpreadService interface {
	Convert(ctx context.Context, req models.ConversionRequest) (models.ConversionResult, error)
	Historical(ctx context.Context, days int) ([]models.HistoricalPoint, error)
	Statistics(ctx context.Context, days int) (models.SpreadStatistics, error)
}

type spreadService struct {
	market    MarketData
	snapshots storage.SnapshotStore
	history   storage.HistoryStore
	observer  Observer
	now       func() time.Time
	group     singleflight.Group
}

func NewSpreadService(market MarketData, snapshots storage.SnapshotStore, history storage.HistoryStore, observer Observer) SpreadService {
	return &spreadService{
		market:    market,
		snapshots: snapshots,
		history:   history,
		observer:  orNop(observer),
		now:       time.Now,
	}
}

// Convert runs the conversion engine. When the request carries no actual
// price but asks for a market reference, the cached home-market quote is used
// if one exists; otherwise the result has no spread.
func (s *spreadService) Convert(_ context.Context, req models.ConversionRequest) (models.ConversionResult, error) {
	actual := req.ActualLocalPrice
	ref := models.ReferenceRequest
	if actual == nil && req.UseMarketReference {
		if snap, ok := s.snapshots.Get(); ok && snap.Local != nil {
			p := snap.Local.Price
			actual = &p
			ref = models.ReferenceMarket
		}
	}

	res, err := spread.Convert(req.ADRPrice, req.USDTWDRate, actual)
	if err == nil && res.HasSpread {
		res.ReferenceSource = ref
	}
	s.observer.ObserveConversion(res, err)
	return res, err
}

// Historical returns one point per Taiwan trading day in
// [today-days, today-1], oldest first.
func (s *spreadService) Historical(ctx context.Context, days int) ([]models.HistoricalPoint, error) {
	if days < 1 || days > MaxHistoryDays {
		return nil, fmt.Errorf("%w: days must be within [1, %d], got %d", ErrInvalidWindow, MaxHistoryDays, days)
	}

	today := calendar.Today(s.now())
	if err := s.refreshHistory(ctx, today); err != nil {
		// serve whatever the cache still holds
		logger.L().Warn().Err(err).Msg("history refresh failed, using cached records")
	}

	from := today.AddDate(0, 0, -days)
	to := today.AddDate(0, 0, -1)
	records := s.history.Range(from, to)

	points := make([]models.HistoricalPoint, 0, len(records))
	for _, r := range records {
		if !calendar.IsTradingDay(r.Date) {
			continue
		}
		local := r.LocalPrice
		res, err := spread.Convert(r.ADRPrice, r.USDTWDRate, &local)
		if err != nil {
			logger.L().Warn().Err(err).Str("date", r.Date.Format(dateLayout)).Msg("skipping unusable history record")
			continue
		}
		points = append(points, models.HistoricalPoint{
			Date:              r.Date,
			ADRPrice:          r.ADRPrice,
			LocalPrice:        r.LocalPrice,
			USDTWDRate:        r.USDTWDRate,
			ImpliedLocalPrice: res.ImpliedLocalPrice,
			SpreadAbsolute:    res.SpreadAbsolute,
			SpreadPercent:     res.SpreadPercent,
		})
	}
	return points, nil
}

// Statistics aggregates the spread percent of the historical window.
func (s *spreadService) Statistics(ctx context.Context, days int) (models.SpreadStatistics, error) {
	points, err := s.Historical(ctx, days)
	if err != nil {
		return models.SpreadStatistics{}, err
	}
	obs := make([]models.SpreadObservation, 0, len(points))
	for _, p := range points {
		obs = append(obs, models.SpreadObservation{Timestamp: p.Date, SpreadPercent: p.SpreadPercent})
	}
	series, err := spread.NewSeries(obs)
	if err != nil {
		return models.SpreadStatistics{}, err
	}
	return spread.Aggregate(series)
}

// refreshHistory pulls the daily series at most once per Taipei date.
func (s *spreadService) refreshHistory(ctx context.Context, today time.Time) error {
	if last, ok := s.history.LastFetch(); ok && calendar.Today(last).Equal(today) {
		return nil
	}
	_, err, _ := s.group.Do("history", func() (any, error) {
		return nil, s.fetchHistory(context.WithoutCancel(ctx), today)
	})
	return err
}

func (s *spreadService) fetchHistory(ctx context.Context, today time.Time) error {
	from := today.AddDate(0, 0, -storage.RetentionDays)
	to := today.AddDate(0, 0, -1)

	var adr, local, fx []models.Quote
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) { adr, err = s.market.ADRHistory(egCtx, from, to); return err })
	eg.Go(func() (err error) { local, err = s.market.LocalHistory(egCtx, from, to); return err })
	eg.Go(func() (err error) { fx, err = s.market.FXHistory(egCtx, from, to); return err })
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	records := joinByDate(adr, local, fx)
	s.history.Upsert(records...)
	pruned := s.history.Prune(from)
	s.history.MarkFetched(s.now())

	logger.L().Info().
		Int("records", len(records)).
		Int("pruned", pruned).
		Str("from", from.Format(dateLayout)).
		Str("to", to.Format(dateLayout)).
		Msg("history refreshed")
	return nil
}

// joinByDate keeps the dates present in all three series. Dates are compared
// as calendar strings; the record date is midnight Taipei.
func joinByDate(adr, local, fx []models.Quote) []models.DailyRecord {
	adrBy := indexByDate(adr)
	fxBy := indexByDate(fx)

	out := make([]models.DailyRecord, 0, len(local))
	for _, l := range local {
		d := l.Timestamp.Format(dateLayout)
		a, okA := adrBy[d]
		f, okF := fxBy[d]
		if !okA || !okF {
			continue
		}
		date, err := time.ParseInLocation(dateLayout, d, calendar.Taipei)
		if err != nil {
			continue
		}
		out = append(out, models.DailyRecord{
			Date:       date,
			ADRPrice:   a,
			LocalPrice: l.Price,
			USDTWDRate: f,
			Source:     historySources,
		})
	}
	return out
}

func indexByDate(quotes []models.Quote) map[string]float64 {
	m := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		m[q.Timestamp.Format(dateLayout)] = q.Price
	}
	return m
}
