package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/guttosm/adrpulse/internal/domain/models"
)

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func TestSnapshotStore(t *testing.T) {
	s := NewSnapshotStore()
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	if _, ok := s.Get(); ok {
		t.Fatalf("empty store should report no snapshot")
	}
	if _, ok := s.Fresh(now, time.Hour); ok {
		t.Fatalf("empty store should not be fresh")
	}

	s.Put(models.PriceSnapshot{FetchedAt: now.Add(-30 * time.Minute), Source: models.SourceLive})

	cases := []struct {
		name string
		ttl  time.Duration
		want bool
	}{
		{name: "within ttl", ttl: time.Hour, want: true},
		{name: "exactly ttl", ttl: 30 * time.Minute, want: false},
		{name: "expired", ttl: 10 * time.Minute, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := s.Fresh(now, tc.ttl); ok != tc.want {
				t.Fatalf("Fresh(ttl=%v)=%v, want %v", tc.ttl, ok, tc.want)
			}
		})
	}

	got, ok := s.Get()
	if !ok || got.Source != models.SourceLive {
		t.Fatalf("Get returned %+v ok=%v", got, ok)
	}
}

func TestHistoryStore_UpsertRangePrune(t *testing.T) {
	h := NewHistoryStore()
	h.Upsert(
		models.DailyRecord{Date: day(3), ADRPrice: 3},
		models.DailyRecord{Date: day(1), ADRPrice: 1},
		models.DailyRecord{Date: day(2), ADRPrice: 2},
	)
	// same date replaces
	h.Upsert(models.DailyRecord{Date: day(2).Add(5 * time.Hour), ADRPrice: 22})

	if h.Len() != 3 {
		t.Fatalf("Len=%d, want 3", h.Len())
	}

	got := h.Range(day(2), day(3))
	if len(got) != 2 || got[0].ADRPrice != 22 || got[1].ADRPrice != 3 {
		t.Fatalf("unexpected range: %+v", got)
	}

	if n := h.Prune(day(2)); n != 1 {
		t.Fatalf("Prune removed %d, want 1", n)
	}
	if got := h.Range(day(1), day(31)); len(got) != 2 {
		t.Fatalf("after prune want 2 records, got %d", len(got))
	}
}

func TestHistoryStore_LastFetch(t *testing.T) {
	h := NewHistoryStore()
	if _, ok := h.LastFetch(); ok {
		t.Fatalf("fresh store should have no fetch time")
	}
	h.MarkFetched(day(15))
	if ts, ok := h.LastFetch(); !ok || !ts.Equal(day(15)) {
		t.Fatalf("LastFetch=%v ok=%v", ts, ok)
	}
}

func TestHistoryStore_ConcurrentAccess(t *testing.T) {
	h := NewHistoryStore()
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(d int) {
			defer wg.Done()
			h.Upsert(models.DailyRecord{Date: day(d)})
		}(i)
		go func() {
			defer wg.Done()
			_ = h.Range(day(1), day(31))
		}()
	}
	wg.Wait()
	if h.Len() != 20 {
		t.Fatalf("Len=%d, want 20", h.Len())
	}
}
