package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/guttosm/adrpulse/internal/domain/models"
)

// RetentionDays is how long daily records are kept.
const RetentionDays = 60

const dateLayout = "2006-01-02"

// HistoryStore defines contract for the daily closing-price cache.
// Records are keyed by calendar date (YYYY-MM-DD of DailyRecord.Date).
type HistoryStore interface {
	Upsert(records ...models.DailyRecord)
	Range(from, to time.Time) []models.DailyRecord
	Prune(cutoff time.Time) int
	Len() int
	LastFetch() (time.Time, bool)
	MarkFetched(t time.Time)
}

type historyStore struct {
	mu        sync.RWMutex
	byDate    map[string]models.DailyRecord
	lastFetch time.Time
}

func NewHistoryStore() HistoryStore {
	return &historyStore{byDate: make(map[string]models.DailyRecord)}
}

// Upsert inserts or replaces records by date.
func (h *historyStore) Upsert(records ...models.DailyRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range records {
		h.byDate[r.Date.Format(dateLayout)] = r
	}
}

// Range returns records dated within [from, to], oldest first.
func (h *historyStore) Range(from, to time.Time) []models.DailyRecord {
	lo, hi := from.Format(dateLayout), to.Format(dateLayout)

	h.mu.RLock()
	out := make([]models.DailyRecord, 0, len(h.byDate))
	for d, r := range h.byDate {
		if d >= lo && d <= hi {
			out = append(out, r)
		}
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Format(dateLayout) < out[j].Date.Format(dateLayout)
	})
	return out
}

// Prune drops records dated before cutoff and returns how many were removed.
func (h *historyStore) Prune(cutoff time.Time) int {
	c := cutoff.Format(dateLayout)

	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for d := range h.byDate {
		if d < c {
			delete(h.byDate, d)
			n++
		}
	}
	return n
}

func (h *historyStore) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byDate)
}

// LastFetch reports when history was last pulled from the providers.
func (h *historyStore) LastFetch() (time.Time, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastFetch, !h.lastFetch.IsZero()
}

func (h *historyStore) MarkFetched(t time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastFetch = t
}
