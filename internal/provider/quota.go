package provider

import (
	"sync"
	"time"

	"github.com/guttosm/adrpulse/internal/calendar"
	"github.com/guttosm/adrpulse/internal/domain/models"
)

// Quota is a per-day call budget for a metered provider. The day rolls over
// at midnight Taipei time. A limit <= 0 disables the check.
type Quota struct {
	mu    sync.Mutex
	limit int
	day   string
	calls int
	now   func() time.Time
}

// NewQuota creates a quota allowing limit calls per day.
func NewQuota(limit int) *Quota {
	return &Quota{limit: limit, now: time.Now}
}

// Acquire consumes one call, or returns ErrQuotaExceeded.
func (q *Quota) Acquire() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	if q.limit > 0 && q.calls >= q.limit {
		return ErrQuotaExceeded
	}
	q.calls++
	return nil
}

// Usage returns today's consumption.
func (q *Quota) Usage() models.QuotaUsage {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	remaining := q.limit - q.calls
	if remaining < 0 || q.limit <= 0 {
		remaining = 0
	}
	return models.QuotaUsage{Date: q.day, Calls: q.calls, Limit: q.limit, Remaining: remaining}
}

func (q *Quota) rollover() {
	today := calendar.Today(q.now()).Format("2006-01-02")
	if today != q.day {
		q.day = today
		q.calls = 0
	}
}
