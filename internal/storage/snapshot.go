package storage

import (
	"sync"
	"time"

	"github.com/guttosm/adrpulse/internal/domain/models"
)

// SnapshotStore defines contract for the latest price snapshot cache.
type SnapshotStore interface {
	Get() (models.PriceSnapshot, bool)
	Put(s models.PriceSnapshot)
	Fresh(now time.Time, ttl time.Duration) (models.PriceSnapshot, bool)
}

type snapshotStore struct {
	mu   sync.RWMutex
	snap models.PriceSnapshot
	ok   bool
}

func NewSnapshotStore() SnapshotStore {
	return &snapshotStore{}
}

// Get returns the last stored snapshot, if any.
func (s *snapshotStore) Get() (models.PriceSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.ok
}

// Put replaces the stored snapshot.
func (s *snapshotStore) Put(snap models.PriceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap, s.ok = snap, true
}

// Fresh returns the stored snapshot only when it was fetched less than ttl
// before now.
func (s *snapshotStore) Fresh(now time.Time, ttl time.Duration) (models.PriceSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok || now.Sub(s.snap.FetchedAt) >= ttl {
		return models.PriceSnapshot{}, false
	}
	return s.snap, true
}
