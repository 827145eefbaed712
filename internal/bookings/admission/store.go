package admission

import (
	"sync"
	"time"
)

// CounterStore tracks fixed-window request counts per client key. The store
// is injectable so a shared counter (e.g. an external cache) can replace the
// in-process map without touching the controller logic. Increment must be
// linearizable per key: concurrent bursts from one client may not
// undercount.
type CounterStore interface {
	// Increment records one request for key. If no window is open for the
	// key, or the open window started more than window ago, a fresh window
	// begins at now with count 1. Returns the post-increment count and the
	// start of the window it was counted in.
	Increment(key string, now time.Time, window time.Duration) (count int, windowStart time.Time)

	// Stop releases background resources.
	Stop()
}

type record struct {
	count       int
	windowStart time.Time
}

// InMemoryCounterStore is the process-local CounterStore. Stale keys are
// reset lazily on access and swept periodically so memory stays bounded
// under many distinct clients.
type InMemoryCounterStore struct {
	mu      sync.Mutex
	records map[string]*record
	stopCh  chan struct{}
}

func NewInMemoryCounterStore(sweepInterval time.Duration, window time.Duration) *InMemoryCounterStore {
	store := &InMemoryCounterStore{
		records: make(map[string]*record),
		stopCh:  make(chan struct{}),
	}

	go store.sweep(sweepInterval, window)

	return store
}

func (s *InMemoryCounterStore) Increment(key string, now time.Time, window time.Duration) (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || now.Sub(rec.windowStart) > window {
		rec = &record{count: 1, windowStart: now}
		s.records[key] = rec
		return rec.count, rec.windowStart
	}

	rec.count++
	return rec.count, rec.windowStart
}

func (s *InMemoryCounterStore) sweep(interval time.Duration, window time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, rec := range s.records {
				if now.Sub(rec.windowStart) > window {
					delete(s.records, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryCounterStore) Stop() {
	close(s.stopCh)
}

// Len reports the number of tracked client keys.
func (s *InMemoryCounterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
