package quota

import (
	"context"
	"sync"
	"time"

	"github.com/ultrascore/backend/internal/domain"
)

const defaultSweepInterval = 10 * time.Minute

// counter is the usage of one key with its expiration
type counter struct {
	Count      int
	Expiration time.Time
}

// MemoryStore is a thread-safe in-memory quota store with per-key expiry
type MemoryStore struct {
	data  map[string]counter
	mutex sync.RWMutex
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryStore creates a new in-memory quota store. Expired counters are
// swept every sweepInterval until Close is called.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}

	store := &MemoryStore{
		data: make(map[string]counter),
		now:  time.Now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go store.sweepExpired(sweepInterval)

	return store
}

// Count returns the live usage for key
func (s *MemoryStore) Count(ctx context.Context, key string) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[key]
	if !exists || !s.now().Before(item.Expiration) {
		return 0, domain.ErrQuotaMiss
	}

	return item.Count, nil
}

// Increment adds one use for key and pushes its expiry out to now+window
func (s *MemoryStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	item, exists := s.data[key]
	if !exists || !now.Before(item.Expiration) {
		item = counter{}
	}

	item.Count++
	item.Expiration = now.Add(window)
	s.data[key] = item

	return item.Count, nil
}

// Size returns the number of tracked keys, expired or not
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Close stops the sweeper goroutine
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	return nil
}

func (s *MemoryStore) sweepExpired(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	for key, item := range s.data {
		if !now.Before(item.Expiration) {
			delete(s.data, key)
		}
	}
}
