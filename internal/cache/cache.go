// Package cache memoizes normalized source records per (source, query) for
// a bounded time window. Cache lifetime is the process lifetime; growth over
// the query space is unbounded, which is acceptable at the low query
// cardinality this tool targets.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pricepulse/compare-cli/internal/model"
)

// DefaultTTL is how long a cached result set is considered fresh.
const DefaultTTL = 5 * time.Minute

// Store is a concurrent-safe in-memory result cache with TTL expiration.
// Expired entries are evicted lazily on lookup; Put is last-write-wins.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*storeEntry
	ttl     time.Duration
	hits    atomic.Int64
	misses  atomic.Int64
	now     func() time.Time // injectable for testing
}

type storeEntry struct {
	records  []model.Record
	storedAt time.Time
}

// Stats contains cache performance counters.
type Stats struct {
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// New creates a Store with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]*storeEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// key builds the cache key. The query is expected to be normalized by the
// caller so that equivalent queries share an entry.
func key(source, query string) string {
	return source + "\x00" + query
}

// Get returns the cached records for (source, query) if a fresh entry
// exists. An entry older than the TTL is removed and reported as a miss.
func (s *Store) Get(source, query string) ([]model.Record, bool) {
	k := key(source, query)

	s.mu.RLock()
	entry, ok := s.entries[k]
	s.mu.RUnlock()

	if ok && s.now().Sub(entry.storedAt) < s.ttl {
		s.hits.Add(1)
		return entry.records, true
	}

	if ok {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry.
		if cur, still := s.entries[k]; still && s.now().Sub(cur.storedAt) >= s.ttl {
			delete(s.entries, k)
		}
		s.mu.Unlock()
	}

	s.misses.Add(1)
	return nil, false
}

// Put stores records for (source, query), replacing any existing entry.
func (s *Store) Put(source, query string, records []model.Record) {
	k := key(source, query)

	s.mu.Lock()
	s.entries[k] = &storeEntry{records: records, storedAt: s.now()}
	s.mu.Unlock()
}

// Stats returns cache performance counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	entries := len(s.entries)
	s.mu.RUnlock()

	hits := s.hits.Load()
	misses := s.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Entries: entries,
		Hits:    hits,
		Misses:  misses,
		HitRate: hitRate,
	}
}
