package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricepulse/compare-cli/internal/model"
)

func sampleRecords() []model.Record {
	return []model.Record{
		{Name: "iPhone 16 128GB", RawPrice: "₹79,999", Link: "https://example.com/a", PriceValue: 79999},
		{Name: "iPhone 16 256GB", RawPrice: "₹89,999", Link: "https://example.com/b", PriceValue: 89999},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := New(5 * time.Minute)
	records := sampleRecords()

	s.Put("flipkart", "iphone 16", records)
	got, ok := s.Get("flipkart", "iphone 16")
	require.True(t, ok)
	assert.Equal(t, records, got)
}

func TestStore_MissOnUnknownKey(t *testing.T) {
	s := New(5 * time.Minute)
	s.Put("flipkart", "iphone 16", sampleRecords())

	_, ok := s.Get("croma", "iphone 16")
	assert.False(t, ok, "different source must be a separate key")
	_, ok = s.Get("flipkart", "galaxy s24")
	assert.False(t, ok, "different query must be a separate key")
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	s := New(5 * time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Put("flipkart", "iphone 16", sampleRecords())

	now = now.Add(5*time.Minute - time.Second)
	_, ok := s.Get("flipkart", "iphone 16")
	assert.True(t, ok, "entry should be fresh just inside the TTL")

	now = now.Add(2 * time.Second)
	_, ok = s.Get("flipkart", "iphone 16")
	assert.False(t, ok, "entry older than TTL must never be returned as fresh")

	// Lazy eviction removed the stale entry.
	assert.Equal(t, 0, s.Stats().Entries)
}

func TestStore_PutRefreshesExpiredEntry(t *testing.T) {
	s := New(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Put("croma", "tv", sampleRecords()[:1])
	now = now.Add(2 * time.Minute)

	fresh := sampleRecords()
	s.Put("croma", "tv", fresh)
	got, ok := s.Get("croma", "tv")
	require.True(t, ok)
	assert.Equal(t, fresh, got)
}

func TestStore_LastWriteWins(t *testing.T) {
	s := New(5 * time.Minute)
	s.Put("amazon", "iphone", sampleRecords()[:1])
	s.Put("amazon", "iphone", sampleRecords())

	got, ok := s.Get("amazon", "iphone")
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestStore_Stats(t *testing.T) {
	s := New(5 * time.Minute)
	s.Put("flipkart", "iphone", sampleRecords())

	s.Get("flipkart", "iphone")
	s.Get("flipkart", "iphone")
	s.Get("flipkart", "missing")

	stats := s.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 1e-9)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New(5 * time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			query := fmt.Sprintf("query-%d", n%4)
			for j := 0; j < 100; j++ {
				s.Put("flipkart", query, sampleRecords())
				s.Get("flipkart", query)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, s.Stats().Entries)
}

func TestNew_NonPositiveTTLFallsBack(t *testing.T) {
	s := New(0)
	assert.Equal(t, DefaultTTL, s.ttl)
}
