// Package memcache is the in-process availability cache.  It pairs
// with the memory store for single-process deployments and tests;
// multi-process deployments share answers through the Redis cache
// instead.
package memcache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

type entry struct {
	av        *booking.Availability
	expiresAt time.Time
}

// Cache memoizes availability answers with a TTL.  The clock is
// injected so expiry is testable; construct once per process.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New returns a cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the memoized answer for key, if present and fresh.
func (c *Cache) Get(ctx context.Context, key string) (*booking.Availability, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	cp := *e.av
	cp.CandidateRooms = append([]uint64(nil), e.av.CandidateRooms...)
	return &cp, true
}

// Set memoizes an answer under key.
func (c *Cache) Set(ctx context.Context, key string, av *booking.Availability) {
	cp := *av
	cp.CandidateRooms = append([]uint64(nil), av.CandidateRooms...)
	c.mu.Lock()
	c.entries[key] = entry{av: &cp, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops every entry for the (hotel, room type) pair.
func (c *Cache) Invalidate(ctx context.Context, hotelID uint64, roomType model.RoomType) {
	prefix := booking.CacheScope(hotelID, roomType) + ":"
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
