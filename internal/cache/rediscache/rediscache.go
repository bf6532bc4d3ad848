// Package rediscache is the Redis-backed availability cache used when
// several processes serve the same inventory.  Entries are JSON
// payloads under a configurable prefix; invalidation deletes every key
// in a (hotel, room type) scope.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Cache adapts a Redis client to the engine's cache contract.  All
// operations degrade silently: a Redis hiccup turns into a cache miss,
// never into a failed availability check.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New returns a cache storing entries under prefix with the given TTL.
func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(k string) string { return c.prefix + ":" + k }

// Get returns the memoized answer for key, if present.
func (c *Cache) Get(ctx context.Context, key string) (*booking.Availability, bool) {
	bs, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var av booking.Availability
	if err := json.Unmarshal(bs, &av); err != nil {
		return nil, false
	}
	return &av, true
}

// Set memoizes an answer under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, av *booking.Availability) {
	bs, err := json.Marshal(av)
	if err != nil {
		return
	}
	_ = c.rdb.SetEx(ctx, c.key(key), bs, c.ttl).Err()
}

// Invalidate deletes every entry in the (hotel, room type) scope using
// SCAN so large keyspaces are walked incrementally.
func (c *Cache) Invalidate(ctx context.Context, hotelID uint64, roomType model.RoomType) {
	pattern := c.key(booking.CacheScope(hotelID, roomType)) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() != nil || len(keys) == 0 {
		return
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
