package booking

import (
	"context"
	"fmt"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Cache memoizes availability answers for high-traffic browse paths.
// It is advisory only: every state-changing operation performs its
// guard check against the latest committed data inside the store
// transaction, never against the cache.  Implementations must be safe
// for concurrent use.
//
// Invalidate drops every memoized answer for a (hotel, room type)
// pair.  The engine fires it on each transition that alters occupancy;
// dropping the whole pair rather than individual date windows keeps
// invalidation correct without interval bookkeeping.
type Cache interface {
	Get(ctx context.Context, key string) (*Availability, bool)
	Set(ctx context.Context, key string, av *Availability)
	Invalidate(ctx context.Context, hotelID uint64, roomType model.RoomType)
}

// cacheKey builds a stable key for a query.  The (hotel, room type)
// prefix matches the granularity Invalidate operates on.  Every field
// that changes the answer is part of the key, including the excluded
// booking id: a modification check must never share an entry with the
// plain browse query.
func cacheKey(q Query) string {
	return fmt.Sprintf("%s:%s:%s:%d:%t:%d",
		CacheScope(q.HotelID, q.RoomType),
		q.CheckIn.Format("2006-01-02"), q.CheckOut.Format("2006-01-02"),
		q.RoomsNeeded, q.Strict, q.ExcludeBookingID)
}

// CacheScope returns the key prefix shared by all queries for one
// (hotel, room type) pair.  Cache implementations invalidate by this
// prefix.
func CacheScope(hotelID uint64, roomType model.RoomType) string {
	return fmt.Sprintf("%d:%s", hotelID, roomType)
}

// invalidate drops cached answers for every room type the booking
// touches.  Called after each committed transition.
func (e *Engine) invalidate(ctx context.Context, b *model.Booking) {
	if e.cache == nil {
		return
	}
	seen := make(map[model.RoomType]bool)
	for _, rr := range b.Rooms {
		if !seen[rr.RoomType] {
			seen[rr.RoomType] = true
			e.cache.Invalidate(ctx, b.HotelID, rr.RoomType)
		}
	}
}
