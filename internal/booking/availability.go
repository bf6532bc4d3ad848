package booking

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Query describes one availability question: are RoomsNeeded rooms of
// RoomType free in the hotel for the half-open range [CheckIn, CheckOut)?
//
// Strict mode counts Pending bookings as soft holds; lenient mode
// ignores them.  Every mutating guard runs strict; browse paths may run
// lenient.  ExcludeBookingID removes one booking's own hold from the
// computation when re-checking a booking being modified.  Authoritative
// forces a fresh read even when a cache is configured.
type Query struct {
	HotelID          uint64
	RoomType         model.RoomType
	CheckIn          time.Time
	CheckOut         time.Time
	RoomsNeeded      int
	ExcludeBookingID uint64
	Strict           bool
	Authoritative    bool
}

// Availability is the answer to a Query.  The statistics are derived
// from the room list at answer time, never stored independently, so
// they cannot drift from it.
type Availability struct {
	Available      bool     `json:"available"`
	CandidateRooms []uint64 `json:"candidate_rooms"`
	TotalAvailable int      `json:"total_available"`
	TotalOccupied  int      `json:"total_occupied"`
}

// CheckAvailability answers a Query.  When a cache is configured and
// the query is not authoritative, a memoized answer may be returned;
// mutating operations never call this path and instead re-run
// checkAvailability inside their own transaction.
func (e *Engine) CheckAvailability(ctx context.Context, q Query) (*Availability, error) {
	if !q.CheckIn.Before(q.CheckOut) {
		return nil, errInvalidDateRange("check-out must be after check-in")
	}
	if e.cache != nil && !q.Authoritative {
		if av, ok := e.cache.Get(ctx, cacheKey(q)); ok {
			return av, nil
		}
	}
	var av *Availability
	err := e.store.View(ctx, func(tx Tx) error {
		var err error
		av, err = checkAvailability(ctx, tx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	if e.cache != nil && !q.Authoritative {
		e.cache.Set(ctx, cacheKey(q), av)
	}
	return av, nil
}

// checkAvailability is the authoritative interval computation.  It runs
// against whatever Tx it is handed; inside Store.Update that makes it
// part of the critical section, which is how create/validate/check-in
// close the race between the optimistic pass and the commit.
func checkAvailability(ctx context.Context, tx Tx, q Query) (*Availability, error) {
	rooms, err := tx.RoomsByType(ctx, q.HotelID, q.RoomType)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, errRoomTypeUnavailable(q.RoomType)
	}
	bookable := rooms[:0:0]
	for _, r := range rooms {
		if r.Bookable() {
			bookable = append(bookable, r)
		}
	}

	overlapping, err := tx.BookingsOverlapping(ctx, q.HotelID, q.RoomType, q.CheckIn, q.CheckOut, q.ExcludeBookingID)
	if err != nil {
		return nil, err
	}

	// blocked collects rooms pinned by an overlapping assignment;
	// typeHolds counts overlapping requirements not yet bound to a
	// room, which consume a unit of type capacity rather than a
	// specific room.
	blocked := make(map[uint64]bool)
	typeHolds := 0
	for _, b := range overlapping {
		if !b.Status.Blocks() {
			continue
		}
		if b.Status == model.BookingPending && !q.Strict {
			continue
		}
		if !b.Overlaps(q.CheckIn, q.CheckOut) {
			continue
		}
		for _, rr := range b.Rooms {
			if rr.RoomType != q.RoomType {
				continue
			}
			if rr.RoomID != nil {
				blocked[*rr.RoomID] = true
			} else {
				typeHolds++
			}
		}
	}

	candidates := make([]uint64, 0, len(bookable))
	for _, r := range bookable {
		if !blocked[r.ID] {
			candidates = append(candidates, r.ID)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	// Anonymous type holds consume capacity from the tail of the
	// candidate list so the answer stays deterministic.
	if typeHolds > len(candidates) {
		typeHolds = len(candidates)
	}
	candidates = candidates[:len(candidates)-typeHolds]

	av := &Availability{
		CandidateRooms: candidates,
		TotalAvailable: len(candidates),
		TotalOccupied:  len(bookable) - len(candidates),
	}
	av.Available = q.RoomsNeeded == 0 || av.TotalAvailable >= q.RoomsNeeded
	return av, nil
}

// requireCapacity re-checks availability for every distinct room type a
// booking needs and returns a typed error as soon as one type falls
// short.  It is the shared guard for create and validate.
func requireCapacity(ctx context.Context, tx Tx, b *model.Booking, strict bool) error {
	needed := make(map[model.RoomType]int)
	for _, rr := range b.Rooms {
		needed[rr.RoomType]++
	}
	for roomType, count := range needed {
		av, err := checkAvailability(ctx, tx, Query{
			HotelID:          b.HotelID,
			RoomType:         roomType,
			CheckIn:          b.CheckIn,
			CheckOut:         b.CheckOut,
			RoomsNeeded:      count,
			ExcludeBookingID: b.ID,
			Strict:           strict,
		})
		if err != nil {
			return err
		}
		if !av.Available {
			return errInsufficient(count - av.TotalAvailable)
		}
	}
	return nil
}
