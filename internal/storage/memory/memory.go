// Package memory provides an in-process implementation of the booking
// store.  A single mutex serializes Update transactions, which makes
// every guard check inside them authoritative by construction.  It
// backs tests and single-process embeddings; multi-process deployments
// use the MySQL store instead.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Store keeps all records in maps guarded by one RWMutex.  Readers
// share the lock; Update holds it exclusively for the whole
// transaction function.
type Store struct {
	mu            sync.RWMutex
	hotels        map[uint64]*model.Hotel
	rooms         map[uint64]*model.Room
	bookings      map[uint64]*model.Booking
	nextBookingID uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		hotels:        make(map[uint64]*model.Hotel),
		rooms:         make(map[uint64]*model.Room),
		bookings:      make(map[uint64]*model.Booking),
		nextBookingID: 1,
	}
}

// PutHotel seeds or replaces a hotel record.  Hotel CRUD lives outside
// the engine; this is the ingestion point for it.
func (s *Store) PutHotel(h *model.Hotel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *h
	cp.SeasonalRates = append([]model.SeasonalRate(nil), h.SeasonalRates...)
	s.hotels[h.ID] = &cp
}

// PutRoom seeds or replaces a room record.
func (s *Store) PutRoom(r *model.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r.Clone()
}

// View runs fn against a read snapshot.
func (s *Store) View(ctx context.Context, fn func(tx booking.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memTx{s: s})
}

// Update runs fn under the exclusive lock.  Mutations are staged on
// deep copies and applied only when fn returns nil, so a guard failure
// leaves no partial state behind.
func (s *Store) Update(ctx context.Context, fn func(tx booking.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTx{
		s:              s,
		writable:       true,
		stagedBookings: make(map[uint64]*model.Booking),
		stagedRooms:    make(map[uint64]*model.Room),
	}
	if err := fn(tx); err != nil {
		return err
	}
	for id, b := range tx.stagedBookings {
		s.bookings[id] = b
	}
	for id, r := range tx.stagedRooms {
		s.rooms[id] = r
	}
	return nil
}

type memTx struct {
	s              *Store
	writable       bool
	stagedBookings map[uint64]*model.Booking
	stagedRooms    map[uint64]*model.Room
}

func (t *memTx) Hotel(ctx context.Context, hotelID uint64) (*model.Hotel, error) {
	h, ok := t.s.hotels[hotelID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *h
	cp.SeasonalRates = append([]model.SeasonalRate(nil), h.SeasonalRates...)
	return &cp, nil
}

func (t *memTx) Room(ctx context.Context, roomID uint64) (*model.Room, error) {
	if r, ok := t.stagedRooms[roomID]; ok {
		return r.Clone(), nil
	}
	r, ok := t.s.rooms[roomID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return r.Clone(), nil
}

func (t *memTx) RoomsByType(ctx context.Context, hotelID uint64, roomType model.RoomType) ([]*model.Room, error) {
	var out []*model.Room
	for id, r := range t.s.rooms {
		if staged, ok := t.stagedRooms[id]; ok {
			r = staged
		}
		if r.HotelID == hotelID && r.Type == roomType {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (t *memTx) Booking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	if b, ok := t.stagedBookings[bookingID]; ok {
		return b.Clone(), nil
	}
	b, ok := t.s.bookings[bookingID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return b.Clone(), nil
}

// allBookings yields every booking visible to the transaction: the
// committed set with staged writes layered on top, staged inserts
// included.
func (t *memTx) allBookings() []*model.Booking {
	var out []*model.Booking
	for id, b := range t.s.bookings {
		if staged, ok := t.stagedBookings[id]; ok {
			b = staged
		}
		out = append(out, b)
	}
	for id, b := range t.stagedBookings {
		if _, committed := t.s.bookings[id]; !committed {
			out = append(out, b)
		}
	}
	return out
}

func (t *memTx) BookingsOverlapping(ctx context.Context, hotelID uint64, roomType model.RoomType, from, to time.Time, excludeID uint64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range t.allBookings() {
		if b.HotelID != hotelID || b.ID == excludeID {
			continue
		}
		if !b.Status.Blocks() || !b.Overlaps(from, to) {
			continue
		}
		for _, rr := range b.Rooms {
			if rr.RoomType == roomType {
				out = append(out, b.Clone())
				break
			}
		}
	}
	return out, nil
}

func (t *memTx) PendingBefore(ctx context.Context, cutoff time.Time) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range t.allBookings() {
		if b.Status == model.BookingPending && !b.CreatedAt.After(cutoff) {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

func (t *memTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	if !t.writable {
		return booking.ErrTxConflict
	}
	b.ID = t.s.nextBookingID
	t.s.nextBookingID++
	t.stagedBookings[b.ID] = b.Clone()
	return nil
}

func (t *memTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
	if !t.writable {
		return booking.ErrTxConflict
	}
	if _, staged := t.stagedBookings[b.ID]; !staged {
		if _, ok := t.s.bookings[b.ID]; !ok {
			return booking.ErrNotFound
		}
	}
	t.stagedBookings[b.ID] = b.Clone()
	return nil
}

func (t *memTx) UpdateRoom(ctx context.Context, r *model.Room) error {
	if !t.writable {
		return booking.ErrTxConflict
	}
	if _, staged := t.stagedRooms[r.ID]; !staged {
		if _, ok := t.s.rooms[r.ID]; !ok {
			return booking.ErrNotFound
		}
	}
	t.stagedRooms[r.ID] = r.Clone()
	return nil
}
