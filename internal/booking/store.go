package booking

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ErrNotFound is returned by Tx lookups when no record matches.
var ErrNotFound = errors.New("record not found")

// ErrTxConflict is returned by Store.Update implementations when the
// transaction lost a serialization conflict and may be retried.  The
// engine retries bounded times before surfacing CONCURRENT_MODIFICATION.
var ErrTxConflict = errors.New("transaction conflict")

// Tx is the view of the datastore visible inside one transaction.  All
// reads performed through a Tx passed to Store.Update observe the
// latest committed state, which is what makes in-transaction guard
// checks authoritative.
type Tx interface {
	// Hotel loads a hotel with its seasonal pricing rules.
	Hotel(ctx context.Context, hotelID uint64) (*model.Hotel, error)
	// Room loads a single room with its status history.
	Room(ctx context.Context, roomID uint64) (*model.Room, error)
	// RoomsByType loads all rooms of a type in a hotel, every status
	// included; availability filtering is the engine's job.
	RoomsByType(ctx context.Context, hotelID uint64, roomType model.RoomType) ([]*model.Room, error)
	// Booking loads a booking with its embedded lists.
	Booking(ctx context.Context, bookingID uint64) (*model.Booking, error)
	// BookingsOverlapping returns bookings for the hotel that hold at
	// least one requirement of the given type, are in a blocking status
	// and whose [CheckIn, CheckOut) intersects [from, to).  A zero
	// excludeID excludes nothing.
	BookingsOverlapping(ctx context.Context, hotelID uint64, roomType model.RoomType, from, to time.Time, excludeID uint64) ([]*model.Booking, error)
	// PendingBefore returns Pending bookings created at or before the
	// cutoff, used by the expiry sweep.
	PendingBefore(ctx context.Context, cutoff time.Time) ([]*model.Booking, error)
	// InsertBooking persists a new booking and populates its ID.
	InsertBooking(ctx context.Context, b *model.Booking) error
	// UpdateBooking persists the full current state of a booking,
	// including its embedded lists.
	UpdateBooking(ctx context.Context, b *model.Booking) error
	// UpdateRoom persists a room's status, current booking reference and
	// appended history entries.
	UpdateRoom(ctx context.Context, r *model.Room) error
}

// Store runs functions against the datastore.  View is a read-only
// snapshot suited to browse paths; Update runs fn in a serialized
// transaction and commits only if fn returns nil.  Implementations must
// guarantee that two Update calls touching the same hotel inventory do
// not interleave their guard checks and writes.
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
}
