// Package mysqlstore implements the booking datastore on MySQL.
//
// Update runs its callback inside a SERIALIZABLE transaction so that
// guard checks and writes from two competing calls cannot interleave;
// deadlocks and lock-wait timeouts surface as booking.ErrTxConflict,
// which the engine retries.
package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// Store is a booking.Store backed by a MySQL database.
type Store struct {
	db       *sql.DB
	hotels   *repository.HotelRepo
	rooms    *repository.RoomRepo
	bookings *repository.BookingRepo
}

// New returns a Store over the given database handle.
func New(db *sql.DB) *Store {
	return &Store{
		db:       db,
		hotels:   repository.NewHotelRepo(),
		rooms:    repository.NewRoomRepo(),
		bookings: repository.NewBookingRepo(),
	}
}

// View runs fn in a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(tx booking.Tx) error) error {
	return s.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// Update runs fn in a SERIALIZABLE transaction and commits only if fn
// returns nil.
func (s *Store) Update(ctx context.Context, fn func(tx booking.Tx) error) error {
	return s.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (s *Store) run(ctx context.Context, opts *sql.TxOptions, fn func(tx booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return translate(err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	if err := fn(&sqlTx{tx: tx, store: s}); err != nil {
		return translate(err)
	}
	if err := tx.Commit(); err != nil {
		return translate(err)
	}
	committed = true
	return nil
}

// translate maps driver and repository errors to the sentinels the
// engine understands.  MySQL 1213 is a deadlock, 1205 a lock-wait
// timeout; both mean the transaction lost a serialization race.
func translate(err error) error {
	var my *mysql.MySQLError
	if errors.As(err, &my) && (my.Number == 1213 || my.Number == 1205) {
		return booking.ErrTxConflict
	}
	if errors.Is(err, repository.ErrNotFound) {
		return booking.ErrNotFound
	}
	return err
}

type sqlTx struct {
	tx    *sql.Tx
	store *Store
}

func (t *sqlTx) Hotel(ctx context.Context, hotelID uint64) (*model.Hotel, error) {
	return t.store.hotels.GetTx(ctx, t.tx, hotelID)
}

func (t *sqlTx) Room(ctx context.Context, roomID uint64) (*model.Room, error) {
	return t.store.rooms.GetTx(ctx, t.tx, roomID)
}

func (t *sqlTx) RoomsByType(ctx context.Context, hotelID uint64, roomType model.RoomType) ([]*model.Room, error) {
	return t.store.rooms.ListByTypeTx(ctx, t.tx, hotelID, roomType)
}

func (t *sqlTx) Booking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return t.store.bookings.GetTx(ctx, t.tx, bookingID)
}

func (t *sqlTx) BookingsOverlapping(ctx context.Context, hotelID uint64, roomType model.RoomType, from, to time.Time, excludeID uint64) ([]*model.Booking, error) {
	return t.store.bookings.ListOverlappingTx(ctx, t.tx, hotelID, roomType, from, to, excludeID)
}

func (t *sqlTx) PendingBefore(ctx context.Context, cutoff time.Time) ([]*model.Booking, error) {
	return t.store.bookings.ListPendingBeforeTx(ctx, t.tx, cutoff)
}

func (t *sqlTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	return t.store.bookings.CreateTx(ctx, t.tx, b)
}

func (t *sqlTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
	return t.store.bookings.UpdateTx(ctx, t.tx, b)
}

func (t *sqlTx) UpdateRoom(ctx context.Context, r *model.Room) error {
	return t.store.rooms.UpdateTx(ctx, t.tx, r)
}
