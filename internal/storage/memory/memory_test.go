package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/storage/memory"
)

func seeded() *memory.Store {
	s := memory.New()
	s.PutHotel(&model.Hotel{ID: 1, Name: "Harbor View"})
	s.PutRoom(&model.Room{
		ID: 1, HotelID: 1, Number: 101, Floor: 1,
		Type: model.RoomDouble, BasePrice: decimal.NewFromInt(300), Status: model.RoomAvailable,
	})
	return s
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	// GIVEN: a transaction that mutates a room and a booking
	// WHEN: the transaction function returns an error after the writes
	// THEN: nothing is visible afterwards

	s := seeded()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, func(tx booking.Tx) error {
		room, err := tx.Room(ctx, 1)
		require.NoError(t, err)
		room.Status = model.RoomMaintenance
		require.NoError(t, tx.UpdateRoom(ctx, room))

		b := &model.Booking{HotelID: 1, CustomerID: 7, Status: model.BookingPending}
		require.NoError(t, tx.InsertBooking(ctx, b))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = s.View(ctx, func(tx booking.Tx) error {
		room, err := tx.Room(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, model.RoomAvailable, room.Status)

		_, err = tx.Booking(ctx, 1)
		assert.ErrorIs(t, err, booking.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdate_StagedReadsSeeOwnWrites(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	var id uint64
	err := s.Update(ctx, func(tx booking.Tx) error {
		b := &model.Booking{
			HotelID: 1, CustomerID: 7, Status: model.BookingPending,
			CheckIn: sept10(), CheckOut: sept12(),
			Rooms: []model.RoomRequirement{{RoomType: model.RoomDouble}},
		}
		require.NoError(t, tx.InsertBooking(ctx, b))
		id = b.ID

		got, err := tx.Booking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), got.CustomerID)

		overlapping, err := tx.BookingsOverlapping(ctx, 1, model.RoomDouble, sept10(), sept12(), 0)
		require.NoError(t, err)
		assert.Len(t, overlapping, 1, "staged insert visible to overlap scan")
		return nil
	})
	require.NoError(t, err)

	err = s.View(ctx, func(tx booking.Tx) error {
		_, err := tx.Booking(ctx, id)
		return err
	})
	require.NoError(t, err, "committed after fn returned nil")
}

func TestTx_ClonesDoNotAliasCommittedState(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	err := s.View(ctx, func(tx booking.Tx) error {
		room, err := tx.Room(ctx, 1)
		require.NoError(t, err)
		room.Status = model.RoomOutOfOrder
		return nil
	})
	require.NoError(t, err)

	err = s.View(ctx, func(tx booking.Tx) error {
		room, err := tx.Room(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, model.RoomAvailable, room.Status, "mutating a read copy must not leak")
		return nil
	})
	require.NoError(t, err)
}

func sept10() time.Time { return time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC) }
func sept12() time.Time { return time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC) }
