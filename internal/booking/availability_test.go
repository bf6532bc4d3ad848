package booking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// =============================================================================
// INTERVAL SEMANTICS
// =============================================================================

func TestAvailability_BackToBackStaysDoNotConflict(t *testing.T) {
	// GIVEN: all 6 doubles confirmed for [10, 13)
	// WHEN: availability is checked for [13, 15)
	// THEN: check-out day equals check-in day without conflict

	eng, _ := newTestEngine(t)
	ctx := context.Background()
	confirmedBooking(t, eng, clientAlice, sept(10), sept(13), 6)

	av, err := eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(13), CheckOut: sept(15), RoomsNeeded: 6, Strict: true,
	})
	require.NoError(t, err)
	assert.True(t, av.Available)
	assert.Equal(t, 6, av.TotalAvailable)

	// One shared night is enough to conflict.
	av, err = eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(12), CheckOut: sept(14), RoomsNeeded: 1, Strict: true,
	})
	require.NoError(t, err)
	assert.False(t, av.Available)
	assert.Equal(t, 0, av.TotalAvailable)
}

func TestAvailability_InvalidRangeRejected(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.CheckAvailability(context.Background(), booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(15), CheckOut: sept(15), RoomsNeeded: 1,
	})
	assert.True(t, booking.IsKind(err, booking.KindInvalidDateRange))
}

func TestAvailability_UnknownTypeIsItsOwnError(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.CheckAvailability(context.Background(), booking.Query{
		HotelID: 1, RoomType: model.RoomSimple,
		CheckIn: sept(10), CheckOut: sept(12), RoomsNeeded: 1,
	})
	assert.True(t, booking.IsKind(err, booking.KindRoomTypeUnavailable))
}

// =============================================================================
// HOLDS AND STATISTICS
// =============================================================================

func TestAvailability_PendingHoldsCountOnlyInStrictMode(t *testing.T) {
	// GIVEN: a pending booking holding 4 of 6 doubles
	// WHEN: the same range is checked strictly and leniently
	// THEN: strict sees 2 free, lenient sees all 6

	eng, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := eng.Create(ctx, clientAlice, booking.CreateInput{
		HotelID: 1, CheckIn: sept(10), CheckOut: sept(12), Rooms: doubles(4),
	})
	require.NoError(t, err)

	strict, err := eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(10), CheckOut: sept(12), RoomsNeeded: 3, Strict: true,
	})
	require.NoError(t, err)
	assert.False(t, strict.Available)
	assert.Equal(t, 2, strict.TotalAvailable)
	assert.Equal(t, 4, strict.TotalOccupied)

	lenient, err := eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(10), CheckOut: sept(12), RoomsNeeded: 3,
	})
	require.NoError(t, err)
	assert.True(t, lenient.Available)
	assert.Equal(t, 6, lenient.TotalAvailable)
	assert.Equal(t, 0, lenient.TotalOccupied)
}

func TestAvailability_ZeroRoomsNeededReportsStatistics(t *testing.T) {
	// RoomsNeeded 0 is the pure statistics query: always available,
	// counts still reflect current holds.
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	confirmedBooking(t, eng, clientAlice, sept(10), sept(12), 2)

	av, err := eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(10), CheckOut: sept(12), RoomsNeeded: 0, Strict: true,
	})
	require.NoError(t, err)
	assert.True(t, av.Available)
	assert.Equal(t, 4, av.TotalAvailable)
	assert.Equal(t, 2, av.TotalOccupied)
}

func TestAvailability_MaintenanceRoomsNeverCount(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.SetRoomStatus(ctx, admin, 1, model.RoomMaintenance, "deep clean")
	require.NoError(t, err)
	_, err = eng.SetRoomStatus(ctx, admin, 2, model.RoomOutOfOrder, "flood damage")
	require.NoError(t, err)

	av, err := eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(10), CheckOut: sept(12), RoomsNeeded: 5, Strict: true,
	})
	require.NoError(t, err)
	assert.False(t, av.Available)
	assert.Equal(t, 4, av.TotalAvailable)
	assert.NotContains(t, av.CandidateRooms, uint64(1))
	assert.NotContains(t, av.CandidateRooms, uint64(2))
}

func TestAvailability_AssignedRoomsBlockOnlyThemselves(t *testing.T) {
	// GIVEN: a checked-in booking pinned to concrete rooms
	// WHEN: an overlapping range is checked
	// THEN: exactly those rooms drop out of the candidate list

	eng, _ := newTestEngine(t)
	ctx := context.Background()

	b := confirmedBooking(t, eng, clientAlice, sept(10), sept(14), 2)
	b, err := eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{})
	require.NoError(t, err)
	pinned := b.AssignedRoomIDs()
	require.Len(t, pinned, 2)

	av, err := eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(12), CheckOut: sept(13), RoomsNeeded: 4, Strict: true,
	})
	require.NoError(t, err)
	assert.True(t, av.Available)
	assert.Equal(t, 4, av.TotalAvailable)
	for _, id := range pinned {
		assert.NotContains(t, av.CandidateRooms, id)
	}
}

func TestAvailability_ExcludeRemovesOwnHold(t *testing.T) {
	// Re-checking a booking's own dates must not count its own hold.
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	b, err := eng.Create(ctx, clientAlice, booking.CreateInput{
		HotelID: 1, CheckIn: sept(10), CheckOut: sept(12), Rooms: doubles(6),
	})
	require.NoError(t, err)

	with, err := eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(10), CheckOut: sept(12), RoomsNeeded: 6, Strict: true,
	})
	require.NoError(t, err)
	assert.False(t, with.Available)

	without, err := eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(10), CheckOut: sept(12), RoomsNeeded: 6, Strict: true,
		ExcludeBookingID: b.ID,
	})
	require.NoError(t, err)
	assert.True(t, without.Available)
	assert.Equal(t, 6, without.TotalAvailable)
}

func TestAvailability_StatisticsDeriveFromCandidates(t *testing.T) {
	// available + occupied must always equal the bookable room count.
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.Create(ctx, clientAlice, booking.CreateInput{
		HotelID: 1, CheckIn: sept(10), CheckOut: sept(12), Rooms: doubles(3),
	})
	require.NoError(t, err)

	av, err := eng.CheckAvailability(ctx, booking.Query{
		HotelID: 1, RoomType: model.RoomDouble,
		CheckIn: sept(11), CheckOut: sept(13), RoomsNeeded: 0, Strict: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, av.TotalAvailable+av.TotalOccupied)
	assert.Len(t, av.CandidateRooms, av.TotalAvailable)
}
