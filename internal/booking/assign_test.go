package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/storage/memory"
)

// newAssignEngine seeds a layout built for planner tests:
//
//	floor 1: doubles 101-103 at 280
//	floor 2: doubles 201-203 at 300, double 205 at 260 (gap at 204)
//	floor 3: suites 301-302 at 800
func newAssignEngine(t *testing.T) (*booking.Engine, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.PutHotel(&model.Hotel{ID: 1, Name: "Harbor View"})

	add := func(id uint64, number uint32, floor int32, rt model.RoomType, base string) {
		store.PutRoom(&model.Room{
			ID: id, HotelID: 1, Number: number, Floor: floor,
			Type: rt, BasePrice: price(base), Status: model.RoomAvailable,
		})
	}
	add(1, 101, 1, model.RoomDouble, "280")
	add(2, 102, 1, model.RoomDouble, "280")
	add(3, 103, 1, model.RoomDouble, "280")
	add(4, 201, 2, model.RoomDouble, "300")
	add(5, 202, 2, model.RoomDouble, "300")
	add(6, 203, 2, model.RoomDouble, "300")
	add(7, 205, 2, model.RoomDouble, "260")
	add(8, 301, 3, model.RoomSuite, "800")
	add(9, 302, 3, model.RoomSuite, "800")

	eng := booking.New(store, nil, nil).WithClock(func() time.Time { return testNow })
	return eng, store
}

func checkedInRooms(t *testing.T, eng *booking.Engine, b *model.Booking) map[uint64]*model.Room {
	t.Helper()
	out := make(map[uint64]*model.Room)
	for _, id := range b.AssignedRoomIDs() {
		out[id] = roomByID(t, eng, id)
	}
	return out
}

// =============================================================================
// AUTOMATIC PLANNING
// =============================================================================

func TestCheckIn_PicksCheapestRoomByDefault(t *testing.T) {
	eng, _ := newAssignEngine(t)
	ctx := context.Background()

	b := confirmedBooking(t, eng, clientAlice, sept(10), sept(12), 1)
	b, err := eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{})
	require.NoError(t, err)

	require.Len(t, b.AssignedRoomIDs(), 1)
	assert.Equal(t, uint64(7), b.AssignedRoomIDs()[0], "room 205 at 260 is the cheapest double")
}

func TestCheckIn_PreferredFloorRanksFirst(t *testing.T) {
	// GIVEN: a confirmed booking for one double
	// WHEN: check-in prefers floor 1
	// THEN: a floor-1 room wins even though floor 2 has the cheapest room

	eng, _ := newAssignEngine(t)
	ctx := context.Background()

	b := confirmedBooking(t, eng, clientAlice, sept(10), sept(12), 1)
	floor := int32(1)
	b, err := eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{
		Preferences: booking.Preferences{PreferredFloor: &floor},
	})
	require.NoError(t, err)

	rooms := checkedInRooms(t, eng, b)
	require.Len(t, rooms, 1)
	for _, r := range rooms {
		assert.Equal(t, int32(1), r.Floor)
	}
}

func TestCheckIn_AdjacentRunPrefersCheapestWindow(t *testing.T) {
	// GIVEN: contiguous triples on floors 1 (3*280) and 2 (3*300)
	// WHEN: three doubles check in asking for adjacent rooms
	// THEN: the cheaper floor-1 run 101-103 is picked

	eng, _ := newAssignEngine(t)
	ctx := context.Background()

	b := confirmedBooking(t, eng, clientAlice, sept(10), sept(12), 3)
	b, err := eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{
		Preferences: booking.Preferences{AdjacentRooms: true},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uint64{1, 2, 3}, b.AssignedRoomIDs())
}

func TestCheckIn_AdjacentRunHonorsPreferredFloor(t *testing.T) {
	eng, _ := newAssignEngine(t)
	ctx := context.Background()

	b := confirmedBooking(t, eng, clientAlice, sept(10), sept(12), 3)
	floor := int32(2)
	b, err := eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{
		Preferences: booking.Preferences{AdjacentRooms: true, PreferredFloor: &floor},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uint64{4, 5, 6}, b.AssignedRoomIDs(), "201-203 despite the cheaper floor-1 run")
}

func TestCheckIn_AdjacencyIsASoftPreference(t *testing.T) {
	// GIVEN: no contiguous triple exists (102 and 202 are under maintenance)
	// WHEN: three doubles ask for adjacent rooms
	// THEN: check-in still succeeds with individually ranked rooms

	eng, _ := newAssignEngine(t)
	ctx := context.Background()

	b := confirmedBooking(t, eng, clientAlice, sept(10), sept(12), 3)
	for _, roomID := range []uint64{2, 5} {
		_, err := eng.SetRoomStatus(ctx, admin, roomID, model.RoomMaintenance, "repaint")
		require.NoError(t, err)
	}

	b, err := eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{
		Preferences: booking.Preferences{AdjacentRooms: true},
	})
	require.NoError(t, err)
	assert.Len(t, b.AssignedRoomIDs(), 3)
	assert.NotContains(t, b.AssignedRoomIDs(), uint64(2))
	assert.NotContains(t, b.AssignedRoomIDs(), uint64(5))
}

// =============================================================================
// EXPLICIT PICKS
// =============================================================================

func TestCheckIn_ExplicitPickWins(t *testing.T) {
	eng, _ := newAssignEngine(t)
	ctx := context.Background()

	b := confirmedBooking(t, eng, clientAlice, sept(10), sept(12), 2)
	b, err := eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{
		Assignments: []booking.Assignment{{RequirementIndex: 0, RoomID: 4}},
	})
	require.NoError(t, err)

	require.NotNil(t, b.Rooms[0].RoomID)
	assert.Equal(t, uint64(4), *b.Rooms[0].RoomID)
	require.NotNil(t, b.Rooms[1].RoomID, "remaining requirement planned automatically")
	assert.NotEqual(t, uint64(4), *b.Rooms[1].RoomID)
	assert.Equal(t, receptionist.ID, b.Rooms[0].AssignedBy)
}

func TestCheckIn_ExplicitPickValidation(t *testing.T) {
	eng, _ := newAssignEngine(t)
	ctx := context.Background()

	b := confirmedBooking(t, eng, clientAlice, sept(10), sept(12), 1)

	_, err := eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{
		Assignments: []booking.Assignment{{RequirementIndex: 5, RoomID: 4}},
	})
	assert.True(t, booking.IsKind(err, booking.KindAssignmentFailed), "index out of range")

	_, err = eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{
		Assignments: []booking.Assignment{{RequirementIndex: 0, RoomID: 8}},
	})
	assert.True(t, booking.IsKind(err, booking.KindRoomNoLongerAvailable), "suite cannot serve a double requirement")

	got, err := eng.Booking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status, "failed check-in leaves the booking untouched")
	assert.Empty(t, got.AssignedRoomIDs())
}

// =============================================================================
// ATOMICITY
// =============================================================================

func TestCheckIn_FailureAssignsNothing(t *testing.T) {
	// GIVEN: a confirmed booking for both suites, one of which is now
	//        under maintenance
	// WHEN: check-in runs
	// THEN: ASSIGNMENT_FAILED names the unsatisfiable requirement and no
	//       room or booking state was touched

	eng, _ := newAssignEngine(t)
	ctx := context.Background()

	b, err := eng.Create(ctx, clientAlice, booking.CreateInput{
		HotelID: 1, CheckIn: sept(10), CheckOut: sept(12),
		Rooms: []booking.RoomRequest{{RoomType: model.RoomSuite, Count: 2}},
	})
	require.NoError(t, err)
	b, err = eng.Validate(ctx, admin, b.ID, true, "")
	require.NoError(t, err)

	_, err = eng.SetRoomStatus(ctx, admin, 9, model.RoomMaintenance, "water damage")
	require.NoError(t, err)

	_, err = eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{})
	require.True(t, booking.IsKind(err, booking.KindAssignmentFailed))
	var engineErr *booking.Error
	require.ErrorAs(t, err, &engineErr)
	assert.Len(t, engineErr.Requirements, 1)

	got, err := eng.Booking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)
	assert.Empty(t, got.AssignedRoomIDs())

	suite := roomByID(t, eng, 8)
	assert.Equal(t, model.RoomAvailable, suite.Status)
	assert.Nil(t, suite.CurrentBookingID)
}

func TestCheckIn_TwoBookingsNeverShareARoom(t *testing.T) {
	// GIVEN: two confirmed bookings covering all 7 doubles between them
	// WHEN: both check in
	// THEN: no room appears in both assignments

	eng, _ := newAssignEngine(t)
	ctx := context.Background()

	a := confirmedBooking(t, eng, clientAlice, sept(10), sept(12), 4)
	b := confirmedBooking(t, eng, clientBob, sept(10), sept(12), 3)

	a, err := eng.CheckIn(ctx, receptionist, a.ID, booking.CheckInInput{})
	require.NoError(t, err)
	b, err = eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{})
	require.NoError(t, err)

	seen := make(map[uint64]bool)
	for _, id := range append(a.AssignedRoomIDs(), b.AssignedRoomIDs()...) {
		assert.False(t, seen[id], "room %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, 7)
}
