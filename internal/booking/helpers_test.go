package booking_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/storage/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var (
	clientAlice  = model.Actor{ID: 101, Role: model.RoleClient}
	clientBob    = model.Actor{ID: 102, Role: model.RoleClient}
	receptionist = model.Actor{ID: 201, Role: model.RoleReceptionist}
	admin        = model.Actor{ID: 301, Role: model.RoleAdmin}
)

// testNow is the pinned clock for every engine under test: all stays
// in these tests are booked relative to it.
var testNow = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

func sept(day int) time.Time {
	return time.Date(2026, time.September, day, 0, 0, 0, 0, time.UTC)
}

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestStore seeds one hotel with six DOUBLE rooms (201-206, floor 2,
// 300/night) and two SUITE rooms (301-302, floor 3, 800/night).
func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	store.PutHotel(&model.Hotel{ID: 1, Name: "Harbor View"})
	for i := uint64(0); i < 6; i++ {
		store.PutRoom(&model.Room{
			ID:        1 + i,
			HotelID:   1,
			Number:    uint32(201 + i),
			Floor:     2,
			Type:      model.RoomDouble,
			BasePrice: price("300"),
			Status:    model.RoomAvailable,
		})
	}
	for i := uint64(0); i < 2; i++ {
		store.PutRoom(&model.Room{
			ID:        7 + i,
			HotelID:   1,
			Number:    uint32(301 + i),
			Floor:     3,
			Type:      model.RoomSuite,
			BasePrice: price("800"),
			Status:    model.RoomAvailable,
		})
	}
	return store
}

func newTestEngine(t *testing.T) (*booking.Engine, *memory.Store) {
	t.Helper()
	store := newTestStore(t)
	eng := booking.New(store, nil, nil).WithClock(func() time.Time { return testNow })
	return eng, store
}

func doubles(count int) []booking.RoomRequest {
	return []booking.RoomRequest{{RoomType: model.RoomDouble, Count: count}}
}
