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

// =============================================================================
// STAY QUOTES
// =============================================================================

func TestQuoteStay_BaseSeason(t *testing.T) {
	// GIVEN: doubles at 300/night, no seasonal rule in range
	// WHEN: 3 nights for one room are quoted
	// THEN: 3 * 300 * 1.0 = 900

	eng, _ := newTestEngine(t)
	quote, err := eng.QuoteStay(context.Background(), 1, model.RoomDouble, sept(10), sept(13), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, quote.Nights)
	assert.True(t, quote.Multiplier.Equal(price("1")))
	assert.Empty(t, quote.Season)
	assert.True(t, quote.PricePerNight.Equal(price("300")))
	assert.True(t, quote.TotalPrice.Equal(price("900")), "got %s", quote.TotalPrice)
}

func TestQuoteStay_SeasonalMultiplierResolvedAtCheckIn(t *testing.T) {
	// GIVEN: a 1.5x summer rule on doubles covering the check-in date
	// WHEN: 2 rooms are quoted for 2 nights
	// THEN: 2 * 2 * 300 * 1.5 = 1800, and a stay starting after the
	//       season's half-open end is unscaled

	store := memory.New()
	store.PutHotel(&model.Hotel{
		ID:   1,
		Name: "Harbor View",
		SeasonalRates: []model.SeasonalRate{{
			RoomType:   model.RoomDouble,
			Season:     "SUMMER_2026",
			Start:      time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
			End:        time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
			Multiplier: price("1.5"),
		}},
	})
	store.PutRoom(&model.Room{
		ID: 1, HotelID: 1, Number: 201, Floor: 2,
		Type: model.RoomDouble, BasePrice: price("300"), Status: model.RoomAvailable,
	})
	store.PutRoom(&model.Room{
		ID: 2, HotelID: 1, Number: 202, Floor: 2,
		Type: model.RoomDouble, BasePrice: price("300"), Status: model.RoomAvailable,
	})
	eng := booking.New(store, nil, nil).WithClock(func() time.Time { return testNow })
	ctx := context.Background()

	quote, err := eng.QuoteStay(ctx, 1, model.RoomDouble, sept(10), sept(12), 2)
	require.NoError(t, err)
	assert.Equal(t, "SUMMER_2026", quote.Season)
	assert.True(t, quote.PricePerNight.Equal(price("450")))
	assert.True(t, quote.TotalPrice.Equal(price("1800")), "got %s", quote.TotalPrice)

	offSeason, err := eng.QuoteStay(ctx, 1, model.RoomDouble, sept(15), sept(17), 1)
	require.NoError(t, err)
	assert.Empty(t, offSeason.Season, "season end date is exclusive")
	assert.True(t, offSeason.TotalPrice.Equal(price("600")))
}

func TestQuoteStay_SnapshotSurvivesRateChange(t *testing.T) {
	// GIVEN: a booking created under a 2x rule
	// WHEN: the rule is replaced by a neutral one afterwards
	// THEN: the stored booking keeps its original price

	store := newTestStore(t)
	store.PutHotel(&model.Hotel{
		ID:   1,
		Name: "Harbor View",
		SeasonalRates: []model.SeasonalRate{{
			RoomType:   model.RoomDouble,
			Season:     "PEAK",
			Start:      sept(1),
			End:        sept(30),
			Multiplier: price("2"),
		}},
	})
	eng := booking.New(store, nil, nil).WithClock(func() time.Time { return testNow })
	ctx := context.Background()

	b, err := eng.Create(ctx, clientAlice, booking.CreateInput{
		HotelID: 1, CheckIn: sept(10), CheckOut: sept(12), Rooms: doubles(1),
	})
	require.NoError(t, err)
	require.True(t, b.TotalPrice.Equal(price("1200")), "2 nights * 300 * 2.0, got %s", b.TotalPrice)

	store.PutHotel(&model.Hotel{ID: 1, Name: "Harbor View"})
	got, err := eng.Booking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(price("1200")), "snapshot must not reprice")
}

func TestQuoteStay_LowestBookableBasePrice(t *testing.T) {
	// GIVEN: suites at 800 and a cheaper one at 700 under maintenance
	// WHEN: a suite stay is quoted
	// THEN: the maintenance room's price never leaks into the quote

	store := newTestStore(t)
	store.PutRoom(&model.Room{
		ID: 9, HotelID: 1, Number: 303, Floor: 3,
		Type: model.RoomSuite, BasePrice: price("700"), Status: model.RoomMaintenance,
	})
	eng := booking.New(store, nil, nil).WithClock(func() time.Time { return testNow })

	quote, err := eng.QuoteStay(context.Background(), 1, model.RoomSuite, sept(10), sept(11), 1)
	require.NoError(t, err)
	assert.True(t, quote.BasePrice.Equal(price("800")), "got %s", quote.BasePrice)
}

func TestQuoteStay_PartialDayBillsTheStartedNight(t *testing.T) {
	// GIVEN: raw timestamps spanning two and a half days
	// WHEN: the stay is quoted without date truncation
	// THEN: three nights are billed, never two

	eng, _ := newTestEngine(t)
	checkIn := sept(10).Add(12 * time.Hour)
	checkOut := sept(13)
	quote, err := eng.QuoteStay(context.Background(), 1, model.RoomDouble, checkIn, checkOut, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, quote.Nights)
	assert.True(t, quote.TotalPrice.Equal(price("900")), "got %s", quote.TotalPrice)
}

func TestQuoteStay_RejectsZeroNights(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.QuoteStay(context.Background(), 1, model.RoomDouble, sept(10), sept(10), 1)
	assert.True(t, booking.IsKind(err, booking.KindInvalidDateRange))
}

// =============================================================================
// TOTALS
// =============================================================================

func TestRecomputeTotal_RoomsPlusExtras(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	b := confirmedBooking(t, eng, clientAlice, sept(10), sept(13), 1)
	b, err := eng.CheckIn(ctx, receptionist, b.ID, booking.CheckInInput{})
	require.NoError(t, err)

	b, err = eng.AddExtras(ctx, receptionist, b.ID, []booking.ExtraInput{
		{Name: "breakfast", Category: "restaurant", UnitPrice: price("25"), Quantity: 2},
		{Name: "parking", Category: "garage", UnitPrice: price("15"), Quantity: 3},
	})
	require.NoError(t, err)
	// 3*300 stay + 50 + 45
	assert.True(t, b.TotalPrice.Equal(price("995")), "got %s", b.TotalPrice)
	assert.Len(t, b.Extras, 2)
}
