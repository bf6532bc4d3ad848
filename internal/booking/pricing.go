package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// StayPrice is the priced answer for one room type over a date range.
type StayPrice struct {
	Nights        int             `json:"nights"`
	RoomCount     int             `json:"room_count"`
	BasePrice     decimal.Decimal `json:"base_price"`
	Multiplier    decimal.Decimal `json:"multiplier"`
	Season        string          `json:"season,omitempty"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// Refund is the cancellation settlement computed from the tier policy.
type Refund struct {
	Percent decimal.Decimal `json:"refund_percent"`
	Amount  decimal.Decimal `json:"refund_amount"`
	Fee     decimal.Decimal `json:"cancellation_fee"`
}

var (
	hundred = decimal.NewFromInt(100)
	fifty   = decimal.NewFromInt(50)
)

// stayPrice computes the price for count rooms of one type.  The
// seasonal multiplier is resolved at the check-in date against the
// hotel's rules, defaulting to 1.0; prices use decimal arithmetic
// throughout so nightly rates never pick up float drift.
func stayPrice(hotel *model.Hotel, roomType model.RoomType, basePrice decimal.Decimal, checkIn, checkOut time.Time, count int) (*StayPrice, error) {
	nights := stayNights(checkIn, checkOut)
	if nights < 1 {
		return nil, errInvalidDateRange("stay must cover at least one night")
	}
	mult := decimal.NewFromInt(1)
	season := ""
	for _, r := range hotel.SeasonalRates {
		if r.Matches(roomType, checkIn) {
			mult = r.Multiplier
			season = r.Season
			break
		}
	}
	perNight := basePrice.Mul(mult)
	return &StayPrice{
		Nights:        nights,
		RoomCount:     count,
		BasePrice:     basePrice,
		Multiplier:    mult,
		Season:        season,
		PricePerNight: perNight,
		TotalPrice:    perNight.Mul(decimal.NewFromInt(int64(nights))).Mul(decimal.NewFromInt(int64(count))),
	}, nil
}

// stayNights counts the billable nights in a range: the number of days
// rounded up, so a quote over raw timestamps that spills past a date
// boundary still bills the started night.  Bookings created through the
// lifecycle carry midnight-truncated dates and divide evenly.
func stayNights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		nights++
	}
	return nights
}

// typeBasePrice returns the nightly base price snapshotted onto a
// requirement before a concrete room is chosen: the lowest base price
// among bookable rooms of the type.  Assignment later prefers cheap
// rooms, so the snapshot matches what the planner will pick.
func typeBasePrice(rooms []*model.Room) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, r := range rooms {
		if !r.Bookable() {
			continue
		}
		if !found || r.BasePrice.LessThan(best) {
			best = r.BasePrice
			found = true
		}
	}
	return best, found
}

// QuoteStay prices a prospective stay without creating anything.  It is
// the read-only face of the pricing calculator for browse flows.
func (e *Engine) QuoteStay(ctx context.Context, hotelID uint64, roomType model.RoomType, checkIn, checkOut time.Time, count int) (*StayPrice, error) {
	var quote *StayPrice
	err := e.store.View(ctx, func(tx Tx) error {
		hotel, err := tx.Hotel(ctx, hotelID)
		if err != nil {
			return err
		}
		rooms, err := tx.RoomsByType(ctx, hotelID, roomType)
		if err != nil {
			return err
		}
		base, ok := typeBasePrice(rooms)
		if !ok {
			return errRoomTypeUnavailable(roomType)
		}
		quote, err = stayPrice(hotel, roomType, base, checkIn, checkOut, count)
		return err
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// refundFor applies the cancellation tier policy: a full refund at 24
// hours or more before check-in, half between 12 and 24 hours, nothing
// under 12 hours.  The fee is whatever the refund does not cover.
func refundFor(total decimal.Decimal, checkIn, now time.Time) Refund {
	hoursLeft := checkIn.Sub(now).Hours()
	var percent decimal.Decimal
	switch {
	case hoursLeft >= 24:
		percent = hundred
	case hoursLeft >= 12:
		percent = fifty
	default:
		percent = decimal.Zero
	}
	amount := total.Mul(percent).Div(hundred)
	return Refund{Percent: percent, Amount: amount, Fee: total.Sub(amount)}
}
