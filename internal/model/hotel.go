package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Hotel carries the slice of hotel state the engine reads: identity and
// the seasonal pricing rules used to resolve nightly multipliers.  Hotel
// records are created and maintained elsewhere; the engine never writes
// them, and prices are snapshotted onto bookings at creation time so a
// later rule change cannot reprice a live booking.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name, carried into notification events.
//  SeasonalRates – ordered pricing rules; first match wins.
type Hotel struct {
	ID            uint64         // hotels.id
	Name          string         // hotels.name
	SeasonalRates []SeasonalRate // hotel_seasonal_rates rows, ordered by id
}

// SeasonalRate scales the base price of a room type inside a date
// window.  Windows use half-open [Start, End) semantics so back-to-back
// seasons never overlap on the boundary date.
//
// Fields:
//  RoomType   – room type the rule applies to.
//  Season     – label for auditing (e.g. "SUMMER_2026").
//  Start, End – window bounds, date precision, UTC.
//  Multiplier – factor applied to the room's base price.
type SeasonalRate struct {
	RoomType   RoomType        // hotel_seasonal_rates.room_type
	Season     string          // hotel_seasonal_rates.season
	Start      time.Time       // hotel_seasonal_rates.starts_on
	End        time.Time       // hotel_seasonal_rates.ends_on
	Multiplier decimal.Decimal // hotel_seasonal_rates.multiplier
}

// Matches reports whether the rule applies to the given room type on
// the given date.
func (r SeasonalRate) Matches(roomType RoomType, date time.Time) bool {
	if r.RoomType != roomType {
		return false
	}
	return !date.Before(r.Start) && date.Before(r.End)
}

// MultiplierFor resolves the seasonal multiplier for a room type at the
// given date by scanning the hotel's rules in order.  When no rule
// matches, the neutral multiplier 1.0 is returned.
func (h *Hotel) MultiplierFor(roomType RoomType, date time.Time) decimal.Decimal {
	for _, r := range h.SeasonalRates {
		if r.Matches(roomType, date) {
			return r.Multiplier
		}
	}
	return decimal.NewFromInt(1)
}
