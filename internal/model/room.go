package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType enumerates the physical room categories a hotel offers.
type RoomType string

const (
	RoomSimple        RoomType = "SIMPLE"
	RoomDouble        RoomType = "DOUBLE"
	RoomDoubleComfort RoomType = "DOUBLE_COMFORT"
	RoomSuite         RoomType = "SUITE"
)

// RoomStatus enumerates the operational states of a room.  OCCUPIED is
// owned exclusively by the booking lifecycle (set at check-in, cleared
// at check-out/cancel); MAINTENANCE and OUT_OF_ORDER are staff-driven.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
	RoomOutOfOrder  RoomStatus = "OUT_OF_ORDER"
)

// Room describes a physical room within a hotel.  Rooms are uniquely
// identified by their hotel and number.  The engine mutates only
// Status, CurrentBookingID and the status history; all other fields are
// maintained by the owning CRUD layer.
//
// Fields:
//  ID               – primary key identifier.
//  HotelID          – hotel to which this room belongs.
//  Number           – room number within the hotel (numeric, unique per hotel).
//  Floor            – floor the room is on.
//  Type             – room category (SIMPLE, DOUBLE, DOUBLE_COMFORT, SUITE).
//  BasePrice        – nightly base price before seasonal scaling.
//  Status           – operational status (see RoomStatus).
//  CurrentBookingID – booking currently occupying the room, nil when free.
//  StatusHistory    – append-only log of status changes.
type Room struct {
	ID               uint64             // rooms.id
	HotelID          uint64             // rooms.hotel_id
	Number           uint32             // rooms.room_number
	Floor            int32              // rooms.floor
	Type             RoomType           // rooms.room_type
	BasePrice        decimal.Decimal    // rooms.base_price
	Status           RoomStatus         // rooms.status
	CurrentBookingID *uint64            // rooms.current_booking_id (nullable)
	StatusHistory    []RoomStatusChange // room_status_history rows
	CreatedAt        time.Time          // rooms.created_at
	UpdatedAt        time.Time          // rooms.updated_at
}

// Bookable reports whether the room may appear in availability results
// at all.  Rooms under maintenance or out of order never count toward
// capacity, whatever the date range.
func (r *Room) Bookable() bool {
	return r.Status != RoomMaintenance && r.Status != RoomOutOfOrder
}

// Clone returns a deep copy of the room so in-memory stores can hand
// out values without aliasing the committed state.
func (r *Room) Clone() *Room {
	cp := *r
	if r.CurrentBookingID != nil {
		id := *r.CurrentBookingID
		cp.CurrentBookingID = &id
	}
	cp.StatusHistory = append([]RoomStatusChange(nil), r.StatusHistory...)
	return &cp
}

// RoomStatusChange records one room status mutation for audit.  Entries
// are append-only; past entries are never rewritten.
//
// Fields:
//  From, To – previous and new status.
//  ActorID  – user who caused the change (0 for system sweeps).
//  Reason   – free-form reason, e.g. "CHECK_IN" or "post-stay deep clean".
//  At       – when the change was committed, UTC.
type RoomStatusChange struct {
	From    RoomStatus // room_status_history.prev_status
	To      RoomStatus // room_status_history.new_status
	ActorID uint64     // room_status_history.actor_id
	Reason  string     // room_status_history.reason
	At      time.Time  // room_status_history.changed_at
}
