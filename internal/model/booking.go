package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus enumerates the lifecycle states of a booking.  The
// legal edges between them are owned by the booking engine; no other
// code may move a booking between states.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCheckedIn BookingStatus = "CHECKED_IN"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

// Blocks reports whether a booking in this status consumes inventory.
// Pending bookings hold capacity too: they are soft holds bounded by the
// expiry sweep, so strict availability checks must count them.
func (s BookingStatus) Blocks() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave this status.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingRejected, BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

// Booking records a guest's reservation for one or more rooms over a
// half-open [CheckIn, CheckOut) date range.  A booking mutates through
// its lifetime and is never deleted by the engine.  Room requirements,
// extras and the status history are embedded ordered lists.
//
// Fields:
//  ID               – primary key identifier.
//  Reference        – opaque reference handed to the guest (UUID).
//  HotelID          – hotel being booked.
//  CustomerID       – guest who created the booking.
//  CheckIn, CheckOut – stay bounds, date precision, UTC.  Half-open:
//                     a check-out date equals the next check-in date
//                     without conflict.
//  Guests           – number of guests.
//  Rooms            – room requirements, possibly bound to concrete rooms.
//  Extras           – post-stay charges appended during the stay.
//  TotalPrice       – Σ requirement prices + Σ extras; recomputed on
//                     every extras mutation and at checkout.
//  Status           – current lifecycle state.
//  StatusHistory    – append-only transition log.
//  RefundPercent    – refund percentage applied at cancellation.
//  RefundAmount     – amount refunded at cancellation.
//  CancellationFee  – TotalPrice − RefundAmount.
//  ActualCheckIn    – when the guest physically checked in.
//  ActualCheckOut   – when the guest physically checked out.
type Booking struct {
	ID              uint64             // bookings.id
	Reference       string             // bookings.reference
	HotelID         uint64             // bookings.hotel_id
	CustomerID      uint64             // bookings.customer_id
	CheckIn         time.Time          // bookings.check_in
	CheckOut        time.Time          // bookings.check_out
	Guests          uint32             // bookings.guests
	Rooms           []RoomRequirement  // booking_rooms rows, ordered
	Extras          []Extra            // booking_extras rows, ordered
	TotalPrice      decimal.Decimal    // bookings.total_price
	Status          BookingStatus      // bookings.status
	StatusHistory   []StatusTransition // booking_status_history rows
	PaymentStatus   string             // bookings.payment_status (set at checkout)
	RefundPercent   decimal.Decimal    // bookings.refund_percent
	RefundAmount    decimal.Decimal    // bookings.refund_amount
	CancellationFee decimal.Decimal    // bookings.cancellation_fee
	ActualCheckIn   *time.Time         // bookings.actual_check_in (nullable)
	ActualCheckOut  *time.Time         // bookings.actual_check_out (nullable)
	CreatedAt       time.Time          // bookings.created_at
	UpdatedAt       time.Time          // bookings.updated_at
}

// Overlaps reports whether the booking's stay intersects the half-open
// interval [from, to).
func (b *Booking) Overlaps(from, to time.Time) bool {
	return b.CheckIn.Before(to) && from.Before(b.CheckOut)
}

// Nights returns the number of nights in the stay.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// RecomputeTotal rebuilds TotalPrice from the embedded requirement and
// extra lines.  Derived, never stored independently of its inputs.
func (b *Booking) RecomputeTotal() {
	total := decimal.Zero
	for _, rr := range b.Rooms {
		total = total.Add(rr.CalculatedPrice)
	}
	for _, e := range b.Extras {
		total = total.Add(e.Total())
	}
	b.TotalPrice = total
}

// AssignedRoomIDs returns the IDs of all rooms currently bound to the
// booking's requirements, skipping unassigned entries.
func (b *Booking) AssignedRoomIDs() []uint64 {
	var ids []uint64
	for _, rr := range b.Rooms {
		if rr.RoomID != nil {
			ids = append(ids, *rr.RoomID)
		}
	}
	return ids
}

// Clone returns a deep copy of the booking for in-memory stores.
func (b *Booking) Clone() *Booking {
	cp := *b
	cp.Rooms = make([]RoomRequirement, len(b.Rooms))
	for i, rr := range b.Rooms {
		cp.Rooms[i] = rr
		if rr.RoomID != nil {
			id := *rr.RoomID
			cp.Rooms[i].RoomID = &id
		}
		if rr.AssignedAt != nil {
			at := *rr.AssignedAt
			cp.Rooms[i].AssignedAt = &at
		}
	}
	cp.Extras = append([]Extra(nil), b.Extras...)
	cp.StatusHistory = append([]StatusTransition(nil), b.StatusHistory...)
	if b.ActualCheckIn != nil {
		at := *b.ActualCheckIn
		cp.ActualCheckIn = &at
	}
	if b.ActualCheckOut != nil {
		at := *b.ActualCheckOut
		cp.ActualCheckOut = &at
	}
	return &cp
}

// RoomRequirement is one line item on a booking: a room of a given type,
// priced at creation time and bound to a concrete room at check-in.
//
// Fields:
//  RoomType        – requested category.
//  BasePrice       – nightly base price snapshotted at creation.
//  CalculatedPrice – full stay price for this requirement (base ×
//                    seasonal multiplier × nights).
//  RoomID          – concrete room once assigned, nil before.
//  AssignedAt      – when the assignment was made.
//  AssignedBy      – actor who made the assignment.
type RoomRequirement struct {
	RoomType        RoomType        // booking_rooms.room_type
	BasePrice       decimal.Decimal // booking_rooms.base_price
	CalculatedPrice decimal.Decimal // booking_rooms.calculated_price
	RoomID          *uint64         // booking_rooms.room_id (nullable)
	AssignedAt      *time.Time      // booking_rooms.assigned_at (nullable)
	AssignedBy      uint64          // booking_rooms.assigned_by (0 when unassigned)
}

// Extra is a post-stay charge appended while the guest is checked in or
// as part of the final checkout settlement.
//
// Fields:
//  Name      – human-readable label, e.g. "Minibar".
//  Category  – grouping for invoices, e.g. "FOOD", "SERVICE".
//  UnitPrice – price per unit.
//  Quantity  – number of units.
//  AddedAt   – when the charge was recorded, UTC.
type Extra struct {
	Name      string          // booking_extras.name
	Category  string          // booking_extras.category
	UnitPrice decimal.Decimal // booking_extras.unit_price
	Quantity  uint32          // booking_extras.quantity
	AddedAt   time.Time       // booking_extras.added_at
}

// Total returns UnitPrice × Quantity.
func (e Extra) Total() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// StatusTransition records one lifecycle state change for audit.
// Entries are append-only and the last entry always matches the
// booking's current status.
//
// Fields:
//  From, To  – previous and new status.
//  ActorID   – user who requested the transition (0 for system sweeps).
//  ActorRole – role the actor held at the time.
//  Reason    – mandatory for rejections and cancellations.
//  At        – when the transition was committed, UTC.
type StatusTransition struct {
	From      BookingStatus // booking_status_history.prev_status
	To        BookingStatus // booking_status_history.new_status
	ActorID   uint64        // booking_status_history.actor_id
	ActorRole Role          // booking_status_history.actor_role
	Reason    string        // booking_status_history.reason
	At        time.Time     // booking_status_history.changed_at
}

// BillingSnapshot is the read-only view handed to external invoice
// rendering.  It is assembled from the booking at call time and shares
// no mutable state with it.
type BillingSnapshot struct {
	Reference string            `json:"reference"`
	Nights    int               `json:"nights"`
	Rooms     []BillingRoomLine `json:"rooms"`
	Extras    []BillingExtra    `json:"extras"`
	Total     decimal.Decimal   `json:"total"`
}

// BillingRoomLine is one room requirement on an invoice.
type BillingRoomLine struct {
	RoomType   RoomType        `json:"room_type"`
	RoomNumber *uint32         `json:"room_number,omitempty"`
	Price      decimal.Decimal `json:"price"`
}

// BillingExtra is one extra charge on an invoice.
type BillingExtra struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Unit     decimal.Decimal `json:"unit_price"`
	Quantity uint32          `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}
