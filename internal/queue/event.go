// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used for booking lifecycle events.  Queues are declared
// durable by both publisher and consumer so declaration stays idempotent.
const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
	QueueBookingCompleted = "booking.completed"
)

// BookingConfirmedEvent is published when staff approve a pending
// booking.  It carries enough information for downstream consumers to
// notify the guest or feed analytics without querying the primary
// database.
type BookingConfirmedEvent struct {
	BookingID   uint64   `json:"booking_id"`
	Reference   string   `json:"reference"`
	HotelID     uint64   `json:"hotel_id"`
	HotelName   string   `json:"hotel_name"`
	CustomerID  uint64   `json:"customer_id"`
	CheckIn     string   `json:"check_in"`
	CheckOut    string   `json:"check_out"`
	RoomTypes   []string `json:"room_types"`
	TotalPrice  string   `json:"total_price"`
	ConfirmedAt string   `json:"confirmed_at"`
}

// BookingCancelledEvent is published when a booking is cancelled,
// whether by the guest, staff or the pending-expiry sweep.  The refund
// figures reflect the tier policy or an admin override.
type BookingCancelledEvent struct {
	BookingID       uint64 `json:"booking_id"`
	Reference       string `json:"reference"`
	HotelID         uint64 `json:"hotel_id"`
	HotelName       string `json:"hotel_name"`
	CustomerID      uint64 `json:"customer_id"`
	Reason          string `json:"reason"`
	RefundPercent   string `json:"refund_percent"`
	RefundAmount    string `json:"refund_amount"`
	CancellationFee string `json:"cancellation_fee"`
	CancelledAt     string `json:"cancelled_at"`
}

// BookingCompletedEvent is published at check-out once billing is
// final.  Invoice rendering consumes it together with the billing
// snapshot.
type BookingCompletedEvent struct {
	BookingID     uint64 `json:"booking_id"`
	Reference     string `json:"reference"`
	HotelID       uint64 `json:"hotel_id"`
	HotelName     string `json:"hotel_name"`
	CustomerID    uint64 `json:"customer_id"`
	Nights        int    `json:"nights"`
	TotalPrice    string `json:"total_price"`
	PaymentStatus string `json:"payment_status"`
	CompletedAt   string `json:"completed_at"`
}
