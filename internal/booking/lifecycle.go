package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// allowedNext is the closed edge table of the booking state machine.
// A transition not listed here never happens, whatever the caller.
var allowedNext = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingRejected, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCheckedIn, model.BookingCancelled, model.BookingNoShow},
	model.BookingCheckedIn: {model.BookingCompleted},
}

func canTransition(from, to model.BookingStatus) bool {
	for _, next := range allowedNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transition moves the booking to the target status and appends the
// audit entry.  Callers must have verified the edge is legal; this
// enforces it once more so a programming error cannot skip an edge.
func (e *Engine) transition(b *model.Booking, to model.BookingStatus, actor model.Actor, reason string) error {
	if !canTransition(b.Status, to) {
		return errInvalidTransition(b.Status, allowedNext[b.Status]...)
	}
	now := e.now().UTC()
	b.StatusHistory = append(b.StatusHistory, model.StatusTransition{
		From:      b.Status,
		To:        to,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Reason:    reason,
		At:        now,
	})
	b.Status = to
	b.UpdatedAt = now
	return nil
}

// releaseRooms frees every room assigned to the booking, appending a
// status history entry on each.  Used by cancel and no-show paths.
func releaseRooms(ctx context.Context, tx Tx, b *model.Booking, actor model.Actor, reason string, at time.Time) error {
	for _, id := range b.AssignedRoomIDs() {
		room, err := tx.Room(ctx, id)
		if err != nil {
			return err
		}
		room.StatusHistory = append(room.StatusHistory, model.RoomStatusChange{
			From:    room.Status,
			To:      model.RoomAvailable,
			ActorID: actor.ID,
			Reason:  reason,
			At:      at,
		})
		room.Status = model.RoomAvailable
		room.CurrentBookingID = nil
		room.UpdatedAt = at
		if err := tx.UpdateRoom(ctx, room); err != nil {
			return err
		}
	}
	return nil
}

// day truncates a timestamp to date precision in UTC.  All stay bounds
// are stored at this precision.
func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RoomRequest asks for count rooms of one type on a new booking.
type RoomRequest struct {
	RoomType model.RoomType
	Count    int
}

// CreateInput carries everything needed to open a booking.
type CreateInput struct {
	HotelID    uint64
	CustomerID uint64
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     uint32
	Rooms      []RoomRequest
}

// Create opens a booking in PENDING after verifying capacity for every
// requested room type.  Prices are snapshotted here: later seasonal
// rule changes never reprice the booking.  No concrete room is
// assigned yet; the pending booking holds type capacity until it is
// validated, cancelled or swept by expiry.
func (e *Engine) Create(ctx context.Context, actor model.Actor, in CreateInput) (*model.Booking, error) {
	if err := requireRole(actor, opCreate); err != nil {
		return nil, err
	}
	if actor.Role == model.RoleClient && in.CustomerID != 0 && in.CustomerID != actor.ID {
		return nil, errForbidden(actor.Role, "create a booking for another customer")
	}
	if in.CustomerID == 0 {
		in.CustomerID = actor.ID
	}

	checkIn, checkOut := day(in.CheckIn), day(in.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, errInvalidDateRange("check-out must be after check-in")
	}
	if checkIn.Before(day(e.now())) {
		return nil, errInvalidDateRange("check-in date is in the past")
	}
	total := 0
	for _, rr := range in.Rooms {
		if rr.Count > 0 {
			total += rr.Count
		}
	}
	if total == 0 {
		return nil, &Error{Kind: KindInsufficientAvailability, Message: "at least one room must be requested"}
	}

	now := e.now().UTC()
	b := &model.Booking{
		Reference:  uuid.NewString(),
		HotelID:    in.HotelID,
		CustomerID: in.CustomerID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     in.Guests,
		Status:     model.BookingPending,
		CreatedAt:  now,
		UpdatedAt:  now,
		StatusHistory: []model.StatusTransition{{
			To:        model.BookingPending,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Reason:    "CREATED",
			At:        now,
		}},
	}

	err := e.update(ctx, func(tx Tx) error {
		hotel, err := tx.Hotel(ctx, in.HotelID)
		if err != nil {
			return err
		}
		b.Rooms = b.Rooms[:0]
		for _, req := range in.Rooms {
			if req.Count <= 0 {
				continue
			}
			rooms, err := tx.RoomsByType(ctx, in.HotelID, req.RoomType)
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				return errRoomTypeUnavailable(req.RoomType)
			}
			base, ok := typeBasePrice(rooms)
			if !ok {
				return errRoomTypeUnavailable(req.RoomType)
			}
			price, err := stayPrice(hotel, req.RoomType, base, checkIn, checkOut, 1)
			if err != nil {
				return err
			}
			for i := 0; i < req.Count; i++ {
				b.Rooms = append(b.Rooms, model.RoomRequirement{
					RoomType:        req.RoomType,
					BasePrice:       base,
					CalculatedPrice: price.TotalPrice,
				})
			}
		}
		// Authoritative capacity guard inside the critical section:
		// two racing creates cannot both pass and both commit.
		if err := requireCapacity(ctx, tx, b, true); err != nil {
			return err
		}
		b.RecomputeTotal()
		return tx.InsertBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	e.invalidate(ctx, b)
	return b, nil
}

// Validate approves or rejects a pending booking.  Approval re-runs
// the availability guard authoritatively because time has passed since
// creation; when capacity is gone the call fails with
// ROOM_NO_LONGER_AVAILABLE and the booking stays PENDING for the
// caller to retry or cancel.  Rejection requires a reason.
func (e *Engine) Validate(ctx context.Context, actor model.Actor, bookingID uint64, approve bool, reason string) (*model.Booking, error) {
	if err := requireRole(actor, opValidate); err != nil {
		return nil, err
	}
	if !approve && reason == "" {
		return nil, &Error{Kind: KindInvalidStateTransition, Message: "rejection requires a reason"}
	}

	var b *model.Booking
	var ev queue.BookingConfirmedEvent
	err := e.update(ctx, func(tx Tx) error {
		var err error
		b, err = tx.Booking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingPending {
			return errInvalidTransition(b.Status, allowedNext[b.Status]...)
		}
		if !approve {
			if err := e.transition(b, model.BookingRejected, actor, reason); err != nil {
				return err
			}
			return tx.UpdateBooking(ctx, b)
		}
		if err := requireCapacity(ctx, tx, b, true); err != nil {
			if IsKind(err, KindInsufficientAvailability) {
				return errNoLongerAvailable("capacity was consumed since the booking was created")
			}
			return err
		}
		if err := e.transition(b, model.BookingConfirmed, actor, reasonOr(reason, "APPROVED")); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		hotel, err := tx.Hotel(ctx, b.HotelID)
		if err != nil {
			return err
		}
		ev = e.confirmedEvent(b, hotel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.invalidate(ctx, b)
	if approve {
		e.notifyConfirmed(ctx, ev)
	}
	return b, nil
}

// CheckInInput carries explicit room picks and soft preferences for
// the assignment planner.  Requirements without an explicit pick are
// assigned automatically.
type CheckInInput struct {
	Assignments []Assignment
	Preferences Preferences
}

// CheckIn binds every requirement to a concrete AVAILABLE room, marks
// those rooms OCCUPIED and moves the booking to CHECKED_IN.  The whole
// operation is atomic: if any requirement cannot be satisfied, nothing
// is persisted.
func (e *Engine) CheckIn(ctx context.Context, actor model.Actor, bookingID uint64, in CheckInInput) (*model.Booking, error) {
	if err := requireRole(actor, opCheckIn); err != nil {
		return nil, err
	}

	var b *model.Booking
	err := e.update(ctx, func(tx Tx) error {
		var err error
		b, err = tx.Booking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingConfirmed {
			return errInvalidTransition(b.Status, allowedNext[b.Status]...)
		}
		now := e.now().UTC()

		if err := applyExplicitAssignments(ctx, tx, b, in.Assignments, actor, now); err != nil {
			return err
		}
		plan, err := planAssignments(ctx, tx, b, in.Preferences)
		if err != nil {
			return err
		}
		for _, a := range plan {
			rr := &b.Rooms[a.RequirementIndex]
			id := a.RoomID
			at := now
			rr.RoomID = &id
			rr.AssignedAt = &at
			rr.AssignedBy = actor.ID
		}

		for _, id := range b.AssignedRoomIDs() {
			room, err := tx.Room(ctx, id)
			if err != nil {
				return err
			}
			if room.Status != model.RoomAvailable {
				return errNoLongerAvailable(fmt.Sprintf("room %d is %s", room.Number, room.Status))
			}
			room.StatusHistory = append(room.StatusHistory, model.RoomStatusChange{
				From:    room.Status,
				To:      model.RoomOccupied,
				ActorID: actor.ID,
				Reason:  "CHECK_IN",
				At:      now,
			})
			room.Status = model.RoomOccupied
			room.CurrentBookingID = &b.ID
			room.UpdatedAt = now
			if err := tx.UpdateRoom(ctx, room); err != nil {
				return err
			}
		}

		b.ActualCheckIn = &now
		if err := e.transition(b, model.BookingCheckedIn, actor, "CHECK_IN"); err != nil {
			return err
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	e.invalidate(ctx, b)
	return b, nil
}

// applyExplicitAssignments validates and applies caller-supplied room
// picks.  Picks must reference unassigned requirements, match the
// requirement's type and point at a room that is currently a candidate
// for the booking's dates.
func applyExplicitAssignments(ctx context.Context, tx Tx, b *model.Booking, picks []Assignment, actor model.Actor, now time.Time) error {
	if len(picks) == 0 {
		return nil
	}
	allowed := make(map[model.RoomType]map[uint64]*model.Room)
	used := make(map[uint64]bool)
	for _, a := range picks {
		if a.RequirementIndex < 0 || a.RequirementIndex >= len(b.Rooms) {
			return errAssignment([]int{a.RequirementIndex})
		}
		rr := &b.Rooms[a.RequirementIndex]
		if rr.RoomID != nil {
			return errAssignment([]int{a.RequirementIndex})
		}
		pool, ok := allowed[rr.RoomType]
		if !ok {
			rooms, err := candidateRooms(ctx, tx, b, rr.RoomType)
			if err != nil {
				return err
			}
			pool = make(map[uint64]*model.Room, len(rooms))
			for _, r := range rooms {
				pool[r.ID] = r
			}
			allowed[rr.RoomType] = pool
		}
		room, ok := pool[a.RoomID]
		if !ok || used[a.RoomID] {
			return errNoLongerAvailable(fmt.Sprintf("room %d cannot serve requirement %d", a.RoomID, a.RequirementIndex))
		}
		used[a.RoomID] = true
		id := room.ID
		at := now
		rr.RoomID = &id
		rr.AssignedAt = &at
		rr.AssignedBy = actor.ID
	}
	return nil
}

// ExtraInput is one post-stay charge to append.
type ExtraInput struct {
	Name      string
	Category  string
	UnitPrice decimal.Decimal
	Quantity  uint32
}

// AddExtras appends charges to a checked-in booking and recomputes the
// total.  Extras for a final settlement round ride along with CheckOut
// instead.
func (e *Engine) AddExtras(ctx context.Context, actor model.Actor, bookingID uint64, extras []ExtraInput) (*model.Booking, error) {
	if err := requireRole(actor, opAddExtras); err != nil {
		return nil, err
	}
	var b *model.Booking
	err := e.update(ctx, func(tx Tx) error {
		var err error
		b, err = tx.Booking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingCheckedIn {
			return errInvalidTransition(b.Status, allowedNext[b.Status]...)
		}
		now := e.now().UTC()
		appendExtras(b, extras, now)
		b.RecomputeTotal()
		b.UpdatedAt = now
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func appendExtras(b *model.Booking, extras []ExtraInput, at time.Time) {
	for _, x := range extras {
		b.Extras = append(b.Extras, model.Extra{
			Name:      x.Name,
			Category:  x.Category,
			UnitPrice: x.UnitPrice,
			Quantity:  x.Quantity,
			AddedAt:   at,
		})
	}
}

// CheckOutInput carries the final settlement round.  RoomCondition may
// flag assigned rooms for maintenance instead of returning them to
// AVAILABLE.
type CheckOutInput struct {
	FinalExtras   []ExtraInput
	RoomCondition map[uint64]model.RoomStatus
	PaymentStatus string
}

// CheckOut finalizes billing, releases the booking's rooms and moves
// it to COMPLETED.
func (e *Engine) CheckOut(ctx context.Context, actor model.Actor, bookingID uint64, in CheckOutInput) (*model.Booking, error) {
	if err := requireRole(actor, opCheckOut); err != nil {
		return nil, err
	}
	var b *model.Booking
	var ev queue.BookingCompletedEvent
	err := e.update(ctx, func(tx Tx) error {
		var err error
		b, err = tx.Booking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingCheckedIn {
			return errInvalidTransition(b.Status, allowedNext[b.Status]...)
		}
		now := e.now().UTC()
		appendExtras(b, in.FinalExtras, now)
		b.RecomputeTotal()
		b.PaymentStatus = in.PaymentStatus
		b.ActualCheckOut = &now

		for _, id := range b.AssignedRoomIDs() {
			room, err := tx.Room(ctx, id)
			if err != nil {
				return err
			}
			target := model.RoomAvailable
			if cond, ok := in.RoomCondition[id]; ok && cond == model.RoomMaintenance {
				target = model.RoomMaintenance
			}
			room.StatusHistory = append(room.StatusHistory, model.RoomStatusChange{
				From:    room.Status,
				To:      target,
				ActorID: actor.ID,
				Reason:  "CHECK_OUT",
				At:      now,
			})
			room.Status = target
			room.CurrentBookingID = nil
			room.UpdatedAt = now
			if err := tx.UpdateRoom(ctx, room); err != nil {
				return err
			}
		}

		if err := e.transition(b, model.BookingCompleted, actor, "CHECK_OUT"); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		hotel, err := tx.Hotel(ctx, b.HotelID)
		if err != nil {
			return err
		}
		ev = queue.BookingCompletedEvent{
			BookingID:     b.ID,
			Reference:     b.Reference,
			HotelID:       b.HotelID,
			HotelName:     hotel.Name,
			CustomerID:    b.CustomerID,
			Nights:        b.Nights(),
			TotalPrice:    b.TotalPrice.String(),
			PaymentStatus: b.PaymentStatus,
			CompletedAt:   now.Format(time.RFC3339),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.invalidate(ctx, b)
	e.notifyCompleted(ctx, ev)
	return b, nil
}

// CancelInput carries the cancellation reason and, for admins, a
// refund percentage override.
type CancelInput struct {
	Reason         string
	OverrideRefund *decimal.Decimal
}

// Cancel ends a PENDING or CONFIRMED booking, computes the refund tier
// and releases any assigned rooms.  Cancelling an already cancelled
// booking is a no-op success: no state change, no duplicate history
// entry, no event.
func (e *Engine) Cancel(ctx context.Context, actor model.Actor, bookingID uint64, in CancelInput) (*model.Booking, error) {
	return e.cancel(ctx, actor, bookingID, in, nil)
}

// cancel implements Cancel.  When pendingBefore is set the booking must
// still be PENDING and created at or before that instant, re-checked
// inside the transaction: the expiry sweep snapshots ids outside any
// lock, so a booking confirmed between the snapshot and this call must
// survive.
func (e *Engine) cancel(ctx context.Context, actor model.Actor, bookingID uint64, in CancelInput, pendingBefore *time.Time) (*model.Booking, error) {
	if err := requireRole(actor, opCancel); err != nil {
		return nil, err
	}
	if in.OverrideRefund != nil && actor.Role != model.RoleAdmin {
		return nil, errForbidden(actor.Role, "override the refund policy")
	}

	var b *model.Booking
	var ev queue.BookingCancelledEvent
	alreadyCancelled := false
	err := e.update(ctx, func(tx Tx) error {
		var err error
		b, err = tx.Booking(ctx, bookingID)
		if err != nil {
			return err
		}
		if actor.Role == model.RoleClient && b.CustomerID != actor.ID {
			return errForbidden(actor.Role, "cancel another customer's booking")
		}
		if pendingBefore != nil && (b.Status != model.BookingPending || b.CreatedAt.After(*pendingBefore)) {
			return errInvalidTransition(b.Status, model.BookingCancelled)
		}
		if b.Status == model.BookingCancelled {
			alreadyCancelled = true
			return nil
		}
		if b.Status != model.BookingPending && b.Status != model.BookingConfirmed {
			return errInvalidTransition(b.Status, allowedNext[b.Status]...)
		}
		now := e.now().UTC()

		// The policy refund is always computed first so an override
		// stays auditable against it.
		refund := refundFor(b.TotalPrice, b.CheckIn, now)
		reason := in.Reason
		if in.OverrideRefund != nil {
			reason = fmt.Sprintf("%s (refund override %s%%, policy %s%%)",
				reason, in.OverrideRefund.String(), refund.Percent.String())
			refund.Percent = *in.OverrideRefund
			refund.Amount = b.TotalPrice.Mul(refund.Percent).Div(hundred)
			refund.Fee = b.TotalPrice.Sub(refund.Amount)
		}
		b.RefundPercent = refund.Percent
		b.RefundAmount = refund.Amount
		b.CancellationFee = refund.Fee

		if err := releaseRooms(ctx, tx, b, actor, "BOOKING_CANCELLED", now); err != nil {
			return err
		}
		for i := range b.Rooms {
			b.Rooms[i].RoomID = nil
			b.Rooms[i].AssignedAt = nil
			b.Rooms[i].AssignedBy = 0
		}
		if err := e.transition(b, model.BookingCancelled, actor, reasonOr(reason, "CANCELLED")); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		hotel, err := tx.Hotel(ctx, b.HotelID)
		if err != nil {
			return err
		}
		ev = e.cancelledEvent(b, hotel, reasonOr(reason, "CANCELLED"), now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if alreadyCancelled {
		return b, nil
	}
	e.invalidate(ctx, b)
	e.notifyCancelled(ctx, ev)
	return b, nil
}

// MarkNoShow moves a CONFIRMED booking whose check-in deadline passed
// to the NO_SHOW terminal.  The deadline sweep itself lives outside
// the engine; this is only the transition contract.
func (e *Engine) MarkNoShow(ctx context.Context, actor model.Actor, bookingID uint64, reason string) (*model.Booking, error) {
	if err := requireRole(actor, opCheckIn); err != nil {
		return nil, err
	}
	var b *model.Booking
	err := e.update(ctx, func(tx Tx) error {
		var err error
		b, err = tx.Booking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingConfirmed {
			return errInvalidTransition(b.Status, allowedNext[b.Status]...)
		}
		now := e.now().UTC()
		if err := releaseRooms(ctx, tx, b, actor, "NO_SHOW", now); err != nil {
			return err
		}
		if err := e.transition(b, model.BookingNoShow, actor, reasonOr(reason, "NO_SHOW")); err != nil {
			return err
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	e.invalidate(ctx, b)
	return b, nil
}

// SystemActor is the actor recorded for transitions driven by
// background sweeps rather than a user.
var SystemActor = model.Actor{ID: 0, Role: model.RoleAdmin}

// ExpirePending cancels PENDING bookings created at or before now−ttl
// with reason EXPIRED and a full refund: the guest was never confirmed,
// so the cancellation tiers do not apply.  Each booking is swept in its
// own transaction so one failure does not abort the batch.  Returns the
// number of bookings expired.
func (e *Engine) ExpirePending(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := e.now().UTC().Add(-ttl)
	var ids []uint64
	err := e.store.View(ctx, func(tx Tx) error {
		stale, err := tx.PendingBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		for _, b := range stale {
			ids = append(ids, b.ID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	full := hundred
	expired := 0
	for _, id := range ids {
		if _, err := e.cancel(ctx, SystemActor, id, CancelInput{Reason: "EXPIRED", OverrideRefund: &full}, &cutoff); err != nil {
			// The booking may have been validated or cancelled since the
			// snapshot; the in-transaction re-check rejects those, skip
			// and keep sweeping.
			if IsKind(err, KindInvalidStateTransition) {
				continue
			}
			log.Printf("booking: expire sweep failed for booking %d: %v", id, err)
			continue
		}
		expired++
	}
	return expired, nil
}

// SetRoomStatus is the staff path for maintenance toggling.  It goes
// through the same transaction discipline as lifecycle transitions;
// OCCUPIED is owned by the lifecycle and cannot be set or cleared here.
func (e *Engine) SetRoomStatus(ctx context.Context, actor model.Actor, roomID uint64, status model.RoomStatus, reason string) (*model.Room, error) {
	if err := requireRole(actor, opRoomStatus); err != nil {
		return nil, err
	}
	if status == model.RoomOccupied {
		return nil, &Error{Kind: KindInvalidStateTransition, Message: "OCCUPIED is set by check-in only"}
	}
	var room *model.Room
	err := e.update(ctx, func(tx Tx) error {
		var err error
		room, err = tx.Room(ctx, roomID)
		if err != nil {
			return err
		}
		if room.Status == model.RoomOccupied {
			return &Error{Kind: KindInvalidStateTransition, Message: "room is occupied; check the booking out first"}
		}
		if room.Status == status {
			return nil
		}
		now := e.now().UTC()
		room.StatusHistory = append(room.StatusHistory, model.RoomStatusChange{
			From:    room.Status,
			To:      status,
			ActorID: actor.ID,
			Reason:  reason,
			At:      now,
		})
		room.Status = status
		room.UpdatedAt = now
		return tx.UpdateRoom(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Invalidate(ctx, room.HotelID, room.Type)
	}
	return room, nil
}

func (e *Engine) confirmedEvent(b *model.Booking, hotel *model.Hotel) queue.BookingConfirmedEvent {
	types := make([]string, 0, len(b.Rooms))
	for _, rr := range b.Rooms {
		types = append(types, string(rr.RoomType))
	}
	return queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		Reference:   b.Reference,
		HotelID:     b.HotelID,
		HotelName:   hotel.Name,
		CustomerID:  b.CustomerID,
		CheckIn:     b.CheckIn.Format("2006-01-02"),
		CheckOut:    b.CheckOut.Format("2006-01-02"),
		RoomTypes:   types,
		TotalPrice:  b.TotalPrice.String(),
		ConfirmedAt: e.now().UTC().Format(time.RFC3339),
	}
}

func (e *Engine) cancelledEvent(b *model.Booking, hotel *model.Hotel, reason string, at time.Time) queue.BookingCancelledEvent {
	return queue.BookingCancelledEvent{
		BookingID:       b.ID,
		Reference:       b.Reference,
		HotelID:         b.HotelID,
		HotelName:       hotel.Name,
		CustomerID:      b.CustomerID,
		Reason:          reason,
		RefundPercent:   b.RefundPercent.String(),
		RefundAmount:    b.RefundAmount.String(),
		CancellationFee: b.CancellationFee.String(),
		CancelledAt:     at.Format(time.RFC3339),
	}
}

func reasonOr(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}
