package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// Notifier receives lifecycle events after a transition commits.  The
// engine never blocks a committed transition on notification delivery;
// publish errors are logged and dropped.
type Notifier interface {
	BookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	BookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error
	BookingCompleted(ctx context.Context, ev queue.BookingCompletedEvent) error
}

// Engine is the availability and booking lifecycle engine.  It owns
// every booking state transition and every room status mutation; no
// other code writes those records.  Construct one per process and
// share it across request workers; all methods are safe for concurrent
// use as long as the Store serializes Update calls.
type Engine struct {
	store    Store
	cache    Cache    // advisory availability cache, may be nil
	notifier Notifier // lifecycle event sink, may be nil
	now      func() time.Time
	retries  int
}

// New constructs an Engine.  cache and notifier may be nil; the engine
// then skips memoization and event publishing respectively.
func New(store Store, cache Cache, notifier Notifier) *Engine {
	if store == nil {
		panic("nil store passed to booking.New")
	}
	return &Engine{
		store:    store,
		cache:    cache,
		notifier: notifier,
		now:      time.Now,
		retries:  3,
	}
}

// WithClock overrides the engine's time source.  Refund tiers and
// expiry sweeps depend on it; tests pin it to fixed instants.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// update runs fn in a store transaction, retrying bounded times on
// serialization conflicts before surfacing CONCURRENT_MODIFICATION.
// Guard failures inside fn are returned as-is and never retried.
func (e *Engine) update(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 0; attempt < e.retries; attempt++ {
		err = e.store.Update(ctx, fn)
		if !errors.Is(err, ErrTxConflict) {
			return err
		}
		log.Printf("booking: transaction conflict, retrying (%d/%d)", attempt+1, e.retries)
	}
	return &Error{Kind: KindConcurrentModification, Message: "transaction kept conflicting after retries"}
}

func (e *Engine) notifyConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.BookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}

func (e *Engine) notifyCancelled(ctx context.Context, ev queue.BookingCancelledEvent) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.BookingCancelled(ctx, ev); err != nil {
		log.Printf("booking: publish cancelled event failed: %v", err)
	}
}

func (e *Engine) notifyCompleted(ctx context.Context, ev queue.BookingCompletedEvent) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.BookingCompleted(ctx, ev); err != nil {
		log.Printf("booking: publish completed event failed: %v", err)
	}
}

// Booking loads a booking outside any mutation path, for display.
func (e *Engine) Booking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	var b *model.Booking
	err := e.store.View(ctx, func(tx Tx) error {
		var err error
		b, err = tx.Booking(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Room loads a room outside any mutation path, for display.
func (e *Engine) Room(ctx context.Context, roomID uint64) (*model.Room, error) {
	var r *model.Room
	err := e.store.View(ctx, func(tx Tx) error {
		var err error
		r, err = tx.Room(ctx, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// BillingSnapshot assembles the read-only billing view handed to
// external invoice rendering.
func (e *Engine) BillingSnapshot(ctx context.Context, bookingID uint64) (*model.BillingSnapshot, error) {
	var snap *model.BillingSnapshot
	err := e.store.View(ctx, func(tx Tx) error {
		b, err := tx.Booking(ctx, bookingID)
		if err != nil {
			return err
		}
		snap = &model.BillingSnapshot{
			Reference: b.Reference,
			Nights:    b.Nights(),
			Total:     b.TotalPrice,
		}
		for _, rr := range b.Rooms {
			line := model.BillingRoomLine{RoomType: rr.RoomType, Price: rr.CalculatedPrice}
			if rr.RoomID != nil {
				room, err := tx.Room(ctx, *rr.RoomID)
				if err != nil {
					return err
				}
				num := room.Number
				line.RoomNumber = &num
			}
			snap.Rooms = append(snap.Rooms, line)
		}
		for _, x := range b.Extras {
			snap.Extras = append(snap.Extras, model.BillingExtra{
				Name:     x.Name,
				Category: x.Category,
				Unit:     x.UnitPrice,
				Quantity: x.Quantity,
				Total:    x.Total(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
