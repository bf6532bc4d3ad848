// Package booking implements the hotel availability and booking
// lifecycle engine: availability arbitration over half-open date
// intervals, the booking state machine, room assignment and pricing.
// It is a library-level contract; HTTP transport, authentication and
// CRUD for hotel/room/user records live in the calling layer.
package booking

import (
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Kind classifies engine failures.  Callers branch on the kind to map
// failures to their transport semantics; the engine itself never does.
type Kind string

const (
	// KindInvalidDateRange signals checkOut <= checkIn or a check-in in
	// the past.
	KindInvalidDateRange Kind = "INVALID_DATE_RANGE"
	// KindRoomTypeUnavailable signals the hotel has zero rooms of the
	// requested type at all, as opposed to being temporarily full.
	KindRoomTypeUnavailable Kind = "ROOM_TYPE_UNAVAILABLE"
	// KindInsufficientAvailability signals not enough candidate rooms
	// for the requested quantity and date range.
	KindInsufficientAvailability Kind = "INSUFFICIENT_AVAILABILITY"
	// KindRoomNoLongerAvailable signals an authoritative re-check failed
	// after an earlier optimistic pass succeeded.
	KindRoomNoLongerAvailable Kind = "ROOM_NO_LONGER_AVAILABLE"
	// KindInvalidStateTransition signals the operation is not legal from
	// the booking's current status.
	KindInvalidStateTransition Kind = "INVALID_STATE_TRANSITION"
	// KindAssignmentFailed signals the planner could not satisfy one or
	// more room requirements.
	KindAssignmentFailed Kind = "ASSIGNMENT_FAILED"
	// KindForbiddenRole signals the actor's role may not perform the
	// requested transition.
	KindForbiddenRole Kind = "FORBIDDEN_ROLE"
	// KindConcurrentModification signals the store transaction kept
	// conflicting after bounded retries.
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
)

// Error is the structured failure type returned by all guard checks.
// Guard failures never leave partial state behind: an operation that
// returns *Error has written nothing.
type Error struct {
	Kind    Kind
	Message string

	// Shortfall carries how many rooms were missing for
	// INSUFFICIENT_AVAILABILITY.
	Shortfall int
	// Current and Allowed describe the state machine position for
	// INVALID_STATE_TRANSITION.
	Current model.BookingStatus
	Allowed []model.BookingStatus
	// Requirements lists the indices the planner could not satisfy for
	// ASSIGNMENT_FAILED.
	Requirements []int
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

// Is lets errors.Is match two engine errors by kind alone, so callers
// can compare against a bare &Error{Kind: ...} sentinel.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func errInvalidDateRange(msg string) *Error {
	return &Error{Kind: KindInvalidDateRange, Message: msg}
}

func errRoomTypeUnavailable(roomType model.RoomType) *Error {
	return &Error{Kind: KindRoomTypeUnavailable, Message: fmt.Sprintf("no rooms of type %s exist in this hotel", roomType)}
}

func errInsufficient(shortfall int) *Error {
	return &Error{
		Kind:      KindInsufficientAvailability,
		Message:   fmt.Sprintf("short %d room(s) for the requested range", shortfall),
		Shortfall: shortfall,
	}
}

func errNoLongerAvailable(msg string) *Error {
	return &Error{Kind: KindRoomNoLongerAvailable, Message: msg}
}

func errInvalidTransition(current model.BookingStatus, allowed ...model.BookingStatus) *Error {
	return &Error{
		Kind:    KindInvalidStateTransition,
		Message: fmt.Sprintf("operation not legal from %s", current),
		Current: current,
		Allowed: allowed,
	}
}

func errAssignment(failed []int) *Error {
	return &Error{
		Kind:         KindAssignmentFailed,
		Message:      fmt.Sprintf("could not satisfy requirement(s) %v", failed),
		Requirements: failed,
	}
}

func errForbidden(role model.Role, op string) *Error {
	return &Error{Kind: KindForbiddenRole, Message: fmt.Sprintf("role %s may not %s", role, op)}
}
