package booking

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Preferences carries the soft constraints a guest may express for
// room assignment.  Hard constraints (room available, not
// double-booked) are never relaxed.
type Preferences struct {
	// PreferredFloor ranks rooms on this floor first when set.
	PreferredFloor *int32
	// AdjacentRooms asks for contiguous room numbers on one floor when
	// several rooms of the same type are needed.
	AdjacentRooms bool
}

// Assignment binds one requirement index of a booking to a concrete
// room.
type Assignment struct {
	RequirementIndex int    `json:"requirement_index"`
	RoomID           uint64 `json:"room_id"`
}

// planAssignments chooses concrete rooms for every unassigned
// requirement of the booking.  It either satisfies all of them or
// fails with the indices it could not satisfy; the caller's
// transaction aborts on failure so no partial assignment is ever
// persisted.
func planAssignments(ctx context.Context, tx Tx, b *model.Booking, prefs Preferences) ([]Assignment, error) {
	// Group open requirement indices by room type.
	open := make(map[model.RoomType][]int)
	taken := make(map[uint64]bool)
	for i, rr := range b.Rooms {
		if rr.RoomID != nil {
			taken[*rr.RoomID] = true
			continue
		}
		open[rr.RoomType] = append(open[rr.RoomType], i)
	}

	var plan []Assignment
	var failed []int
	for roomType, indices := range open {
		rooms, err := candidateRooms(ctx, tx, b, roomType)
		if err != nil {
			return nil, err
		}
		// Rooms already picked for earlier requirements of this booking
		// are off the table.
		usable := rooms[:0:0]
		for _, r := range rooms {
			if !taken[r.ID] {
				usable = append(usable, r)
			}
		}
		picked := pickRooms(usable, len(indices), prefs)
		if len(picked) < len(indices) {
			failed = append(failed, indices[len(picked):]...)
		}
		for j, r := range picked {
			taken[r.ID] = true
			plan = append(plan, Assignment{RequirementIndex: indices[j], RoomID: r.ID})
		}
	}
	if len(failed) > 0 {
		sort.Ints(failed)
		return nil, errAssignment(failed)
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].RequirementIndex < plan[j].RequirementIndex })
	return plan, nil
}

// candidateRooms returns rooms of the type that are currently
// AVAILABLE and not double-booked for the booking's dates, excluding
// the booking's own hold.
func candidateRooms(ctx context.Context, tx Tx, b *model.Booking, roomType model.RoomType) ([]*model.Room, error) {
	av, err := checkAvailability(ctx, tx, Query{
		HotelID:          b.HotelID,
		RoomType:         roomType,
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckOut,
		ExcludeBookingID: b.ID,
		Strict:           true,
	})
	if err != nil {
		return nil, err
	}
	allowed := make(map[uint64]bool, len(av.CandidateRooms))
	for _, id := range av.CandidateRooms {
		allowed[id] = true
	}
	rooms, err := tx.RoomsByType(ctx, b.HotelID, roomType)
	if err != nil {
		return nil, err
	}
	out := rooms[:0:0]
	for _, r := range rooms {
		if allowed[r.ID] && r.Status == model.RoomAvailable {
			out = append(out, r)
		}
	}
	return out, nil
}

// pickRooms ranks candidates and greedily takes the best count of
// them.  Ranking order: preferred floor match, then an adjacency run
// when requested, then lowest base price, then room number for
// determinism.
func pickRooms(rooms []*model.Room, count int, prefs Preferences) []*model.Room {
	if count == 0 || len(rooms) == 0 {
		return nil
	}
	if prefs.AdjacentRooms && count > 1 {
		if run := bestAdjacentRun(rooms, count, prefs.PreferredFloor); run != nil {
			return run
		}
		// No contiguous run exists; adjacency is a soft preference, so
		// fall through to individual ranking.
	}
	ranked := append([]*model.Room(nil), rooms...)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if prefs.PreferredFloor != nil {
			am, bm := a.Floor == *prefs.PreferredFloor, b.Floor == *prefs.PreferredFloor
			if am != bm {
				return am
			}
		}
		if !a.BasePrice.Equal(b.BasePrice) {
			return a.BasePrice.LessThan(b.BasePrice)
		}
		return a.Number < b.Number
	})
	if count > len(ranked) {
		count = len(ranked)
	}
	return ranked[:count]
}

// bestAdjacentRun finds the cheapest window of count rooms with
// consecutive numbers on a single floor, preferring the requested
// floor.  Returns nil when no such window exists.
func bestAdjacentRun(rooms []*model.Room, count int, preferredFloor *int32) []*model.Room {
	ordered := append([]*model.Room(nil), rooms...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Floor != ordered[j].Floor {
			return ordered[i].Floor < ordered[j].Floor
		}
		return ordered[i].Number < ordered[j].Number
	})

	var best []*model.Room
	bestOnPreferred := false
	for i := 0; i+count <= len(ordered); i++ {
		window := ordered[i : i+count]
		if !contiguous(window) {
			continue
		}
		onPreferred := preferredFloor != nil && window[0].Floor == *preferredFloor
		switch {
		case best == nil,
			onPreferred && !bestOnPreferred,
			onPreferred == bestOnPreferred && runPriceLess(window, best):
			best = append([]*model.Room(nil), window...)
			bestOnPreferred = onPreferred
		}
	}
	return best
}

func contiguous(window []*model.Room) bool {
	for k := 1; k < len(window); k++ {
		if window[k].Floor != window[0].Floor || window[k].Number != window[k-1].Number+1 {
			return false
		}
	}
	return true
}

func runPriceLess(a, b []*model.Room) bool {
	return runPrice(a).LessThan(runPrice(b))
}

func runPrice(run []*model.Room) (total decimal.Decimal) {
	for _, r := range run {
		total = total.Add(r.BasePrice)
	}
	return total
}
