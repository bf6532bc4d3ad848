package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo provides access to rooms and their status history.  Only
// status, current booking reference and history are ever written here;
// room CRUD belongs to the owning system.
type RoomRepo struct{}

// NewRoomRepo returns a new RoomRepo.
func NewRoomRepo() *RoomRepo { return &RoomRepo{} }

const roomColumns = `id, hotel_id, room_number, floor, room_type, base_price, status, current_booking_id, created_at, updated_at`

func scanRoom(scan func(dest ...any) error) (*model.Room, error) {
	var r model.Room
	var base string
	var current sql.NullInt64
	if err := scan(&r.ID, &r.HotelID, &r.Number, &r.Floor, &r.Type, &base, &r.Status, &current, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if r.BasePrice, err = decimal.NewFromString(base); err != nil {
		return nil, err
	}
	if current.Valid {
		id := uint64(current.Int64)
		r.CurrentBookingID = &id
	}
	return &r, nil
}

// GetTx loads a room with its status history.
func (r *RoomRepo) GetTx(ctx context.Context, tx *sql.Tx, roomID uint64) (*model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	room, err := scanRoom(tx.QueryRowContext(ctx, q, roomID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if room.StatusHistory, err = r.historyTx(ctx, tx, roomID); err != nil {
		return nil, err
	}
	return room, nil
}

// ListByTypeTx loads all rooms of a type in a hotel, every status
// included.  History is not populated on list reads; availability
// computation does not need it.
func (r *RoomRepo) ListByTypeTx(ctx context.Context, tx *sql.Tx, hotelID uint64, roomType model.RoomType) ([]*model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = ? AND room_type = ? ORDER BY room_number`
	rows, err := tx.QueryContext(ctx, q, hotelID, roomType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Room
	for rows.Next() {
		room, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTx persists a room's status and current booking reference and
// appends any history entries beyond those already stored.  History is
// append-only: existing rows are never touched.
func (r *RoomRepo) UpdateTx(ctx context.Context, tx *sql.Tx, room *model.Room) error {
	const q = `UPDATE rooms
	           SET status = ?, current_booking_id = ?, updated_at = ?
	           WHERE id = ?`
	var current any
	if room.CurrentBookingID != nil {
		current = *room.CurrentBookingID
	}
	res, err := tx.ExecContext(ctx, q, room.Status, current, room.UpdatedAt.UTC(), room.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The row may exist with identical values; confirm before
		// reporting not found.
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = ?)`, room.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return r.appendHistoryTx(ctx, tx, room)
}

func (r *RoomRepo) historyTx(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.RoomStatusChange, error) {
	const q = `SELECT prev_status, new_status, actor_id, reason, changed_at
	           FROM room_status_history
	           WHERE room_id = ?
	           ORDER BY id`
	rows, err := tx.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var history []model.RoomStatusChange
	for rows.Next() {
		var c model.RoomStatusChange
		if err := rows.Scan(&c.From, &c.To, &c.ActorID, &c.Reason, &c.At); err != nil {
			return nil, err
		}
		history = append(history, c)
	}
	return history, rows.Err()
}

func (r *RoomRepo) appendHistoryTx(ctx context.Context, tx *sql.Tx, room *model.Room) error {
	var stored int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM room_status_history WHERE room_id = ?`, room.ID).Scan(&stored); err != nil {
		return err
	}
	tail := room.StatusHistory[stored:]
	if len(tail) == 0 {
		return nil
	}
	query := `INSERT INTO room_status_history (room_id, prev_status, new_status, actor_id, reason, changed_at) VALUES `
	args := make([]any, 0, len(tail)*6)
	for i, c := range tail {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, room.ID, c.From, c.To, c.ActorID, c.Reason, c.At.UTC())
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
