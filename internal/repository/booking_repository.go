package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingRepo provides access to bookings and their embedded lists.
// Room requirements, extras and the status history live in child
// tables (booking_rooms, booking_extras, booking_status_history) and
// are loaded and persisted together with the parent row; the status
// history is strictly append-only.
type BookingRepo struct{}

// NewBookingRepo returns a new BookingRepo.
func NewBookingRepo() *BookingRepo { return &BookingRepo{} }

const bookingColumns = `id, reference, hotel_id, customer_id, check_in, check_out, guests,
	total_price, status, payment_status, refund_percent, refund_amount, cancellation_fee,
	actual_check_in, actual_check_out, created_at, updated_at`

func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
	var b model.Booking
	var total, refundPct, refundAmt, fee string
	var actualIn, actualOut sql.NullTime
	if err := scan(
		&b.ID, &b.Reference, &b.HotelID, &b.CustomerID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&total, &b.Status, &b.PaymentStatus, &refundPct, &refundAmt, &fee,
		&actualIn, &actualOut, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if b.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	if b.RefundPercent, err = decimal.NewFromString(refundPct); err != nil {
		return nil, err
	}
	if b.RefundAmount, err = decimal.NewFromString(refundAmt); err != nil {
		return nil, err
	}
	if b.CancellationFee, err = decimal.NewFromString(fee); err != nil {
		return nil, err
	}
	if actualIn.Valid {
		at := actualIn.Time.UTC()
		b.ActualCheckIn = &at
	}
	if actualOut.Valid {
		at := actualOut.Time.UTC()
		b.ActualCheckOut = &at
	}
	return &b, nil
}

// CreateTx inserts a booking and all its child rows, populating the
// generated ID on the provided record.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
	  (reference, hotel_id, customer_id, check_in, check_out, guests, total_price, status,
	   payment_status, refund_percent, refund_amount, cancellation_fee, created_at, updated_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.Reference, b.HotelID, b.CustomerID, b.CheckIn.UTC(), b.CheckOut.UTC(), b.Guests,
		b.TotalPrice.String(), b.Status, b.PaymentStatus,
		b.RefundPercent.String(), b.RefundAmount.String(), b.CancellationFee.String(),
		b.CreatedAt.UTC(), b.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if err := r.insertRoomsTx(ctx, tx, b); err != nil {
		return err
	}
	if err := r.insertExtrasTx(ctx, tx, b.ID, b.Extras); err != nil {
		return err
	}
	return r.insertHistoryTx(ctx, tx, b.ID, b.StatusHistory)
}

// GetTx loads a booking with its requirements, extras and history.
func (r *BookingRepo) GetTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, bookingID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.loadChildrenTx(ctx, tx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListOverlappingTx returns bookings in a blocking status holding at
// least one requirement of the type whose stay intersects [from, to).
// Half-open comparison: back-to-back stays never conflict.
func (r *BookingRepo) ListOverlappingTx(ctx context.Context, tx *sql.Tx, hotelID uint64, roomType model.RoomType, from, to time.Time, excludeID uint64) ([]*model.Booking, error) {
	const q = `SELECT DISTINCT b.id
	           FROM bookings b
	           JOIN booking_rooms br ON br.booking_id = b.id
	           WHERE b.hotel_id = ?
	             AND br.room_type = ?
	             AND b.status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
	             AND b.check_in < ? AND ? < b.check_out
	             AND b.id <> ?
	           ORDER BY b.id`
	rows, err := tx.QueryContext(ctx, q, hotelID, roomType, to.UTC(), from.UTC(), excludeID)
	if err != nil {
		return nil, err
	}
	var ids []uint64
	for rows.Next() {
		var id uint64
		if scanErr := rows.Scan(&id); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		ids = append(ids, id)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	out := make([]*model.Booking, 0, len(ids))
	for _, id := range ids {
		b, err := r.GetTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ListPendingBeforeTx returns PENDING bookings created at or before
// the cutoff, for the expiry sweep.
func (r *BookingRepo) ListPendingBeforeTx(ctx context.Context, tx *sql.Tx, cutoff time.Time) ([]*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = 'PENDING' AND created_at <= ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, q, cutoff.UTC())
	if err != nil {
		return nil, err
	}
	var out []*model.Booking
	for rows.Next() {
		b, scanErr := scanBooking(rows.Scan)
		if scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		out = append(out, b)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	for _, b := range out {
		if err := r.loadChildrenTx(ctx, tx, b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateTx persists the full current state of a booking.  The
// requirement and extra lists are replaced wholesale; the status
// history only grows.
func (r *BookingRepo) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE bookings
	           SET check_in = ?, check_out = ?, guests = ?, total_price = ?, status = ?,
	               payment_status = ?, refund_percent = ?, refund_amount = ?, cancellation_fee = ?,
	               actual_check_in = ?, actual_check_out = ?, updated_at = ?
	           WHERE id = ?`
	var actualIn, actualOut any
	if b.ActualCheckIn != nil {
		actualIn = b.ActualCheckIn.UTC()
	}
	if b.ActualCheckOut != nil {
		actualOut = b.ActualCheckOut.UTC()
	}
	if _, err := tx.ExecContext(ctx, q,
		b.CheckIn.UTC(), b.CheckOut.UTC(), b.Guests, b.TotalPrice.String(), b.Status,
		b.PaymentStatus, b.RefundPercent.String(), b.RefundAmount.String(), b.CancellationFee.String(),
		actualIn, actualOut, b.UpdatedAt.UTC(), b.ID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_rooms WHERE booking_id = ?`, b.ID); err != nil {
		return err
	}
	if err := r.insertRoomsTx(ctx, tx, b); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_extras WHERE booking_id = ?`, b.ID); err != nil {
		return err
	}
	if err := r.insertExtrasTx(ctx, tx, b.ID, b.Extras); err != nil {
		return err
	}
	var stored int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM booking_status_history WHERE booking_id = ?`, b.ID).Scan(&stored); err != nil {
		return err
	}
	return r.insertHistoryTx(ctx, tx, b.ID, b.StatusHistory[stored:])
}

func (r *BookingRepo) loadChildrenTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const roomQ = `SELECT room_type, base_price, calculated_price, room_id, assigned_at, assigned_by
	               FROM booking_rooms WHERE booking_id = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, roomQ, b.ID)
	if err != nil {
		return err
	}
	b.Rooms = b.Rooms[:0]
	for rows.Next() {
		var rr model.RoomRequirement
		var base, calc string
		var roomID sql.NullInt64
		var assignedAt sql.NullTime
		var assignedBy sql.NullInt64
		if scanErr := rows.Scan(&rr.RoomType, &base, &calc, &roomID, &assignedAt, &assignedBy); scanErr != nil {
			rows.Close()
			return scanErr
		}
		if rr.BasePrice, err = decimal.NewFromString(base); err != nil {
			rows.Close()
			return err
		}
		if rr.CalculatedPrice, err = decimal.NewFromString(calc); err != nil {
			rows.Close()
			return err
		}
		if roomID.Valid {
			id := uint64(roomID.Int64)
			rr.RoomID = &id
		}
		if assignedAt.Valid {
			at := assignedAt.Time.UTC()
			rr.AssignedAt = &at
		}
		if assignedBy.Valid {
			rr.AssignedBy = uint64(assignedBy.Int64)
		}
		b.Rooms = append(b.Rooms, rr)
	}
	if err = rows.Close(); err != nil {
		return err
	}

	const extraQ = `SELECT name, category, unit_price, quantity, added_at
	                FROM booking_extras WHERE booking_id = ? ORDER BY id`
	rows, err = tx.QueryContext(ctx, extraQ, b.ID)
	if err != nil {
		return err
	}
	b.Extras = b.Extras[:0]
	for rows.Next() {
		var x model.Extra
		var unit string
		if scanErr := rows.Scan(&x.Name, &x.Category, &unit, &x.Quantity, &x.AddedAt); scanErr != nil {
			rows.Close()
			return scanErr
		}
		if x.UnitPrice, err = decimal.NewFromString(unit); err != nil {
			rows.Close()
			return err
		}
		b.Extras = append(b.Extras, x)
	}
	if err = rows.Close(); err != nil {
		return err
	}

	const histQ = `SELECT prev_status, new_status, actor_id, actor_role, reason, changed_at
	               FROM booking_status_history WHERE booking_id = ? ORDER BY id`
	rows, err = tx.QueryContext(ctx, histQ, b.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	b.StatusHistory = b.StatusHistory[:0]
	for rows.Next() {
		var t model.StatusTransition
		var prev sql.NullString
		if err := rows.Scan(&prev, &t.To, &t.ActorID, &t.ActorRole, &t.Reason, &t.At); err != nil {
			return err
		}
		if prev.Valid {
			t.From = model.BookingStatus(prev.String)
		}
		b.StatusHistory = append(b.StatusHistory, t)
	}
	return rows.Err()
}

func (r *BookingRepo) insertRoomsTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	if len(b.Rooms) == 0 {
		return nil
	}
	query := `INSERT INTO booking_rooms (booking_id, room_type, base_price, calculated_price, room_id, assigned_at, assigned_by) VALUES `
	args := make([]any, 0, len(b.Rooms)*7)
	for i, rr := range b.Rooms {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		var roomID, assignedAt, assignedBy any
		if rr.RoomID != nil {
			roomID = *rr.RoomID
		}
		if rr.AssignedAt != nil {
			assignedAt = rr.AssignedAt.UTC()
		}
		if rr.AssignedBy != 0 {
			assignedBy = rr.AssignedBy
		}
		args = append(args, b.ID, rr.RoomType, rr.BasePrice.String(), rr.CalculatedPrice.String(), roomID, assignedAt, assignedBy)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func (r *BookingRepo) insertExtrasTx(ctx context.Context, tx *sql.Tx, bookingID uint64, extras []model.Extra) error {
	if len(extras) == 0 {
		return nil
	}
	query := `INSERT INTO booking_extras (booking_id, name, category, unit_price, quantity, added_at) VALUES `
	args := make([]any, 0, len(extras)*6)
	for i, x := range extras {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, bookingID, x.Name, x.Category, x.UnitPrice.String(), x.Quantity, x.AddedAt.UTC())
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func (r *BookingRepo) insertHistoryTx(ctx context.Context, tx *sql.Tx, bookingID uint64, tail []model.StatusTransition) error {
	if len(tail) == 0 {
		return nil
	}
	query := `INSERT INTO booking_status_history (booking_id, prev_status, new_status, actor_id, actor_role, reason, changed_at) VALUES `
	args := make([]any, 0, len(tail)*7)
	for i, t := range tail {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		var prev any
		if t.From != "" {
			prev = t.From
		}
		args = append(args, bookingID, prev, t.To, t.ActorID, t.ActorRole, t.Reason, t.At.UTC())
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
