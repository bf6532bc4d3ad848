package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo provides read access to hotels and their seasonal pricing
// rules.  The engine never writes hotel records; hotel CRUD belongs to
// the owning system.
type HotelRepo struct{}

// NewHotelRepo returns a new HotelRepo.
func NewHotelRepo() *HotelRepo { return &HotelRepo{} }

// GetTx loads a hotel with its seasonal rates within the transaction.
// Rates are ordered by id so rule precedence is stable.
func (r *HotelRepo) GetTx(ctx context.Context, tx *sql.Tx, hotelID uint64) (*model.Hotel, error) {
	const q = `SELECT id, name FROM hotels WHERE id = ?`
	var h model.Hotel
	if err := tx.QueryRowContext(ctx, q, hotelID).Scan(&h.ID, &h.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	const rateQ = `SELECT room_type, season, starts_on, ends_on, multiplier
	               FROM hotel_seasonal_rates
	               WHERE hotel_id = ?
	               ORDER BY id`
	rows, err := tx.QueryContext(ctx, rateQ, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rate model.SeasonalRate
		var mult string
		if err := rows.Scan(&rate.RoomType, &rate.Season, &rate.Start, &rate.End, &mult); err != nil {
			return nil, err
		}
		if rate.Multiplier, err = decimal.NewFromString(mult); err != nil {
			return nil, err
		}
		h.SeasonalRates = append(h.SeasonalRates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &h, nil
}
