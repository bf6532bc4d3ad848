// Package repository implements MySQL data access for hotels, rooms
// and bookings.  All methods operate inside a caller-supplied
// transaction; the store layer owns isolation and retry.  Timestamps
// are stored and compared in UTC.
package repository

import "errors"

// ErrNotFound is returned when a lookup yields no rows.  The store
// layer translates it to the engine's sentinel.
var ErrNotFound = errors.New("record not found")
