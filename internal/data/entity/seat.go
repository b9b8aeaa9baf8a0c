package entity

import "github.com/google/uuid"

// SeatStatus is what is persisted. "selected" only exists inside a checkout
// and is reported from seat holds, never stored.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusOccupied  SeatStatus = "occupied"
)

type Seat struct {
	BaseNoDelete
	ShowtimeID uuid.UUID  `db:"showtime_id"`
	RowLabel   string     `db:"row_label"`   // A, B, C, ...
	SeatNumber int        `db:"seat_number"` // 1, 2, 3, ...
	Label      string     `db:"label"`       // A1, A2, B1, ...
	Status     SeatStatus `db:"status"`
}
