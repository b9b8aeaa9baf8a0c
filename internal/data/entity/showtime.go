package entity

import (
	"time"

	"github.com/google/uuid"
)

type Showtime struct {
	Base
	MovieID     uuid.UUID `db:"movie_id"`
	TheaterID   uuid.UUID `db:"theater_id"`
	Auditorium  string    `db:"auditorium"`
	StartsAt    time.Time `db:"starts_at"`
	Price       float64   `db:"price"`
	SeatRows    int       `db:"seat_rows"`
	SeatsPerRow int       `db:"seats_per_row"`
}
