package entity

import (
	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusUsed      TicketStatus = "used"
	TicketStatusCancelled TicketStatus = "cancelled"
)

type Ticket struct {
	BaseNoDelete
	Code          string       `db:"code"`
	UserID        uuid.UUID    `db:"user_id"`
	ShowtimeID    uuid.UUID    `db:"showtime_id"`
	TotalPrice    float64      `db:"total_price"`
	PaymentMethod string       `db:"payment_method"`
	TransactionID *string      `db:"transaction_id"`
	Status        TicketStatus `db:"status"`
}

type TicketSeat struct {
	BaseSimple
	TicketID uuid.UUID `db:"ticket_id"`
	SeatID   uuid.UUID `db:"seat_id"`
}
