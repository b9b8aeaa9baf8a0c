package request

type HoldSeatsRequest struct {
	ShowtimeID  string   `json:"showtime_id" validate:"required,uuid"`
	SeatIDs     []string `json:"seat_ids" validate:"required,min=1,unique,dive,uuid"`
	TicketCount int      `json:"ticket_count" validate:"required,min=1"`
}

type ReleaseHoldRequest struct {
	ShowtimeID string `json:"showtime_id" validate:"required,uuid"`
}

type UpdateSeatStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied"`
}
