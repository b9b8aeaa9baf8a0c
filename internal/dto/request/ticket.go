package request

type PurchaseTicketRequest struct {
	ShowtimeID    string   `json:"showtime_id" validate:"required,uuid"`
	SeatIDs       []string `json:"seat_ids" validate:"required,min=1,unique,dive,uuid"`
	PaymentMethod string   `json:"payment_method" validate:"required,max=32"`
}
