package response

import (
	"time"

	"movie-theater/internal/data/repository"
)

type TicketResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	ShowtimeID    string    `json:"showtime_id"`
	MovieTitle    string    `json:"movie_title"`
	TheaterName   string    `json:"theater_name"`
	Auditorium    string    `json:"auditorium"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Seats         []string  `json:"seats"`
	TotalPrice    float64   `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func TicketToResponse(ticket *repository.TicketSummary) TicketResponse {
	seats := ticket.SeatLabels
	if seats == nil {
		seats = []string{}
	}
	return TicketResponse{
		ID:            ticket.ID.String(),
		Code:          ticket.Code,
		ShowtimeID:    ticket.ShowtimeID.String(),
		MovieTitle:    ticket.MovieTitle,
		TheaterName:   ticket.TheaterName,
		Auditorium:    ticket.Auditorium,
		Date:          ticket.StartsAt.Format("2006-01-02"),
		Time:          ticket.StartsAt.Format("15:04"),
		Seats:         seats,
		TotalPrice:    ticket.TotalPrice,
		PaymentMethod: ticket.PaymentMethod,
		TransactionID: ticket.TransactionID,
		Status:        string(ticket.Status),
		CreatedAt:     ticket.CreatedAt,
	}
}
