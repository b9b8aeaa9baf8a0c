package adaptor

import (
	"movie-theater/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Movie    *MovieHandler
	Theater  *TheaterHandler
	Showtime *ShowtimeHandler
	Seat     *SeatHandler
	Ticket   *TicketHandler
	Food     *FoodHandler
	Order    *OrderHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Movie:    NewMovieHandler(service.Movie, log),
		Theater:  NewTheaterHandler(service.Theater, log),
		Showtime: NewShowtimeHandler(service.Showtime, log),
		Seat:     NewSeatHandler(service.Seat, log),
		Ticket:   NewTicketHandler(service.Ticket, log),
		Food:     NewFoodHandler(service.Food, log),
		Order:    NewOrderHandler(service.Order, log),
	}
}
