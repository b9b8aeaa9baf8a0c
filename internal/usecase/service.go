package usecase

import (
	"fmt"
	"slices"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/messaging"
	"movie-theater/pkg/payment"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Movie    MovieService
	Theater  TheaterService
	Showtime ShowtimeService
	Seat     SeatService
	Ticket   TicketService
	Food     FoodService
	Order    OrderService
}

// Dependencies are the infrastructure clients shared by services.
type Dependencies struct {
	Cache     cache.Service
	Holds     cache.HoldStore
	Publisher messaging.Publisher
	Payments  payment.Provider
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(repo, deps.Publisher, config, log),
		User:     NewUserService(repo.User, repo.Session, log),
		Movie:    NewMovieService(repo, deps.Cache, config, log),
		Theater:  NewTheaterService(repo.Theater, log),
		Showtime: NewShowtimeService(repo, log),
		Seat:     NewSeatService(repo, deps.Holds, config, log),
		Ticket:   NewTicketService(repo, deps, config, log),
		Food:     NewFoodService(repo.FoodItem, log),
		Order:    NewOrderService(repo, deps.Payments, deps.Publisher, log),
	}
}

// Caller identifies the authenticated user behind a request.
type Caller struct {
	ID    uuid.UUID
	Roles []string
}

// IsStaff reports whether the caller may manage the venue.
func (c Caller) IsStaff() bool {
	return slices.Contains(c.Roles, string(entity.RoleStaff)) || slices.Contains(c.Roles, string(entity.RoleAdmin))
}

func parseID(value, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id", name)
	}
	return id, nil
}

func validationError(errs map[string]string) error {
	return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
}
