package repository

import (
	"fmt"
	"strings"
	"time"

	"movie-theater/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository struct {
	User          UserRepository
	Session       SessionRepository
	OTP           OTPRepository
	Movie         MovieRepository
	Theater       TheaterRepository
	Showtime      ShowtimeRepository
	Seat          SeatRepository
	Ticket        TicketRepository
	FoodItem      FoodItemRepository
	Order         OrderRepository
	PaymentMethod PaymentMethodRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:          NewUserRepository(db, log),
		Session:       NewSessionRepository(db, log),
		OTP:           NewOTPRepository(db, log),
		Movie:         NewMovieRepository(db, log),
		Theater:       NewTheaterRepository(db, log),
		Showtime:      NewShowtimeRepository(db, log),
		Seat:          NewSeatRepository(db, log),
		Ticket:        NewTicketRepository(db, log),
		FoodItem:      NewFoodItemRepository(db, log),
		Order:         NewOrderRepository(db, log),
		PaymentMethod: NewPaymentMethodRepository(db, log),
	}
}

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// filterBuilder collects optional WHERE conditions with numbered params.
// Empty strings, nil values and uuid.Nil are skipped.
type filterBuilder struct {
	clauses []string
	args    []any
}

func newFilterBuilder(fixed ...string) *filterBuilder {
	return &filterBuilder{clauses: fixed}
}

func (b *filterBuilder) add(format string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		if v == "" {
			return
		}
	case uuid.UUID:
		if v == uuid.Nil {
			return
		}
	case *time.Time:
		if v == nil {
			return
		}
		value = *v
	}
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf(format, len(b.args)))
}

// next is the placeholder number of the next argument.
func (b *filterBuilder) next() int {
	return len(b.args) + 1
}

func (b *filterBuilder) String() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}
