package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrSeatTicketed is returned when a seat on an active ticket would be
// made available again.
var ErrSeatTicketed = errors.New("cannot release a seat on an active ticket")

type SeatRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error)
	FindByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Seat, error)
	// UpdateStatus fails with ErrSeatTicketed when status is available and
	// the seat belongs to an active ticket.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SeatStatus) error
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// insertSeats writes the grid with a single multi-row insert.
func insertSeats(ctx context.Context, db execer, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	query := `INSERT INTO seats (id, showtime_id, row_label, seat_number, label, status, created_at, updated_at) VALUES `
	args := make([]any, 0, len(seats)*8)

	for i, seat := range seats {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*8+1, i*8+2, i*8+3, i*8+4, i*8+5, i*8+6, i*8+7, i*8+8)

		args = append(args,
			seat.ID,
			seat.ShowtimeID,
			seat.RowLabel,
			seat.SeatNumber,
			seat.Label,
			seat.Status,
			seat.CreatedAt,
			seat.UpdatedAt,
		)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create batch seats: %w", err)
	}
	return nil
}

const seatColumns = `id, showtime_id, row_label, seat_number, label, status, created_at, updated_at`

func scanSeat(row scanner) (*entity.Seat, error) {
	var seat entity.Seat
	err := row.Scan(
		&seat.ID,
		&seat.ShowtimeID,
		&seat.RowLabel,
		&seat.SeatNumber,
		&seat.Label,
		&seat.Status,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *seatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`

	seat, err := scanSeat(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find seat by ID",
			zap.Error(err),
			zap.String("seat_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find seat: %w", err)
	}

	return seat, nil
}

func (r *seatRepository) FindByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE showtime_id = $1 ORDER BY row_label, seat_number`
	return r.list(ctx, query, showtimeID)
}

func (r *seatRepository) list(ctx context.Context, query string, id uuid.UUID) ([]*entity.Seat, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to find seats",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return nil, fmt.Errorf("failed to find seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return seats, nil
}

func (r *seatRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SeatStatus) error {
	query := `
		UPDATE seats SET status = $2, updated_at = NOW()
		WHERE id = $1
		  AND ($3 <> 'available' OR NOT EXISTS (
		      SELECT 1 FROM ticket_seats ts
		      JOIN tickets t ON t.id = ts.ticket_id
		      WHERE ts.seat_id = $1 AND t.status = 'active'
		  ))
	`

	result, err := r.db.Exec(ctx, query, id, status, string(status))
	if err != nil {
		r.log.Error("Failed to update seat status",
			zap.Error(err),
			zap.String("seat_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("failed to update seat status: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM seats WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check seat: %w", err)
		}
		if exists {
			return ErrSeatTicketed
		}
		return fmt.Errorf("seat not found")
	}

	return nil
}
