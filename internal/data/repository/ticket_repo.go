package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrSeatsUnavailable = errors.New("one or more seats are no longer available")
	ErrTicketNotActive  = errors.New("ticket is not active")
)

type TicketFilter struct {
	UserID     uuid.UUID
	ShowtimeID uuid.UUID
	Status     string
}

// TicketSummary is a ticket with the showtime facts printed on it.
type TicketSummary struct {
	entity.Ticket
	MovieTitle  string
	TheaterName string
	Auditorium  string
	StartsAt    time.Time
	SeatLabels  []string
}

type TicketRepository interface {
	// Purchase occupies every seat and stores the ticket in one transaction.
	// It fails with ErrSeatsUnavailable when any seat is taken.
	Purchase(ctx context.Context, ticket *entity.Ticket, seatIDs []uuid.UUID) error
	// Cancel marks an active ticket cancelled and frees its seats.
	Cancel(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.TicketStatus) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	FindSummaryByID(ctx context.Context, id uuid.UUID) (*TicketSummary, error)
	FindAll(ctx context.Context, filter TicketFilter, limit, offset int) ([]*TicketSummary, error)
	CountAll(ctx context.Context, filter TicketFilter) (int64, error)
	CountActiveByShowtime(ctx context.Context, showtimeID uuid.UUID) (int64, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

const ticketSummaryQuery = `
		SELECT t.id, t.code, t.user_id, t.showtime_id, t.total_price, t.payment_method,
		       t.transaction_id, t.status, t.created_at, t.updated_at,
		       m.title, th.name, s.auditorium, s.starts_at,
		       COALESCE((SELECT array_agg(st.label ORDER BY st.row_label, st.seat_number)
		                 FROM ticket_seats ts JOIN seats st ON st.id = ts.seat_id
		                 WHERE ts.ticket_id = t.id), '{}')
		FROM tickets t
		JOIN showtimes s ON s.id = t.showtime_id
		JOIN movies m ON m.id = s.movie_id
		JOIN theaters th ON th.id = s.theater_id`

func scanTicketSummary(row scanner) (*TicketSummary, error) {
	var summary TicketSummary
	err := row.Scan(
		&summary.ID,
		&summary.Code,
		&summary.UserID,
		&summary.ShowtimeID,
		&summary.TotalPrice,
		&summary.PaymentMethod,
		&summary.TransactionID,
		&summary.Status,
		&summary.CreatedAt,
		&summary.UpdatedAt,
		&summary.MovieTitle,
		&summary.TheaterName,
		&summary.Auditorium,
		&summary.StartsAt,
		&summary.SeatLabels,
	)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (f TicketFilter) apply(where *filterBuilder) {
	where.add("t.user_id = $%d", f.UserID)
	where.add("t.showtime_id = $%d", f.ShowtimeID)
	where.add("t.status = $%d", f.Status)
}

func (r *ticketRepository) Purchase(ctx context.Context, ticket *entity.Ticket, seatIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	occupy := `
		UPDATE seats
		SET status = 'occupied', updated_at = NOW()
		WHERE showtime_id = $1 AND id = ANY($2) AND status = 'available'
	`
	result, err := tx.Exec(ctx, occupy, ticket.ShowtimeID, seatIDs)
	if err != nil {
		r.log.Error("Failed to occupy seats",
			zap.Error(err),
			zap.String("showtime_id", ticket.ShowtimeID.String()),
		)
		return fmt.Errorf("failed to occupy seats: %w", err)
	}
	if result.RowsAffected() != int64(len(seatIDs)) {
		r.log.Warn("Seat conflict during purchase",
			zap.String("showtime_id", ticket.ShowtimeID.String()),
			zap.Int("requested", len(seatIDs)),
			zap.Int64("occupied", result.RowsAffected()),
		)
		return ErrSeatsUnavailable
	}

	insert := `
		INSERT INTO tickets (id, code, user_id, showtime_id, total_price, payment_method,
		                     transaction_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, insert,
		ticket.ID,
		ticket.Code,
		ticket.UserID,
		ticket.ShowtimeID,
		ticket.TotalPrice,
		ticket.PaymentMethod,
		ticket.TransactionID,
		ticket.Status,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("code", ticket.Code),
		)
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	link := `INSERT INTO ticket_seats (id, ticket_id, seat_id, created_at) VALUES `
	args := make([]any, 0, len(seatIDs)*4)
	for i, seatID := range seatIDs {
		if i > 0 {
			link += ", "
		}
		link += fmt.Sprintf("($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, uuid.New(), ticket.ID, seatID, ticket.CreatedAt)
	}
	if _, err := tx.Exec(ctx, link, args...); err != nil {
		r.log.Error("Failed to link ticket seats",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID.String()),
		)
		return fmt.Errorf("failed to link ticket seats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ticket: %w", err)
	}

	return nil
}

func (r *ticketRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE tickets SET status = 'cancelled', updated_at = NOW() WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		r.log.Error("Failed to cancel ticket", zap.Error(err), zap.String("ticket_id", id.String()))
		return fmt.Errorf("failed to cancel ticket: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTicketNotActive
	}

	release := `
		UPDATE seats
		SET status = 'available', updated_at = NOW()
		WHERE id IN (SELECT seat_id FROM ticket_seats WHERE ticket_id = $1)
	`
	if _, err := tx.Exec(ctx, release, id); err != nil {
		r.log.Error("Failed to release ticket seats", zap.Error(err), zap.String("ticket_id", id.String()))
		return fmt.Errorf("failed to release seats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.TicketStatus) error {
	query := `UPDATE tickets SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update ticket status",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("failed to update ticket status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTicketNotActive
	}

	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := `
		SELECT id, code, user_id, showtime_id, total_price, payment_method,
		       transaction_id, status, created_at, updated_at
		FROM tickets
		WHERE id = $1
	`

	var ticket entity.Ticket
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.UserID,
		&ticket.ShowtimeID,
		&ticket.TotalPrice,
		&ticket.PaymentMethod,
		&ticket.TransactionID,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return &ticket, nil
}

func (r *ticketRepository) FindSummaryByID(ctx context.Context, id uuid.UUID) (*TicketSummary, error) {
	summary, err := scanTicketSummary(r.db.QueryRow(ctx, ticketSummaryQuery+` WHERE t.id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket summary",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return summary, nil
}

func (r *ticketRepository) FindAll(ctx context.Context, filter TicketFilter, limit, offset int) ([]*TicketSummary, error) {
	where := newFilterBuilder()
	filter.apply(where)

	query := ticketSummaryQuery + where.String() +
		fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", where.next(), where.next()+1)
	args := append(where.args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find tickets", zap.Error(err))
		return nil, fmt.Errorf("failed to find tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*TicketSummary
	for rows.Next() {
		summary, err := scanTicketSummary(rows)
		if err != nil {
			r.log.Error("Failed to scan ticket row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, summary)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return tickets, nil
}

func (r *ticketRepository) CountAll(ctx context.Context, filter TicketFilter) (int64, error) {
	where := newFilterBuilder()
	filter.apply(where)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets t`+where.String(), where.args...).Scan(&total); err != nil {
		r.log.Error("Failed to count tickets", zap.Error(err))
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	return total, nil
}

func (r *ticketRepository) CountActiveByShowtime(ctx context.Context, showtimeID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE showtime_id = $1 AND status = 'active'`

	var total int64
	if err := r.db.QueryRow(ctx, query, showtimeID).Scan(&total); err != nil {
		r.log.Error("Failed to count active tickets",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return 0, fmt.Errorf("failed to count active tickets: %w", err)
	}

	return total, nil
}
