package repository

import (
	"context"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowtimeFilter struct {
	MovieID   uuid.UUID
	TheaterID uuid.UUID
	From      *time.Time
	To        *time.Time
}

// ShowtimeDetail is a showtime joined with the names clients display.
type ShowtimeDetail struct {
	entity.Showtime
	MovieTitle     string
	TheaterName    string
	AvailableSeats int
}

type ShowtimeRepository interface {
	// CreateWithSeats stores the showtime and its seat grid atomically.
	CreateWithSeats(ctx context.Context, showtime *entity.Showtime, seats []*entity.Seat) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*ShowtimeDetail, error)
	FindAll(ctx context.Context, filter ShowtimeFilter) ([]*ShowtimeDetail, error)
	Update(ctx context.Context, showtime *entity.Showtime) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeDetailQuery = `
		SELECT s.id, s.movie_id, s.theater_id, s.auditorium, s.starts_at, s.price,
		       s.seat_rows, s.seats_per_row, s.created_at, s.updated_at, s.deleted_at,
		       m.title, t.name,
		       (SELECT COUNT(*) FROM seats st WHERE st.showtime_id = s.id AND st.status = 'available')
		FROM showtimes s
		JOIN movies m ON m.id = s.movie_id
		JOIN theaters t ON t.id = s.theater_id`

func scanShowtimeDetail(row scanner) (*ShowtimeDetail, error) {
	var detail ShowtimeDetail
	err := row.Scan(
		&detail.ID,
		&detail.MovieID,
		&detail.TheaterID,
		&detail.Auditorium,
		&detail.StartsAt,
		&detail.Price,
		&detail.SeatRows,
		&detail.SeatsPerRow,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.DeletedAt,
		&detail.MovieTitle,
		&detail.TheaterName,
		&detail.AvailableSeats,
	)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *showtimeRepository) CreateWithSeats(ctx context.Context, showtime *entity.Showtime, seats []*entity.Seat) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO showtimes (id, movie_id, theater_id, auditorium, starts_at, price,
		                       seat_rows, seats_per_row, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.TheaterID,
		showtime.Auditorium,
		showtime.StartsAt,
		showtime.Price,
		showtime.SeatRows,
		showtime.SeatsPerRow,
		showtime.CreatedAt,
		showtime.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("movie_id", showtime.MovieID.String()),
			zap.String("theater_id", showtime.TheaterID.String()),
		)
		return fmt.Errorf("failed to create showtime: %w", err)
	}

	if err := insertSeats(ctx, tx, seats); err != nil {
		r.log.Error("Failed to create seat grid",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
			zap.Int("count", len(seats)),
		)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit showtime: %w", err)
	}

	r.log.Info("Showtime created",
		zap.String("showtime_id", showtime.ID.String()),
		zap.Int("seats", len(seats)),
	)
	return nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	query := `
		SELECT id, movie_id, theater_id, auditorium, starts_at, price,
		       seat_rows, seats_per_row, created_at, updated_at, deleted_at
		FROM showtimes
		WHERE id = $1 AND deleted_at IS NULL
	`

	var showtime entity.Showtime
	err := r.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.TheaterID,
		&showtime.Auditorium,
		&showtime.StartsAt,
		&showtime.Price,
		&showtime.SeatRows,
		&showtime.SeatsPerRow,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
		&showtime.DeletedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find showtime: %w", err)
	}

	return &showtime, nil
}

func (r *showtimeRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*ShowtimeDetail, error) {
	query := showtimeDetailQuery + ` WHERE s.id = $1 AND s.deleted_at IS NULL`

	detail, err := scanShowtimeDetail(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime detail",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find showtime: %w", err)
	}

	return detail, nil
}

func (r *showtimeRepository) FindAll(ctx context.Context, filter ShowtimeFilter) ([]*ShowtimeDetail, error) {
	where := newFilterBuilder("s.deleted_at IS NULL", "m.deleted_at IS NULL", "t.deleted_at IS NULL")
	where.add("s.movie_id = $%d", filter.MovieID)
	where.add("s.theater_id = $%d", filter.TheaterID)
	where.add("s.starts_at >= $%d", filter.From)
	where.add("s.starts_at < $%d", filter.To)

	query := showtimeDetailQuery + where.String() + ` ORDER BY s.starts_at, t.name`

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		r.log.Error("Failed to find showtimes", zap.Error(err))
		return nil, fmt.Errorf("failed to find showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*ShowtimeDetail
	for rows.Next() {
		detail, err := scanShowtimeDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan showtime: %w", err)
		}
		showtimes = append(showtimes, detail)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return showtimes, nil
}

func (r *showtimeRepository) Update(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		UPDATE showtimes
		SET auditorium = $2, starts_at = $3, price = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		showtime.ID,
		showtime.Auditorium,
		showtime.StartsAt,
		showtime.Price,
		showtime.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update showtime",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
		)
		return fmt.Errorf("failed to update showtime: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime not found")
	}

	return nil
}

func (r *showtimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE showtimes SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete showtime",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return fmt.Errorf("failed to delete showtime: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime not found")
	}

	return nil
}
