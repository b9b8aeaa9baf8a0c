package repository

import (
	"context"
	"fmt"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TheaterRepository interface {
	Create(ctx context.Context, theater *entity.Theater) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error)
	FindAll(ctx context.Context) ([]*entity.Theater, error)
	Update(ctx context.Context, theater *entity.Theater) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type theaterRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTheaterRepository(db database.PgxIface, log *zap.Logger) TheaterRepository {
	return &theaterRepository{
		db:  db,
		log: log.With(zap.String("repository", "theater")),
	}
}

const theaterColumns = `id, name, address, latitude, longitude, amenities,
		       created_at, updated_at, deleted_at`

func scanTheater(row scanner) (*entity.Theater, error) {
	var theater entity.Theater
	err := row.Scan(
		&theater.ID,
		&theater.Name,
		&theater.Address,
		&theater.Latitude,
		&theater.Longitude,
		&theater.Amenities,
		&theater.CreatedAt,
		&theater.UpdatedAt,
		&theater.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &theater, nil
}

func (r *theaterRepository) Create(ctx context.Context, theater *entity.Theater) error {
	query := `
		INSERT INTO theaters (id, name, address, latitude, longitude, amenities,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		theater.ID,
		theater.Name,
		theater.Address,
		theater.Latitude,
		theater.Longitude,
		theater.Amenities,
		theater.CreatedAt,
		theater.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create theater",
			zap.Error(err),
			zap.String("name", theater.Name),
		)
		return fmt.Errorf("failed to create theater: %w", err)
	}

	return nil
}

func (r *theaterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error) {
	query := `SELECT ` + theaterColumns + ` FROM theaters WHERE id = $1 AND deleted_at IS NULL`

	theater, err := scanTheater(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theater by ID",
			zap.Error(err),
			zap.String("theater_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find theater: %w", err)
	}

	return theater, nil
}

// FindAll returns every theater ordered by name. The list is small enough
// to rank by distance in memory.
func (r *theaterRepository) FindAll(ctx context.Context) ([]*entity.Theater, error) {
	query := `SELECT ` + theaterColumns + ` FROM theaters WHERE deleted_at IS NULL ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find theaters", zap.Error(err))
		return nil, fmt.Errorf("failed to find theaters: %w", err)
	}
	defer rows.Close()

	var theaters []*entity.Theater
	for rows.Next() {
		theater, err := scanTheater(rows)
		if err != nil {
			r.log.Error("Failed to scan theater row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan theater: %w", err)
		}
		theaters = append(theaters, theater)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return theaters, nil
}

func (r *theaterRepository) Update(ctx context.Context, theater *entity.Theater) error {
	query := `
		UPDATE theaters
		SET name = $2, address = $3, latitude = $4, longitude = $5, amenities = $6,
		    updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		theater.ID,
		theater.Name,
		theater.Address,
		theater.Latitude,
		theater.Longitude,
		theater.Amenities,
		theater.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update theater",
			zap.Error(err),
			zap.String("theater_id", theater.ID.String()),
		)
		return fmt.Errorf("failed to update theater: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("theater not found")
	}

	return nil
}

func (r *theaterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE theaters SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete theater",
			zap.Error(err),
			zap.String("theater_id", id.String()),
		)
		return fmt.Errorf("failed to delete theater: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("theater not found")
	}

	return nil
}
