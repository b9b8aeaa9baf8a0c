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

type FoodItemFilter struct {
	Category      string
	AvailableOnly bool
}

type FoodItemRepository interface {
	Create(ctx context.Context, item *entity.FoodItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FoodItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.FoodItem, error)
	FindAll(ctx context.Context, filter FoodItemFilter) ([]*entity.FoodItem, error)
	Update(ctx context.Context, item *entity.FoodItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type foodItemRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFoodItemRepository(db database.PgxIface, log *zap.Logger) FoodItemRepository {
	return &foodItemRepository{
		db:  db,
		log: log.With(zap.String("repository", "food_item")),
	}
}

const foodItemColumns = `id, name, description, price, image_url, category, is_available,
		       created_at, updated_at, deleted_at`

func scanFoodItem(row scanner) (*entity.FoodItem, error) {
	var item entity.FoodItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.ImageURL,
		&item.Category,
		&item.IsAvailable,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *foodItemRepository) Create(ctx context.Context, item *entity.FoodItem) error {
	query := `
		INSERT INTO food_items (id, name, description, price, image_url, category,
		                        is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.ImageURL,
		item.Category,
		item.IsAvailable,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create food item",
			zap.Error(err),
			zap.String("name", item.Name),
		)
		return fmt.Errorf("failed to create food item: %w", err)
	}

	return nil
}

func (r *foodItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FoodItem, error) {
	query := `SELECT ` + foodItemColumns + ` FROM food_items WHERE id = $1 AND deleted_at IS NULL`

	item, err := scanFoodItem(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find food item by ID",
			zap.Error(err),
			zap.String("food_item_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find food item: %w", err)
	}

	return item, nil
}

func (r *foodItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.FoodItem, error) {
	query := `SELECT ` + foodItemColumns + ` FROM food_items WHERE id = ANY($1) AND deleted_at IS NULL`
	return r.list(ctx, query, ids)
}

func (r *foodItemRepository) FindAll(ctx context.Context, filter FoodItemFilter) ([]*entity.FoodItem, error) {
	where := newFilterBuilder("deleted_at IS NULL")
	if filter.AvailableOnly {
		where.clauses = append(where.clauses, "is_available = true")
	}
	where.add("category = $%d", filter.Category)

	query := `SELECT ` + foodItemColumns + ` FROM food_items` + where.String() + ` ORDER BY category, name`
	return r.list(ctx, query, where.args...)
}

func (r *foodItemRepository) list(ctx context.Context, query string, args ...any) ([]*entity.FoodItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find food items", zap.Error(err))
		return nil, fmt.Errorf("failed to find food items: %w", err)
	}
	defer rows.Close()

	var items []*entity.FoodItem
	for rows.Next() {
		item, err := scanFoodItem(rows)
		if err != nil {
			r.log.Error("Failed to scan food item row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan food item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return items, nil
}

func (r *foodItemRepository) Update(ctx context.Context, item *entity.FoodItem) error {
	query := `
		UPDATE food_items
		SET name = $2, description = $3, price = $4, image_url = $5, category = $6,
		    is_available = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.ImageURL,
		item.Category,
		item.IsAvailable,
		item.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update food item",
			zap.Error(err),
			zap.String("food_item_id", item.ID.String()),
		)
		return fmt.Errorf("failed to update food item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("food item not found")
	}

	return nil
}

func (r *foodItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE food_items SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete food item",
			zap.Error(err),
			zap.String("food_item_id", id.String()),
		)
		return fmt.Errorf("failed to delete food item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("food item not found")
	}

	return nil
}
